package model

import "github.com/shopspring/decimal"

// OrderRequest is the canonical description of a checkout attempt before any
// external call. Amount and currency are fixed at construction.
type OrderRequest struct {
	OrderID       string
	Amount        decimal.Decimal
	Currency      string
	CustomerID    string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ReturnURL     string
	NotifyURL     string
}

// OrderSession is the gateway's acknowledgment of an OrderRequest. Created
// once, never mutated downstream.
type OrderSession struct {
	OrderID        string
	GatewayOrderID string
	SessionToken   string
}
