package dto

import (
	"github.com/shopspring/decimal"

	"github.com/quickedu/checkout/internal/domain/model"
)

// CartResponse is the full cart document with computed totals.
type CartResponse struct {
	Items         []model.CartItem `json:"items"`
	Count         int              `json:"count"`
	Total         decimal.Decimal  `json:"total"`
	OriginalTotal decimal.Decimal  `json:"originalTotal"`
	Savings       decimal.Decimal  `json:"savings"`
}

// AddCartItemResponse reports whether the course was newly added.
type AddCartItemResponse struct {
	Added bool `json:"added"`
	Count int  `json:"count"`
}
