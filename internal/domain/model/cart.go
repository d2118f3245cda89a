package model

import "github.com/shopspring/decimal"

// CartItem is a single course placed in a user's cart.
type CartItem struct {
	CourseID      string          `json:"courseId"`
	Title         string          `json:"courseTitle"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Image         string          `json:"image,omitempty"`
	Slug          string          `json:"slug,omitempty"`
}

// CartTotals aggregates cart pricing. Savings is OriginalTotal minus Total.
type CartTotals struct {
	Total         decimal.Decimal `json:"total"`
	OriginalTotal decimal.Decimal `json:"originalTotal"`
	Savings       decimal.Decimal `json:"savings"`
}
