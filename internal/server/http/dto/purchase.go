package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quickedu/checkout/internal/domain/model"
)

// PurchaseCourse is one course line inside a purchase history entry.
type PurchaseCourse struct {
	CourseID string          `json:"courseId"`
	Title    string          `json:"courseTitle"`
	Price    decimal.Decimal `json:"price"`
}

// PurchaseResponse is one purchase history entry.
type PurchaseResponse struct {
	OrderID        string           `json:"order_id"`
	GatewayOrderID string           `json:"cf_order_id,omitempty"`
	Status         string           `json:"status"`
	Amount         decimal.Decimal  `json:"amount"`
	Currency       string           `json:"currency"`
	Courses        []PurchaseCourse `json:"courses"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// EntitlementsResponse lists the course IDs the caller owns.
type EntitlementsResponse struct {
	CourseIDs []string `json:"courseIds"`
}

// PurchaseFromModel converts a domain purchase into its history representation.
func PurchaseFromModel(p model.Purchase) PurchaseResponse {
	courses := make([]PurchaseCourse, 0, len(p.Items))
	for _, item := range p.Items {
		courses = append(courses, PurchaseCourse{
			CourseID: item.CourseID,
			Title:    item.Title,
			Price:    item.Price,
		})
	}
	return PurchaseResponse{
		OrderID:        p.OrderID,
		GatewayOrderID: p.GatewayOrderID,
		Status:         string(p.Status),
		Amount:         p.TotalAmount,
		Currency:       p.Currency,
		Courses:        courses,
		CreatedAt:      p.CreatedAt,
	}
}
