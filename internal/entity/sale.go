package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SaleStatusPending  = "pending"
	SaleStatusApproved = "approved"
	SaleStatusRejected = "rejected"
)

type Sale struct {
	ID              int64           `json:"id"`
	ShopID          int64           `json:"shop_id"`
	SalesmanID      int64           `json:"salesman_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          string          `json:"status"` // "pending", "approved", "rejected"
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	Items           []SaleItem      `json:"items,omitempty"`
	IdempotentKey   string          `json:"idempotent_key,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type SaleItem struct {
	ID        int64           `json:"id"`
	SaleID    int64           `json:"sale_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// LineTotal is quantity * price for a single item.
func (i SaleItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemsTotal sums quantity * price across all items. Sale totals are always
// recomputed from this, never trusted from the request payload.
func (s Sale) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}
