package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           int64           `json:"id"`
	ShopID       int64           `json:"shop_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	BasePrice    decimal.Decimal `json:"base_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Stock        int             `json:"stock"`
	Status       string          `json:"status"` // "active" or "inactive"
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
