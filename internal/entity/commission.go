package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CommissionTypePercentage = "percentage"
	CommissionTypeFixed      = "fixed"

	CommissionStatusPending = "pending"
	CommissionStatusPaid    = "paid"

	RuleStatusActive   = "active"
	RuleStatusInactive = "inactive"
)

// CommissionRule maps a sale-amount window to a payout. A percentage rule pays
// value% of the sale amount, a fixed rule pays value outright. Absent bounds
// are open: no min_amount means 0, no max_amount means unbounded.
type CommissionRule struct {
	ID          int64               `json:"id"`
	ShopID      int64               `json:"shop_id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Type        string              `json:"type"` // "percentage" or "fixed"
	Value       decimal.Decimal     `json:"value"`
	ProductID   *int64              `json:"product_id,omitempty"`
	MinAmount   decimal.NullDecimal `json:"min_amount"`
	MaxAmount   decimal.NullDecimal `json:"max_amount"`
	Status      string              `json:"status"` // "active" or "inactive"
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// InWindow reports whether amount falls inside the rule's inclusive
// [min_amount, max_amount] window.
func (r CommissionRule) InWindow(amount decimal.Decimal) bool {
	if r.MinAmount.Valid && amount.LessThan(r.MinAmount.Decimal) {
		return false
	}
	if r.MaxAmount.Valid && amount.GreaterThan(r.MaxAmount.Decimal) {
		return false
	}
	return true
}

// AmountFor computes the payout this rule yields for a sale total.
func (r CommissionRule) AmountFor(total decimal.Decimal) decimal.Decimal {
	if r.Type == CommissionTypePercentage {
		return total.Mul(r.Value).Div(decimal.NewFromInt(100))
	}
	return r.Value
}

// Commission is the computed payout for one sale. At most one commission
// exists per sale; recalculation updates amount and rate in place.
type Commission struct {
	ID         int64           `json:"id"`
	SaleID     int64           `json:"sale_id"`
	SalesmanID int64           `json:"salesman_id"`
	RuleID     int64           `json:"rule_id"`
	Amount     decimal.Decimal `json:"amount"`
	Rate       decimal.Decimal `json:"rate"`
	Status     string          `json:"status"` // "pending" or "paid"
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CommissionResult is what a calculation returns to callers.
type CommissionResult struct {
	SaleID int64           `json:"sale_id"`
	Amount decimal.Decimal `json:"amount"`
	Rate   decimal.Decimal `json:"rate"`
	Status string          `json:"status"`
}

// SalesmanCommissionSummary aggregates sales and commissions per salesman
// for a shop's overview screen.
type SalesmanCommissionSummary struct {
	SalesmanID      int64           `json:"salesman_id"`
	SalesmanName    string          `json:"salesman_name"`
	SaleCount       int             `json:"sale_count"`
	TotalSales      decimal.Decimal `json:"total_sales"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	AvgCommission   decimal.Decimal `json:"avg_commission"`
}
