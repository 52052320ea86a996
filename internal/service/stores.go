package service

import (
	"context"

	"vendorpro/internal/entity"
)

// Store interfaces are satisfied by the repository package in production and
// by in-memory fakes in tests.

type UserStore interface {
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	GetUserByEmailAndPassword(ctx context.Context, email, password string) (*entity.User, error)
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
}

type ShopStore interface {
	GetShopByID(ctx context.Context, id int64) (*entity.Shop, error)
	GetShops(ctx context.Context) ([]*entity.Shop, error)
	GetShopsByOwner(ctx context.Context, ownerID int64) ([]*entity.Shop, error)
	CreateShop(ctx context.Context, shop *entity.Shop) (*entity.Shop, error)
	UpdateShop(ctx context.Context, shop *entity.Shop) (*entity.Shop, error)
	DeleteShop(ctx context.Context, id int64) error
	AssignSalesman(ctx context.Context, shopID, salesmanID int64) error
	RemoveSalesman(ctx context.Context, shopID, salesmanID int64) error
	ListSalesmen(ctx context.Context, shopID int64) ([]*entity.User, error)
}

type ProductStore interface {
	GetProductByID(ctx context.Context, id int64) (*entity.Product, error)
	GetProductsByShop(ctx context.Context, shopID int64) ([]*entity.Product, error)
	CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	AdjustStock(ctx context.Context, id int64, delta int) error
}

type SaleStore interface {
	GetSaleByID(ctx context.Context, id int64) (*entity.Sale, error)
	CreateSale(ctx context.Context, sale *entity.Sale) (*entity.Sale, error)
	UpdateSaleStatus(ctx context.Context, id int64, status string, reason *string) error
	GetSalesByShop(ctx context.Context, shopID int64) ([]*entity.Sale, error)
	GetSalesBySalesman(ctx context.Context, salesmanID int64) ([]*entity.Sale, error)
}

// RuleStore supplies a shop's commission rules. ListRulesByShop must return
// rules in a stable order (creation order) because matching is first-match.
type RuleStore interface {
	ListRulesByShop(ctx context.Context, shopID int64) ([]entity.CommissionRule, error)
	GetRuleByID(ctx context.Context, id int64) (*entity.CommissionRule, error)
	CreateRule(ctx context.Context, rule *entity.CommissionRule) (*entity.CommissionRule, error)
	UpdateRule(ctx context.Context, rule *entity.CommissionRule) (*entity.CommissionRule, error)
	DeleteRule(ctx context.Context, id int64) error
}

type CommissionStore interface {
	GetCommissionBySale(ctx context.Context, saleID int64) (*entity.Commission, error)
	GetCommissionByID(ctx context.Context, id int64) (*entity.Commission, error)
	UpsertCommission(ctx context.Context, commission *entity.Commission) (*entity.Commission, error)
	MarkPaid(ctx context.Context, id int64) error
	SummaryByShop(ctx context.Context, shopID int64) ([]*entity.SalesmanCommissionSummary, error)
}
