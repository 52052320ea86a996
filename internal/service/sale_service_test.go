package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendorpro/internal/entity"
	"vendorpro/internal/repository"
)

type saleFixture struct {
	svc      *SaleService
	sales    *fakeSaleStore
	products *fakeProductStore
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	sales := newFakeSaleStore()
	products := &fakeProductStore{products: map[int64]*entity.Product{
		1: {ID: 1, ShopID: 1, Name: "Smartphone", SellingPrice: dec("600"), Stock: 10, Status: "active"},
		2: {ID: 2, ShopID: 1, Name: "Charger", SellingPrice: dec("50"), Stock: 5, Status: "active"},
		3: {ID: 3, ShopID: 9, Name: "Other shop item", SellingPrice: dec("10"), Stock: 5, Status: "active"},
	}}
	shops := &fakeShopStore{shops: map[int64]*entity.Shop{
		1: {ID: 1, OwnerID: 1, Name: "Electronics Store"},
		9: {ID: 9, OwnerID: 1, Name: "Other Store"},
	}}
	return &saleFixture{
		svc:      NewSaleService(sales, products, shops, nil, nil),
		sales:    sales,
		products: products,
	}
}

func TestCreateSaleComputesTotalFromItems(t *testing.T) {
	f := newSaleFixture(t)

	sale, err := f.svc.CreateSale(context.Background(), &entity.Sale{
		ShopID:     1,
		SalesmanID: 2,
		// A stale client-side total must be overwritten.
		TotalAmount: dec("1"),
		Items: []entity.SaleItem{
			{ProductID: 1, Quantity: 2, Price: dec("600")},
			{ProductID: 2, Quantity: 1, Price: dec("50")},
		},
	})
	require.NoError(t, err)

	assert.True(t, sale.TotalAmount.Equal(dec("1250")), "total = %s", sale.TotalAmount)
	assert.Equal(t, entity.SaleStatusPending, sale.Status)
}

func TestCreateSaleRequiresItems(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.svc.CreateSale(context.Background(), &entity.Sale{ShopID: 1, SalesmanID: 2})
	assert.ErrorIs(t, err, ErrInvalidSale)
}

func TestCreateSaleRejectsForeignProduct(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.svc.CreateSale(context.Background(), &entity.Sale{
		ShopID:     1,
		SalesmanID: 2,
		Items:      []entity.SaleItem{{ProductID: 3, Quantity: 1, Price: dec("10")}},
	})
	assert.ErrorIs(t, err, ErrInvalidSale)
}

func TestCreateSaleRejectsBadItems(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.svc.CreateSale(context.Background(), &entity.Sale{
		ShopID:     1,
		SalesmanID: 2,
		Items:      []entity.SaleItem{{ProductID: 1, Quantity: 0, Price: dec("600")}},
	})
	assert.ErrorIs(t, err, ErrInvalidSale)

	_, err = f.svc.CreateSale(context.Background(), &entity.Sale{
		ShopID:     1,
		SalesmanID: 2,
		Items:      []entity.SaleItem{{ProductID: 1, Quantity: 1, Price: dec("-5")}},
	})
	assert.ErrorIs(t, err, ErrInvalidSale)
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.svc.CreateSale(context.Background(), &entity.Sale{
		ShopID:     1,
		SalesmanID: 2,
		Items:      []entity.SaleItem{{ProductID: 2, Quantity: 6, Price: dec("50")}},
	})
	assert.Error(t, err)
}

func TestCreateSaleUnknownShop(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.svc.CreateSale(context.Background(), &entity.Sale{
		ShopID:     77,
		SalesmanID: 2,
		Items:      []entity.SaleItem{{ProductID: 1, Quantity: 1, Price: dec("600")}},
	})
	assert.ErrorIs(t, err, repository.ErrShopNotFound)
}

func TestApproveSale(t *testing.T) {
	f := newSaleFixture(t)
	sale, err := f.svc.CreateSale(context.Background(), &entity.Sale{
		ShopID:     1,
		SalesmanID: 2,
		Items:      []entity.SaleItem{{ProductID: 1, Quantity: 1, Price: dec("600")}},
	})
	require.NoError(t, err)

	approved, err := f.svc.ApproveSale(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusApproved, approved.Status)

	// Approving twice is not a valid transition.
	_, err = f.svc.ApproveSale(context.Background(), sale.ID)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestRejectSaleRecordsReason(t *testing.T) {
	f := newSaleFixture(t)
	sale, err := f.svc.CreateSale(context.Background(), &entity.Sale{
		ShopID:     1,
		SalesmanID: 2,
		Items:      []entity.SaleItem{{ProductID: 1, Quantity: 1, Price: dec("600")}},
	})
	require.NoError(t, err)

	rejected, err := f.svc.RejectSale(context.Background(), sale.ID, "price mismatch")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "price mismatch", *rejected.RejectionReason)

	_, err = f.svc.RejectSale(context.Background(), sale.ID, "again")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}
