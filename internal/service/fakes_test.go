package service

import (
	"context"
	"sync"

	"vendorpro/internal/entity"
	"vendorpro/internal/repository"
)

// In-memory stores backing the service tests.

type fakeRuleStore struct {
	mu     sync.Mutex
	nextID int64
	rules  []entity.CommissionRule
	err    error
}

func (f *fakeRuleStore) ListRulesByShop(ctx context.Context, shopID int64) ([]entity.CommissionRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []entity.CommissionRule
	for _, r := range f.rules {
		if r.ShopID == shopID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRuleStore) GetRuleByID(ctx context.Context, id int64) (*entity.CommissionRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rules {
		if f.rules[i].ID == id {
			r := f.rules[i]
			return &r, nil
		}
	}
	return nil, repository.ErrRuleNotFound
}

func (f *fakeRuleStore) CreateRule(ctx context.Context, rule *entity.CommissionRule) (*entity.CommissionRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	rule.ID = f.nextID
	f.rules = append(f.rules, *rule)
	return rule, nil
}

func (f *fakeRuleStore) UpdateRule(ctx context.Context, rule *entity.CommissionRule) (*entity.CommissionRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rules {
		if f.rules[i].ID == rule.ID {
			f.rules[i] = *rule
			return rule, nil
		}
	}
	return nil, repository.ErrRuleNotFound
}

func (f *fakeRuleStore) DeleteRule(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rules {
		if f.rules[i].ID == id {
			f.rules = append(f.rules[:i], f.rules[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeShopStore struct {
	shops map[int64]*entity.Shop
}

func (f *fakeShopStore) GetShopByID(ctx context.Context, id int64) (*entity.Shop, error) {
	shop, ok := f.shops[id]
	if !ok {
		return nil, repository.ErrShopNotFound
	}
	return shop, nil
}

func (f *fakeShopStore) GetShops(ctx context.Context) ([]*entity.Shop, error) {
	var out []*entity.Shop
	for _, s := range f.shops {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeShopStore) GetShopsByOwner(ctx context.Context, ownerID int64) ([]*entity.Shop, error) {
	var out []*entity.Shop
	for _, s := range f.shops {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeShopStore) CreateShop(ctx context.Context, shop *entity.Shop) (*entity.Shop, error) {
	shop.ID = int64(len(f.shops) + 1)
	f.shops[shop.ID] = shop
	return shop, nil
}

func (f *fakeShopStore) UpdateShop(ctx context.Context, shop *entity.Shop) (*entity.Shop, error) {
	f.shops[shop.ID] = shop
	return shop, nil
}

func (f *fakeShopStore) DeleteShop(ctx context.Context, id int64) error {
	delete(f.shops, id)
	return nil
}

func (f *fakeShopStore) AssignSalesman(ctx context.Context, shopID, salesmanID int64) error {
	return nil
}

func (f *fakeShopStore) RemoveSalesman(ctx context.Context, shopID, salesmanID int64) error {
	return nil
}

func (f *fakeShopStore) ListSalesmen(ctx context.Context, shopID int64) ([]*entity.User, error) {
	return nil, nil
}

type fakeSaleStore struct {
	mu     sync.Mutex
	nextID int64
	sales  map[int64]*entity.Sale
}

func newFakeSaleStore() *fakeSaleStore {
	return &fakeSaleStore{sales: make(map[int64]*entity.Sale)}
}

func (f *fakeSaleStore) GetSaleByID(ctx context.Context, id int64) (*entity.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sale, ok := f.sales[id]
	if !ok {
		return nil, repository.ErrSaleNotFound
	}
	copied := *sale
	return &copied, nil
}

func (f *fakeSaleStore) CreateSale(ctx context.Context, sale *entity.Sale) (*entity.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	sale.ID = f.nextID
	f.sales[sale.ID] = sale
	return sale, nil
}

func (f *fakeSaleStore) UpdateSaleStatus(ctx context.Context, id int64, status string, reason *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sale, ok := f.sales[id]
	if !ok {
		return repository.ErrSaleNotFound
	}
	sale.Status = status
	sale.RejectionReason = reason
	return nil
}

func (f *fakeSaleStore) GetSalesByShop(ctx context.Context, shopID int64) ([]*entity.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Sale
	for _, s := range f.sales {
		if s.ShopID == shopID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSaleStore) GetSalesBySalesman(ctx context.Context, salesmanID int64) ([]*entity.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Sale
	for _, s := range f.sales {
		if s.SalesmanID == salesmanID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeCommissionStore struct {
	mu        sync.Mutex
	nextID    int64
	bySale    map[int64]*entity.Commission
	upsertErr error
	getErr    error
}

func newFakeCommissionStore() *fakeCommissionStore {
	return &fakeCommissionStore{bySale: make(map[int64]*entity.Commission)}
}

func (f *fakeCommissionStore) GetCommissionBySale(ctx context.Context, saleID int64) (*entity.Commission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	commission, ok := f.bySale[saleID]
	if !ok {
		return nil, repository.ErrCommissionNotFound
	}
	copied := *commission
	return &copied, nil
}

func (f *fakeCommissionStore) GetCommissionByID(ctx context.Context, id int64) (*entity.Commission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.bySale {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, repository.ErrCommissionNotFound
}

// UpsertCommission mirrors the real store: status is written on insert only
// and never changed by an update.
func (f *fakeCommissionStore) UpsertCommission(ctx context.Context, commission *entity.Commission) (*entity.Commission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}

	existing, ok := f.bySale[commission.SaleID]
	if ok {
		existing.SalesmanID = commission.SalesmanID
		existing.RuleID = commission.RuleID
		existing.Amount = commission.Amount
		existing.Rate = commission.Rate
		copied := *existing
		return &copied, nil
	}

	f.nextID++
	commission.ID = f.nextID
	stored := *commission
	f.bySale[commission.SaleID] = &stored
	copied := stored
	return &copied, nil
}

func (f *fakeCommissionStore) MarkPaid(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.bySale {
		if c.ID == id {
			c.Status = entity.CommissionStatusPaid
			return nil
		}
	}
	return repository.ErrCommissionNotFound
}

func (f *fakeCommissionStore) SummaryByShop(ctx context.Context, shopID int64) ([]*entity.SalesmanCommissionSummary, error) {
	return nil, nil
}

func (f *fakeCommissionStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bySale)
}

type fakeProductStore struct {
	mu       sync.Mutex
	products map[int64]*entity.Product
}

func (f *fakeProductStore) GetProductByID(ctx context.Context, id int64) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (f *fakeProductStore) GetProductsByShop(ctx context.Context, shopID int64) ([]*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Product
	for _, p := range f.products {
		if p.ShopID == shopID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductStore) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product.ID = int64(len(f.products) + 1)
	f.products[product.ID] = product
	return product, nil
}

func (f *fakeProductStore) UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[product.ID] = product
	return product, nil
}

func (f *fakeProductStore) DeleteProduct(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	return nil
}

func (f *fakeProductStore) AdjustStock(ctx context.Context, id int64, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	product.Stock += delta
	return nil
}

type fakeUserStore struct {
	users map[int64]*entity.User
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id int64) (*entity.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetUserByEmailAndPassword(ctx context.Context, email, password string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email && u.Password == password {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	user.ID = int64(len(f.users) + 1)
	f.users[user.ID] = user
	return user, nil
}
