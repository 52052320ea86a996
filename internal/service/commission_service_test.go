package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendorpro/internal/entity"
	"vendorpro/internal/repository"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

type commissionFixture struct {
	svc         *CommissionService
	rules       *fakeRuleStore
	sales       *fakeSaleStore
	shops       *fakeShopStore
	commissions *fakeCommissionStore
}

func newCommissionFixture(t *testing.T) *commissionFixture {
	t.Helper()
	rules := &fakeRuleStore{}
	sales := newFakeSaleStore()
	shops := &fakeShopStore{shops: map[int64]*entity.Shop{
		1: {ID: 1, OwnerID: 1, Name: "Electronics Store"},
	}}
	commissions := newFakeCommissionStore()
	return &commissionFixture{
		svc:         NewCommissionService(rules, sales, shops, commissions, nil, nil),
		rules:       rules,
		sales:       sales,
		shops:       shops,
		commissions: commissions,
	}
}

func (f *commissionFixture) addSale(t *testing.T, total string) int64 {
	t.Helper()
	sale, err := f.sales.CreateSale(context.Background(), &entity.Sale{
		ShopID:      1,
		SalesmanID:  2,
		TotalAmount: dec(total),
		Status:      entity.SaleStatusApproved,
	})
	require.NoError(t, err)
	return sale.ID
}

func (f *commissionFixture) addRule(t *testing.T, rule entity.CommissionRule) {
	t.Helper()
	rule.ShopID = 1
	if rule.Status == "" {
		rule.Status = entity.RuleStatusActive
	}
	_, err := f.rules.CreateRule(context.Background(), &rule)
	require.NoError(t, err)
}

func TestCalculateCommissionPercentage(t *testing.T) {
	f := newCommissionFixture(t)
	saleID := f.addSale(t, "600")
	f.addRule(t, entity.CommissionRule{Name: "Base", Type: entity.CommissionTypePercentage, Value: dec("5")})

	result, err := f.svc.CalculateCommission(context.Background(), saleID)
	require.NoError(t, err)
	assert.True(t, result.Amount.Equal(dec("30")), "amount = %s", result.Amount)
	assert.True(t, result.Rate.Equal(dec("5")))
	assert.Equal(t, entity.CommissionStatusPending, result.Status)
}

func TestCalculateCommissionFixed(t *testing.T) {
	f := newCommissionFixture(t)
	saleID := f.addSale(t, "600")
	f.addRule(t, entity.CommissionRule{Name: "Flat", Type: entity.CommissionTypeFixed, Value: dec("100")})

	result, err := f.svc.CalculateCommission(context.Background(), saleID)
	require.NoError(t, err)
	assert.True(t, result.Amount.Equal(dec("100")), "fixed payout ignores the sale amount")
	assert.True(t, result.Rate.Equal(dec("100")))
}

func TestCalculateCommissionFirstMatchWins(t *testing.T) {
	f := newCommissionFixture(t)
	f.addRule(t, entity.CommissionRule{Name: "Base 5%", Type: entity.CommissionTypePercentage, Value: dec("5")})
	f.addRule(t, entity.CommissionRule{Name: "Base 10%", Type: entity.CommissionTypePercentage, Value: dec("10")})

	for _, total := range []string{"1", "600", "999999"} {
		saleID := f.addSale(t, total)
		result, err := f.svc.CalculateCommission(context.Background(), saleID)
		require.NoError(t, err)
		assert.True(t, result.Rate.Equal(dec("5")), "total %s matched rate %s", total, result.Rate)
	}
}

func TestCalculateCommissionBoundariesInclusive(t *testing.T) {
	f := newCommissionFixture(t)
	f.addRule(t, entity.CommissionRule{
		Name:      "High value",
		Type:      entity.CommissionTypePercentage,
		Value:     dec("8"),
		MinAmount: nullDec("10000"),
	})

	atBoundary := f.addSale(t, "10000")
	result, err := f.svc.CalculateCommission(context.Background(), atBoundary)
	require.NoError(t, err)
	assert.True(t, result.Amount.Equal(dec("800")))

	below := f.addSale(t, "9999.99")
	_, err = f.svc.CalculateCommission(context.Background(), below)
	assert.ErrorIs(t, err, ErrNoApplicableRule)
}

func TestCalculateCommissionExactWindow(t *testing.T) {
	f := newCommissionFixture(t)
	f.addRule(t, entity.CommissionRule{
		Name:      "Exactly 500",
		Type:      entity.CommissionTypeFixed,
		Value:     dec("25"),
		MinAmount: nullDec("500"),
		MaxAmount: nullDec("500"),
	})

	match := f.addSale(t, "500")
	result, err := f.svc.CalculateCommission(context.Background(), match)
	require.NoError(t, err)
	assert.True(t, result.Amount.Equal(dec("25")))

	for _, total := range []string{"499.99", "500.01"} {
		saleID := f.addSale(t, total)
		_, err := f.svc.CalculateCommission(context.Background(), saleID)
		assert.ErrorIs(t, err, ErrNoApplicableRule)
	}
}

func TestCalculateCommissionNoRules(t *testing.T) {
	f := newCommissionFixture(t)
	saleID := f.addSale(t, "600")

	_, err := f.svc.CalculateCommission(context.Background(), saleID)
	assert.ErrorIs(t, err, ErrNoRulesConfigured)
	assert.Equal(t, 0, f.commissions.count())
}

func TestCalculateCommissionNoMatchWritesNothing(t *testing.T) {
	f := newCommissionFixture(t)
	f.addRule(t, entity.CommissionRule{
		Name:      "Small sales",
		Type:      entity.CommissionTypePercentage,
		Value:     dec("5"),
		MinAmount: nullDec("0"),
		MaxAmount: nullDec("10000"),
	})
	saleID := f.addSale(t, "500000")

	_, err := f.svc.CalculateCommission(context.Background(), saleID)
	assert.ErrorIs(t, err, ErrNoApplicableRule)
	assert.Equal(t, 0, f.commissions.count())
}

func TestCalculateCommissionDeterministic(t *testing.T) {
	f := newCommissionFixture(t)
	f.addRule(t, entity.CommissionRule{Name: "Base", Type: entity.CommissionTypePercentage, Value: dec("7.5")})
	saleID := f.addSale(t, "1234.56")

	first, err := f.svc.CalculateCommission(context.Background(), saleID)
	require.NoError(t, err)
	second, err := f.svc.CalculateCommission(context.Background(), saleID)
	require.NoError(t, err)

	assert.True(t, first.Amount.Equal(second.Amount))
	assert.True(t, first.Rate.Equal(second.Rate))
	assert.Equal(t, 1, f.commissions.count(), "recalculation must not create a second record")
}

func TestCalculateCommissionPreservesPaidStatus(t *testing.T) {
	f := newCommissionFixture(t)
	f.addRule(t, entity.CommissionRule{Name: "Base", Type: entity.CommissionTypePercentage, Value: dec("5")})
	saleID := f.addSale(t, "600")

	result, err := f.svc.CalculateCommission(context.Background(), saleID)
	require.NoError(t, err)

	commission, err := f.commissions.GetCommissionBySale(context.Background(), saleID)
	require.NoError(t, err)
	require.NoError(t, f.commissions.MarkPaid(context.Background(), commission.ID))

	// The rule value changes, but the paid status must survive recalculation.
	f.rules.rules[0].Value = dec("10")

	result, err = f.svc.CalculateCommission(context.Background(), saleID)
	require.NoError(t, err)
	assert.True(t, result.Amount.Equal(dec("60")))
	assert.True(t, result.Rate.Equal(dec("10")))
	assert.Equal(t, entity.CommissionStatusPaid, result.Status)
}

func TestCalculateCommissionIgnoresProductAndRuleStatus(t *testing.T) {
	f := newCommissionFixture(t)
	productID := int64(42)
	f.addRule(t, entity.CommissionRule{
		Name:      "Scoped and inactive",
		Type:      entity.CommissionTypePercentage,
		Value:     dec("5"),
		ProductID: &productID,
		Status:    entity.RuleStatusInactive,
	})
	saleID := f.addSale(t, "600")

	result, err := f.svc.CalculateCommission(context.Background(), saleID)
	require.NoError(t, err)
	assert.True(t, result.Amount.Equal(dec("30")))
}

func TestCalculateCommissionSaleNotFound(t *testing.T) {
	f := newCommissionFixture(t)
	_, err := f.svc.CalculateCommission(context.Background(), 999)
	assert.ErrorIs(t, err, repository.ErrSaleNotFound)
}

func TestCalculateCommissionShopNotFound(t *testing.T) {
	f := newCommissionFixture(t)
	sale, err := f.sales.CreateSale(context.Background(), &entity.Sale{
		ShopID:      77,
		SalesmanID:  2,
		TotalAmount: dec("600"),
	})
	require.NoError(t, err)

	_, err = f.svc.CalculateCommission(context.Background(), sale.ID)
	assert.ErrorIs(t, err, repository.ErrShopNotFound)
}

func TestCalculateCommissionUpsertFailureAborts(t *testing.T) {
	f := newCommissionFixture(t)
	f.addRule(t, entity.CommissionRule{Name: "Base", Type: entity.CommissionTypePercentage, Value: dec("5")})
	saleID := f.addSale(t, "600")

	storeErr := errors.New("connection reset")
	f.commissions.upsertErr = storeErr

	_, err := f.svc.CalculateCommission(context.Background(), saleID)
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, 0, f.commissions.count())
}

func TestCalculateCommissionConcurrentSameSale(t *testing.T) {
	f := newCommissionFixture(t)
	f.addRule(t, entity.CommissionRule{Name: "Base", Type: entity.CommissionTypePercentage, Value: dec("5")})
	saleID := f.addSale(t, "600")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CalculateCommission(context.Background(), saleID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.commissions.count())
	commission, err := f.commissions.GetCommissionBySale(context.Background(), saleID)
	require.NoError(t, err)
	assert.True(t, commission.Amount.Equal(dec("30")))
	assert.Equal(t, entity.CommissionStatusPending, commission.Status)
}

func TestCalculateCommissionReleasesSaleLocks(t *testing.T) {
	f := newCommissionFixture(t)
	f.addRule(t, entity.CommissionRule{Name: "Base", Type: entity.CommissionTypePercentage, Value: dec("5")})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		saleID := f.addSale(t, "600")
		for j := 0; j < 4; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.svc.CalculateCommission(context.Background(), saleID)
				assert.NoError(t, err)
			}()
		}
	}
	wg.Wait()

	f.svc.locks.mu.Lock()
	defer f.svc.locks.mu.Unlock()
	assert.Empty(t, f.svc.locks.locks)
}

func TestCreateRuleValidation(t *testing.T) {
	f := newCommissionFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		rule entity.CommissionRule
	}{
		{"unknown type", entity.CommissionRule{ShopID: 1, Type: "tiered", Value: dec("5")}},
		{"negative value", entity.CommissionRule{ShopID: 1, Type: entity.CommissionTypeFixed, Value: dec("-1")}},
		{"percentage above 100", entity.CommissionRule{ShopID: 1, Type: entity.CommissionTypePercentage, Value: dec("101")}},
		{"negative min", entity.CommissionRule{ShopID: 1, Type: entity.CommissionTypeFixed, Value: dec("1"), MinAmount: nullDec("-5")}},
		{"min above max", entity.CommissionRule{ShopID: 1, Type: entity.CommissionTypeFixed, Value: dec("1"), MinAmount: nullDec("100"), MaxAmount: nullDec("50")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateRule(ctx, &tc.rule)
			assert.ErrorIs(t, err, ErrInvalidRule)
		})
	}
}

func TestCreateRuleDefaultsToActive(t *testing.T) {
	f := newCommissionFixture(t)
	rule, err := f.svc.CreateRule(context.Background(), &entity.CommissionRule{
		ShopID: 1,
		Name:   "Base",
		Type:   entity.CommissionTypePercentage,
		Value:  dec("5"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RuleStatusActive, rule.Status)
}

func TestDeleteRuleKeepsCommissions(t *testing.T) {
	f := newCommissionFixture(t)
	rule, err := f.svc.CreateRule(context.Background(), &entity.CommissionRule{
		ShopID: 1,
		Name:   "Base",
		Type:   entity.CommissionTypePercentage,
		Value:  dec("5"),
	})
	require.NoError(t, err)

	saleID := f.addSale(t, "600")
	_, err = f.svc.CalculateCommission(context.Background(), saleID)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteRule(context.Background(), rule.ID))

	commission, err := f.svc.GetCommission(context.Background(), saleID)
	require.NoError(t, err)
	assert.True(t, commission.Amount.Equal(dec("30")), "historical commission survives rule deletion")
}

func TestFirstMatchCatchAllShadowsLaterRules(t *testing.T) {
	rules := []entity.CommissionRule{
		{ID: 1, Type: entity.CommissionTypePercentage, Value: dec("5")},
		{ID: 2, Type: entity.CommissionTypePercentage, Value: dec("2"), MinAmount: nullDec("10000")},
	}

	matched := firstMatch(dec("50000"), rules)
	require.NotNil(t, matched)
	assert.Equal(t, int64(1), matched.ID, "catch-all listed first shadows everything after it")
}

func TestFirstMatchNoRules(t *testing.T) {
	assert.Nil(t, firstMatch(dec("100"), nil))
}
