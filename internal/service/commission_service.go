package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"vendorpro/internal/entity"
	"vendorpro/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const ruleCachePrefix = "commission_rules:"

// CommissionService computes the commission owed for a sale and manages the
// shop's commission rules.
type CommissionService struct {
	ruleRepo       RuleStore
	saleRepo       SaleStore
	shopRepo       ShopStore
	commissionRepo CommissionStore
	rdb            *redis.Client
	kafkaWriter    *kafka.Writer
	locks          saleLocks
}

func NewCommissionService(ruleRepo RuleStore, saleRepo SaleStore, shopRepo ShopStore, commissionRepo CommissionStore, rdb *redis.Client, kafkaWriter *kafka.Writer) *CommissionService {
	return &CommissionService{
		ruleRepo:       ruleRepo,
		saleRepo:       saleRepo,
		shopRepo:       shopRepo,
		commissionRepo: commissionRepo,
		rdb:            rdb,
		kafkaWriter:    kafkaWriter,
	}
}

// saleLocks hands out one mutex per sale ID so that concurrent calculations
// for the same sale serialize their read-modify-write of the commission row.
// Entries are reference counted and removed when the last holder unlocks.
type saleLocks struct {
	mu    sync.Mutex
	locks map[int64]*saleLock
}

type saleLock struct {
	mu      sync.Mutex
	holders int
}

func (l *saleLocks) lock(saleID int64) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[int64]*saleLock)
	}
	e, ok := l.locks[saleID]
	if !ok {
		e = &saleLock{}
		l.locks[saleID] = e
	}
	e.holders++
	l.mu.Unlock()
	e.mu.Lock()
}

func (l *saleLocks) unlock(saleID int64) {
	l.mu.Lock()
	e := l.locks[saleID]
	e.holders--
	if e.holders == 0 {
		delete(l.locks, saleID)
	}
	l.mu.Unlock()
	e.mu.Unlock()
}

// firstMatch returns the first rule in list order whose [min_amount, max_amount]
// window contains the amount, or nil when none does. Bounds are inclusive and
// absent bounds are open. Matching checks only the amount window: product_id
// and rule status are not consulted.
func firstMatch(amount decimal.Decimal, rules []entity.CommissionRule) *entity.CommissionRule {
	for i := range rules {
		if rules[i].InWindow(amount) {
			return &rules[i]
		}
	}
	return nil
}

// CalculateCommission computes and persists the commission for a sale.
// Repeated calls with unchanged inputs are idempotent: the existing commission
// row is updated in place and its status survives recalculation.
func (s *CommissionService) CalculateCommission(ctx context.Context, saleID int64) (*entity.CommissionResult, error) {
	sale, err := s.saleRepo.GetSaleByID(ctx, saleID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting sale %d for commission calculation", saleID)
		return nil, err
	}

	if sale.TotalAmount.IsNegative() {
		return nil, fmt.Errorf("%w: negative total amount", ErrInvalidSale)
	}

	if _, err := s.shopRepo.GetShopByID(ctx, sale.ShopID); err != nil {
		logger.Error().Err(err).Msgf("Error resolving shop %d for sale %d", sale.ShopID, saleID)
		return nil, err
	}

	rules, err := s.rulesForShop(ctx, sale.ShopID)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, ErrNoRulesConfigured
	}

	rule := firstMatch(sale.TotalAmount, rules)
	if rule == nil {
		return nil, ErrNoApplicableRule
	}

	amount := rule.AmountFor(sale.TotalAmount)

	s.locks.lock(saleID)
	defer s.locks.unlock(saleID)

	status := entity.CommissionStatusPending
	existing, err := s.commissionRepo.GetCommissionBySale(ctx, saleID)
	if err != nil && !errors.Is(err, repository.ErrCommissionNotFound) {
		logger.Error().Err(err).Msgf("Error reading existing commission for sale %d", saleID)
		return nil, err
	}
	if existing != nil {
		status = existing.Status
	}

	saved, err := s.commissionRepo.UpsertCommission(ctx, &entity.Commission{
		SaleID:     saleID,
		SalesmanID: sale.SalesmanID,
		RuleID:     rule.ID,
		Amount:     amount,
		Rate:       rule.Value,
		Status:     status,
	})
	if err != nil {
		logger.Error().Err(err).Msgf("Error upserting commission for sale %d", saleID)
		return nil, err
	}

	if err := s.publishCommissionEvent(ctx, saved); err != nil {
		logger.Warn().Err(err).Msgf("Error publishing commission event for sale %d", saleID)
	}

	return &entity.CommissionResult{
		SaleID: saleID,
		Amount: saved.Amount,
		Rate:   saved.Rate,
		Status: saved.Status,
	}, nil
}

func (s *CommissionService) GetCommission(ctx context.Context, saleID int64) (*entity.Commission, error) {
	commission, err := s.commissionRepo.GetCommissionBySale(ctx, saleID)
	if err != nil {
		if !errors.Is(err, repository.ErrCommissionNotFound) {
			logger.Error().Err(err).Msgf("Error getting commission for sale %d", saleID)
		}
		return nil, err
	}
	return commission, nil
}

// MarkPaid advances a commission to paid. The lifecycle is independent of the
// sale's: calculation never transitions a commission back to pending.
func (s *CommissionService) MarkPaid(ctx context.Context, commissionID int64) error {
	err := s.commissionRepo.MarkPaid(ctx, commissionID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error marking commission %d paid", commissionID)
		return err
	}
	return nil
}

func (s *CommissionService) SalesmanSummary(ctx context.Context, shopID int64) ([]*entity.SalesmanCommissionSummary, error) {
	summaries, err := s.commissionRepo.SummaryByShop(ctx, shopID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error building commission summary for shop %d", shopID)
		return nil, err
	}

	for _, summary := range summaries {
		if summary.SaleCount > 0 {
			summary.AvgCommission = summary.TotalCommission.Div(decimal.NewFromInt(int64(summary.SaleCount)))
		}
	}
	return summaries, nil
}

// --- Rule management ---

func (s *CommissionService) ListRules(ctx context.Context, shopID int64) ([]entity.CommissionRule, error) {
	return s.rulesForShop(ctx, shopID)
}

func (s *CommissionService) GetRule(ctx context.Context, id int64) (*entity.CommissionRule, error) {
	return s.ruleRepo.GetRuleByID(ctx, id)
}

func (s *CommissionService) CreateRule(ctx context.Context, rule *entity.CommissionRule) (*entity.CommissionRule, error) {
	if err := validateRule(rule); err != nil {
		return nil, err
	}
	if _, err := s.shopRepo.GetShopByID(ctx, rule.ShopID); err != nil {
		return nil, err
	}

	created, err := s.ruleRepo.CreateRule(ctx, rule)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating commission rule")
		return nil, err
	}

	s.invalidateRuleCache(ctx, rule.ShopID)
	return created, nil
}

func (s *CommissionService) UpdateRule(ctx context.Context, rule *entity.CommissionRule) (*entity.CommissionRule, error) {
	if err := validateRule(rule); err != nil {
		return nil, err
	}

	existing, err := s.ruleRepo.GetRuleByID(ctx, rule.ID)
	if err != nil {
		return nil, err
	}
	rule.ShopID = existing.ShopID

	updated, err := s.ruleRepo.UpdateRule(ctx, rule)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating commission rule %d", rule.ID)
		return nil, err
	}

	s.invalidateRuleCache(ctx, rule.ShopID)
	return updated, nil
}

// DeleteRule removes a rule. Historical commissions keep the rate and amount
// they were computed with; nothing cascades.
func (s *CommissionService) DeleteRule(ctx context.Context, id int64) error {
	rule, err := s.ruleRepo.GetRuleByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.ruleRepo.DeleteRule(ctx, id); err != nil {
		logger.Error().Err(err).Msgf("Error deleting commission rule %d", id)
		return err
	}

	s.invalidateRuleCache(ctx, rule.ShopID)
	return nil
}

func validateRule(rule *entity.CommissionRule) error {
	if rule.Type != entity.CommissionTypePercentage && rule.Type != entity.CommissionTypeFixed {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidRule, rule.Type)
	}
	if rule.Value.IsNegative() {
		return fmt.Errorf("%w: value must be non-negative", ErrInvalidRule)
	}
	if rule.Type == entity.CommissionTypePercentage && rule.Value.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: percentage value must not exceed 100", ErrInvalidRule)
	}
	if rule.MinAmount.Valid && rule.MinAmount.Decimal.IsNegative() {
		return fmt.Errorf("%w: min_amount must be non-negative", ErrInvalidRule)
	}
	if rule.MinAmount.Valid && rule.MaxAmount.Valid && rule.MinAmount.Decimal.GreaterThan(rule.MaxAmount.Decimal) {
		return fmt.Errorf("%w: min_amount exceeds max_amount", ErrInvalidRule)
	}
	if rule.Status == "" {
		rule.Status = entity.RuleStatusActive
	}
	if rule.Status != entity.RuleStatusActive && rule.Status != entity.RuleStatusInactive {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidRule, rule.Status)
	}
	return nil
}

// --- Rule cache ---

func (s *CommissionService) rulesForShop(ctx context.Context, shopID int64) ([]entity.CommissionRule, error) {
	if os.Getenv("ENV") == "test" || s.rdb == nil {
		return s.ruleRepo.ListRulesByShop(ctx, shopID)
	}

	key := fmt.Sprintf("%s%d", ruleCachePrefix, shopID)
	cached, err := s.rdb.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		logger.Error().Err(err).Msgf("Error getting rules for shop %d from cache", shopID)
		return nil, err
	}

	if cached != "" {
		var rules []entity.CommissionRule
		if err := json.Unmarshal([]byte(cached), &rules); err != nil {
			logger.Error().Err(err).Msgf("Error unmarshalling cached rules for shop %d", shopID)
			return nil, err
		}
		return rules, nil
	}

	rules, err := s.ruleRepo.ListRulesByShop(ctx, shopID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error listing rules for shop %d", shopID)
		return nil, err
	}

	data, err := json.Marshal(rules)
	if err != nil {
		return nil, err
	}
	if err := s.rdb.Set(ctx, key, data, 0).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error caching rules for shop %d", shopID)
	}

	return rules, nil
}

func (s *CommissionService) invalidateRuleCache(ctx context.Context, shopID int64) {
	if os.Getenv("ENV") == "test" || s.rdb == nil {
		return
	}
	key := fmt.Sprintf("%s%d", ruleCachePrefix, shopID)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error invalidating rule cache for shop %d", shopID)
	}
}

func (s *CommissionService) publishCommissionEvent(ctx context.Context, commission *entity.Commission) error {
	if os.Getenv("ENV") == "test" || s.kafkaWriter == nil {
		return nil
	}

	commissionJSON, err := json.Marshal(commission)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("commission-calculated-%d", commission.SaleID)),
		Value: commissionJSON,
	}

	return s.kafkaWriter.WriteMessages(ctx, msg)
}
