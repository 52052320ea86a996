package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"

	"vendorpro/internal/entity"
)

// SaleService records sales entered by salesmen and drives the
// pending -> approved/rejected lifecycle.
type SaleService struct {
	saleRepo    SaleStore
	productRepo ProductStore
	shopRepo    ShopStore
	kafkaWriter *kafka.Writer
	rdb         *redis.Client
}

func NewSaleService(saleRepo SaleStore, productRepo ProductStore, shopRepo ShopStore, kafkaWriter *kafka.Writer, rdb *redis.Client) *SaleService {
	return &SaleService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		shopRepo:    shopRepo,
		kafkaWriter: kafkaWriter,
		rdb:         rdb,
	}
}

// CreateSale validates the items against the shop's catalog, recomputes the
// total as the sum of quantity * price and stores the sale as pending.
func (s *SaleService) CreateSale(ctx context.Context, sale *entity.Sale) (*entity.Sale, error) {
	valid, err := s.validateIdempotentKey(ctx, sale.IdempotentKey)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrDuplicateIdempotentKey
	}

	if len(sale.Items) == 0 {
		return nil, fmt.Errorf("%w: sale has no items", ErrInvalidSale)
	}

	if _, err := s.shopRepo.GetShopByID(ctx, sale.ShopID); err != nil {
		return nil, err
	}

	for _, item := range sale.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be positive", ErrInvalidSale)
		}
		if item.Price.IsNegative() {
			return nil, fmt.Errorf("%w: item price must be non-negative", ErrInvalidSale)
		}

		product, err := s.productRepo.GetProductByID(ctx, item.ProductID)
		if err != nil {
			logger.Error().Err(err).Msgf("Error getting product %d for sale", item.ProductID)
			return nil, err
		}
		if product.ShopID != sale.ShopID {
			return nil, fmt.Errorf("%w: product %d does not belong to shop %d", ErrInvalidSale, item.ProductID, sale.ShopID)
		}
		if product.Stock < item.Quantity {
			logger.Warn().Msgf("Product %d out of stock", item.ProductID)
			return nil, fmt.Errorf("product out of stock")
		}
	}

	sale.Status = entity.SaleStatusPending
	sale.TotalAmount = sale.ItemsTotal()

	createdSale, err := s.saleRepo.CreateSale(ctx, sale)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating sale")
		return nil, err
	}

	if err := s.publishSaleEvent(ctx, createdSale, "created"); err != nil {
		return nil, err
	}

	return createdSale, nil
}

func (s *SaleService) GetSale(ctx context.Context, id int64) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetSaleByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting sale by ID %d", id)
		return nil, err
	}
	return sale, nil
}

func (s *SaleService) GetSalesByShop(ctx context.Context, shopID int64) ([]*entity.Sale, error) {
	return s.saleRepo.GetSalesByShop(ctx, shopID)
}

func (s *SaleService) GetSalesBySalesman(ctx context.Context, salesmanID int64) ([]*entity.Sale, error) {
	return s.saleRepo.GetSalesBySalesman(ctx, salesmanID)
}

// ApproveSale transitions a pending sale to approved.
func (s *SaleService) ApproveSale(ctx context.Context, id int64) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetSaleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale.Status != entity.SaleStatusPending {
		return nil, fmt.Errorf("%w: sale is %s", ErrInvalidStatusTransition, sale.Status)
	}

	if err := s.saleRepo.UpdateSaleStatus(ctx, id, entity.SaleStatusApproved, nil); err != nil {
		logger.Error().Err(err).Msgf("Error approving sale %d", id)
		return nil, err
	}
	sale.Status = entity.SaleStatusApproved
	sale.RejectionReason = nil

	if err := s.publishSaleEvent(ctx, sale, "approved"); err != nil {
		return nil, err
	}

	return sale, nil
}

// RejectSale transitions a pending sale to rejected with a reason.
func (s *SaleService) RejectSale(ctx context.Context, id int64, reason string) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetSaleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale.Status != entity.SaleStatusPending {
		return nil, fmt.Errorf("%w: sale is %s", ErrInvalidStatusTransition, sale.Status)
	}

	if err := s.saleRepo.UpdateSaleStatus(ctx, id, entity.SaleStatusRejected, &reason); err != nil {
		logger.Error().Err(err).Msgf("Error rejecting sale %d", id)
		return nil, err
	}
	sale.Status = entity.SaleStatusRejected
	sale.RejectionReason = &reason

	if err := s.publishSaleEvent(ctx, sale, "rejected"); err != nil {
		return nil, err
	}

	return sale, nil
}

func (s *SaleService) publishSaleEvent(ctx context.Context, sale *entity.Sale, key string) error {
	if os.Getenv("ENV") == "test" || s.kafkaWriter == nil {
		return nil
	}

	saleJSON, err := json.Marshal(sale)
	if err != nil {
		return err
	}

	// sale-created-1 or sale-approved-1
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("sale-%s-%d", key, sale.ID)),
		Value: saleJSON,
	}

	return s.kafkaWriter.WriteMessages(ctx, msg)
}

func (s *SaleService) validateIdempotentKey(ctx context.Context, key string) (bool, error) {
	// if env is set to test, return true
	if os.Getenv("ENV") == "test" || s.rdb == nil || key == "" {
		return true, nil
	}

	// check if the key exists in the redis cache
	// if it exists, return false
	redisKey := fmt.Sprintf("idempotent-key:%s", key)
	val, err := s.rdb.Get(ctx, redisKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}

	if val != "" {
		return false, nil
	}

	// if it doesn't exist, add the key to the cache with a TTL of 24 hours
	err = s.rdb.Set(ctx, redisKey, "exists", 24*time.Hour).Err()
	if err != nil {
		return false, err
	}

	return true, nil
}
