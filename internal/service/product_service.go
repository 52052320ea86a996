package service

import (
	"context"
	"fmt"

	"vendorpro/internal/entity"
)

type ProductService struct {
	productRepo ProductStore
	shopRepo    ShopStore
}

func NewProductService(productRepo ProductStore, shopRepo ShopStore) *ProductService {
	return &ProductService{productRepo: productRepo, shopRepo: shopRepo}
}

func (s *ProductService) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting product by ID %d", id)
		return nil, err
	}
	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context, shopID int64) ([]*entity.Product, error) {
	return s.productRepo.GetProductsByShop(ctx, shopID)
}

func (s *ProductService) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if _, err := s.shopRepo.GetShopByID(ctx, product.ShopID); err != nil {
		return nil, err
	}
	if product.BasePrice.IsNegative() || product.SellingPrice.IsNegative() {
		return nil, fmt.Errorf("product price must be non-negative")
	}
	if product.Status == "" {
		product.Status = "active"
	}

	createdProduct, err := s.productRepo.CreateProduct(ctx, product)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating product")
		return nil, err
	}
	return createdProduct, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	existing, err := s.productRepo.GetProductByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	product.ShopID = existing.ShopID

	updatedProduct, err := s.productRepo.UpdateProduct(ctx, product)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating product %d", product.ID)
		return nil, err
	}
	return updatedProduct, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := s.productRepo.GetProductByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.DeleteProduct(ctx, id)
}

// ReserveStock decrements stock when a sale is approved.
func (s *ProductService) ReserveStock(ctx context.Context, productID int64, quantity int) error {
	err := s.productRepo.AdjustStock(ctx, productID, -quantity)
	if err != nil {
		logger.Error().Err(err).Msgf("Error reserving stock for product %d", productID)
		return err
	}
	return nil
}

// ReleaseStock returns stock when an approved sale is later rejected.
func (s *ProductService) ReleaseStock(ctx context.Context, productID int64, quantity int) error {
	err := s.productRepo.AdjustStock(ctx, productID, quantity)
	if err != nil {
		logger.Error().Err(err).Msgf("Error releasing stock for product %d", productID)
		return err
	}
	return nil
}
