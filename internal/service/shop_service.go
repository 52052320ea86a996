package service

import (
	"context"
	"fmt"

	"vendorpro/internal/entity"
)

type ShopService struct {
	shopRepo ShopStore
	userRepo UserStore
}

func NewShopService(shopRepo ShopStore, userRepo UserStore) *ShopService {
	return &ShopService{shopRepo: shopRepo, userRepo: userRepo}
}

func (s *ShopService) GetShop(ctx context.Context, id int64) (*entity.Shop, error) {
	shop, err := s.shopRepo.GetShopByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting shop by ID %d", id)
		return nil, err
	}
	return shop, nil
}

func (s *ShopService) ListShops(ctx context.Context) ([]*entity.Shop, error) {
	return s.shopRepo.GetShops(ctx)
}

func (s *ShopService) ListShopsByOwner(ctx context.Context, ownerID int64) ([]*entity.Shop, error) {
	return s.shopRepo.GetShopsByOwner(ctx, ownerID)
}

func (s *ShopService) CreateShop(ctx context.Context, shop *entity.Shop) (*entity.Shop, error) {
	owner, err := s.userRepo.GetUserByID(ctx, shop.OwnerID)
	if err != nil {
		return nil, err
	}
	if owner.Role != entity.RoleShopOwner && owner.Role != entity.RoleAdmin {
		return nil, fmt.Errorf("user %d cannot own a shop", shop.OwnerID)
	}

	createdShop, err := s.shopRepo.CreateShop(ctx, shop)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating shop")
		return nil, err
	}
	return createdShop, nil
}

func (s *ShopService) UpdateShop(ctx context.Context, shop *entity.Shop) (*entity.Shop, error) {
	existing, err := s.shopRepo.GetShopByID(ctx, shop.ID)
	if err != nil {
		return nil, err
	}
	shop.OwnerID = existing.OwnerID

	updatedShop, err := s.shopRepo.UpdateShop(ctx, shop)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating shop %d", shop.ID)
		return nil, err
	}
	return updatedShop, nil
}

func (s *ShopService) DeleteShop(ctx context.Context, id int64) error {
	if _, err := s.shopRepo.GetShopByID(ctx, id); err != nil {
		return err
	}
	return s.shopRepo.DeleteShop(ctx, id)
}

// AssignSalesman links a salesman to a shop. Only users with the salesman
// role can be assigned.
func (s *ShopService) AssignSalesman(ctx context.Context, shopID, salesmanID int64) error {
	if _, err := s.shopRepo.GetShopByID(ctx, shopID); err != nil {
		return err
	}

	user, err := s.userRepo.GetUserByID(ctx, salesmanID)
	if err != nil {
		return err
	}
	if user.Role != entity.RoleSalesman {
		return fmt.Errorf("user %d is not a salesman", salesmanID)
	}

	return s.shopRepo.AssignSalesman(ctx, shopID, salesmanID)
}

func (s *ShopService) RemoveSalesman(ctx context.Context, shopID, salesmanID int64) error {
	return s.shopRepo.RemoveSalesman(ctx, shopID, salesmanID)
}

func (s *ShopService) ListSalesmen(ctx context.Context, shopID int64) ([]*entity.User, error) {
	if _, err := s.shopRepo.GetShopByID(ctx, shopID); err != nil {
		return nil, err
	}
	return s.shopRepo.ListSalesmen(ctx, shopID)
}
