package repository

import (
	"context"
	"database/sql"
	"errors"

	"vendorpro/internal/entity"
)

type ShopRepository struct {
	db *sql.DB
}

func NewShopRepository(db *sql.DB) *ShopRepository {
	return &ShopRepository{db}
}

func (r *ShopRepository) GetShopByID(ctx context.Context, id int64) (*entity.Shop, error) {
	shop := &entity.Shop{}
	query := `SELECT id, owner_id, name, address, phone, email, gst_number, created_at, updated_at FROM shops WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&shop.ID, &shop.OwnerID, &shop.Name, &shop.Address, &shop.Phone,
		&shop.Email, &shop.GSTNumber, &shop.CreatedAt, &shop.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}

	return shop, nil
}

func (r *ShopRepository) GetShops(ctx context.Context) ([]*entity.Shop, error) {
	query := `SELECT id, owner_id, name, address, phone, email, gst_number, created_at, updated_at FROM shops`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shops []*entity.Shop
	for rows.Next() {
		shop := entity.Shop{}
		err := rows.Scan(
			&shop.ID, &shop.OwnerID, &shop.Name, &shop.Address, &shop.Phone,
			&shop.Email, &shop.GSTNumber, &shop.CreatedAt, &shop.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		shops = append(shops, &shop)
	}

	return shops, rows.Err()
}

func (r *ShopRepository) GetShopsByOwner(ctx context.Context, ownerID int64) ([]*entity.Shop, error) {
	query := `SELECT id, owner_id, name, address, phone, email, gst_number, created_at, updated_at FROM shops WHERE owner_id = ?`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shops []*entity.Shop
	for rows.Next() {
		shop := entity.Shop{}
		err := rows.Scan(
			&shop.ID, &shop.OwnerID, &shop.Name, &shop.Address, &shop.Phone,
			&shop.Email, &shop.GSTNumber, &shop.CreatedAt, &shop.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		shops = append(shops, &shop)
	}

	return shops, rows.Err()
}

func (r *ShopRepository) CreateShop(ctx context.Context, shop *entity.Shop) (*entity.Shop, error) {
	query := `INSERT INTO shops (owner_id, name, address, phone, email, gst_number) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, shop.OwnerID, shop.Name, shop.Address, shop.Phone, shop.Email, shop.GSTNumber)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	shop.ID = id
	return shop, nil
}

func (r *ShopRepository) UpdateShop(ctx context.Context, shop *entity.Shop) (*entity.Shop, error) {
	query := `UPDATE shops SET name = ?, address = ?, phone = ?, email = ?, gst_number = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, shop.Name, shop.Address, shop.Phone, shop.Email, shop.GSTNumber, shop.ID)
	if err != nil {
		return nil, err
	}
	return shop, nil
}

func (r *ShopRepository) DeleteShop(ctx context.Context, id int64) error {
	query := `DELETE FROM shops WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *ShopRepository) AssignSalesman(ctx context.Context, shopID, salesmanID int64) error {
	query := `INSERT IGNORE INTO shop_salesmen (shop_id, salesman_id) VALUES (?, ?)`
	_, err := r.db.ExecContext(ctx, query, shopID, salesmanID)
	return err
}

func (r *ShopRepository) RemoveSalesman(ctx context.Context, shopID, salesmanID int64) error {
	query := `DELETE FROM shop_salesmen WHERE shop_id = ? AND salesman_id = ?`
	_, err := r.db.ExecContext(ctx, query, shopID, salesmanID)
	return err
}

func (r *ShopRepository) ListSalesmen(ctx context.Context, shopID int64) ([]*entity.User, error) {
	query := `SELECT u.id, u.name, u.email, u.phone, u.role, u.status, u.created_at, u.updated_at
		FROM users u JOIN shop_salesmen ss ON ss.salesman_id = u.id
		WHERE ss.shop_id = ?`
	rows, err := r.db.QueryContext(ctx, query, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var salesmen []*entity.User
	for rows.Next() {
		user := entity.User{}
		err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.Phone,
			&user.Role, &user.Status, &user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		salesmen = append(salesmen, &user)
	}

	return salesmen, rows.Err()
}
