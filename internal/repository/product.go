package repository

import (
	"context"
	"database/sql"
	"errors"

	"vendorpro/internal/entity"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db}
}

func (r *ProductRepository) GetProductByID(ctx context.Context, id int64) (*entity.Product, error) {
	product := &entity.Product{}
	query := `SELECT id, shop_id, name, description, base_price, selling_price, stock, status, created_at, updated_at FROM products WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID, &product.ShopID, &product.Name, &product.Description,
		&product.BasePrice, &product.SellingPrice, &product.Stock, &product.Status,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	return product, nil
}

func (r *ProductRepository) GetProductsByShop(ctx context.Context, shopID int64) ([]*entity.Product, error) {
	query := `SELECT id, shop_id, name, description, base_price, selling_price, stock, status, created_at, updated_at FROM products WHERE shop_id = ?`
	rows, err := r.db.QueryContext(ctx, query, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		product := entity.Product{}
		err := rows.Scan(
			&product.ID, &product.ShopID, &product.Name, &product.Description,
			&product.BasePrice, &product.SellingPrice, &product.Stock, &product.Status,
			&product.CreatedAt, &product.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		products = append(products, &product)
	}

	return products, rows.Err()
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	query := `INSERT INTO products (shop_id, name, description, base_price, selling_price, stock, status) VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, product.ShopID, product.Name, product.Description,
		product.BasePrice, product.SellingPrice, product.Stock, product.Status)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	product.ID = id
	return product, nil
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	query := `UPDATE products SET name = ?, description = ?, base_price = ?, selling_price = ?, stock = ?, status = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, product.Name, product.Description,
		product.BasePrice, product.SellingPrice, product.Stock, product.Status, product.ID)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// AdjustStock applies a delta to a product's stock, refusing to go negative.
func (r *ProductRepository) AdjustStock(ctx context.Context, id int64, delta int) error {
	query := `UPDATE products SET stock = stock + ? WHERE id = ? AND stock + ? >= 0`
	res, err := r.db.ExecContext(ctx, query, delta, id, delta)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.New("insufficient stock")
	}

	return nil
}
