package repository

import (
	"context"
	"database/sql"
	"errors"

	"vendorpro/internal/entity"
)

type SaleRepository struct {
	db *sql.DB
}

func NewSaleRepository(db *sql.DB) *SaleRepository {
	return &SaleRepository{db}
}

func (r *SaleRepository) GetSaleByID(ctx context.Context, id int64) (*entity.Sale, error) {
	saleQuery := `SELECT id, shop_id, salesman_id, total_amount, status, rejection_reason, created_at, updated_at FROM sales WHERE id = ?`
	itemQuery := `SELECT id, sale_id, product_id, quantity, price FROM sale_items WHERE sale_id = ?`

	sale := &entity.Sale{}
	var reason sql.NullString
	err := r.db.QueryRowContext(ctx, saleQuery, id).Scan(
		&sale.ID, &sale.ShopID, &sale.SalesmanID, &sale.TotalAmount,
		&sale.Status, &reason, &sale.CreatedAt, &sale.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	if reason.Valid {
		sale.RejectionReason = &reason.String
	}

	rows, err := r.db.QueryContext(ctx, itemQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := entity.SaleItem{}
		err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity, &item.Price)
		if err != nil {
			return nil, err
		}
		sale.Items = append(sale.Items, item)
	}

	return sale, rows.Err()
}

func (r *SaleRepository) CreateSale(ctx context.Context, sale *entity.Sale) (*entity.Sale, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	saleQuery := `INSERT INTO sales (shop_id, salesman_id, total_amount, status) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, saleQuery, sale.ShopID, sale.SalesmanID, sale.TotalAmount, sale.Status)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	saleID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// Insert sale items with batch
	itemQuery := `INSERT INTO sale_items (sale_id, product_id, quantity, price) VALUES `

	var values []interface{}
	for _, item := range sale.Items {
		itemQuery += "(?, ?, ?, ?),"
		values = append(values, saleID, item.ProductID, item.Quantity, item.Price)
	}

	// Remove the trailing comma
	itemQuery = itemQuery[:len(itemQuery)-1]

	_, err = tx.ExecContext(ctx, itemQuery, values...)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	err = tx.Commit()
	if err != nil {
		return nil, err
	}

	sale.ID = saleID
	for i := range sale.Items {
		sale.Items[i].SaleID = saleID
	}
	return sale, nil
}

func (r *SaleRepository) UpdateSaleStatus(ctx context.Context, id int64, status string, reason *string) error {
	query := `UPDATE sales SET status = ?, rejection_reason = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, status, reason, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSaleNotFound
	}

	return nil
}

func (r *SaleRepository) GetSalesByShop(ctx context.Context, shopID int64) ([]*entity.Sale, error) {
	query := `SELECT id, shop_id, salesman_id, total_amount, status, rejection_reason, created_at, updated_at FROM sales WHERE shop_id = ? ORDER BY created_at DESC`
	return r.querySales(ctx, query, shopID)
}

func (r *SaleRepository) GetSalesBySalesman(ctx context.Context, salesmanID int64) ([]*entity.Sale, error) {
	query := `SELECT id, shop_id, salesman_id, total_amount, status, rejection_reason, created_at, updated_at FROM sales WHERE salesman_id = ? ORDER BY created_at DESC`
	return r.querySales(ctx, query, salesmanID)
}

func (r *SaleRepository) querySales(ctx context.Context, query string, arg interface{}) ([]*entity.Sale, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []*entity.Sale
	for rows.Next() {
		sale := entity.Sale{}
		var reason sql.NullString
		err := rows.Scan(
			&sale.ID, &sale.ShopID, &sale.SalesmanID, &sale.TotalAmount,
			&sale.Status, &reason, &sale.CreatedAt, &sale.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if reason.Valid {
			sale.RejectionReason = &reason.String
		}
		sales = append(sales, &sale)
	}

	return sales, rows.Err()
}
