package repository

import (
	"context"
	"database/sql"
	"errors"

	"vendorpro/internal/entity"
)

type CommissionRepository struct {
	db *sql.DB
}

func NewCommissionRepository(db *sql.DB) *CommissionRepository {
	return &CommissionRepository{db}
}

func (r *CommissionRepository) GetCommissionBySale(ctx context.Context, saleID int64) (*entity.Commission, error) {
	query := `SELECT id, sale_id, salesman_id, rule_id, amount, rate, status, created_at, updated_at FROM commissions WHERE sale_id = ?`
	return r.scanCommission(r.db.QueryRowContext(ctx, query, saleID))
}

func (r *CommissionRepository) GetCommissionByID(ctx context.Context, id int64) (*entity.Commission, error) {
	query := `SELECT id, sale_id, salesman_id, rule_id, amount, rate, status, created_at, updated_at FROM commissions WHERE id = ?`
	return r.scanCommission(r.db.QueryRowContext(ctx, query, id))
}

// UpsertCommission writes the calculated amount and rate for a sale. The
// sale_id column carries a UNIQUE key, so a recalculation updates the existing
// row in place. Status is deliberately left out of the update list: once a
// commission has been marked paid, recalculation must not reset it.
func (r *CommissionRepository) UpsertCommission(ctx context.Context, commission *entity.Commission) (*entity.Commission, error) {
	query := `INSERT INTO commissions (sale_id, salesman_id, rule_id, amount, rate, status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE salesman_id = VALUES(salesman_id), rule_id = VALUES(rule_id),
			amount = VALUES(amount), rate = VALUES(rate)`
	_, err := r.db.ExecContext(ctx, query, commission.SaleID, commission.SalesmanID,
		commission.RuleID, commission.Amount, commission.Rate, commission.Status)
	if err != nil {
		return nil, err
	}

	return r.GetCommissionBySale(ctx, commission.SaleID)
}

func (r *CommissionRepository) MarkPaid(ctx context.Context, id int64) error {
	query := `UPDATE commissions SET status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, entity.CommissionStatusPaid, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCommissionNotFound
	}

	return nil
}

// SummaryByShop aggregates approved sales and their commissions per salesman.
func (r *CommissionRepository) SummaryByShop(ctx context.Context, shopID int64) ([]*entity.SalesmanCommissionSummary, error) {
	query := `SELECT s.salesman_id, u.name, COUNT(s.id), COALESCE(SUM(s.total_amount), 0), COALESCE(SUM(c.amount), 0)
		FROM sales s
		JOIN users u ON u.id = s.salesman_id
		LEFT JOIN commissions c ON c.sale_id = s.id
		WHERE s.shop_id = ?
		GROUP BY s.salesman_id, u.name`
	rows, err := r.db.QueryContext(ctx, query, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*entity.SalesmanCommissionSummary
	for rows.Next() {
		summary := entity.SalesmanCommissionSummary{}
		err := rows.Scan(&summary.SalesmanID, &summary.SalesmanName, &summary.SaleCount,
			&summary.TotalSales, &summary.TotalCommission)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &summary)
	}

	return summaries, rows.Err()
}

func (r *CommissionRepository) scanCommission(row *sql.Row) (*entity.Commission, error) {
	commission := &entity.Commission{}
	err := row.Scan(
		&commission.ID, &commission.SaleID, &commission.SalesmanID, &commission.RuleID,
		&commission.Amount, &commission.Rate, &commission.Status,
		&commission.CreatedAt, &commission.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommissionNotFound
		}
		return nil, err
	}
	return commission, nil
}
