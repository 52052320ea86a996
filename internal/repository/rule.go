package repository

import (
	"context"
	"database/sql"
	"errors"

	"vendorpro/internal/entity"
)

type RuleRepository struct {
	db *sql.DB
}

func NewRuleRepository(db *sql.DB) *RuleRepository {
	return &RuleRepository{db}
}

// ListRulesByShop returns a shop's rules in creation order. The order is part
// of the contract: commission matching takes the first rule whose window
// contains the sale amount.
func (r *RuleRepository) ListRulesByShop(ctx context.Context, shopID int64) ([]entity.CommissionRule, error) {
	query := `SELECT id, shop_id, name, description, type, value, product_id, min_amount, max_amount, status, created_at, updated_at
		FROM commission_rules WHERE shop_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []entity.CommissionRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}

	return rules, rows.Err()
}

func (r *RuleRepository) GetRuleByID(ctx context.Context, id int64) (*entity.CommissionRule, error) {
	query := `SELECT id, shop_id, name, description, type, value, product_id, min_amount, max_amount, status, created_at, updated_at
		FROM commission_rules WHERE id = ?`
	rule, err := scanRule(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	return rule, nil
}

func (r *RuleRepository) CreateRule(ctx context.Context, rule *entity.CommissionRule) (*entity.CommissionRule, error) {
	query := `INSERT INTO commission_rules (shop_id, name, description, type, value, product_id, min_amount, max_amount, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, rule.ShopID, rule.Name, rule.Description, rule.Type,
		rule.Value, rule.ProductID, rule.MinAmount, rule.MaxAmount, rule.Status)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	rule.ID = id
	return rule, nil
}

func (r *RuleRepository) UpdateRule(ctx context.Context, rule *entity.CommissionRule) (*entity.CommissionRule, error) {
	query := `UPDATE commission_rules SET name = ?, description = ?, type = ?, value = ?, product_id = ?, min_amount = ?, max_amount = ?, status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, rule.Name, rule.Description, rule.Type,
		rule.Value, rule.ProductID, rule.MinAmount, rule.MaxAmount, rule.Status, rule.ID)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrRuleNotFound
	}

	return rule, nil
}

func (r *RuleRepository) DeleteRule(ctx context.Context, id int64) error {
	query := `DELETE FROM commission_rules WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*entity.CommissionRule, error) {
	rule := &entity.CommissionRule{}
	var productID sql.NullInt64
	err := row.Scan(
		&rule.ID, &rule.ShopID, &rule.Name, &rule.Description, &rule.Type,
		&rule.Value, &productID, &rule.MinAmount, &rule.MaxAmount, &rule.Status,
		&rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if productID.Valid {
		rule.ProductID = &productID.Int64
	}
	return rule, nil
}
