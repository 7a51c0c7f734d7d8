// internal/repository/postgres/finance_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/repository"
)

type financeRepository struct {
	db *sqlx.DB
}

func NewFinanceRepository(db *sqlx.DB) repository.FinanceRepository {
	return &financeRepository{db: db}
}

func (r *financeRepository) ListExpenseStructure(ctx context.Context, storeID int64, year, month int) ([]domain.ExpenseStructure, error) {
	query := `
		SELECT store_id, year, month, category, item_name, amount
		FROM expense_structures
		WHERE store_id = $1 AND year = $2 AND month = $3
		ORDER BY category, item_name
	`

	var rows []domain.ExpenseStructure
	if err := r.db.SelectContext(ctx, &rows, query, storeID, year, month); err != nil {
		return nil, fmt.Errorf("error listing expense structure: %w", err)
	}

	return rows, nil
}

// SaveExpenseStructure replaces the month's planned cost lines.
func (r *financeRepository) SaveExpenseStructure(ctx context.Context, storeID int64, year, month int, rows []domain.ExpenseStructure) error {
	for _, row := range rows {
		if !domain.FixedCostCategories[row.Category] && !domain.RateCostCategories[row.Category] {
			return domain.NewValidationError("category", row.Category, "unknown cost category")
		}
		if row.Amount < 0 {
			return domain.NewValidationError("amount", row.Amount, "must be non-negative")
		}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning expense transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM expense_structures WHERE store_id = $1 AND year = $2 AND month = $3`,
		storeID, year, month); err != nil {
		return fmt.Errorf("error clearing expense structure: %w", err)
	}

	insert := `
		INSERT INTO expense_structures (store_id, year, month, category, item_name, amount)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, insert, storeID, year, month, row.Category, row.ItemName, row.Amount); err != nil {
			return fmt.Errorf("error inserting expense row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing expense structure: %w", err)
	}

	return nil
}

func (r *financeRepository) ListActualSettlementItems(ctx context.Context, storeID int64, year, month int) ([]domain.ActualSettlementItem, error) {
	query := `
		SELECT store_id, year, month, template_id, category, amount, percent
		FROM actual_settlement_items
		WHERE store_id = $1 AND year = $2 AND month = $3
		ORDER BY template_id
	`

	var rows []domain.ActualSettlementItem
	if err := r.db.SelectContext(ctx, &rows, query, storeID, year, month); err != nil {
		return nil, fmt.Errorf("error listing settlement items: %w", err)
	}

	return rows, nil
}

func (r *financeRepository) SaveActualSettlementItems(ctx context.Context, storeID int64, year, month int, rows []domain.ActualSettlementItem) error {
	for _, row := range rows {
		if (row.Amount == nil) == (row.Percent == nil) {
			return domain.NewValidationError("amount/percent", row.TemplateID, "exactly one of amount or percent is required")
		}
	}

	query := `
		INSERT INTO actual_settlement_items (store_id, year, month, template_id, category, amount, percent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (store_id, year, month, template_id)
		DO UPDATE SET category = EXCLUDED.category,
		              amount = EXCLUDED.amount,
		              percent = EXCLUDED.percent
	`

	for _, row := range rows {
		if _, err := r.db.ExecContext(ctx, query,
			storeID, year, month, row.TemplateID, row.Category, row.Amount, row.Percent); err != nil {
			return fmt.Errorf("error saving settlement item: %w", err)
		}
	}

	return nil
}

func (r *financeRepository) GetTarget(ctx context.Context, storeID int64, year, month int) (*domain.Target, error) {
	query := `
		SELECT store_id, year, month, target_sales, target_cost_rate, target_labor_rate,
		       target_rent_rate, target_other_rate, target_profit_rate
		FROM targets
		WHERE store_id = $1 AND year = $2 AND month = $3
	`

	var target domain.Target
	if err := r.db.GetContext(ctx, &target, query, storeID, year, month); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("error loading target: %w", err)
	}

	return &target, nil
}

func (r *financeRepository) SaveTarget(ctx context.Context, target domain.Target) error {
	if target.TargetSales < 0 {
		return domain.NewValidationError("target_sales", target.TargetSales, "must be non-negative")
	}

	query := `
		INSERT INTO targets (store_id, year, month, target_sales, target_cost_rate,
		                     target_labor_rate, target_rent_rate, target_other_rate, target_profit_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (store_id, year, month)
		DO UPDATE SET target_sales = EXCLUDED.target_sales,
		              target_cost_rate = EXCLUDED.target_cost_rate,
		              target_labor_rate = EXCLUDED.target_labor_rate,
		              target_rent_rate = EXCLUDED.target_rent_rate,
		              target_other_rate = EXCLUDED.target_other_rate,
		              target_profit_rate = EXCLUDED.target_profit_rate
	`

	_, err := r.db.ExecContext(ctx, query,
		target.StoreID, target.Year, target.Month, target.TargetSales, target.TargetCostRate,
		target.TargetLaborRate, target.TargetRentRate, target.TargetOtherRate, target.TargetProfit)
	if err != nil {
		return fmt.Errorf("error saving target: %w", err)
	}

	return nil
}
