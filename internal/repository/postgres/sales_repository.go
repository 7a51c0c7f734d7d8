// internal/repository/postgres/sales_repository.go
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/repository"
)

type salesRepository struct {
	db *sqlx.DB
}

func NewSalesRepository(db *sqlx.DB) repository.SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) SaveDailySales(ctx context.Context, row domain.DailySales) error {
	if row.Card < 0 || row.Cash < 0 {
		return domain.NewValidationError("card/cash", row.Card, "must be non-negative")
	}
	if row.Total != row.Card+row.Cash {
		return &domain.InvariantViolation{Entity: "daily_sales", Detail: "total != card + cash"}
	}

	query := `
		INSERT INTO daily_sales (store_id, date, store_name, card, cash, total)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (store_id, date)
		DO UPDATE SET store_name = EXCLUDED.store_name,
		              card = EXCLUDED.card,
		              cash = EXCLUDED.cash,
		              total = EXCLUDED.total
	`

	_, err := r.db.ExecContext(ctx, query,
		row.StoreID, row.Date, row.StoreName, row.Card, row.Cash, row.Total)
	if err != nil {
		return fmt.Errorf("error saving daily sales: %w", err)
	}

	return nil
}

func (r *salesRepository) SaveDailyClose(ctx context.Context, row domain.DailyClose) error {
	if row.Card < 0 || row.Cash < 0 || row.Visitors < 0 {
		return domain.NewValidationError("card/cash/visitors", row.Card, "must be non-negative")
	}
	if row.Total != row.Card+row.Cash {
		return &domain.InvariantViolation{Entity: "daily_close", Detail: "total != card + cash"}
	}

	query := `
		INSERT INTO daily_closes (store_id, date, store_name, card, cash, total, visitors, issues, memo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (store_id, date)
		DO UPDATE SET store_name = EXCLUDED.store_name,
		              card = EXCLUDED.card,
		              cash = EXCLUDED.cash,
		              total = EXCLUDED.total,
		              visitors = EXCLUDED.visitors,
		              issues = EXCLUDED.issues,
		              memo = EXCLUDED.memo
	`

	_, err := r.db.ExecContext(ctx, query,
		row.StoreID, row.Date, row.StoreName, row.Card, row.Cash, row.Total,
		row.Visitors, row.Issues, row.Memo)
	if err != nil {
		return fmt.Errorf("error saving daily close: %w", err)
	}

	return nil
}

func (r *salesRepository) SaveDailySalesItems(ctx context.Context, storeID int64, date time.Time, items []domain.DailySalesItem) error {
	for _, item := range items {
		if item.Qty < 0 {
			return domain.NewValidationError("qty", item.Qty, "must be non-negative")
		}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning sales items transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_sales_items WHERE store_id = $1 AND date = $2`, storeID, date); err != nil {
		return fmt.Errorf("error clearing sales items: %w", err)
	}

	insert := `
		INSERT INTO daily_sales_items (store_id, date, menu_id, qty)
		VALUES ($1, $2, $3, $4)
	`
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, insert, storeID, date, item.MenuID, item.Qty); err != nil {
			return fmt.Errorf("error inserting sales item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing sales items: %w", err)
	}

	return nil
}

// BestAvailableDailySales unions daily closes and raw sales per date,
// preferring the official close row when both exist.
func (r *salesRepository) BestAvailableDailySales(ctx context.Context, storeID int64, start, end *time.Time) ([]domain.BestDailySales, error) {
	query := `
		SELECT COALESCE(dc.date, ds.date)        AS date,
		       COALESCE(dc.total, ds.total, 0)   AS total_sales,
		       COALESCE(dc.card, ds.card, 0)     AS card_sales,
		       COALESCE(dc.cash, ds.cash, 0)     AS cash_sales,
		       COALESCE(dc.visitors, 0)          AS visitors,
		       (dc.date IS NOT NULL)             AS is_official,
		       CASE WHEN dc.date IS NOT NULL THEN 'daily_close' ELSE 'daily_sales' END AS source
		FROM daily_closes dc
		FULL OUTER JOIN daily_sales ds
		  ON ds.store_id = dc.store_id AND ds.date = dc.date
		WHERE COALESCE(dc.store_id, ds.store_id) = $1
	`

	args := []interface{}{storeID}
	var conditions []string
	argCounter := 2

	if start != nil {
		conditions = append(conditions, fmt.Sprintf("COALESCE(dc.date, ds.date) >= $%d", argCounter))
		args = append(args, *start)
		argCounter++
	}
	if end != nil {
		conditions = append(conditions, fmt.Sprintf("COALESCE(dc.date, ds.date) <= $%d", argCounter))
		args = append(args, *end)
		argCounter++
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY date"

	var rows []domain.BestDailySales
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("error loading best-available daily sales: %w", err)
	}

	return rows, nil
}

// MonthlySalesTotal is the SSOT aggregate over best-available rows.
func (r *salesRepository) MonthlySalesTotal(ctx context.Context, storeID int64, year, month int) (int64, error) {
	query := `
		SELECT COALESCE(SUM(best.total_sales), 0)
		FROM (
			SELECT COALESCE(dc.total, ds.total, 0) AS total_sales,
			       COALESCE(dc.date, ds.date)      AS date
			FROM daily_closes dc
			FULL OUTER JOIN daily_sales ds
			  ON ds.store_id = dc.store_id AND ds.date = dc.date
			WHERE COALESCE(dc.store_id, ds.store_id) = $1
		) best
		WHERE EXTRACT(YEAR FROM best.date) = $2
		  AND EXTRACT(MONTH FROM best.date) = $3
	`

	var total int64
	if err := r.db.GetContext(ctx, &total, query, storeID, year, month); err != nil {
		return 0, fmt.Errorf("error loading monthly sales total: %w", err)
	}

	return total, nil
}

func (r *salesRepository) ListDailySalesItems(ctx context.Context, storeID int64, start, end time.Time) ([]domain.DailySalesItem, error) {
	query := `
		SELECT store_id, date, menu_id, qty
		FROM daily_sales_items
		WHERE store_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, menu_id
	`

	var items []domain.DailySalesItem
	if err := r.db.SelectContext(ctx, &items, query, storeID, start, end); err != nil {
		return nil, fmt.Errorf("error listing daily sales items: %w", err)
	}

	return items, nil
}
