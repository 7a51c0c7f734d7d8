// internal/repository/sales_repository.go
package repository

import (
	"context"
	"time"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
)

// SalesRepository serves daily sales, daily closes and per-menu sold items.
//
// BestAvailableDailySales is the canonical read for all time-series math: it
// returns one row per date, preferring the official daily close over the raw
// sales row.
type SalesRepository interface {
	SaveDailySales(ctx context.Context, row domain.DailySales) error
	SaveDailyClose(ctx context.Context, row domain.DailyClose) error
	SaveDailySalesItems(ctx context.Context, storeID int64, date time.Time, items []domain.DailySalesItem) error

	BestAvailableDailySales(ctx context.Context, storeID int64, start, end *time.Time) ([]domain.BestDailySales, error)
	MonthlySalesTotal(ctx context.Context, storeID int64, year, month int) (int64, error)
	ListDailySalesItems(ctx context.Context, storeID int64, start, end time.Time) ([]domain.DailySalesItem, error)
}
