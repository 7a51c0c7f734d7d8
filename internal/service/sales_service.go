// internal/service/sales_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/storecoach-kr/storecoach-backend/internal/cache"
	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/repository"
)

// SalesService handles sales ingestion and the best-available daily view.
// Writes enforce total == card + cash before touching the repository.
type SalesService struct {
	sales repository.SalesRepository
	memo  cache.Memoizer
}

func NewSalesService(sales repository.SalesRepository, memo cache.Memoizer) *SalesService {
	if memo == nil {
		memo = cache.NewNoopMemoizer()
	}
	return &SalesService{sales: sales, memo: memo}
}

// SaveDailySales records one raw sales row.
func (s *SalesService) SaveDailySales(ctx context.Context, row domain.DailySales) error {
	if err := checkSalesSplit(row.Total, row.Card, row.Cash); err != nil {
		return err
	}
	if row.Date.IsZero() {
		return domain.NewValidationError("date", row.Date, "date is required")
	}
	if err := s.sales.SaveDailySales(ctx, row); err != nil {
		return fmt.Errorf("error saving daily sales: %w", err)
	}
	s.bump(ctx, row.StoreID, tableDailySales)
	return nil
}

// SaveDailyClose records the official closing row for a date. It supersedes
// the raw sales row in the best-available view.
func (s *SalesService) SaveDailyClose(ctx context.Context, row domain.DailyClose) error {
	if err := checkSalesSplit(row.Total, row.Card, row.Cash); err != nil {
		return err
	}
	if row.Date.IsZero() {
		return domain.NewValidationError("date", row.Date, "date is required")
	}
	if row.Visitors < 0 {
		return domain.NewValidationError("visitors", row.Visitors, "must not be negative")
	}
	if err := s.sales.SaveDailyClose(ctx, row); err != nil {
		return fmt.Errorf("error saving daily close: %w", err)
	}
	s.bump(ctx, row.StoreID, tableDailyCloses)
	return nil
}

// SaveDailySalesItems replaces the date's per-menu sold quantities.
func (s *SalesService) SaveDailySalesItems(ctx context.Context, storeID int64, date time.Time, items []domain.DailySalesItem) error {
	if date.IsZero() {
		return domain.NewValidationError("date", date, "date is required")
	}
	for _, item := range items {
		if item.Qty < 0 {
			return domain.NewValidationError("qty", item.Qty, "must not be negative")
		}
	}
	if err := s.sales.SaveDailySalesItems(ctx, storeID, date, items); err != nil {
		return fmt.Errorf("error saving sales items: %w", err)
	}
	s.bump(ctx, storeID, tableDailySalesItems)
	return nil
}

// BestDailySales returns the canonical daily-sales rows over [start, end];
// nil bounds leave the range open.
func (s *SalesService) BestDailySales(ctx context.Context, storeID int64, start, end *time.Time) ([]domain.BestDailySales, error) {
	rows, err := s.sales.BestAvailableDailySales(ctx, storeID, start, end)
	if err != nil {
		log.Warn().Err(err).Msg("sales: daily view load failed")
		return []domain.BestDailySales{}, nil
	}
	return rows, nil
}

func checkSalesSplit(total, card, cash int64) error {
	if card < 0 || cash < 0 {
		return domain.NewValidationError("card", card, "amounts must not be negative")
	}
	if total != card+cash {
		return &domain.InvariantViolation{
			Entity: "daily_sales",
			Detail: fmt.Sprintf("total %d != card %d + cash %d", total, card, cash),
		}
	}
	return nil
}

func (s *SalesService) bump(ctx context.Context, storeID int64, tables ...string) {
	if err := s.memo.BumpVersions(ctx, storeID, tables...); err != nil {
		log.Warn().Err(err).Msg("sales: version bump failed")
	}
}
