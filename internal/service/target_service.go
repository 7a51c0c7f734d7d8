// internal/service/target_service.go
package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/storecoach-kr/storecoach-backend/internal/engine/target"
	"github.com/storecoach-kr/storecoach-backend/internal/repository"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

// TargetService composes the month's target-vs-actual dashboard.
type TargetService struct {
	sales     repository.SalesRepository
	finance   *FinanceService
	analytics *AnalyticsService
	calc      *target.Calculator
}

func NewTargetService(sales repository.SalesRepository, finance *FinanceService, analytics *AnalyticsService, calc *target.Calculator) *TargetService {
	return &TargetService{sales: sales, finance: finance, analytics: analytics, calc: calc}
}

// Analyze builds the month view: progress, forecast, required daily pace,
// cost-rate gap and the month-over-month and year-over-year deltas.
func (s *TargetService) Analyze(ctx context.Context, storeID int64, year, month int) (target.Analysis, error) {
	in := target.Inputs{Year: year, Month: month}

	if total, err := s.sales.MonthlySalesTotal(ctx, storeID, year, month); err != nil {
		log.Warn().Err(err).Msg("target: monthly sales load failed")
	} else {
		in.MonthlySales = total
	}

	in.Target, _ = s.finance.GetTarget(ctx, storeID, year, month)

	start := timeutil.Date(year, time.Month(month), 1)
	end := start.AddDate(0, 1, -1)
	if daily, err := s.sales.BestAvailableDailySales(ctx, storeID, &start, &end); err != nil {
		log.Warn().Err(err).Msg("target: daily sales load failed")
	} else {
		in.Daily = daily
	}

	if items, err := s.sales.ListDailySalesItems(ctx, storeID, start, end); err != nil {
		log.Warn().Err(err).Msg("target: sales items load failed")
	} else {
		in.Items = items
	}

	in.MenuCosts, _ = s.analytics.MenuCosts(ctx, storeID)

	prevMonth := start.AddDate(0, -1, 0)
	if total, err := s.sales.MonthlySalesTotal(ctx, storeID, prevMonth.Year(), int(prevMonth.Month())); err != nil {
		log.Warn().Err(err).Msg("target: previous month sales load failed")
	} else {
		in.PrevMonthSales = total
	}
	if total, err := s.sales.MonthlySalesTotal(ctx, storeID, year-1, month); err != nil {
		log.Warn().Err(err).Msg("target: previous year sales load failed")
	} else {
		in.PrevYearSales = total
	}

	return s.calc.Analyze(in), nil
}
