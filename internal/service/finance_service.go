// internal/service/finance_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/storecoach-kr/storecoach-backend/internal/cache"
	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/engine/breakeven"
	"github.com/storecoach-kr/storecoach-backend/internal/repository"
	"github.com/storecoach-kr/storecoach-backend/pkg/numeric"
)

// FinanceService serves the five-category cost structure, break-even model
// and the monthly scorecard.
type FinanceService struct {
	finance repository.FinanceRepository
	sales   repository.SalesRepository
	calc    *breakeven.Calculator
	memo    cache.Memoizer
}

func NewFinanceService(finance repository.FinanceRepository, sales repository.SalesRepository, calc *breakeven.Calculator, memo cache.Memoizer) *FinanceService {
	if memo == nil {
		memo = cache.NewNoopMemoizer()
	}
	return &FinanceService{finance: finance, sales: sales, calc: calc, memo: memo}
}

// BreakEvenAnalysis is the month's break-even position.
type BreakEvenAnalysis struct {
	Year              int                     `json:"year"`
	Month             int                     `json:"month"`
	MonthlySales      int64                   `json:"monthly_sales"`
	FiveCore          breakeven.FiveCoreCosts `json:"five_core"`
	FixedCosts        float64                 `json:"fixed_costs"`
	VariableRatio     float64                 `json:"variable_ratio"`
	BreakEvenSales    int64                   `json:"break_even_sales"`
	BreakEvenGapRatio float64                 `json:"break_even_gap_ratio"`
}

// FiveCore returns the planned cost structure normalized against the month's
// sales total.
func (s *FinanceService) FiveCore(ctx context.Context, storeID int64, year, month int) (breakeven.FiveCoreCosts, error) {
	rows, err := s.finance.ListExpenseStructure(ctx, storeID, year, month)
	if err != nil {
		log.Warn().Err(err).Msg("finance: expense structure load failed")
		rows = nil
	}
	monthlySales := s.monthlySales(ctx, storeID, year, month)
	return s.calc.FiveCore(rows, monthlySales), nil
}

// ActualFiveCore normalizes settled cost lines the same way. A settlement
// line carries either an absolute amount or a percent; the missing side is
// derived from the month's sales.
func (s *FinanceService) ActualFiveCore(ctx context.Context, storeID int64, year, month int) (breakeven.FiveCoreCosts, error) {
	items, err := s.finance.ListActualSettlementItems(ctx, storeID, year, month)
	if err != nil {
		log.Warn().Err(err).Msg("finance: settlements load failed")
		items = nil
	}
	monthlySales := s.monthlySales(ctx, storeID, year, month)
	return s.calc.FiveCore(normalizeSettlements(items, monthlySales), monthlySales), nil
}

// normalizeSettlements converts settlement lines into structure rows: fixed
// categories carry KRW amounts, rate categories carry percents.
func normalizeSettlements(items []domain.ActualSettlementItem, monthlySales int64) []domain.ExpenseStructure {
	rows := make([]domain.ExpenseStructure, 0, len(items))
	for _, item := range items {
		row := domain.ExpenseStructure{
			StoreID:  item.StoreID,
			Year:     item.Year,
			Month:    item.Month,
			Category: item.Category,
			ItemName: item.TemplateID,
		}
		if domain.FixedCostCategories[item.Category] {
			switch {
			case item.Amount != nil:
				row.Amount = float64(*item.Amount)
			case item.Percent != nil:
				row.Amount = math.Floor(float64(monthlySales) * *item.Percent / 100)
			}
		} else {
			switch {
			case item.Percent != nil:
				row.Amount = *item.Percent
			case item.Amount != nil:
				row.Amount = numeric.Round2(numeric.Percent(float64(*item.Amount), float64(monthlySales)))
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// BreakEven returns the month's break-even position against actual sales.
func (s *FinanceService) BreakEven(ctx context.Context, storeID int64, year, month int) (BreakEvenAnalysis, error) {
	five, _ := s.FiveCore(ctx, storeID, year, month)
	monthlySales := s.monthlySales(ctx, storeID, year, month)

	fixed := s.calc.FixedCosts(five)
	varRatio := s.calc.VariableRatio(five)
	bep := s.calc.BreakEven(fixed, varRatio)

	out := BreakEvenAnalysis{
		Year:           year,
		Month:          month,
		MonthlySales:   monthlySales,
		FiveCore:       five,
		FixedCosts:     fixed,
		VariableRatio:  varRatio,
		BreakEvenSales: bep,
	}
	if bep > 0 {
		out.BreakEvenGapRatio = numeric.Round2(float64(monthlySales) / float64(bep))
	}
	return out, nil
}

// CostsAtSalesLevel projects the month's structure to an arbitrary sales
// level.
func (s *FinanceService) CostsAtSalesLevel(ctx context.Context, storeID int64, year, month int, sales int64) (breakeven.SalesLevelCosts, error) {
	if sales < 0 {
		return breakeven.SalesLevelCosts{}, domain.NewValidationError("sales", sales, "must not be negative")
	}
	five, _ := s.FiveCore(ctx, storeID, year, month)
	return s.calc.AtSalesLevel(sales, five), nil
}

// Scorecard grades the month's actual structure against the planned one.
func (s *FinanceService) Scorecard(ctx context.Context, storeID int64, year, month int) (breakeven.Scorecard, error) {
	target, _ := s.FiveCore(ctx, storeID, year, month)
	actual, _ := s.ActualFiveCore(ctx, storeID, year, month)

	var targetSales int64
	if t, err := s.finance.GetTarget(ctx, storeID, year, month); err == nil && t != nil {
		targetSales = t.TargetSales
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Warn().Err(err).Msg("finance: target load failed")
	}

	actualSales := s.monthlySales(ctx, storeID, year, month)
	return s.calc.BuildScorecard(targetSales, actualSales, target, actual), nil
}

// SaveExpenseStructure replaces the month's planned cost rows.
func (s *FinanceService) SaveExpenseStructure(ctx context.Context, storeID int64, year, month int, rows []domain.ExpenseStructure) error {
	for _, row := range rows {
		if !domain.FixedCostCategories[row.Category] && !domain.RateCostCategories[row.Category] {
			return domain.NewValidationError("category", row.Category, "must be one of the five cost categories")
		}
		if row.Amount < 0 {
			return domain.NewValidationError("amount", row.Amount, "must not be negative")
		}
		if domain.RateCostCategories[row.Category] && row.Amount > 100 {
			return domain.NewValidationError("amount", row.Amount, "rate categories are percents 0..100")
		}
	}
	if err := s.finance.SaveExpenseStructure(ctx, storeID, year, month, rows); err != nil {
		return fmt.Errorf("error saving expense structure: %w", err)
	}
	s.bump(ctx, storeID, tableExpenseStructure)
	return nil
}

// SaveSettlementItems replaces the month's settled cost lines.
func (s *FinanceService) SaveSettlementItems(ctx context.Context, storeID int64, year, month int, rows []domain.ActualSettlementItem) error {
	for _, row := range rows {
		if !domain.FixedCostCategories[row.Category] && !domain.RateCostCategories[row.Category] {
			return domain.NewValidationError("category", row.Category, "must be one of the five cost categories")
		}
		if row.Amount == nil && row.Percent == nil {
			return domain.NewValidationError("amount", nil, "either amount or percent is required")
		}
	}
	if err := s.finance.SaveActualSettlementItems(ctx, storeID, year, month, rows); err != nil {
		return fmt.Errorf("error saving settlement items: %w", err)
	}
	s.bump(ctx, storeID, tableSettlements)
	return nil
}

// SaveTarget upserts the monthly plan. Rates off the 100% sum are reported as
// a warning, never rejected.
func (s *FinanceService) SaveTarget(ctx context.Context, target domain.Target) (rateWarning bool, err error) {
	if target.TargetSales < 0 {
		return false, domain.NewValidationError("target_sales", target.TargetSales, "must not be negative")
	}
	if err := s.finance.SaveTarget(ctx, target); err != nil {
		return false, fmt.Errorf("error saving target: %w", err)
	}
	s.bump(ctx, target.StoreID, tableTargets)
	return math.Abs(target.RateSum()-100) > 0.1, nil
}

// GetTarget returns nil when no target is registered for the month.
func (s *FinanceService) GetTarget(ctx context.Context, storeID int64, year, month int) (*domain.Target, error) {
	target, err := s.finance.GetTarget(ctx, storeID, year, month)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Warn().Err(err).Msg("finance: target load failed")
		return nil, nil
	}
	return target, nil
}

func (s *FinanceService) monthlySales(ctx context.Context, storeID int64, year, month int) int64 {
	total, err := s.sales.MonthlySalesTotal(ctx, storeID, year, month)
	if err != nil {
		log.Warn().Err(err).Msg("finance: monthly sales load failed")
		return 0
	}
	return total
}

func (s *FinanceService) bump(ctx context.Context, storeID int64, tables ...string) {
	if err := s.memo.BumpVersions(ctx, storeID, tables...); err != nil {
		log.Warn().Err(err).Msg("finance: version bump failed")
	}
}
