// internal/service/inventory_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/storecoach-kr/storecoach-backend/internal/cache"
	"github.com/storecoach-kr/storecoach-backend/internal/config"
	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/engine/inventory"
	"github.com/storecoach-kr/storecoach-backend/internal/repository"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

// InventoryService serves the stock-health views: safety gap, reorder
// recommendation, supplier grouping, turnover and safety simulation.
type InventoryService struct {
	master    repository.MasterRepository
	inv       repository.InventoryRepository
	analytics *AnalyticsService
	calc      *inventory.Calculator
	cfg       config.AnalyticsConfig
	clock     timeutil.Clock
	memo      cache.Memoizer
}

func NewInventoryService(master repository.MasterRepository, inv repository.InventoryRepository, analytics *AnalyticsService, calc *inventory.Calculator, cfg config.AnalyticsConfig, clock timeutil.Clock, memo cache.Memoizer) *InventoryService {
	if memo == nil {
		memo = cache.NewNoopMemoizer()
	}
	return &InventoryService{
		master:    master,
		inv:       inv,
		analytics: analytics,
		calc:      calc,
		cfg:       cfg,
		clock:     clock,
		memo:      memo,
	}
}

// avgDailyUsage folds the trailing usage window into per-ingredient daily
// averages ending yesterday.
func (s *InventoryService) avgDailyUsage(ctx context.Context, storeID int64, days int) map[int64]float64 {
	end := timeutil.DateOf(s.clock.NowKST())
	start := end.AddDate(0, 0, -(days - 1))
	usage, err := s.analytics.IngredientUsage(ctx, storeID, start, end)
	if err != nil {
		return map[int64]float64{}
	}
	return inventory.AvgDailyUsage(usage, days)
}

func (s *InventoryService) loadPositions(ctx context.Context, storeID int64) ([]domain.Ingredient, []domain.Inventory, bool) {
	ingredients, err := s.master.ListIngredients(ctx, storeID)
	if err != nil {
		log.Warn().Err(err).Msg("inventory: ingredients load failed")
		return nil, nil, false
	}
	rows, err := s.inv.ListInventory(ctx, storeID)
	if err != nil {
		log.Warn().Err(err).Msg("inventory: stock load failed")
		return nil, nil, false
	}
	return ingredients, rows, true
}

// SafetyGap reports every stock position against its safety level.
func (s *InventoryService) SafetyGap(ctx context.Context, storeID int64) ([]inventory.SafetyGapRow, error) {
	ingredients, rows, ok := s.loadPositions(ctx, storeID)
	if !ok {
		return []inventory.SafetyGapRow{}, nil
	}
	avg := s.avgDailyUsage(ctx, storeID, s.cfg.ReorderDaysForAvg)
	return s.calc.SafetyGap(ingredients, rows, avg), nil
}

// Reorder recommends order quantities covering safety plus forecast demand.
func (s *InventoryService) Reorder(ctx context.Context, storeID int64) ([]inventory.ReorderRow, error) {
	ingredients, rows, ok := s.loadPositions(ctx, storeID)
	if !ok {
		return []inventory.ReorderRow{}, nil
	}
	avg := s.avgDailyUsage(ctx, storeID, s.cfg.ReorderDaysForAvg)
	return s.calc.Reorder(ingredients, rows, avg), nil
}

// SupplierOptimization groups the reorder list per supplier with delivery-fee
// savings.
func (s *InventoryService) SupplierOptimization(ctx context.Context, storeID int64) (inventory.SupplierOptimizationResult, error) {
	empty := inventory.SupplierOptimizationResult{
		Suppliers:  []inventory.SupplierOrder{},
		Unassigned: []inventory.ReorderRow{},
	}

	orders, err := s.Reorder(ctx, storeID)
	if err != nil {
		return empty, nil
	}
	suppliers, err := s.master.ListSuppliers(ctx, storeID)
	if err != nil {
		log.Warn().Err(err).Msg("inventory: suppliers load failed")
		return empty, nil
	}
	links, err := s.master.ListIngredientSuppliers(ctx, storeID)
	if err != nil {
		log.Warn().Err(err).Msg("inventory: supplier links load failed")
		return empty, nil
	}
	return s.calc.SupplierOptimization(orders, suppliers, links), nil
}

// Turnover derives rotation speed over the configured analysis window.
func (s *InventoryService) Turnover(ctx context.Context, storeID int64) ([]inventory.TurnoverRow, error) {
	ingredients, rows, ok := s.loadPositions(ctx, storeID)
	if !ok {
		return []inventory.TurnoverRow{}, nil
	}
	avg := s.avgDailyUsage(ctx, storeID, s.cfg.TurnoverPeriodDays)
	return s.calc.Turnover(ingredients, rows, avg), nil
}

// SimulateSafetyChange previews a percent change to one ingredient's safety
// stock. Unknown ingredients surface repository.ErrNotFound.
func (s *InventoryService) SimulateSafetyChange(ctx context.Context, storeID, ingredientID int64, pctDelta float64) (inventory.SafetySimulation, error) {
	ingredients, err := s.master.ListIngredients(ctx, storeID)
	if err != nil {
		return inventory.SafetySimulation{}, fmt.Errorf("error loading ingredients: %w", err)
	}
	var ing *domain.Ingredient
	for i := range ingredients {
		if ingredients[i].ID == ingredientID {
			ing = &ingredients[i]
			break
		}
	}
	if ing == nil {
		return inventory.SafetySimulation{}, repository.ErrNotFound
	}

	rows, err := s.inv.ListInventory(ctx, storeID)
	if err != nil {
		return inventory.SafetySimulation{}, fmt.Errorf("error loading inventory: %w", err)
	}
	for _, row := range rows {
		if row.IngredientID == ingredientID {
			return s.calc.SimulateSafetyChange(*ing, row, pctDelta), nil
		}
	}
	return inventory.SafetySimulation{}, repository.ErrNotFound
}

// UpsertInventory writes one stock position and invalidates dependent reads.
func (s *InventoryService) UpsertInventory(ctx context.Context, row domain.Inventory) error {
	if row.OnHand < 0 {
		return domain.NewValidationError("on_hand", row.OnHand, "must not be negative")
	}
	if row.SafetyStock < 0 {
		return domain.NewValidationError("safety_stock", row.SafetyStock, "must not be negative")
	}
	if err := s.inv.UpsertInventory(ctx, row); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return fmt.Errorf("error saving inventory: %w", err)
	}
	if err := s.memo.BumpVersions(ctx, row.StoreID, tableInventory); err != nil {
		log.Warn().Err(err).Msg("inventory: version bump failed")
	}
	return nil
}
