// internal/service/analytics_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/storecoach-kr/storecoach-backend/internal/cache"
	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/engine/cost"
	"github.com/storecoach-kr/storecoach-backend/internal/repository"
)

// AnalyticsService serves the menu cost, ABC and ingredient usage views.
// Repository failures on the read path degrade to empty results with a
// warning; the UI renders "no data" instead of an error page.
type AnalyticsService struct {
	master repository.MasterRepository
	sales  repository.SalesRepository
	calc   *cost.Calculator
	memo   cache.Memoizer
}

func NewAnalyticsService(master repository.MasterRepository, sales repository.SalesRepository, calc *cost.Calculator, memo cache.Memoizer) *AnalyticsService {
	if memo == nil {
		memo = cache.NewNoopMemoizer()
	}
	return &AnalyticsService{master: master, sales: sales, calc: calc, memo: memo}
}

var menuCostDeps = []string{tableMenus, tableIngredients, tableRecipes}

// MenuCosts returns the per-menu cost breakdown, highest cost ratio first.
func (s *AnalyticsService) MenuCosts(ctx context.Context, storeID int64) ([]cost.MenuCost, error) {
	var cached []cost.MenuCost
	if ok, err := s.memo.Get(ctx, storeID, "menu_costs", "", menuCostDeps, &cached); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("cost analysis: memo get failed")
	}

	menus, recipes, ingredients, ok := s.loadMasters(ctx, storeID)
	if !ok {
		return []cost.MenuCost{}, nil
	}

	rows := s.calc.MenuCosts(menus, recipes, ingredients)
	if err := s.memo.Set(ctx, storeID, "menu_costs", "", menuCostDeps, rows); err != nil {
		log.Warn().Err(err).Msg("cost analysis: memo set failed")
	}
	return rows, nil
}

// ABC returns the contribution-graded menu ranking.
func (s *AnalyticsService) ABC(ctx context.Context, storeID int64) ([]cost.ABCRow, error) {
	menuCosts, err := s.MenuCosts(ctx, storeID)
	if err != nil {
		return []cost.ABCRow{}, nil
	}
	return s.calc.ABC(menuCosts), nil
}

// IngredientUsage explodes sold quantities over [start, end] into per-day
// per-ingredient consumption.
func (s *AnalyticsService) IngredientUsage(ctx context.Context, storeID int64, start, end time.Time) ([]cost.UsageRow, error) {
	items, err := s.sales.ListDailySalesItems(ctx, storeID, start, end)
	if err != nil {
		log.Warn().Err(err).Msg("cost analysis: sales items load failed")
		return []cost.UsageRow{}, nil
	}

	_, recipes, ingredients, ok := s.loadMasters(ctx, storeID)
	if !ok {
		return []cost.UsageRow{}, nil
	}
	return s.calc.IngredientUsage(items, recipes, ingredients), nil
}

// IngredientCosts rolls a usage window up into per-ingredient spend.
func (s *AnalyticsService) IngredientCosts(ctx context.Context, storeID int64, start, end time.Time) ([]cost.IngredientCost, error) {
	args := fmt.Sprintf("%s|%s", start.Format(time.DateOnly), end.Format(time.DateOnly))
	deps := []string{tableMenus, tableIngredients, tableRecipes, tableDailySalesItems}

	var cached []cost.IngredientCost
	if ok, err := s.memo.Get(ctx, storeID, "ingredient_costs", args, deps, &cached); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("cost analysis: memo get failed")
	}

	usage, err := s.IngredientUsage(ctx, storeID, start, end)
	if err != nil {
		return []cost.IngredientCost{}, nil
	}

	ingredients, err := s.master.ListIngredients(ctx, storeID)
	if err != nil {
		log.Warn().Err(err).Msg("cost analysis: ingredients load failed")
		return []cost.IngredientCost{}, nil
	}

	rows := s.calc.IngredientCosts(usage, ingredients)
	if err := s.memo.Set(ctx, storeID, "ingredient_costs", args, deps, rows); err != nil {
		log.Warn().Err(err).Msg("cost analysis: memo set failed")
	}
	return rows, nil
}

// loadMasters fetches the three master tables, reporting ok=false after a
// logged failure.
func (s *AnalyticsService) loadMasters(ctx context.Context, storeID int64) ([]domain.Menu, []domain.RecipeLine, []domain.Ingredient, bool) {
	menus, err := s.master.ListMenus(ctx, storeID)
	if err != nil {
		log.Warn().Err(err).Msg("cost analysis: menus load failed")
		return nil, nil, nil, false
	}
	recipes, err := s.master.ListRecipeLines(ctx, storeID)
	if err != nil {
		log.Warn().Err(err).Msg("cost analysis: recipes load failed")
		return nil, nil, nil, false
	}
	ingredients, err := s.master.ListIngredients(ctx, storeID)
	if err != nil {
		log.Warn().Err(err).Msg("cost analysis: ingredients load failed")
		return nil, nil, nil, false
	}
	return menus, recipes, ingredients, true
}
