// internal/service/design_service.go
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/storecoach-kr/storecoach-backend/internal/cache"
	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/engine/design"
	"github.com/storecoach-kr/storecoach-backend/internal/repository"
	"github.com/storecoach-kr/storecoach-backend/pkg/numeric"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

// High-risk ingredient screening: inside the cumulative top 20% of spend and
// feeding at least three menus.
const (
	highRiskCostSharePct = 20.0
	highRiskMenuLinks    = 3

	ingredientWindowDays = 30
)

var designRoles = map[string]bool{
	design.RoleBait:         true,
	design.RoleVolume:       true,
	design.RoleMargin:       true,
	design.RoleUnclassified: true,
}

var designCategories = map[string]bool{
	design.CategorySignature:    true,
	design.CategoryMain:         true,
	design.CategoryBait:         true,
	design.CategorySide:         true,
	design.CategoryOther:        true,
	design.CategoryUnclassified: true,
}

// DesignService composes the four structural design areas into the summary
// scorecard.
type DesignService struct {
	master    repository.MasterRepository
	analytics *AnalyticsService
	finance   *FinanceService
	clock     timeutil.Clock
	memo      cache.Memoizer
}

func NewDesignService(master repository.MasterRepository, analytics *AnalyticsService, finance *FinanceService, clock timeutil.Clock, memo cache.Memoizer) *DesignService {
	if memo == nil {
		memo = cache.NewNoopMemoizer()
	}
	return &DesignService{master: master, analytics: analytics, finance: finance, clock: clock, memo: memo}
}

var designDeps = []string{
	tableMenus, tableIngredients, tableRecipes, tableMenuRoleTags, tableIngredientStates,
	tableDailySales, tableDailyCloses, tableDailySalesItems, tableExpenseStructure,
}

// Summary scores the four design areas and names the primary concern.
func (s *DesignService) Summary(ctx context.Context, storeID int64) (design.Summary, error) {
	var cached design.Summary
	if ok, err := s.memo.Get(ctx, storeID, "design_summary", "", designDeps, &cached); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("design: memo get failed")
	}

	summary := design.BuildSummary(
		s.portfolioInsights(ctx, storeID),
		s.profitInsights(ctx, storeID),
		s.ingredientInsights(ctx, storeID),
		s.revenueInsights(ctx, storeID),
	)

	if err := s.memo.Set(ctx, storeID, "design_summary", "", designDeps, summary); err != nil {
		log.Warn().Err(err).Msg("design: memo set failed")
	}
	return summary, nil
}

func (s *DesignService) portfolioInsights(ctx context.Context, storeID int64) design.PortfolioInsights {
	menus, err := s.master.ListMenus(ctx, storeID)
	if err != nil {
		log.Warn().Err(err).Msg("design: menus load failed")
		return design.PortfolioInsights{}
	}
	if len(menus) == 0 {
		return design.PortfolioInsights{}
	}

	tags, err := s.master.ListMenuRoleTags(ctx, storeID)
	if err != nil {
		log.Warn().Err(err).Msg("design: role tags load failed")
		tags = nil
	}
	tagByMenu := make(map[int64]domain.MenuRoleTag, len(tags))
	for _, tag := range tags {
		tagByMenu[tag.MenuID] = tag
	}

	roleCounts := map[string]int{}
	categoryCounts := map[string]int{}
	for _, menu := range menus {
		role, category := design.RoleUnclassified, design.CategoryUnclassified
		if tag, ok := tagByMenu[menu.ID]; ok {
			if tag.Role != "" {
				role = tag.Role
			}
			if tag.Category != "" {
				category = tag.Category
			}
		}
		roleCounts[role]++
		categoryCounts[category]++
	}

	total := len(menus)
	return design.PortfolioInsights{
		HasData:           true,
		MarginMenuCount:   roleCounts[design.RoleMargin],
		UnclassifiedRatio: numeric.Round2(numeric.Percent(float64(roleCounts[design.RoleUnclassified]), float64(total))),
		BaitRatio:         numeric.Round2(numeric.Percent(float64(roleCounts[design.RoleBait]), float64(total))),
		VolumeRatio:       numeric.Round2(numeric.Percent(float64(roleCounts[design.RoleVolume]), float64(total))),
		BalanceScore:      design.BalanceScore(total, roleCounts, categoryCounts),
	}
}

func (s *DesignService) profitInsights(ctx context.Context, storeID int64) design.ProfitInsights {
	menuCosts, _ := s.analytics.MenuCosts(ctx, storeID)
	if len(menuCosts) == 0 {
		return design.ProfitInsights{}
	}

	out := design.ProfitInsights{
		HasData:        true,
		WorstCogsRatio: menuCosts[0].CostRatio, // sorted by ratio descending
	}
	var contributionSum float64
	for _, mc := range menuCosts {
		if mc.IsHighCost {
			out.HighCogsMenuCount++
		}
		// Low contribution: under 20% of the sale price.
		if mc.SalePrice > 0 && mc.Contribution < float64(mc.SalePrice)*0.2 {
			out.LowContributionCount++
		}
		contributionSum += mc.Contribution
	}
	out.AvgContributionMargin = numeric.Round2(contributionSum / float64(len(menuCosts)))
	return out
}

func (s *DesignService) ingredientInsights(ctx context.Context, storeID int64) design.IngredientInsights {
	end := timeutil.DateOf(s.clock.NowKST())
	start := end.AddDate(0, 0, -(ingredientWindowDays - 1))
	costs, _ := s.analytics.IngredientCosts(ctx, storeID, start, end)
	if len(costs) == 0 {
		return design.IngredientInsights{}
	}

	menuLinks := s.menuLinkCounts(ctx, storeID)

	rows := make([]design.IngredientUsage, 0, len(costs))
	usedIDs := make([]int64, 0, len(costs))
	for _, c := range costs {
		rows = append(rows, design.IngredientUsage{
			Name:      c.IngredientName,
			Cost:      c.TotalCost,
			SharePct:  c.CostShare,
			MenuCount: menuLinks[c.IngredientID],
		})
		usedIDs = append(usedIDs, c.IngredientID)
	}

	top3, _ := design.Concentration(rows)
	missingSubstitute, missingOrderType := s.missingStateCounts(ctx, storeID, usedIDs)

	return design.IngredientInsights{
		HasData:                true,
		Top3Concentration:      top3 / 100,
		HighRiskCount:          len(design.HighRiskIngredients(rows, highRiskCostSharePct, highRiskMenuLinks)),
		MissingSubstituteCount: missingSubstitute,
		MissingOrderTypeCount:  missingOrderType,
	}
}

// menuLinkCounts returns how many distinct menus each ingredient feeds.
func (s *DesignService) menuLinkCounts(ctx context.Context, storeID int64) map[int64]int {
	recipes, err := s.master.ListRecipeLines(ctx, storeID)
	if err != nil {
		log.Warn().Err(err).Msg("design: recipes load failed")
		return map[int64]int{}
	}
	menus := make(map[int64]map[int64]bool)
	for _, line := range recipes {
		if menus[line.IngredientID] == nil {
			menus[line.IngredientID] = map[int64]bool{}
		}
		menus[line.IngredientID][line.MenuID] = true
	}
	out := make(map[int64]int, len(menus))
	for id, set := range menus {
		out[id] = len(set)
	}
	return out
}

// missingStateCounts counts used ingredients without a substitutability
// decision or an order type.
func (s *DesignService) missingStateCounts(ctx context.Context, storeID int64, usedIDs []int64) (missingSubstitute, missingOrderType int) {
	states, err := s.master.ListIngredientStates(ctx, storeID)
	if err != nil {
		log.Warn().Err(err).Msg("design: ingredient states load failed")
		states = nil
	}
	stateByID := make(map[int64]domain.IngredientStructureState, len(states))
	for _, st := range states {
		stateByID[st.IngredientID] = st
	}

	for _, id := range usedIDs {
		st, ok := stateByID[id]
		if !ok || st.IsSubstitutable == nil {
			missingSubstitute++
		}
		if !ok || st.OrderType == "" || st.OrderType == "unset" {
			missingOrderType++
		}
	}
	return missingSubstitute, missingOrderType
}

func (s *DesignService) revenueInsights(ctx context.Context, storeID int64) design.RevenueInsights {
	now := s.clock.NowKST()
	analysis, _ := s.finance.BreakEven(ctx, storeID, now.Year(), int(now.Month()))
	if analysis.BreakEvenSales <= 0 {
		return design.RevenueInsights{}
	}

	expected := float64(analysis.MonthlySales) / float64(now.Day()) * 30
	return design.RevenueInsights{
		HasData:            true,
		BreakEvenSales:     analysis.BreakEvenSales,
		ExpectedMonthSales: numeric.Round2(expected),
		BreakEvenGapRatio:  numeric.Round2(expected / float64(analysis.BreakEvenSales)),
	}
}

// SaveMenuRoleTag classifies one menu for the portfolio design room.
func (s *DesignService) SaveMenuRoleTag(ctx context.Context, tag domain.MenuRoleTag) error {
	if !designRoles[tag.Role] {
		return domain.NewValidationError("role", tag.Role, "must be bait, volume, margin or unclassified")
	}
	if !designCategories[tag.Category] {
		return domain.NewValidationError("category", tag.Category, "unknown portfolio category")
	}
	if err := s.master.SaveMenuRoleTag(ctx, tag); err != nil {
		return fmt.Errorf("error saving menu role tag: %w", err)
	}
	s.bump(ctx, tag.StoreID, tableMenuRoleTags)
	return nil
}

// SaveIngredientState records one ingredient's design decisions.
func (s *DesignService) SaveIngredientState(ctx context.Context, state domain.IngredientStructureState) error {
	if state.OrderType == "" {
		state.OrderType = "unset"
	}
	if err := s.master.SaveIngredientState(ctx, state); err != nil {
		return fmt.Errorf("error saving ingredient state: %w", err)
	}
	s.bump(ctx, state.StoreID, tableIngredientStates)
	return nil
}

func (s *DesignService) bump(ctx context.Context, storeID int64, tables ...string) {
	if err := s.memo.BumpVersions(ctx, storeID, tables...); err != nil {
		log.Warn().Err(err).Msg("design: version bump failed")
	}
}
