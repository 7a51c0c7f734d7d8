package design

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
)

func TestBalanceScore(t *testing.T) {
	// Balanced portfolio keeps the full score.
	score := BalanceScore(6,
		map[string]int{RoleBait: 1, RoleVolume: 2, RoleMargin: 2, RoleUnclassified: 1},
		map[string]int{CategorySignature: 1, CategoryMain: 2, CategoryBait: 1, CategorySide: 2},
	)
	assert.Equal(t, 100, score)

	// No margin role, everything unclassified.
	score = BalanceScore(6,
		map[string]int{RoleUnclassified: 6},
		map[string]int{CategoryUnclassified: 6},
	)
	// -30 unclassified majority, -20 margin zero, -15 no signature,
	// -10 no bait, -10 no main, -15 category skew.
	assert.Equal(t, 0, score)

	assert.Equal(t, 0, BalanceScore(0, nil, nil))
}

func TestConcentration(t *testing.T) {
	rows := []IngredientUsage{
		{Name: "한우", Cost: 500_000},
		{Name: "돼지고기", Cost: 200_000},
		{Name: "쌀", Cost: 100_000},
		{Name: "배추", Cost: 100_000},
		{Name: "고춧가루", Cost: 50_000},
		{Name: "마늘", Cost: 50_000},
	}

	top3, top5 := Concentration(rows)
	assert.InDelta(t, 80.0, top3, 0.001)
	assert.InDelta(t, 95.0, top5, 0.001)

	top3, top5 = Concentration(nil)
	assert.Zero(t, top3)
	assert.Zero(t, top5)
}

func TestHighRiskIngredients(t *testing.T) {
	rows := []IngredientUsage{
		{Name: "한우", Cost: 300_000, SharePct: 30, MenuCount: 5},
		{Name: "돼지고기", Cost: 200_000, SharePct: 20, MenuCount: 2},
		{Name: "쌀", Cost: 500_000, SharePct: 50, MenuCount: 8},
	}
	// Sorted desc by cost before the call.
	sorted := []IngredientUsage{rows[2], rows[0], rows[1]}

	risky := HighRiskIngredients(sorted, 60.0, 3)
	require.Len(t, risky, 1)
	assert.Equal(t, "쌀", risky[0].Name)
	assert.Contains(t, risky[0].Reason, "연결 메뉴 8개")

	assert.Nil(t, HighRiskIngredients(nil, 20, 3))
}

func TestPortfolioStateDeductions(t *testing.T) {
	state := PortfolioState(PortfolioInsights{
		HasData:           true,
		MarginMenuCount:   0,
		UnclassifiedRatio: 35,
		BaitRatio:         55,
		BalanceScore:      30,
	})

	// 100 - 40 - 30 - 20 - 20 clamps to 0.
	assert.Equal(t, 0, state.Score)
	assert.Equal(t, domain.DesignRisk, state.Status)
	assert.Contains(t, state.Signals, "마진 메뉴 0개")
	assert.Contains(t, state.Signals, "미분류 메뉴 35%")
	assert.Contains(t, state.Signals, "유인 메뉴 과다 (55%)")
}

func TestPortfolioStateHealthy(t *testing.T) {
	state := PortfolioState(PortfolioInsights{
		HasData:         true,
		MarginMenuCount: 2,
		BalanceScore:    80,
	})
	assert.Equal(t, 100, state.Score)
	assert.Equal(t, domain.DesignStable, state.Status)
	assert.Equal(t, []string{"포트폴리오 구조 양호"}, state.Signals)
}

func TestProfitStateBands(t *testing.T) {
	state := ProfitState(ProfitInsights{
		HasData:              true,
		WorstCogsRatio:       42,
		HighCogsMenuCount:    2,
		LowContributionCount: 1,
	})
	// 100 - 25 - 15 - 10 = 50.
	assert.Equal(t, 50, state.Score)
	assert.Equal(t, domain.DesignWarning, state.Status)

	state = ProfitState(ProfitInsights{HasData: false})
	assert.Equal(t, 0, state.Score)
	assert.Equal(t, domain.DesignRisk, state.Status)
	assert.Equal(t, []string{"메뉴 원가 데이터 없음"}, state.Signals)
}

func TestIngredientStateDeductions(t *testing.T) {
	state := IngredientState(IngredientInsights{
		HasData:                true,
		Top3Concentration:      0.65,
		HighRiskCount:          1,
		MissingSubstituteCount: 3,
		MissingOrderTypeCount:  2,
	})
	// 100 - 25 - 15 - 20 = 40.
	assert.Equal(t, 40, state.Score)
	assert.Equal(t, domain.DesignWarning, state.Status)
	assert.Contains(t, state.Signals, "TOP3 재료 집중도 65%")
}

func TestRevenueStateBands(t *testing.T) {
	cases := []struct {
		gap    float64
		score  int
		status string
	}{
		{0.75, 50, domain.DesignWarning},
		{0.95, 70, domain.DesignStable},
		{1.10, 90, domain.DesignStable},
		{1.30, 100, domain.DesignStable},
	}
	for _, tc := range cases {
		state := RevenueState(RevenueInsights{HasData: true, BreakEvenGapRatio: tc.gap})
		assert.Equal(t, tc.score, state.Score, "gap %.2f", tc.gap)
		assert.Equal(t, tc.status, state.Status, "gap %.2f", tc.gap)
	}
}

func TestBuildSummaryPrimaryConcern(t *testing.T) {
	summary := BuildSummary(
		PortfolioInsights{HasData: true, MarginMenuCount: 1, BalanceScore: 80},
		ProfitInsights{HasData: true, WorstCogsRatio: 55, HighCogsMenuCount: 4, LowContributionCount: 3}, // 100-40-30-25=5 risk
		IngredientInsights{HasData: true},
		RevenueInsights{HasData: true, BreakEvenGapRatio: 0.75}, // 50 warning
	)

	assert.Equal(t, domain.DesignRisk, summary.MenuProfit.Status)
	assert.Equal(t, AreaMenuProfit, summary.PrimaryConcern)
}

func TestBuildSummaryFallsBackToWorstWarning(t *testing.T) {
	summary := BuildSummary(
		PortfolioInsights{HasData: true, MarginMenuCount: 1, UnclassifiedRatio: 25, BalanceScore: 50}, // 100-15-10=75 stable
		ProfitInsights{HasData: true, HighCogsMenuCount: 3, LowContributionCount: 1},                  // 100-30-10=60 warning
		IngredientInsights{HasData: true, Top3Concentration: 0.72, HighRiskCount: 1},                  // 100-40-15=45 warning
		RevenueInsights{HasData: true, BreakEvenGapRatio: 1.5},                                        // 100 stable
	)

	assert.Equal(t, AreaIngredientStructure, summary.PrimaryConcern)
}

func TestBuildSummaryAllStablePicksLowest(t *testing.T) {
	summary := BuildSummary(
		PortfolioInsights{HasData: true, MarginMenuCount: 1, BalanceScore: 90},
		ProfitInsights{HasData: true},
		IngredientInsights{HasData: true},
		RevenueInsights{HasData: true, BreakEvenGapRatio: 1.1}, // 90, lowest of four
	)

	// Every area is stable, so the concern falls back to the lowest score.
	assert.Equal(t, domain.DesignStable, summary.RevenueStructure.Status)
	assert.Equal(t, AreaRevenueStructure, summary.PrimaryConcern)
}

func TestBuildSummaryAllEqualTiesOnOrder(t *testing.T) {
	summary := BuildSummary(
		PortfolioInsights{HasData: true, MarginMenuCount: 1, BalanceScore: 90},
		ProfitInsights{HasData: true},
		IngredientInsights{HasData: true},
		RevenueInsights{HasData: true, BreakEvenGapRatio: 1.5},
	)
	assert.Equal(t, AreaMenuPortfolio, summary.PrimaryConcern)
}
