// internal/engine/design/insights.go
package design

import (
	"fmt"
	"strings"

	"github.com/storecoach-kr/storecoach-backend/pkg/numeric"
)

// Menu roles and portfolio categories used by the balance score.
const (
	RoleBait         = "bait"
	RoleVolume       = "volume"
	RoleMargin       = "margin"
	RoleUnclassified = "unclassified"
)

const (
	CategorySignature    = "signature"
	CategoryMain         = "main"
	CategoryBait         = "bait"
	CategorySide         = "side"
	CategoryOther        = "other"
	CategoryUnclassified = "unclassified"
)

// PortfolioInsights summarizes menu role and category classification.
type PortfolioInsights struct {
	HasData           bool    `json:"has_data"`
	MarginMenuCount   int     `json:"margin_menu_count"`
	UnclassifiedRatio float64 `json:"role_unclassified_ratio"`
	BaitRatio         float64 `json:"bait_ratio"`
	VolumeRatio       float64 `json:"volume_ratio"`
	BalanceScore      int     `json:"portfolio_balance_score"`
}

// ProfitInsights summarizes per-menu cost structure.
type ProfitInsights struct {
	HasData               bool    `json:"has_data"`
	HighCogsMenuCount     int     `json:"high_cogs_ratio_menu_count"`
	WorstCogsRatio        float64 `json:"worst_cogs_ratio"`
	LowContributionCount  int     `json:"low_contribution_menu_count"`
	AvgContributionMargin float64 `json:"avg_contribution_margin"`
}

// IngredientInsights summarizes ingredient cost concentration and setup gaps.
// Top3Concentration is a 0..1 fraction.
type IngredientInsights struct {
	HasData                bool    `json:"has_data"`
	Top3Concentration      float64 `json:"top3_concentration"`
	HighRiskCount          int     `json:"high_risk_ingredient_count"`
	MissingSubstituteCount int     `json:"missing_substitute_count"`
	MissingOrderTypeCount  int     `json:"missing_order_type_count"`
}

// RevenueInsights summarizes the month's position against break-even.
type RevenueInsights struct {
	HasData            bool    `json:"has_data"`
	BreakEvenSales     int64   `json:"break_even_sales"`
	ExpectedMonthSales float64 `json:"expected_month_sales"`
	BreakEvenGapRatio  float64 `json:"break_even_gap_ratio"`
}

// BalanceScore scores role and category balance 0-100. Deductions fire on
// missing roles for stores that have enough menus and on any role or category
// dominating the list.
func BalanceScore(total int, roleCounts, categoryCounts map[string]int) int {
	if total == 0 {
		return 0
	}

	score := 100
	ftotal := float64(total)

	classified := total - roleCounts[RoleUnclassified]
	if float64(classified) < ftotal*0.5 {
		score -= 30
	}
	if float64(roleCounts[RoleBait]) > ftotal*0.5 {
		score -= 20
	}
	if float64(roleCounts[RoleVolume]) > ftotal*0.6 {
		score -= 15
	}
	if roleCounts[RoleMargin] == 0 && total >= 3 {
		score -= 20
	}

	if categoryCounts[CategorySignature] == 0 && total >= 3 {
		score -= 15
	}
	if categoryCounts[CategoryBait] == 0 && total >= 5 {
		score -= 10
	}
	if categoryCounts[CategoryMain] == 0 && total >= 5 {
		score -= 10
	}

	maxCategory := 0
	for _, n := range categoryCounts {
		if n > maxCategory {
			maxCategory = n
		}
	}
	if float64(maxCategory) > ftotal*0.7 {
		score -= 15
	}

	return numeric.ClampScore(score)
}

// IngredientUsage is one ingredient's aggregate cost position, sorted by Cost
// descending before concentration math.
type IngredientUsage struct {
	Name      string  `json:"name"`
	Cost      float64 `json:"cost"`
	SharePct  float64 `json:"share_pct"`
	MenuCount int     `json:"menu_count"`
	Reason    string  `json:"reason,omitempty"`
}

// Concentration returns the top-3 and top-5 cost share percentages of rows
// already sorted by cost descending.
func Concentration(rows []IngredientUsage) (top3Pct, top5Pct float64) {
	var total float64
	for _, r := range rows {
		total += r.Cost
	}
	if total == 0 {
		return 0, 0
	}

	var top3, top5 float64
	for i, r := range rows {
		if i < 3 {
			top3 += r.Cost
		}
		if i < 5 {
			top5 += r.Cost
		}
	}
	return numeric.Percent(top3, total), numeric.Percent(top5, total)
}

// HighRiskIngredients flags ingredients inside the cumulative top
// costThresholdPct of spend that feed at least menuThreshold menus. Rows must
// be sorted by cost descending.
func HighRiskIngredients(rows []IngredientUsage, costThresholdPct float64, menuThreshold int) []IngredientUsage {
	var total float64
	for _, r := range rows {
		total += r.Cost
	}
	if total == 0 {
		return nil
	}
	thresholdCost := total * costThresholdPct / 100

	var out []IngredientUsage
	var cumulative float64
	for _, r := range rows {
		cumulative += r.Cost
		if cumulative > thresholdCost {
			break
		}
		if r.MenuCount < menuThreshold {
			continue
		}

		var reasons []string
		if r.SharePct >= costThresholdPct {
			reasons = append(reasons, fmt.Sprintf("원가 비중 %.1f%%", r.SharePct))
		}
		reasons = append(reasons, fmt.Sprintf("연결 메뉴 %d개", r.MenuCount))
		r.Reason = strings.Join(reasons, " / ")
		out = append(out, r)
	}
	return out
}
