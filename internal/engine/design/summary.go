// internal/engine/design/summary.go
package design

import (
	"fmt"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/pkg/numeric"
)

// Area keys of the design summary, in canonical order.
const (
	AreaMenuPortfolio       = "menu_portfolio"
	AreaMenuProfit          = "menu_profit"
	AreaIngredientStructure = "ingredient_structure"
	AreaRevenueStructure    = "revenue_structure"
)

var areaOrder = []string{AreaMenuPortfolio, AreaMenuProfit, AreaIngredientStructure, AreaRevenueStructure}

// AreaState is one structure's scored state.
type AreaState struct {
	Score   int      `json:"score"`
	Status  string   `json:"status"`
	Signals []string `json:"signals"`
}

// Summary is the four-structure design readout for the current month.
type Summary struct {
	MenuPortfolio       AreaState `json:"menu_portfolio"`
	MenuProfit          AreaState `json:"menu_profit"`
	IngredientStructure AreaState `json:"ingredient_structure"`
	RevenueStructure    AreaState `json:"revenue_structure"`
	PrimaryConcern      string    `json:"primary_concern,omitempty"`
}

func statusOf(score int) string {
	switch {
	case score >= 70:
		return domain.DesignStable
	case score >= 40:
		return domain.DesignWarning
	default:
		return domain.DesignRisk
	}
}

func noData(signal string) AreaState {
	return AreaState{Score: 0, Status: domain.DesignRisk, Signals: []string{signal}}
}

func finish(score int, signals []string, okSignal string) AreaState {
	score = numeric.ClampScore(score)
	if len(signals) == 0 {
		signals = []string{okSignal}
	}
	return AreaState{Score: score, Status: statusOf(score), Signals: signals}
}

// PortfolioState scores the menu portfolio structure.
func PortfolioState(in PortfolioInsights) AreaState {
	if !in.HasData {
		return noData("메뉴 데이터 없음")
	}

	score := 100
	var signals []string

	if in.MarginMenuCount == 0 {
		signals = append(signals, "마진 메뉴 0개")
		score -= 40
	}

	switch {
	case in.UnclassifiedRatio >= 30:
		signals = append(signals, fmt.Sprintf("미분류 메뉴 %.0f%%", in.UnclassifiedRatio))
		score -= 30
	case in.UnclassifiedRatio >= 20:
		signals = append(signals, fmt.Sprintf("미분류 메뉴 %.0f%%", in.UnclassifiedRatio))
		score -= 15
	}

	if in.BaitRatio >= 50 {
		signals = append(signals, fmt.Sprintf("유인 메뉴 과다 (%.0f%%)", in.BaitRatio))
		score -= 20
	}

	switch {
	case in.BalanceScore < 40:
		signals = append(signals, "포트폴리오 균형 불량")
		score -= 20
	case in.BalanceScore < 60:
		signals = append(signals, "포트폴리오 균형 개선 필요")
		score -= 10
	}

	return finish(score, signals, "포트폴리오 구조 양호")
}

// ProfitState scores the menu profit structure.
func ProfitState(in ProfitInsights) AreaState {
	if !in.HasData {
		return noData("메뉴 원가 데이터 없음")
	}

	score := 100
	var signals []string

	switch {
	case in.WorstCogsRatio >= 50:
		signals = append(signals, fmt.Sprintf("최악 원가율 %.0f%%", in.WorstCogsRatio))
		score -= 40
	case in.WorstCogsRatio >= 40:
		signals = append(signals, fmt.Sprintf("고원가율 메뉴 존재 (%.0f%%)", in.WorstCogsRatio))
		score -= 25
	}

	switch {
	case in.HighCogsMenuCount >= 3:
		signals = append(signals, fmt.Sprintf("고원가율 메뉴 %d개", in.HighCogsMenuCount))
		score -= 30
	case in.HighCogsMenuCount >= 1:
		signals = append(signals, fmt.Sprintf("고원가율 메뉴 %d개", in.HighCogsMenuCount))
		score -= 15
	}

	switch {
	case in.LowContributionCount >= 3:
		signals = append(signals, fmt.Sprintf("저공헌이익 메뉴 %d개", in.LowContributionCount))
		score -= 25
	case in.LowContributionCount >= 1:
		signals = append(signals, fmt.Sprintf("저공헌이익 메뉴 %d개", in.LowContributionCount))
		score -= 10
	}

	return finish(score, signals, "메뉴 수익 구조 양호")
}

// IngredientState scores the ingredient structure.
func IngredientState(in IngredientInsights) AreaState {
	if !in.HasData {
		return noData("재료 데이터 없음")
	}

	score := 100
	var signals []string

	switch {
	case in.Top3Concentration >= 0.70:
		signals = append(signals, fmt.Sprintf("TOP3 재료 집중도 %.0f%%", in.Top3Concentration*100))
		score -= 40
	case in.Top3Concentration >= 0.60:
		signals = append(signals, fmt.Sprintf("TOP3 재료 집중도 %.0f%%", in.Top3Concentration*100))
		score -= 25
	}

	switch {
	case in.HighRiskCount >= 3:
		signals = append(signals, fmt.Sprintf("고위험 재료 %d개", in.HighRiskCount))
		score -= 30
	case in.HighRiskCount >= 1:
		signals = append(signals, fmt.Sprintf("고위험 재료 %d개", in.HighRiskCount))
		score -= 15
	}

	if in.MissingSubstituteCount >= 3 {
		signals = append(signals, fmt.Sprintf("대체재 미설정 %d개", in.MissingSubstituteCount))
		score -= 20
	}

	if in.MissingOrderTypeCount >= 3 {
		signals = append(signals, fmt.Sprintf("발주유형 미설정 %d개", in.MissingOrderTypeCount))
		score -= 15
	}

	return finish(score, signals, "재료 구조 양호")
}

// RevenueState scores the revenue structure by its break-even position.
func RevenueState(in RevenueInsights) AreaState {
	if !in.HasData {
		return noData("수익 구조 데이터 없음")
	}

	score := 100
	var signals []string

	switch {
	case in.BreakEvenGapRatio < 0.8:
		signals = append(signals, fmt.Sprintf("손익분기점 대비 %.0f%%", in.BreakEvenGapRatio*100))
		score -= 50
	case in.BreakEvenGapRatio < 1.0:
		signals = append(signals, fmt.Sprintf("손익분기점 근접 (%.0f%%)", in.BreakEvenGapRatio*100))
		score -= 30
	case in.BreakEvenGapRatio < 1.2:
		signals = append(signals, fmt.Sprintf("손익분기점 여유 적음 (%.0f%%)", in.BreakEvenGapRatio*100))
		score -= 10
	}

	return finish(score, signals, "수익 구조 양호")
}

// BuildSummary folds the four area insights into the month's design summary.
func BuildSummary(portfolio PortfolioInsights, profit ProfitInsights, ingredient IngredientInsights, revenue RevenueInsights) Summary {
	s := Summary{
		MenuPortfolio:       PortfolioState(portfolio),
		MenuProfit:          ProfitState(profit),
		IngredientStructure: IngredientState(ingredient),
		RevenueStructure:    RevenueState(revenue),
	}
	s.PrimaryConcern = primaryConcern(s)
	return s
}

func (s Summary) area(key string) AreaState {
	switch key {
	case AreaMenuPortfolio:
		return s.MenuPortfolio
	case AreaMenuProfit:
		return s.MenuProfit
	case AreaIngredientStructure:
		return s.IngredientStructure
	default:
		return s.RevenueStructure
	}
}

// primaryConcern picks the lowest-scoring risk area; with no risk areas, the
// lowest-scoring area overall. Ties resolve in canonical area order.
func primaryConcern(s Summary) string {
	best := ""
	bestScore := 101
	for _, key := range areaOrder {
		a := s.area(key)
		if a.Status == domain.DesignRisk && a.Score < bestScore {
			best = key
			bestScore = a.Score
		}
	}
	if best != "" {
		return best
	}

	for _, key := range areaOrder {
		a := s.area(key)
		if a.Score < bestScore {
			best = key
			bestScore = a.Score
		}
	}
	return best
}
