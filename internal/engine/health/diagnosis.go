// internal/engine/health/diagnosis.go
package health

import (
	"fmt"
	"sort"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/pkg/numeric"
)

// Axis levels on the 0-10 reporting scale.
const (
	axisGood = "good"
	axisMid  = "mid"
	axisHigh = "high"
)

type axisMeta struct {
	name string
	high string
	mid  string
	good string
}

var axisMetas = map[string]axisMeta{
	"Q":  {name: "품질", high: "품질 붕괴 위험", mid: "품질 불안정", good: "품질 안정"},
	"S":  {name: "서비스", high: "재방문 붕괴 위험", mid: "경험 일관성 부족", good: "서비스 안정"},
	"C":  {name: "청결", high: "위생 리스크", mid: "관리 불안정", good: "청결 안정"},
	"P1": {name: "가격", high: "가격 신뢰 붕괴", mid: "가격 저항 가능성", good: "가격 구조 안정"},
	"P2": {name: "공간", high: "공간 매력 상실", mid: "체류 매력 약함", good: "공간 경쟁력"},
	"P3": {name: "입지", high: "입지 활용 실패", mid: "입지 대비 효율 낮음", good: "입지 활용 양호"},
	"M":  {name: "마케팅", high: "유입 구조 부재", mid: "인지 약함", good: "유입 구조 존재"},
	"H":  {name: "인적자원", high: "운영 붕괴 신호", mid: "교육/관리 미흡", good: "운영 안정"},
	"F":  {name: "재무", high: "수익 구조 위험", mid: "이익 구조 불안", good: "수익 구조 안정"},
}

func axisLevel(score float64) string {
	switch {
	case score >= 75:
		return axisGood
	case score >= 50:
		return axisMid
	default:
		return axisHigh
	}
}

type patternDef struct {
	code        string
	title       string
	description string
	weight      float64
	condition   func(s map[string]float64) bool
}

// Pattern thresholds are on the 0-100 category scale; a missing axis counts
// as 0.
var patternDefs = []patternDef{
	{
		code:        "OPERATION_BREAKDOWN",
		title:       "운영 붕괴형",
		description: "인력·서비스·위생 축이 동시에 약화된 상태로, 숫자보다 현장 붕괴가 먼저 오는 유형",
		weight:      3.0,
		condition: func(s map[string]float64) bool {
			return s["H"] < 52 && s["S"] < 52 && s["C"] < 52
		},
	},
	{
		code:        "REVISIT_COLLAPSE",
		title:       "재방문 붕괴형",
		description: "품질과 서비스가 동시에 낮아 고객 재방문이 급격히 감소하는 패턴",
		weight:      2.5,
		condition: func(s map[string]float64) bool {
			return s["Q"] < 55 && s["S"] < 55
		},
	},
	{
		code:        "PRICE_STRUCTURE_RISK",
		title:       "가격/마진 붕괴형",
		description: "가격 신뢰도와 재무 구조가 동시에 약화되어 수익성이 위협받는 상태",
		weight:      2.5,
		condition: func(s map[string]float64) bool {
			return s["P1"] < 50 && s["F"] < 55
		},
	},
	{
		code:        "PRODUCT_STRUCTURE_WEAK",
		title:       "상품·공간 매력 저하형",
		description: "품질과 공간 매력이 동시에 낮아 고객 만족도가 급격히 하락하는 패턴",
		weight:      2.0,
		condition: func(s map[string]float64) bool {
			return s["Q"] < 60 && s["P2"] < 55
		},
	},
	{
		code:        "GROWTH_BLOCKED",
		title:       "입지 대비 성장 실패형",
		description: "입지는 좋지만 마케팅이 부재하여 성장 기회를 놓치고 있는 상태",
		weight:      1.5,
		condition: func(s map[string]float64) bool {
			return s["M"] < 50 && s["P3"] >= 60
		},
	},
	{
		code:        "FINANCIAL_DANGER",
		title:       "생존선 위험형",
		description: "재무 구조가 생존선 이하로 떨어져 즉각적인 구조 개선이 필요한 상태",
		weight:      3.5,
		condition: func(s map[string]float64) bool {
			return s["F"] < 48
		},
	},
}

var stablePattern = domain.HealthPattern{
	Code:        "STABLE",
	Title:       "안정형",
	Description: "모든 축이 안정적인 상태로, 현재 구조를 유지하면서 점진적 개선이 가능한 상태",
}

// Diagnose turns per-category averages into the management reading stored on
// the session: top risks, the detected pattern, a short readout and strategy
// weights. Pure; safe on partial score maps.
func Diagnose(axisScores map[string]float64) domain.HealthDiagnosis {
	risks := topRisks(axisScores)
	pattern := detectPattern(axisScores)

	return domain.HealthDiagnosis{
		PrimaryPattern: pattern,
		RiskAxes:       risks,
		InsightSummary: insightSummary(pattern, risks),
		StrategyBias:   strategyBias(pattern.Code, axisScores),
	}
}

// topRisks returns up to three axes, worst level first, ascending score
// inside a level.
func topRisks(axisScores map[string]float64) []domain.RiskAxis {
	levelPriority := map[string]int{axisHigh: 0, axisMid: 1, axisGood: 2}

	items := make([]domain.RiskAxis, 0, len(axisScores))
	for _, axis := range domain.HealthCategories {
		score, ok := axisScores[axis]
		if !ok {
			continue
		}
		meta := axisMetas[axis]
		level := axisLevel(score)
		reason := meta.good
		switch level {
		case axisHigh:
			reason = meta.high
		case axisMid:
			reason = meta.mid
		}
		items = append(items, domain.RiskAxis{
			Axis:   axis,
			Score:  numeric.Round2(score / 10),
			Level:  level,
			Reason: reason,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if levelPriority[items[i].Level] != levelPriority[items[j].Level] {
			return levelPriority[items[i].Level] < levelPriority[items[j].Level]
		}
		return items[i].Score < items[j].Score
	})

	if len(items) > 3 {
		items = items[:3]
	}
	return items
}

func detectPattern(axisScores map[string]float64) domain.HealthPattern {
	var best *patternDef
	for i := range patternDefs {
		def := &patternDefs[i]
		if !def.condition(axisScores) {
			continue
		}
		if best == nil || def.weight > best.weight {
			best = def
		}
	}
	if best == nil {
		return stablePattern
	}
	return domain.HealthPattern{Code: best.code, Title: best.title, Description: best.description}
}

func insightSummary(pattern domain.HealthPattern, risks []domain.RiskAxis) []string {
	insights := []string{
		fmt.Sprintf("이번 검진 기준, 이 가게는 '%s' 패턴이 감지됩니다.", pattern.Title),
	}

	var high, mid []domain.RiskAxis
	for _, r := range risks {
		switch r.Level {
		case axisHigh:
			high = append(high, r)
		case axisMid:
			mid = append(mid, r)
		}
	}

	switch {
	case len(high) >= 2:
		insights = append(insights, fmt.Sprintf("%s(%s), %s(%s) 축이 동시에 낮아 현장 운영 리스크가 큽니다.",
			axisMetas[high[0].Axis].name, high[0].Axis, axisMetas[high[1].Axis].name, high[1].Axis))
	case len(high) == 1:
		insights = append(insights, fmt.Sprintf("%s(%s) 축이 매우 낮아 즉각적인 개선이 필요합니다.",
			axisMetas[high[0].Axis].name, high[0].Axis))
	case len(mid) >= 1:
		insights = append(insights, fmt.Sprintf("%s(%s) 축이 불안정하여 지속적인 모니터링이 필요합니다.",
			axisMetas[mid[0].Axis].name, mid[0].Axis))
	default:
		insights = append(insights, "현재 모든 축이 안정적인 상태입니다.")
	}

	switch pattern.Code {
	case "OPERATION_BREAKDOWN":
		insights = append(insights, "이 상태에서 가격·메뉴 개편을 먼저 시도하면 실패 확률이 높습니다. 운영 안정화를 최우선으로 해야 합니다.")
	case "REVISIT_COLLAPSE":
		insights = append(insights, "품질과 서비스 개선 없이는 마케팅 투자 효과가 제한적입니다.")
	case "PRICE_STRUCTURE_RISK":
		insights = append(insights, "가격 구조와 재무 구조를 동시에 개선해야 지속 가능한 수익 구조를 만들 수 있습니다.")
	case "FINANCIAL_DANGER":
		insights = append(insights, "즉각적인 재무 구조 개선이 필요합니다. 생존선 이하 상태입니다.")
	case "GROWTH_BLOCKED":
		insights = append(insights, "입지 대비 마케팅이 부재하여 성장 기회를 놓치고 있습니다.")
	default:
		insights = append(insights, "현재 구조를 유지하면서 점진적 개선을 추진하세요.")
	}

	return insights
}

func strategyBias(patternCode string, axisScores map[string]float64) map[string]float64 {
	bias := map[string]float64{
		"operation_fix":   0.2,
		"menu_structure":  0.2,
		"pricing":         0.2,
		"marketing":       0.2,
		"finance_control": 0.2,
	}

	switch patternCode {
	case "OPERATION_BREAKDOWN":
		bias["operation_fix"] = 0.85
		bias["menu_structure"] = 0.15
		bias["pricing"] = 0.10
		bias["marketing"] = 0.05
		bias["finance_control"] = 0.25
	case "REVISIT_COLLAPSE":
		bias["operation_fix"] = 0.70
		bias["menu_structure"] = 0.30
		bias["pricing"] = 0.15
		bias["marketing"] = 0.20
		bias["finance_control"] = 0.20
	case "PRICE_STRUCTURE_RISK":
		bias["operation_fix"] = 0.30
		bias["menu_structure"] = 0.25
		bias["pricing"] = 0.80
		bias["marketing"] = 0.15
		bias["finance_control"] = 0.70
	case "PRODUCT_STRUCTURE_WEAK":
		bias["operation_fix"] = 0.40
		bias["menu_structure"] = 0.75
		bias["pricing"] = 0.30
		bias["marketing"] = 0.25
		bias["finance_control"] = 0.30
	case "GROWTH_BLOCKED":
		bias["operation_fix"] = 0.25
		bias["menu_structure"] = 0.20
		bias["pricing"] = 0.15
		bias["marketing"] = 0.85
		bias["finance_control"] = 0.20
	case "FINANCIAL_DANGER":
		bias["operation_fix"] = 0.35
		bias["menu_structure"] = 0.20
		bias["pricing"] = 0.70
		bias["marketing"] = 0.10
		bias["finance_control"] = 0.90
	}

	if axisScores["F"] < 50 {
		bias["finance_control"] = numeric.MinF(1.0, bias["finance_control"]+0.2)
	}

	var total float64
	for _, v := range bias {
		total += v
	}
	if total > 0 {
		for k, v := range bias {
			bias[k] = numeric.Round2(v / total)
		}
	}

	return bias
}
