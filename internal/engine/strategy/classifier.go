// internal/engine/strategy/classifier.go
package strategy

import (
	"math"
	"sort"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/pkg/numeric"
)

// Cause is one detected sales-drop cause. Priority is a stable total order
// across cause types; Confidence only breaks ties inside a priority.
type Cause struct {
	Type       string                 `json:"type"`
	Priority   int                    `json:"priority"`
	Confidence float64                `json:"confidence"`
	Details    map[string]interface{} `json:"details"`
}

// ClassifyCauses evaluates the six cause rules against a signal bundle and
// returns the qualifying causes sorted by (priority asc, confidence desc).
func ClassifyCauses(s Signals) []Cause {
	var causes []Cause

	if s.VisitorsChangePct <= -10 {
		causes = append(causes, Cause{
			Type:       domain.CauseInflowDrop,
			Priority:   1,
			Confidence: numeric.MinF(math.Abs(s.VisitorsChangePct)/20.0, 1.0),
			Details: map[string]interface{}{
				"visitors_change_pct":  s.VisitorsChangePct,
				"recent_visitors_avg":  s.RecentVisitorsAvg,
				"compare_visitors_avg": s.CompareVisitorsAvg,
			},
		})
	}

	if s.AvgpChangePct <= -8 && math.Abs(s.VisitorsChangePct) < 5 {
		causes = append(causes, Cause{
			Type:       domain.CauseAvgpDrop,
			Priority:   2,
			Confidence: numeric.MinF(math.Abs(s.AvgpChangePct)/15.0, 1.0),
			Details: map[string]interface{}{
				"avgp_change_pct": s.AvgpChangePct,
				"recent_avgp":     s.RecentAvgp,
				"compare_avgp":    s.CompareAvgp,
			},
		})
	}

	if s.QtyChangePct <= -10 {
		causes = append(causes, Cause{
			Type:       domain.CauseQtyDrop,
			Priority:   3,
			Confidence: numeric.MinF(math.Abs(s.QtyChangePct)/20.0, 1.0),
			Details: map[string]interface{}{
				"qty_change_pct": s.QtyChangePct,
				"recent_qty":     s.RecentQty,
				"compare_qty":    s.CompareQty,
			},
		})
	}

	var severeDrops []TopMenuChange
	for _, m := range s.TopMenuChanges {
		if m.ChangePct <= -20 {
			severeDrops = append(severeDrops, m)
		}
	}
	if len(severeDrops) >= 1 {
		topDrops := severeDrops
		if len(topDrops) > 3 {
			topDrops = topDrops[:3]
		}
		causes = append(causes, Cause{
			Type:       domain.CauseHeroMenuCollapse,
			Priority:   4,
			Confidence: numeric.MinF(float64(len(severeDrops))/3.0, 1.0),
			Details: map[string]interface{}{
				"severe_drop_count": len(severeDrops),
				"top_drops":         topDrops,
			},
		})
	}

	if s.HighCogsMenuCount >= 3 || s.AvgContribution < 5000 {
		confidence := 0.5
		if s.HighCogsMenuCount >= 3 {
			confidence = numeric.MinF(float64(s.HighCogsMenuCount)/5.0, 1.0)
		}
		causes = append(causes, Cause{
			Type:       domain.CauseCogsWorsening,
			Priority:   5,
			Confidence: confidence,
			Details: map[string]interface{}{
				"high_cogs_menu_count":    s.HighCogsMenuCount,
				"avg_contribution_margin": s.AvgContribution,
			},
		})
	}

	if s.BreakEvenGapRatio < 1.05 {
		confidence := 0.3
		if s.BreakEvenGapRatio < 1.0 {
			confidence = numeric.MaxF(0, 1.0-s.BreakEvenGapRatio)
		}
		causes = append(causes, Cause{
			Type:       domain.CauseStructuralRisk,
			Priority:   6,
			Confidence: confidence,
			Details: map[string]interface{}{
				"break_even_gap_ratio": s.BreakEvenGapRatio,
			},
		})
	}

	sort.SliceStable(causes, func(i, j int) bool {
		if causes[i].Priority != causes[j].Priority {
			return causes[i].Priority < causes[j].Priority
		}
		return causes[i].Confidence > causes[j].Confidence
	})

	return causes
}
