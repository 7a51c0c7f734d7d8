// internal/engine/strategy/mission_effect.go
package strategy

import (
	"fmt"
	"strings"
	"time"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/pkg/numeric"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

// MissionEffect is the baseline-vs-after comparison of a completed mission.
type MissionEffect struct {
	SalesDeltaPct    float64 `json:"sales_delta_pct"`
	VisitorsDeltaPct float64 `json:"visitors_delta_pct"`
	AvgpDeltaPct     float64 `json:"avgp_delta_pct"`
	Interpretation   string  `json:"interpretation"`
	AfterDays        int     `json:"after_days"`
}

// CompareMissionEffect compares the 7 days before completion against up to 7
// days after it, using best-available daily sales. Returns nil until at least
// 3 after-days have passed or when either window has no data.
func CompareMissionEffect(completedAt, today time.Time, rows []domain.BestDailySales) *MissionEffect {
	completed := timeutil.DateOf(completedAt)
	daysPassed := int(timeutil.DateOf(today).Sub(completed).Hours() / 24)

	afterDays := daysPassed
	if afterDays > 7 {
		afterDays = 7
	}
	if afterDays < 3 {
		return nil
	}

	baselineStart := completed.AddDate(0, 0, -7)
	baselineEnd := completed.AddDate(0, 0, -1)
	afterStart := completed.AddDate(0, 0, 1)
	afterEnd := completed.AddDate(0, 0, afterDays)

	baseline := salesBetween(rows, baselineStart, baselineEnd)
	after := salesBetween(rows, afterStart, afterEnd)
	if len(baseline) == 0 || len(after) == 0 {
		return nil
	}

	baselineSales, baselineVisitors := salesAverages(baseline)
	afterSales, afterVisitors := salesAverages(after)

	baselineAvgp := numeric.Ratio(baselineSales, baselineVisitors)
	afterAvgp := numeric.Ratio(afterSales, afterVisitors)

	effect := &MissionEffect{
		SalesDeltaPct:    numeric.ChangePct(afterSales, baselineSales),
		VisitorsDeltaPct: numeric.ChangePct(afterVisitors, baselineVisitors),
		AvgpDeltaPct:     numeric.ChangePct(afterAvgp, baselineAvgp),
		AfterDays:        afterDays,
	}
	effect.Interpretation = interpretEffect(effect.SalesDeltaPct, effect.VisitorsDeltaPct, effect.AvgpDeltaPct, afterDays)
	return effect
}

func interpretEffect(salesDelta, visitorsDelta, avgpDelta float64, afterDays int) string {
	var parts []string

	switch {
	case visitorsDelta > 5:
		parts = append(parts, "네이버방문자가 회복되었습니다")
	case visitorsDelta < -5:
		parts = append(parts, "네이버방문자가 더 감소했습니다")
	}

	switch {
	case avgpDelta > 5:
		parts = append(parts, "객단가가 개선되었습니다")
	case avgpDelta < -5:
		parts = append(parts, "객단가가 더 하락했습니다")
	}

	switch {
	case salesDelta > 5:
		parts = append(parts, "매출이 회복되었습니다")
	case salesDelta < -5:
		parts = append(parts, "매출이 더 감소했습니다")
	}

	if len(parts) == 0 {
		return "변화가 미미합니다. 추가 조치가 필요할 수 있습니다."
	}
	if afterDays < 7 {
		return fmt.Sprintf("(%d일 기준) %s.", afterDays, strings.Join(parts, " / "))
	}
	return strings.Join(parts, " / ") + "."
}
