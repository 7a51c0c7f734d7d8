// internal/engine/target/calculator.go
package target

import (
	"math"
	"time"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/engine/cost"
	"github.com/storecoach-kr/storecoach-backend/pkg/numeric"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

// Calculator derives the month's target-vs-actual view. The clock decides
// how far into the month "today" is; everything else is pure.
type Calculator struct {
	clock timeutil.Clock
}

func NewCalculator(clock timeutil.Clock) *Calculator {
	return &Calculator{clock: clock}
}

// Inputs bundles everything Analyze needs from the repository.
type Inputs struct {
	Year           int
	Month          int
	MonthlySales   int64
	Target         *domain.Target
	Daily          []domain.BestDailySales
	Items          []domain.DailySalesItem
	MenuCosts      []cost.MenuCost
	PrevMonthSales int64
	PrevYearSales  int64
}

// Analysis is the month dashboard payload.
type Analysis struct {
	Year              int      `json:"year"`
	Month             int      `json:"month"`
	DaysInMonth       int      `json:"days_in_month"`
	CurrentDay        int      `json:"current_day"`
	RemainingDays     int      `json:"remaining_days"`
	MonthlySales      int64    `json:"monthly_sales"`
	TargetSales       int64    `json:"target_sales"`
	Progress          float64  `json:"progress"`
	DailyAvg          float64  `json:"daily_avg"`
	Forecast          float64  `json:"forecast"`
	RequiredDaily     float64  `json:"required_daily"`
	CurrentCostRate   *float64 `json:"current_cost_rate,omitempty"`
	CostGap           float64  `json:"cost_gap"`
	StatusLight       string   `json:"status_light"`
	WeekdayAvg        float64  `json:"weekday_avg"`
	WeekendAvg        float64  `json:"weekend_avg"`
	MoMChangePct      float64  `json:"mom_change_pct"`
	YoYChangePct      float64  `json:"yoy_change_pct"`
	TargetRateWarning bool     `json:"target_rate_warning"`
}

// Analyze builds the month view. A future month has current_day 0, a past
// month counts in full.
func (c *Calculator) Analyze(in Inputs) Analysis {
	now := c.clock.NowKST()
	daysInMonth := timeutil.DaysInMonth(in.Year, time.Month(in.Month))

	currentDay := daysInMonth
	if timeutil.SameMonth(now, in.Year, time.Month(in.Month)) {
		currentDay = now.Day()
		if currentDay > daysInMonth {
			currentDay = daysInMonth
		}
	} else if timeutil.Date(in.Year, time.Month(in.Month), 1).After(now) {
		currentDay = 0
	}

	out := Analysis{
		Year:          in.Year,
		Month:         in.Month,
		DaysInMonth:   daysInMonth,
		CurrentDay:    currentDay,
		RemainingDays: daysInMonth - currentDay,
		MonthlySales:  in.MonthlySales,
	}

	if currentDay > 0 {
		out.DailyAvg = numeric.Round2(float64(in.MonthlySales) / float64(currentDay))
	}
	out.Forecast = math.Floor(float64(in.MonthlySales) + out.DailyAvg*float64(out.RemainingDays))

	if in.Target != nil {
		out.TargetSales = in.Target.TargetSales
		out.Progress = numeric.Round2(numeric.Percent(float64(in.MonthlySales), float64(in.Target.TargetSales)))
		if out.RemainingDays > 0 {
			out.RequiredDaily = math.Max(0, math.Ceil(float64(in.Target.TargetSales-in.MonthlySales)/float64(out.RemainingDays)))
		}
		out.TargetRateWarning = math.Abs(in.Target.RateSum()-100) > 0.1
	}

	out.CurrentCostRate = currentCostRate(in.Items, in.MenuCosts)
	if out.CurrentCostRate != nil && in.Target != nil {
		out.CostGap = numeric.Round2(*out.CurrentCostRate - in.Target.TargetCostRate)
	}

	out.WeekdayAvg, out.WeekendAvg = weekdaySplit(in.Daily)
	out.MoMChangePct = numeric.Round2(numeric.ChangePct(float64(in.MonthlySales), float64(in.PrevMonthSales)))
	out.YoYChangePct = numeric.Round2(numeric.ChangePct(float64(in.MonthlySales), float64(in.PrevYearSales)))

	out.StatusLight = statusLight(out.Progress, out.CostGap)

	return out
}

// currentCostRate is the revenue-weighted mean of per-menu cost ratios over
// the month's sold items. Without item data it falls back to the unweighted
// mean; without menus it is undefined.
func currentCostRate(items []domain.DailySalesItem, menuCosts []cost.MenuCost) *float64 {
	if len(menuCosts) == 0 {
		return nil
	}

	costByMenu := make(map[int64]cost.MenuCost, len(menuCosts))
	for _, mc := range menuCosts {
		costByMenu[mc.MenuID] = mc
	}

	var revenue, weighted float64
	for _, item := range items {
		mc, ok := costByMenu[item.MenuID]
		if !ok {
			continue
		}
		r := item.Qty * float64(mc.SalePrice)
		revenue += r
		weighted += r * mc.CostRatio
	}
	if revenue > 0 {
		rate := numeric.Round2(weighted / revenue)
		return &rate
	}

	// Fallback: unweighted mean of menu cost ratios. Can mislead on a skewed
	// product mix; kept until the product decides otherwise.
	var sum float64
	for _, mc := range menuCosts {
		sum += mc.CostRatio
	}
	rate := numeric.Round2(sum / float64(len(menuCosts)))
	return &rate
}

func weekdaySplit(daily []domain.BestDailySales) (weekdayAvg, weekendAvg float64) {
	var weekdaySum, weekendSum float64
	var weekdays, weekends int
	for _, row := range daily {
		switch row.Date.Weekday() {
		case time.Saturday, time.Sunday:
			weekendSum += float64(row.TotalSales)
			weekends++
		default:
			weekdaySum += float64(row.TotalSales)
			weekdays++
		}
	}
	if weekdays > 0 {
		weekdayAvg = numeric.Round2(weekdaySum / float64(weekdays))
	}
	if weekends > 0 {
		weekendAvg = numeric.Round2(weekendSum / float64(weekends))
	}
	return weekdayAvg, weekendAvg
}

func statusLight(progress, costGap float64) string {
	switch {
	case progress >= 100 && costGap <= 5:
		return domain.RiskGreen
	case progress >= 80 || (progress >= 50 && costGap <= 10):
		return domain.RiskYellow
	default:
		return domain.RiskRed
	}
}
