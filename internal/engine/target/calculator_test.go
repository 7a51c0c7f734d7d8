package target

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/engine/cost"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

func fixedMid(year int, month time.Month, day int) *Calculator {
	return NewCalculator(timeutil.FixedClock{T: timeutil.Date(year, month, day)})
}

func balancedTarget(sales int64, costRate float64) *domain.Target {
	return &domain.Target{
		TargetSales:     sales,
		TargetCostRate:  costRate,
		TargetLaborRate: 25,
		TargetRentRate:  10,
		TargetOtherRate: 50 - costRate,
		TargetProfit:    15,
	}
}

func TestAnalyzeCurrentMonth(t *testing.T) {
	calc := fixedMid(2026, time.September, 15)
	out := calc.Analyze(Inputs{
		Year:         2026,
		Month:        9,
		MonthlySales: 15_000_000,
		Target:       balancedTarget(30_000_000, 30),
	})

	assert.Equal(t, 30, out.DaysInMonth)
	assert.Equal(t, 15, out.CurrentDay)
	assert.Equal(t, 15, out.RemainingDays)
	assert.Equal(t, 1_000_000.0, out.DailyAvg)
	assert.Equal(t, 30_000_000.0, out.Forecast)
	assert.Equal(t, 50.0, out.Progress)
	assert.Equal(t, 1_000_000.0, out.RequiredDaily)
	assert.False(t, out.TargetRateWarning)
}

func TestAnalyzeFutureMonth(t *testing.T) {
	calc := fixedMid(2026, time.September, 15)
	out := calc.Analyze(Inputs{Year: 2026, Month: 11, MonthlySales: 0})

	// Future month: no elapsed days, forecast equals monthly sales.
	assert.Equal(t, 0, out.CurrentDay)
	assert.Equal(t, 0.0, out.DailyAvg)
	assert.Equal(t, 0.0, out.Forecast)
}

func TestAnalyzePastMonthCountsInFull(t *testing.T) {
	calc := fixedMid(2026, time.September, 15)
	out := calc.Analyze(Inputs{Year: 2026, Month: 7, MonthlySales: 31_000_000})

	assert.Equal(t, 31, out.CurrentDay)
	assert.Equal(t, 0, out.RemainingDays)
	assert.Equal(t, 31_000_000.0, out.Forecast)
}

func TestCurrentCostRateWeighted(t *testing.T) {
	day := timeutil.Date(2026, time.September, 3)
	menuCosts := []cost.MenuCost{
		{MenuID: 1, SalePrice: 10_000, CostRatio: 40},
		{MenuID: 2, SalePrice: 5_000, CostRatio: 20},
	}
	// Revenue: menu1 10 * 10000 = 100000, menu2 20 * 5000 = 100000.
	items := []domain.DailySalesItem{
		{Date: day, MenuID: 1, Qty: 10},
		{Date: day, MenuID: 2, Qty: 20},
	}

	out := fixedMid(2026, time.September, 15).Analyze(Inputs{
		Year: 2026, Month: 9,
		Items:     items,
		MenuCosts: menuCosts,
		Target:    balancedTarget(10_000_000, 25),
	})

	require.NotNil(t, out.CurrentCostRate)
	assert.Equal(t, 30.0, *out.CurrentCostRate)
	assert.Equal(t, 5.0, out.CostGap)
}

func TestCurrentCostRateFallbackUnweighted(t *testing.T) {
	menuCosts := []cost.MenuCost{
		{MenuID: 1, SalePrice: 10_000, CostRatio: 40},
		{MenuID: 2, SalePrice: 5_000, CostRatio: 20},
	}

	out := fixedMid(2026, time.September, 15).Analyze(Inputs{
		Year: 2026, Month: 9,
		MenuCosts: menuCosts,
	})

	require.NotNil(t, out.CurrentCostRate)
	assert.Equal(t, 30.0, *out.CurrentCostRate)
}

func TestCurrentCostRateUndefined(t *testing.T) {
	out := fixedMid(2026, time.September, 15).Analyze(Inputs{Year: 2026, Month: 9})
	assert.Nil(t, out.CurrentCostRate)
}

func TestStatusLight(t *testing.T) {
	assert.Equal(t, domain.RiskGreen, statusLight(100, 5))
	assert.Equal(t, domain.RiskGreen, statusLight(120, 0))
	assert.Equal(t, domain.RiskYellow, statusLight(100, 6))
	assert.Equal(t, domain.RiskYellow, statusLight(80, 20))
	assert.Equal(t, domain.RiskYellow, statusLight(50, 10))
	assert.Equal(t, domain.RiskRed, statusLight(50, 11))
	assert.Equal(t, domain.RiskRed, statusLight(30, 0))
}

func TestWeekdaySplit(t *testing.T) {
	daily := []domain.BestDailySales{
		{Date: timeutil.Date(2026, time.September, 7), TotalSales: 1_000_000},  // Monday
		{Date: timeutil.Date(2026, time.September, 8), TotalSales: 1_200_000},  // Tuesday
		{Date: timeutil.Date(2026, time.September, 12), TotalSales: 2_000_000}, // Saturday
	}

	weekday, weekend := weekdaySplit(daily)
	assert.Equal(t, 1_100_000.0, weekday)
	assert.Equal(t, 2_000_000.0, weekend)
}

func TestMoMAndYoY(t *testing.T) {
	out := fixedMid(2026, time.September, 15).Analyze(Inputs{
		Year: 2026, Month: 9,
		MonthlySales:   11_000_000,
		PrevMonthSales: 10_000_000,
		PrevYearSales:  8_800_000,
	})

	assert.Equal(t, 10.0, out.MoMChangePct)
	assert.Equal(t, 25.0, out.YoYChangePct)
}

func TestTargetRateWarning(t *testing.T) {
	target := &domain.Target{
		TargetSales:     10_000_000,
		TargetCostRate:  30,
		TargetLaborRate: 25,
		TargetRentRate:  10,
		TargetOtherRate: 10,
		TargetProfit:    15, // sums to 90
	}

	out := fixedMid(2026, time.September, 15).Analyze(Inputs{Year: 2026, Month: 9, Target: target})
	assert.True(t, out.TargetRateWarning)
}
