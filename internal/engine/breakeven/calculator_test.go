package breakeven

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
)

func TestBreakEven(t *testing.T) {
	calc := NewCalculator()

	// fixed 10,000,000 at 40% variable ratio floors to 16,666,666.
	assert.Equal(t, int64(16666666), calc.BreakEven(10_000_000, 0.4))

	// Guards: impossible structures yield 0 instead of a negative or infinite
	// break-even.
	assert.Equal(t, int64(0), calc.BreakEven(10_000_000, 1.0))
	assert.Equal(t, int64(0), calc.BreakEven(10_000_000, 1.2))
	assert.Equal(t, int64(0), calc.BreakEven(0, 0.4))
	assert.Equal(t, int64(0), calc.BreakEven(-500, 0.4))
}

func TestBreakEvenRoundTrip(t *testing.T) {
	calc := NewCalculator()
	fixed := 7_200_000.0
	varRatio := 0.35

	be := calc.BreakEven(fixed, varRatio)
	// break_even * (1 - var_ratio) recovers fixed costs within flooring error.
	assert.InDelta(t, fixed, float64(be)*(1-varRatio), 1.0)
}

func TestFiveCore(t *testing.T) {
	rows := []domain.ExpenseStructure{
		{Category: domain.CostRent, ItemName: "rent", Amount: 2_000_000},
		{Category: domain.CostLabor, ItemName: "staff", Amount: 4_000_000},
		{Category: domain.CostLabor, ItemName: "part-time", Amount: 1_000_000},
		{Category: domain.CostUtility, ItemName: "power", Amount: 500_000},
		{Category: domain.CostMaterial, ItemName: "food", Amount: 30},
		{Category: domain.CostFeeVAT, ItemName: "fees", Amount: 10},
	}

	five := NewCalculator().FiveCore(rows, 20_000_000)

	rent := five.Get(domain.CostRent)
	assert.Equal(t, 2_000_000.0, rent.Amount)
	assert.Equal(t, 10.0, rent.Rate)

	labor := five.Get(domain.CostLabor)
	assert.Equal(t, 5_000_000.0, labor.Amount)
	assert.Equal(t, 25.0, labor.Rate)

	material := five.Get(domain.CostMaterial)
	assert.Equal(t, 30.0, material.Rate)
	assert.Equal(t, 6_000_000.0, material.Amount)
}

func TestFiveCoreFixedOnly(t *testing.T) {
	rows := []domain.ExpenseStructure{
		{Category: domain.CostRent, Amount: 1_000_000},
		{Category: domain.CostUtility, Amount: 200_000},
	}

	calc := NewCalculator()
	five := calc.FiveCore(rows, 10_000_000)

	// Only fixed rows: amounts sum exactly, every rate category stays 0.
	assert.Equal(t, 1_200_000.0, calc.FixedCosts(five))
	assert.Equal(t, 0.0, five.Get(domain.CostMaterial).Rate)
	assert.Equal(t, 0.0, five.Get(domain.CostFeeVAT).Rate)
	assert.Equal(t, 0.0, calc.VariableRatio(five))
}

func TestFiveCoreZeroSales(t *testing.T) {
	rows := []domain.ExpenseStructure{
		{Category: domain.CostRent, Amount: 1_000_000},
		{Category: domain.CostMaterial, Amount: 30},
	}

	calc := NewCalculator()
	five := calc.FiveCore(rows, 0)

	// Zero sales: fixed rates and rate-category amounts are all 0, but the
	// break-even is still computable from the structure.
	assert.Equal(t, 0.0, five.Get(domain.CostRent).Rate)
	assert.Equal(t, 0.0, five.Get(domain.CostMaterial).Amount)
	assert.Equal(t, int64(1_428_571), calc.BreakEven(calc.FixedCosts(five), calc.VariableRatio(five)))
}

func TestAtSalesLevel(t *testing.T) {
	rows := []domain.ExpenseStructure{
		{Category: domain.CostRent, Amount: 4_000_000},
		{Category: domain.CostLabor, Amount: 5_000_000},
		{Category: domain.CostUtility, Amount: 1_000_000},
		{Category: domain.CostMaterial, Amount: 35},
		{Category: domain.CostFeeVAT, Amount: 5},
	}

	calc := NewCalculator()
	five := calc.FiveCore(rows, 18_000_000)
	sim := calc.AtSalesLevel(20_000_000, five)

	// 40% variable on 20M is 8M; with 10M fixed the total cost is 18M,
	// leaving 2M operating profit.
	assert.Equal(t, 8_000_000.0, sim.Categories[3].Amount+sim.Categories[4].Amount)
	assert.Equal(t, 18_000_000.0, sim.TotalCost)
	assert.Equal(t, 2_000_000.0, sim.OperatingProfit)
}

func TestScorecardGrades(t *testing.T) {
	calc := NewCalculator()

	target := FiveCoreCosts{Categories: []CategoryCost{
		{Category: domain.CostRent, Amount: 2_000_000, Rate: 10},
		{Category: domain.CostLabor, Amount: 5_000_000, Rate: 25},
		{Category: domain.CostUtility, Amount: 500_000, Rate: 2.5},
		{Category: domain.CostMaterial, Amount: 6_000_000, Rate: 30},
		{Category: domain.CostFeeVAT, Amount: 2_000_000, Rate: 10},
	}}
	actual := FiveCoreCosts{Categories: []CategoryCost{
		{Category: domain.CostRent, Amount: 2_000_000, Rate: 10.5},    // diff 0 → GOOD
		{Category: domain.CostLabor, Amount: 5_200_000, Rate: 27.4},   // +4% → WARN
		{Category: domain.CostUtility, Amount: 600_000, Rate: 3.2},    // +20% → BAD
		{Category: domain.CostMaterial, Amount: 6_100_000, Rate: 32},  // +2pp → WARN
		{Category: domain.CostFeeVAT, Amount: 2_500_000, Rate: 16},    // +6pp → BAD
	}}

	card := calc.BuildScorecard(20_000_000, 19_000_000, target, actual)
	require.Len(t, card.Rows, 5)

	assert.Equal(t, domain.GradeGood, card.Rows[0].Grade)
	assert.Equal(t, domain.GradeWarn, card.Rows[1].Grade)
	assert.Equal(t, domain.GradeBad, card.Rows[2].Grade)
	assert.Equal(t, domain.GradeWarn, card.Rows[3].Grade)
	assert.Equal(t, domain.GradeBad, card.Rows[4].Grade)

	assert.Equal(t, 95.0, card.Achievement)
	assert.NotEmpty(t, card.Comments)
}

func TestFiveCoreEmpty(t *testing.T) {
	calc := NewCalculator()
	five := calc.FiveCore(nil, 10_000_000)
	require.Len(t, five.Categories, 5)
	assert.Equal(t, 0.0, calc.FixedCosts(five))
	assert.Equal(t, int64(0), calc.BreakEven(calc.FixedCosts(five), calc.VariableRatio(five)))
}
