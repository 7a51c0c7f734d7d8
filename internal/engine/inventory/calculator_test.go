package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/engine/cost"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

func newTestCalculator() *Calculator {
	return NewCalculator(7, 3, 30)
}

func TestAvgDailyUsage(t *testing.T) {
	usage := []cost.UsageRow{
		{Date: timeutil.Date(2026, time.March, 1), IngredientID: 10, TotalQty: 8},
		{Date: timeutil.Date(2026, time.March, 2), IngredientID: 10, TotalQty: 6},
		{Date: timeutil.Date(2026, time.March, 2), IngredientID: 11, TotalQty: 7},
	}

	avg := AvgDailyUsage(usage, 7)
	assert.Equal(t, 2.0, avg[10])
	assert.Equal(t, 1.0, avg[11])
	assert.Empty(t, AvgDailyUsage(usage, 0))
}

func TestSafetyGapRisk(t *testing.T) {
	ingredients := []domain.Ingredient{
		{ID: 1, Name: "Kimchi"},
		{ID: 2, Name: "Pork"},
		{ID: 3, Name: "Rice"},
	}
	inventory := []domain.Inventory{
		{IngredientID: 1, OnHand: 2, SafetyStock: 10},  // urgent
		{IngredientID: 2, OnHand: 7, SafetyStock: 10},  // warning
		{IngredientID: 3, OnHand: 15, SafetyStock: 10}, // normal
	}

	rows := newTestCalculator().SafetyGap(ingredients, inventory, map[int64]float64{1: 1})
	require.Len(t, rows, 3)

	// Most critical first.
	assert.Equal(t, "Kimchi", rows[0].Name)
	assert.Equal(t, RiskUrgent, rows[0].Risk)
	assert.Equal(t, 8.0, rows[0].Shortage)
	assert.Equal(t, 80.0, rows[0].ShortageRatio)
	assert.Equal(t, 2.0, rows[0].DaysOnHand)

	assert.Equal(t, RiskWarning, rows[1].Risk)
	assert.Equal(t, RiskNormal, rows[2].Risk)
}

func TestReorder(t *testing.T) {
	ingredients := []domain.Ingredient{
		{ID: 1, Name: "Kimchi", BaseUnit: "g", UnitPrice: 100},
		{ID: 2, Name: "Pork", BaseUnit: "g", UnitPrice: 50},
	}
	inventory := []domain.Inventory{
		{IngredientID: 1, OnHand: 5, SafetyStock: 10},
		{IngredientID: 2, OnHand: 100, SafetyStock: 10}, // well stocked, excluded
	}
	// 7-day usage total 14 → avg 2/day; forecast 3 days → expected 6.
	avg := map[int64]float64{1: 2}

	rows := newTestCalculator().Reorder(ingredients, inventory, avg)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "Kimchi", row.Name)
	assert.Equal(t, 2.0, row.RecentAvgDailyUsage)
	assert.Equal(t, 6.0, row.ExpectedConsumption)
	assert.Equal(t, 11.0, row.OrderQty)
	assert.Equal(t, 1100.0, row.ExpectedAmount)
}

func TestReorderNeverNegative(t *testing.T) {
	ingredients := []domain.Ingredient{{ID: 1, Name: "Kimchi", BaseUnit: "g", UnitPrice: 100}}
	inventory := []domain.Inventory{{IngredientID: 1, OnHand: 50, SafetyStock: 10}}

	rows := newTestCalculator().Reorder(ingredients, inventory, map[int64]float64{1: 2})
	assert.Empty(t, rows)
}

func TestSupplierOptimization(t *testing.T) {
	suppliers := []domain.Supplier{
		{ID: 1, Name: "Fresh Farm", MinOrderKRW: 50_000, DeliveryFee: 3000},
		{ID: 2, Name: "Meat House", MinOrderKRW: 100_000, DeliveryFee: 5000},
	}
	links := []domain.IngredientSupplier{
		{IngredientID: 1, SupplierID: 1},
		{IngredientID: 2, SupplierID: 1},
		{IngredientID: 3, SupplierID: 2},
	}
	orders := []ReorderRow{
		{IngredientID: 1, Name: "Kimchi", ExpectedAmount: 40_000},
		{IngredientID: 2, Name: "Cabbage", ExpectedAmount: 20_000},
		{IngredientID: 3, Name: "Pork", ExpectedAmount: 80_000},
		{IngredientID: 4, Name: "Mystery", ExpectedAmount: 10_000}, // no supplier
	}

	result := newTestCalculator().SupplierOptimization(orders, suppliers, links)
	require.Len(t, result.Suppliers, 2)
	require.Len(t, result.Unassigned, 1)

	farm := result.Suppliers[0]
	assert.Equal(t, "Fresh Farm", farm.SupplierName)
	assert.Equal(t, 60_000.0, farm.TotalAmount)
	assert.True(t, farm.MeetsMinOrder)
	// Two items on one delivery saves one fee.
	assert.Equal(t, 3000.0, farm.FeeSavings)

	meat := result.Suppliers[1]
	assert.False(t, meat.MeetsMinOrder)
	require.Len(t, meat.Recommendations, 1)
	assert.Contains(t, meat.Recommendations[0], "20,000")

	assert.Equal(t, 3000.0, result.TotalSavings)
}

func TestTurnover(t *testing.T) {
	ingredients := []domain.Ingredient{{ID: 1, Name: "Kimchi"}}
	inventory := []domain.Inventory{{IngredientID: 1, OnHand: 60, SafetyStock: 10}}

	rows := newTestCalculator().Turnover(ingredients, inventory, map[int64]float64{1: 3})
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 20.0, row.DaysOnHand)
	assert.Equal(t, 18.25, row.AnnualTurnoverRate)
	// floor(20 * 0.7) = 14, above the weekly minimum.
	assert.Equal(t, 14, row.OptimalOrderFrequency)
}

func TestTurnoverWeeklyFloor(t *testing.T) {
	ingredients := []domain.Ingredient{{ID: 1, Name: "Kimchi"}}
	inventory := []domain.Inventory{{IngredientID: 1, OnHand: 6, SafetyStock: 2}}

	rows := newTestCalculator().Turnover(ingredients, inventory, map[int64]float64{1: 2})
	require.Len(t, rows, 1)
	// days_on_hand 3 → floor(2.1) = 2, clamped up to 7.
	assert.Equal(t, 7, rows[0].OptimalOrderFrequency)
}

func TestSimulateSafetyChange(t *testing.T) {
	ing := domain.Ingredient{ID: 1, Name: "Kimchi", UnitPrice: 100}
	inv := domain.Inventory{IngredientID: 1, OnHand: 8, SafetyStock: 10}

	sim := newTestCalculator().SimulateSafetyChange(ing, inv, 50)

	assert.Equal(t, 10.0, sim.Before.Safety)
	assert.Equal(t, RiskWarning, sim.Before.Risk)
	assert.Equal(t, 1000.0, sim.Before.Value)

	assert.Equal(t, 15.0, sim.After.Safety)
	assert.Equal(t, 7.0, sim.After.Shortage)
	assert.Equal(t, RiskWarning, sim.After.Risk)
	assert.Equal(t, 1500.0, sim.After.Value)
}

func TestEmptyInputs(t *testing.T) {
	calc := newTestCalculator()
	assert.Empty(t, calc.SafetyGap(nil, nil, nil))
	assert.Empty(t, calc.Reorder(nil, nil, nil))
	assert.Empty(t, calc.Turnover(nil, nil, nil))
	assert.Empty(t, calc.SupplierOptimization(nil, nil, nil).Suppliers)
}
