package cost

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

func newTestCalculator() *Calculator {
	return NewCalculator(35, 5000, 70, 20)
}

func TestMenuCosts(t *testing.T) {
	menus := []domain.Menu{
		{ID: 1, Name: "Kimchi Stew", SalePrice: 10000},
		{ID: 2, Name: "Bibimbap", SalePrice: 9000},
		{ID: 3, Name: "Free Side", SalePrice: 0},
	}
	ingredients := []domain.Ingredient{
		{ID: 10, Name: "Kimchi", UnitPrice: 5},
		{ID: 11, Name: "Pork", UnitPrice: 20},
	}
	recipes := []domain.RecipeLine{
		{MenuID: 1, IngredientID: 10, QtyPerServing: 300}, // 1500
		{MenuID: 1, IngredientID: 11, QtyPerServing: 100}, // 2000
		{MenuID: 2, IngredientID: 10, QtyPerServing: 100}, // 500
	}

	rows := newTestCalculator().MenuCosts(menus, recipes, ingredients)
	require.Len(t, rows, 3)

	// Sorted by cost ratio descending.
	assert.Equal(t, "Kimchi Stew", rows[0].Name)
	assert.Equal(t, 3500.0, rows[0].Cost)
	assert.Equal(t, 35.0, rows[0].CostRatio)
	assert.True(t, rows[0].IsHighCost)

	assert.Equal(t, "Bibimbap", rows[1].Name)
	assert.InDelta(t, 5.56, rows[1].CostRatio, 0.001)

	// Zero sale price yields zero cost ratio, never NaN.
	assert.Equal(t, "Free Side", rows[2].Name)
	assert.Equal(t, 0.0, rows[2].CostRatio)
}

func TestMenuCostsNoRecipe(t *testing.T) {
	menus := []domain.Menu{{ID: 1, Name: "Plain Rice", SalePrice: 1000}}

	rows := newTestCalculator().MenuCosts(menus, nil, nil)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].Cost)
	assert.Equal(t, 0.0, rows[0].CostRatio)
}

func TestMenuCostsEmpty(t *testing.T) {
	assert.Empty(t, newTestCalculator().MenuCosts(nil, nil, nil))
}

func TestIngredientUsageSingleMenuRoundTrip(t *testing.T) {
	day := timeutil.Date(2026, time.March, 2)
	ingredients := []domain.Ingredient{
		{ID: 10, Name: "Kimchi"},
		{ID: 11, Name: "Pork"},
	}
	recipes := []domain.RecipeLine{
		{MenuID: 1, IngredientID: 10, QtyPerServing: 300},
		{MenuID: 1, IngredientID: 11, QtyPerServing: 100},
	}
	items := []domain.DailySalesItem{{Date: day, MenuID: 1, Qty: 7}}

	rows := newTestCalculator().IngredientUsage(items, recipes, ingredients)
	require.Len(t, rows, 2)

	// Sorted by ingredient name within the day; qty is n * qty_per_serving.
	assert.Equal(t, "Kimchi", rows[0].IngredientName)
	assert.Equal(t, 2100.0, rows[0].TotalQty)
	assert.Equal(t, "Pork", rows[1].IngredientName)
	assert.Equal(t, 700.0, rows[1].TotalQty)
}

func TestIngredientUsageInnerJoin(t *testing.T) {
	day := timeutil.Date(2026, time.March, 2)
	recipes := []domain.RecipeLine{{MenuID: 1, IngredientID: 10, QtyPerServing: 1}}
	items := []domain.DailySalesItem{
		{Date: day, MenuID: 1, Qty: 2},
		{Date: day, MenuID: 99, Qty: 5}, // no recipe, dropped
	}

	rows := newTestCalculator().IngredientUsage(items, recipes, []domain.Ingredient{{ID: 10, Name: "Kimchi"}})
	require.Len(t, rows, 1)
	assert.Equal(t, 2.0, rows[0].TotalQty)
}

func TestABCGrades(t *testing.T) {
	menuCosts := []MenuCost{
		{MenuID: 1, Name: "Hero", SalePrice: 100, Cost: 30, Contribution: 70},
		{MenuID: 2, Name: "Mid", SalePrice: 40, Cost: 20, Contribution: 20},
		{MenuID: 3, Name: "Tail", SalePrice: 20, Cost: 10, Contribution: 10},
	}

	rows := newTestCalculator().ABC(menuCosts)
	require.Len(t, rows, 3)

	assert.Equal(t, []float64{70, 20, 10}, []float64{rows[0].ContributionShare, rows[1].ContributionShare, rows[2].ContributionShare})
	assert.Equal(t, []float64{70, 90, 100}, []float64{rows[0].CumulativeShare, rows[1].CumulativeShare, rows[2].CumulativeShare})
	assert.Equal(t, "A", rows[0].Grade)
	assert.Equal(t, "B", rows[1].Grade)
	assert.Equal(t, "C", rows[2].Grade)
}

func TestABCTiesStayInOneBand(t *testing.T) {
	menuCosts := []MenuCost{
		{MenuID: 1, Name: "A1", Contribution: 35},
		{MenuID: 2, Name: "A2", Contribution: 35},
		{MenuID: 3, Name: "B1", Contribution: 15},
		{MenuID: 4, Name: "B2", Contribution: 15},
	}

	rows := newTestCalculator().ABC(menuCosts)
	require.Len(t, rows, 4)

	// 35/35 ties and 15/15 ties each land in a single band.
	assert.Equal(t, rows[0].Grade, rows[1].Grade)
	assert.Equal(t, rows[2].Grade, rows[3].Grade)

	// Tie-break inside a band is by name.
	assert.Equal(t, "A1", rows[0].Name)
	assert.Equal(t, "A2", rows[1].Name)
}

func TestABCEmpty(t *testing.T) {
	assert.Empty(t, newTestCalculator().ABC(nil))
}

func TestIngredientCosts(t *testing.T) {
	day := timeutil.Date(2026, time.March, 2)
	ingredients := []domain.Ingredient{
		{ID: 10, Name: "Kimchi", UnitPrice: 5},
		{ID: 11, Name: "Pork", UnitPrice: 20},
	}
	usage := []UsageRow{
		{Date: day, IngredientID: 10, IngredientName: "Kimchi", TotalQty: 100}, // 500
		{Date: day, IngredientID: 11, IngredientName: "Pork", TotalQty: 75},    // 1500
	}

	rows := newTestCalculator().IngredientCosts(usage, ingredients)
	require.Len(t, rows, 2)

	assert.Equal(t, "Pork", rows[0].IngredientName)
	assert.Equal(t, 1500.0, rows[0].TotalCost)
	assert.Equal(t, 75.0, rows[0].CostShare)
	assert.Equal(t, 25.0, rows[1].CostShare)
}

func TestHighCostCountAndAvgContribution(t *testing.T) {
	menuCosts := []MenuCost{
		{IsHighCost: true, Contribution: 6000},
		{IsHighCost: false, Contribution: 2000},
		{IsHighCost: true, Contribution: 1000},
	}

	calc := newTestCalculator()
	assert.Equal(t, 2, calc.HighCostCount(menuCosts))
	assert.Equal(t, 3000.0, calc.AvgContribution(menuCosts))
}
