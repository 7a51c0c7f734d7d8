// internal/engine/cost/calculator.go
package cost

import (
	"sort"
	"time"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/pkg/numeric"
)

// Calculator derives per-menu cost structure from the three master tables.
// All methods are pure; missing inputs yield empty results.
type Calculator struct {
	warnThreshold   float64 // cost ratio (%) at or above which a menu is flagged
	lowContribution int64   // per-serving contribution (KRW) below which a menu is flagged
	thresholdA      float64 // cumulative contribution share covered by grade A
	thresholdB      float64 // additional share covered by grade B
}

func NewCalculator(warnThreshold float64, lowContribution int64, thresholdA, thresholdB float64) *Calculator {
	return &Calculator{
		warnThreshold:   warnThreshold,
		lowContribution: lowContribution,
		thresholdA:      thresholdA,
		thresholdB:      thresholdB,
	}
}

// MenuCost is the per-menu cost breakdown.
type MenuCost struct {
	MenuID       int64   `json:"menu_id"`
	Name         string  `json:"name"`
	SalePrice    int64   `json:"sale_price"`
	Cost         float64 `json:"cost"`
	CostRatio    float64 `json:"cost_ratio"`
	Contribution float64 `json:"contribution"`
	IsHighCost   bool    `json:"is_high_cost"`
}

// MenuCosts computes cost, cost ratio and contribution per menu, ordered by
// descending cost ratio. A menu without recipe lines costs 0; a recipe line
// whose ingredient is missing contributes 0.
func (c *Calculator) MenuCosts(menus []domain.Menu, recipes []domain.RecipeLine, ingredients []domain.Ingredient) []MenuCost {
	if len(menus) == 0 {
		return []MenuCost{}
	}

	priceByIngredient := make(map[int64]int64, len(ingredients))
	for _, ing := range ingredients {
		priceByIngredient[ing.ID] = ing.UnitPrice
	}

	costByMenu := make(map[int64]float64, len(menus))
	for _, line := range recipes {
		costByMenu[line.MenuID] += line.QtyPerServing * float64(priceByIngredient[line.IngredientID])
	}

	rows := make([]MenuCost, 0, len(menus))
	for _, menu := range menus {
		cost := costByMenu[menu.ID]
		ratio := 0.0
		if menu.SalePrice > 0 {
			ratio = numeric.Round2(cost / float64(menu.SalePrice) * 100)
		}
		rows = append(rows, MenuCost{
			MenuID:       menu.ID,
			Name:         menu.Name,
			SalePrice:    menu.SalePrice,
			Cost:         cost,
			CostRatio:    ratio,
			Contribution: float64(menu.SalePrice) - cost,
			IsHighCost:   ratio >= c.warnThreshold,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CostRatio != rows[j].CostRatio {
			return rows[i].CostRatio > rows[j].CostRatio
		}
		return rows[i].Name < rows[j].Name
	})

	return rows
}

// UsageRow is per-day per-ingredient consumption in base units.
type UsageRow struct {
	Date           time.Time `json:"date"`
	IngredientID   int64     `json:"ingredient_id"`
	IngredientName string    `json:"ingredient_name"`
	TotalQty       float64   `json:"total_qty"`
}

// IngredientUsage explodes sold quantities through recipes into per-day
// per-ingredient usage. Items whose menu has no recipe are dropped (inner
// join). Output is sorted by (date, ingredient name).
func (c *Calculator) IngredientUsage(items []domain.DailySalesItem, recipes []domain.RecipeLine, ingredients []domain.Ingredient) []UsageRow {
	if len(items) == 0 || len(recipes) == 0 {
		return []UsageRow{}
	}

	nameByIngredient := make(map[int64]string, len(ingredients))
	for _, ing := range ingredients {
		nameByIngredient[ing.ID] = ing.Name
	}

	linesByMenu := make(map[int64][]domain.RecipeLine, len(recipes))
	for _, line := range recipes {
		linesByMenu[line.MenuID] = append(linesByMenu[line.MenuID], line)
	}

	type usageKey struct {
		date         time.Time
		ingredientID int64
	}
	totals := make(map[usageKey]float64)
	for _, item := range items {
		for _, line := range linesByMenu[item.MenuID] {
			key := usageKey{date: item.Date, ingredientID: line.IngredientID}
			totals[key] += item.Qty * line.QtyPerServing
		}
	}

	rows := make([]UsageRow, 0, len(totals))
	for key, qty := range totals {
		rows = append(rows, UsageRow{
			Date:           key.date,
			IngredientID:   key.ingredientID,
			IngredientName: nameByIngredient[key.ingredientID],
			TotalQty:       qty,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].IngredientName < rows[j].IngredientName
	})

	return rows
}

// ABCRow is one graded menu in the contribution ranking.
type ABCRow struct {
	MenuID            int64   `json:"menu_id"`
	Name              string  `json:"name"`
	Contribution      float64 `json:"contribution"`
	ContributionShare float64 `json:"contribution_share"`
	CumulativeShare   float64 `json:"cumulative_share"`
	Grade             string  `json:"grade"`
}

// ABC grades menus by cumulative contribution share: within thresholdA → A,
// within thresholdA+thresholdB → B, else C. Rows sort by share descending
// with name as the tie-break; equal shares never split across bands.
func (c *Calculator) ABC(menuCosts []MenuCost) []ABCRow {
	if len(menuCosts) == 0 {
		return []ABCRow{}
	}

	var total float64
	for _, row := range menuCosts {
		if row.Contribution > 0 {
			total += row.Contribution
		}
	}

	rows := make([]ABCRow, 0, len(menuCosts))
	for _, row := range menuCosts {
		contribution := row.Contribution
		if contribution < 0 {
			contribution = 0
		}
		rows = append(rows, ABCRow{
			MenuID:            row.MenuID,
			Name:              row.Name,
			Contribution:      row.Contribution,
			ContributionShare: numeric.Round2(numeric.Percent(contribution, total)),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ContributionShare != rows[j].ContributionShare {
			return rows[i].ContributionShare > rows[j].ContributionShare
		}
		return rows[i].Name < rows[j].Name
	})

	cumulative := 0.0
	for i := range rows {
		cumulative += rows[i].ContributionShare
		rows[i].CumulativeShare = numeric.Round2(cumulative)
		switch {
		case rows[i].CumulativeShare <= c.thresholdA:
			rows[i].Grade = "A"
		case rows[i].CumulativeShare <= c.thresholdA+c.thresholdB:
			rows[i].Grade = "B"
		default:
			rows[i].Grade = "C"
		}
	}

	// Equal shares stay in one band: a run of ties takes the band of its
	// first member.
	for i := 1; i < len(rows); i++ {
		if rows[i].ContributionShare == rows[i-1].ContributionShare {
			rows[i].Grade = rows[i-1].Grade
		}
	}

	return rows
}

// IngredientCost is the cost rollup of one ingredient over a usage window.
type IngredientCost struct {
	IngredientID   int64   `json:"ingredient_id"`
	IngredientName string  `json:"ingredient_name"`
	TotalQty       float64 `json:"total_qty"`
	TotalCost      float64 `json:"total_cost"`
	CostShare      float64 `json:"cost_share"`
}

// IngredientCosts rolls usage up into per-ingredient cost and share of the
// total, sorted by cost descending.
func (c *Calculator) IngredientCosts(usage []UsageRow, ingredients []domain.Ingredient) []IngredientCost {
	if len(usage) == 0 {
		return []IngredientCost{}
	}

	priceByIngredient := make(map[int64]int64, len(ingredients))
	nameByIngredient := make(map[int64]string, len(ingredients))
	for _, ing := range ingredients {
		priceByIngredient[ing.ID] = ing.UnitPrice
		nameByIngredient[ing.ID] = ing.Name
	}

	qtyTotals := make(map[int64]float64)
	for _, row := range usage {
		qtyTotals[row.IngredientID] += row.TotalQty
	}

	var grandTotal float64
	rows := make([]IngredientCost, 0, len(qtyTotals))
	for id, qty := range qtyTotals {
		cost := qty * float64(priceByIngredient[id])
		grandTotal += cost
		rows = append(rows, IngredientCost{
			IngredientID:   id,
			IngredientName: nameByIngredient[id],
			TotalQty:       qty,
			TotalCost:      cost,
		})
	}

	for i := range rows {
		rows[i].CostShare = numeric.Round2(numeric.Percent(rows[i].TotalCost, grandTotal))
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalCost != rows[j].TotalCost {
			return rows[i].TotalCost > rows[j].TotalCost
		}
		return rows[i].IngredientName < rows[j].IngredientName
	})

	return rows
}

// HighCostCount returns how many menus sit at or above the warning threshold.
func (c *Calculator) HighCostCount(menuCosts []MenuCost) int {
	count := 0
	for _, row := range menuCosts {
		if row.IsHighCost {
			count++
		}
	}
	return count
}

// AvgContribution returns the mean per-serving contribution across menus.
func (c *Calculator) AvgContribution(menuCosts []MenuCost) float64 {
	if len(menuCosts) == 0 {
		return 0
	}
	var sum float64
	for _, row := range menuCosts {
		sum += row.Contribution
	}
	return numeric.Round2(sum / float64(len(menuCosts)))
}
