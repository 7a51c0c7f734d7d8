// internal/engine/inventory/calculator.go
package inventory

import (
	"math"
	"sort"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/engine/cost"
	"github.com/storecoach-kr/storecoach-backend/pkg/numeric"
)

// Risk levels for a stock position.
const (
	RiskUrgent  = "urgent"
	RiskWarning = "warning"
	RiskNormal  = "normal"
)

// Calculator derives stock-health views from inventory and usage. All
// quantities are base units; order-unit conversion happens at the UI edge.
type Calculator struct {
	daysForAvg   int // trailing window for average daily usage
	forecastDays int // days of demand an order should cover
	periodDays   int // window for turnover analysis
}

func NewCalculator(daysForAvg, forecastDays, periodDays int) *Calculator {
	return &Calculator{
		daysForAvg:   daysForAvg,
		forecastDays: forecastDays,
		periodDays:   periodDays,
	}
}

// AvgDailyUsage folds a usage window into per-ingredient average daily
// consumption: window total divided by the window length in days.
func AvgDailyUsage(usage []cost.UsageRow, days int) map[int64]float64 {
	if days <= 0 {
		return map[int64]float64{}
	}
	totals := make(map[int64]float64)
	for _, row := range usage {
		totals[row.IngredientID] += row.TotalQty
	}
	for id := range totals {
		totals[id] = totals[id] / float64(days)
	}
	return totals
}

// SafetyGapRow is the stock position of one ingredient against its safety
// level.
type SafetyGapRow struct {
	IngredientID  int64   `json:"ingredient_id"`
	Name          string  `json:"name"`
	OnHand        float64 `json:"on_hand"`
	Safety        float64 `json:"safety"`
	Shortage      float64 `json:"shortage"`
	ShortageRatio float64 `json:"shortage_ratio"`
	DaysOnHand    float64 `json:"days_on_hand"`
	Risk          string  `json:"risk"`
}

// SafetyGap reports every inventory row against its safety stock, most
// critical first.
func (c *Calculator) SafetyGap(ingredients []domain.Ingredient, inventory []domain.Inventory, avgDaily map[int64]float64) []SafetyGapRow {
	if len(inventory) == 0 {
		return []SafetyGapRow{}
	}

	nameByIngredient := make(map[int64]string, len(ingredients))
	for _, ing := range ingredients {
		nameByIngredient[ing.ID] = ing.Name
	}

	rows := make([]SafetyGapRow, 0, len(inventory))
	for _, inv := range inventory {
		row := SafetyGapRow{
			IngredientID:  inv.IngredientID,
			Name:          nameByIngredient[inv.IngredientID],
			OnHand:        inv.OnHand,
			Safety:        inv.SafetyStock,
			Shortage:      inv.SafetyStock - inv.OnHand,
			ShortageRatio: numeric.Round2(numeric.Percent(inv.SafetyStock-inv.OnHand, inv.SafetyStock)),
			Risk:          stockRisk(inv.OnHand, inv.SafetyStock),
		}
		if avg := avgDaily[inv.IngredientID]; avg > 0 {
			row.DaysOnHand = numeric.Round2(inv.OnHand / avg)
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ShortageRatio != rows[j].ShortageRatio {
			return rows[i].ShortageRatio > rows[j].ShortageRatio
		}
		return rows[i].Name < rows[j].Name
	})

	return rows
}

func stockRisk(onHand, safety float64) string {
	switch {
	case onHand < safety*0.5:
		return RiskUrgent
	case onHand < safety:
		return RiskWarning
	default:
		return RiskNormal
	}
}

// ReorderRow is one recommended order line.
type ReorderRow struct {
	IngredientID        int64   `json:"ingredient_id"`
	Name                string  `json:"name"`
	Unit                string  `json:"unit"`
	OnHand              float64 `json:"on_hand"`
	Safety              float64 `json:"safety"`
	RecentAvgDailyUsage float64 `json:"recent_avg_daily_usage"`
	ExpectedConsumption float64 `json:"expected_consumption"`
	OrderQty            float64 `json:"order_qty"`
	ExpectedAmount      float64 `json:"expected_amount"`
}

// Reorder recommends order quantities covering safety stock plus forecast
// demand. Only positive quantities are returned, largest first.
func (c *Calculator) Reorder(ingredients []domain.Ingredient, inventory []domain.Inventory, avgDaily map[int64]float64) []ReorderRow {
	if len(inventory) == 0 {
		return []ReorderRow{}
	}

	ingredientByID := make(map[int64]domain.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		ingredientByID[ing.ID] = ing
	}

	rows := make([]ReorderRow, 0, len(inventory))
	for _, inv := range inventory {
		ing := ingredientByID[inv.IngredientID]
		avg := avgDaily[inv.IngredientID]
		expected := avg * float64(c.forecastDays)
		orderQty := math.Max(0, inv.SafetyStock+expected-inv.OnHand)
		if orderQty <= 0 {
			continue
		}
		rows = append(rows, ReorderRow{
			IngredientID:        inv.IngredientID,
			Name:                ing.Name,
			Unit:                ing.BaseUnit,
			OnHand:              inv.OnHand,
			Safety:              inv.SafetyStock,
			RecentAvgDailyUsage: numeric.Round2(avg),
			ExpectedConsumption: numeric.Round2(expected),
			OrderQty:            numeric.Round2(orderQty),
			ExpectedAmount:      numeric.Round2(orderQty * float64(ing.UnitPrice)),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].OrderQty != rows[j].OrderQty {
			return rows[i].OrderQty > rows[j].OrderQty
		}
		return rows[i].Name < rows[j].Name
	})

	return rows
}

// SupplierOrder is the reorder lines of one supplier, with the delivery fee
// charged once for the whole group.
type SupplierOrder struct {
	SupplierID      int64        `json:"supplier_id"`
	SupplierName    string       `json:"supplier_name"`
	Items           []ReorderRow `json:"items"`
	TotalAmount     float64      `json:"total_amount"`
	DeliveryFee     int64        `json:"delivery_fee"`
	MeetsMinOrder   bool         `json:"meets_min_order"`
	MinOrderKRW     int64        `json:"min_order_krw"`
	Recommendations []string     `json:"recommendations"`
	FeeSavings      float64      `json:"fee_savings"`
}

// SupplierOptimizationResult groups reorders by supplier.
type SupplierOptimizationResult struct {
	Suppliers    []SupplierOrder `json:"suppliers"`
	Unassigned   []ReorderRow    `json:"unassigned"`
	TotalSavings float64         `json:"total_savings"`
}

// SupplierOptimization groups the reorder list per supplier. Savings compare
// one grouped delivery against ordering each item separately.
func (c *Calculator) SupplierOptimization(orders []ReorderRow, suppliers []domain.Supplier, links []domain.IngredientSupplier) SupplierOptimizationResult {
	result := SupplierOptimizationResult{Suppliers: []SupplierOrder{}, Unassigned: []ReorderRow{}}
	if len(orders) == 0 {
		return result
	}

	supplierByID := make(map[int64]domain.Supplier, len(suppliers))
	for _, sup := range suppliers {
		supplierByID[sup.ID] = sup
	}
	supplierByIngredient := make(map[int64]int64, len(links))
	for _, link := range links {
		supplierByIngredient[link.IngredientID] = link.SupplierID
	}

	grouped := make(map[int64][]ReorderRow)
	for _, order := range orders {
		supplierID, ok := supplierByIngredient[order.IngredientID]
		if !ok {
			result.Unassigned = append(result.Unassigned, order)
			continue
		}
		grouped[supplierID] = append(grouped[supplierID], order)
	}

	ids := make([]int64, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		sup := supplierByID[id]
		items := grouped[id]
		order := SupplierOrder{
			SupplierID:   id,
			SupplierName: sup.Name,
			Items:        items,
			DeliveryFee:  sup.DeliveryFee,
			MinOrderKRW:  sup.MinOrderKRW,
		}
		for _, item := range items {
			order.TotalAmount += item.ExpectedAmount
		}
		order.MeetsMinOrder = order.TotalAmount >= float64(sup.MinOrderKRW)
		if !order.MeetsMinOrder {
			shortfall := float64(sup.MinOrderKRW) - order.TotalAmount
			order.Recommendations = append(order.Recommendations,
				"add "+formatKRW(shortfall)+" KRW to reach the minimum order")
		}
		if len(items) > 1 {
			order.FeeSavings = float64(sup.DeliveryFee) * float64(len(items)-1)
		}
		result.TotalSavings += order.FeeSavings
		result.Suppliers = append(result.Suppliers, order)
	}

	return result
}

func formatKRW(v float64) string {
	return numeric.FormatThousands(int64(math.Ceil(v)))
}

// TurnoverRow is the rotation profile of one ingredient.
type TurnoverRow struct {
	IngredientID          int64   `json:"ingredient_id"`
	Name                  string  `json:"name"`
	AvgDailyUsage         float64 `json:"avg_daily_usage"`
	DaysOnHand            float64 `json:"days_on_hand"`
	AnnualTurnoverRate    float64 `json:"annual_turnover_rate"`
	OptimalOrderFrequency int     `json:"optimal_order_frequency"`
}

// Turnover derives rotation speed over the configured period. The suggested
// order frequency never drops below weekly.
func (c *Calculator) Turnover(ingredients []domain.Ingredient, inventory []domain.Inventory, avgDaily map[int64]float64) []TurnoverRow {
	if len(inventory) == 0 {
		return []TurnoverRow{}
	}

	nameByIngredient := make(map[int64]string, len(ingredients))
	for _, ing := range ingredients {
		nameByIngredient[ing.ID] = ing.Name
	}

	rows := make([]TurnoverRow, 0, len(inventory))
	for _, inv := range inventory {
		avg := avgDaily[inv.IngredientID]
		row := TurnoverRow{
			IngredientID:          inv.IngredientID,
			Name:                  nameByIngredient[inv.IngredientID],
			AvgDailyUsage:         numeric.Round2(avg),
			OptimalOrderFrequency: 7,
		}
		if avg > 0 {
			row.DaysOnHand = numeric.Round2(inv.OnHand / avg)
			if row.DaysOnHand > 0 {
				row.AnnualTurnoverRate = numeric.Round2(365 / row.DaysOnHand)
			}
			row.OptimalOrderFrequency = int(math.Max(7, math.Floor(row.DaysOnHand*0.7)))
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

	return rows
}

// SafetySnapshot is a stock position at one safety level.
type SafetySnapshot struct {
	Safety   float64 `json:"safety"`
	Shortage float64 `json:"shortage"`
	Risk     string  `json:"risk"`
	Value    float64 `json:"value"`
}

// SafetySimulation is the before/after comparison of a safety-stock change.
type SafetySimulation struct {
	IngredientID int64          `json:"ingredient_id"`
	Name         string         `json:"name"`
	PctDelta     float64        `json:"pct_delta"`
	Before       SafetySnapshot `json:"before"`
	After        SafetySnapshot `json:"after"`
}

// SimulateSafetyChange applies a percent delta to an ingredient's safety
// stock and reports the resulting position.
func (c *Calculator) SimulateSafetyChange(ing domain.Ingredient, inv domain.Inventory, pctDelta float64) SafetySimulation {
	newSafety := numeric.Round2(inv.SafetyStock * (1 + pctDelta/100))
	return SafetySimulation{
		IngredientID: ing.ID,
		Name:         ing.Name,
		PctDelta:     pctDelta,
		Before: SafetySnapshot{
			Safety:   inv.SafetyStock,
			Shortage: inv.SafetyStock - inv.OnHand,
			Risk:     stockRisk(inv.OnHand, inv.SafetyStock),
			Value:    inv.SafetyStock * float64(ing.UnitPrice),
		},
		After: SafetySnapshot{
			Safety:   newSafety,
			Shortage: newSafety - inv.OnHand,
			Risk:     stockRisk(inv.OnHand, newSafety),
			Value:    newSafety * float64(ing.UnitPrice),
		},
	}
}
