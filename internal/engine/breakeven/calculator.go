// internal/engine/breakeven/calculator.go
package breakeven

import (
	"fmt"
	"math"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/pkg/numeric"
)

// Calculator normalizes the five-category cost structure and derives the
// break-even model from it. Pure; absent rows produce zero-valued results.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// CategoryCost is one normalized category: Amount in KRW and Rate in percent
// of monthly sales.
type CategoryCost struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Rate     float64 `json:"rate"`
}

// FiveCoreCosts carries the five categories in canonical order.
type FiveCoreCosts struct {
	Categories []CategoryCost `json:"categories"`
}

// Get returns the named category, zero-valued when missing.
func (f FiveCoreCosts) Get(category string) CategoryCost {
	for _, c := range f.Categories {
		if c.Category == category {
			return c
		}
	}
	return CategoryCost{Category: category}
}

// FiveCore normalizes structure rows against monthly sales. Fixed categories
// sum absolute amounts and derive the rate; rate categories sum percents and
// derive the amount.
func (c *Calculator) FiveCore(rows []domain.ExpenseStructure, monthlySales int64) FiveCoreCosts {
	amountSum := make(map[string]float64)
	rateSum := make(map[string]float64)
	for _, row := range rows {
		if domain.FixedCostCategories[row.Category] {
			amountSum[row.Category] += row.Amount
		} else if domain.RateCostCategories[row.Category] {
			rateSum[row.Category] += row.Amount
		}
	}

	out := FiveCoreCosts{Categories: make([]CategoryCost, 0, len(domain.FiveCostCategories))}
	for _, category := range domain.FiveCostCategories {
		cc := CategoryCost{Category: category}
		if domain.FixedCostCategories[category] {
			cc.Amount = amountSum[category]
			cc.Rate = numeric.Round2(numeric.Percent(cc.Amount, float64(monthlySales)))
		} else {
			cc.Rate = rateSum[category]
			cc.Amount = math.Floor(float64(monthlySales) * cc.Rate / 100)
		}
		out.Categories = append(out.Categories, cc)
	}

	return out
}

// FixedCosts sums the absolute amounts of the fixed categories.
func (c *Calculator) FixedCosts(five FiveCoreCosts) float64 {
	var sum float64
	for _, cc := range five.Categories {
		if domain.FixedCostCategories[cc.Category] {
			sum += cc.Amount
		}
	}
	return sum
}

// VariableRatio sums the rate categories as a fraction 0..1.
func (c *Calculator) VariableRatio(five FiveCoreCosts) float64 {
	var sum float64
	for _, cc := range five.Categories {
		if domain.RateCostCategories[cc.Category] {
			sum += cc.Rate
		}
	}
	return sum / 100
}

// BreakEven returns fixed / (1 - varRatio), floored to integer KRW. Returns 0
// when the structure cannot break even (varRatio >= 1) or has no fixed costs.
func (c *Calculator) BreakEven(fixed, varRatio float64) int64 {
	if varRatio >= 1 || fixed <= 0 {
		return 0
	}
	return int64(math.Floor(fixed / (1 - varRatio)))
}

// SalesLevelCosts is the simulated cost structure at one sales level.
type SalesLevelCosts struct {
	Sales           int64          `json:"sales"`
	Categories      []CategoryCost `json:"categories"`
	TotalCost       float64        `json:"total_cost"`
	OperatingProfit float64        `json:"operating_profit"`
}

// AtSalesLevel projects each category to an arbitrary sales level: fixed
// amounts stay, rate amounts scale.
func (c *Calculator) AtSalesLevel(sales int64, five FiveCoreCosts) SalesLevelCosts {
	out := SalesLevelCosts{Sales: sales, Categories: make([]CategoryCost, 0, len(five.Categories))}
	for _, cc := range five.Categories {
		projected := cc
		if domain.RateCostCategories[cc.Category] {
			projected.Amount = math.Floor(float64(sales) * cc.Rate / 100)
		} else {
			projected.Rate = numeric.Round2(numeric.Percent(cc.Amount, float64(sales)))
		}
		out.Categories = append(out.Categories, projected)
		out.TotalCost += projected.Amount
	}
	out.OperatingProfit = float64(sales) - out.TotalCost
	return out
}

// ScorecardRow compares one category's target against actuals.
type ScorecardRow struct {
	Category     string  `json:"category"`
	TargetAmount float64 `json:"target_amount"`
	ActualAmount float64 `json:"actual_amount"`
	DiffAmount   float64 `json:"diff_amount"`
	TargetRate   float64 `json:"target_rate"`
	ActualRate   float64 `json:"actual_rate"`
	DiffRate     float64 `json:"diff_rate"`
	Grade        string  `json:"grade"`
}

// Scorecard is the monthly target-vs-actual summary.
type Scorecard struct {
	Rows        []ScorecardRow `json:"rows"`
	TargetSales int64          `json:"target_sales"`
	ActualSales int64          `json:"actual_sales"`
	TargetTotal float64        `json:"target_total"`
	ActualTotal float64        `json:"actual_total"`
	Achievement float64        `json:"achievement"`
	Comments    []string       `json:"comments"`
}

// BuildScorecard grades each category. Fixed categories grade on the amount
// overrun relative to target; rate categories grade on percentage-point drift.
func (c *Calculator) BuildScorecard(targetSales, actualSales int64, target, actual FiveCoreCosts) Scorecard {
	card := Scorecard{
		TargetSales: targetSales,
		ActualSales: actualSales,
		Achievement: numeric.Round2(numeric.Percent(float64(actualSales), float64(targetSales))),
		Rows:        make([]ScorecardRow, 0, len(domain.FiveCostCategories)),
	}

	for _, category := range domain.FiveCostCategories {
		t := target.Get(category)
		a := actual.Get(category)
		row := ScorecardRow{
			Category:     category,
			TargetAmount: t.Amount,
			ActualAmount: a.Amount,
			DiffAmount:   a.Amount - t.Amount,
			TargetRate:   t.Rate,
			ActualRate:   a.Rate,
			DiffRate:     numeric.Round2(a.Rate - t.Rate),
		}

		if domain.FixedCostCategories[category] {
			switch {
			case row.DiffAmount <= 0:
				row.Grade = domain.GradeGood
			case row.DiffAmount <= t.Amount*0.05:
				row.Grade = domain.GradeWarn
			default:
				row.Grade = domain.GradeBad
			}
		} else {
			switch {
			case row.DiffRate <= 0:
				row.Grade = domain.GradeGood
			case row.DiffRate <= 5.0:
				row.Grade = domain.GradeWarn
			default:
				row.Grade = domain.GradeBad
			}
		}

		card.TargetTotal += t.Amount
		card.ActualTotal += a.Amount
		card.Rows = append(card.Rows, row)
	}

	for _, row := range card.Rows {
		switch row.Grade {
		case domain.GradeBad:
			card.Comments = append(card.Comments, fmt.Sprintf("%s spending is well over plan", row.Category))
		case domain.GradeWarn:
			card.Comments = append(card.Comments, fmt.Sprintf("%s spending is slightly over plan", row.Category))
		}
	}
	if card.Achievement < 100 && targetSales > 0 {
		card.Comments = append(card.Comments, "sales are below the monthly target")
	}

	return card
}
