// internal/domain/enums.go
package domain

// Five core cost categories. Fixed categories carry absolute KRW amounts;
// rate categories carry a percent of sales.
const (
	CostRent     = "rent"
	CostLabor    = "labor"
	CostUtility  = "utility"
	CostMaterial = "material"
	CostFeeVAT   = "fee_vat"
)

// FiveCostCategories is the canonical reporting order.
var FiveCostCategories = []string{CostRent, CostLabor, CostUtility, CostMaterial, CostFeeVAT}

// FixedCostCategories are summed as absolute amounts.
var FixedCostCategories = map[string]bool{
	CostRent:    true,
	CostLabor:   true,
	CostUtility: true,
}

// RateCostCategories are summed as percents of sales.
var RateCostCategories = map[string]bool{
	CostMaterial: true,
	CostFeeVAT:   true,
}

// Ingredient categories.
var IngredientCategories = map[string]bool{
	"vegetable":  true,
	"meat":       true,
	"seafood":    true,
	"seasoning":  true,
	"other":      true,
	"unassigned": true,
}

// Risk levels and status lights.
const (
	RiskGreen  = "green"
	RiskYellow = "yellow"
	RiskRed    = "red"
)

// Scorecard grades.
const (
	GradeGood = "GOOD"
	GradeWarn = "WARN"
	GradeBad  = "BAD"
)

// Sales-drop cause types, in priority order (lower is more urgent).
const (
	CauseInflowDrop       = "inflow_drop"
	CauseAvgpDrop         = "avgp_drop"
	CauseQtyDrop          = "qty_drop"
	CauseHeroMenuCollapse = "hero_menu_collapse"
	CauseCogsWorsening    = "cogs_worsening"
	CauseStructuralRisk   = "structural_risk"
)

// Design summary status bands.
const (
	DesignStable  = "stable"
	DesignWarning = "warning"
	DesignRisk    = "risk"
)
