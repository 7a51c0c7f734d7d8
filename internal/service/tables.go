// internal/service/tables.go
package service

// Table names double as data-version token keys: a write bumps the tokens of
// the tables it touched and every memoized read that depends on them goes
// stale (cache.Memoizer).
const (
	tableMenus               = "menus"
	tableIngredients         = "ingredients"
	tableRecipes             = "recipes"
	tableMenuRoleTags        = "menu_role_tags"
	tableIngredientStates    = "ingredient_structure_states"
	tableSuppliers           = "suppliers"
	tableIngredientSuppliers = "ingredient_suppliers"

	tableDailySales      = "daily_sales"
	tableDailyCloses     = "daily_closes"
	tableDailySalesItems = "daily_sales_items"

	tableInventory = "inventory"

	tableExpenseStructure = "expense_structure"
	tableSettlements      = "actual_settlement_items"
	tableTargets          = "targets"

	tableHealthSessions = "health_sessions"
	tableHealthAnswers  = "health_answers"
	tableHealthResults  = "health_results"

	tableMissions     = "missions"
	tableMissionTasks = "mission_tasks"
)
