// internal/domain/models.go
package domain

import "time"

// Store represents a restaurant tenant. All other rows are scoped to one store.
type Store struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Menu is a sellable item. Name is unique per store; price is integer KRW.
type Menu struct {
	ID        int64     `json:"id" db:"id"`
	StoreID   int64     `json:"store_id" db:"store_id"`
	Name      string    `json:"name" db:"name"`
	SalePrice int64     `json:"sale_price" db:"sale_price"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Ingredient master. Recipes and stock math run in BaseUnit; OrderUnit is a
// display concern. ConversionRate maps one order unit to N base units.
type Ingredient struct {
	ID             int64     `json:"id" db:"id"`
	StoreID        int64     `json:"store_id" db:"store_id"`
	Name           string    `json:"name" db:"name"`
	BaseUnit       string    `json:"base_unit" db:"base_unit"`
	UnitPrice      int64     `json:"unit_price" db:"unit_price"`
	OrderUnit      string    `json:"order_unit" db:"order_unit"`
	ConversionRate float64   `json:"conversion_rate" db:"conversion_rate"`
	Category       string    `json:"category" db:"category"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// RecipeLine links a menu to one ingredient. Unique on (store, menu, ingredient).
type RecipeLine struct {
	StoreID       int64   `json:"store_id" db:"store_id"`
	MenuID        int64   `json:"menu_id" db:"menu_id"`
	IngredientID  int64   `json:"ingredient_id" db:"ingredient_id"`
	QtyPerServing float64 `json:"qty_per_serving" db:"qty_per_serving"`
}

// DailySales is a raw sales row. Total must equal Card + Cash on write.
type DailySales struct {
	StoreID   int64     `json:"store_id" db:"store_id"`
	Date      time.Time `json:"date" db:"date"`
	StoreName string    `json:"store_name" db:"store_name"`
	Card      int64     `json:"card" db:"card"`
	Cash      int64     `json:"cash" db:"cash"`
	Total     int64     `json:"total" db:"total"`
}

// DailySalesItem records per-menu sold quantity. Unique on (store, date, menu).
type DailySalesItem struct {
	StoreID int64     `json:"store_id" db:"store_id"`
	Date    time.Time `json:"date" db:"date"`
	MenuID  int64     `json:"menu_id" db:"menu_id"`
	Qty     float64   `json:"qty" db:"qty"`
}

// DailyClose is the official closing record for a date. It supersedes the raw
// DailySales row for the same date in the best-available view.
type DailyClose struct {
	StoreID   int64     `json:"store_id" db:"store_id"`
	Date      time.Time `json:"date" db:"date"`
	StoreName string    `json:"store_name" db:"store_name"`
	Card      int64     `json:"card" db:"card"`
	Cash      int64     `json:"cash" db:"cash"`
	Total     int64     `json:"total" db:"total"`
	Visitors  int64     `json:"visitors" db:"visitors"`
	Issues    string    `json:"issues" db:"issues"`
	Memo      string    `json:"memo" db:"memo"`
}

// BestDailySales is one row of the canonical daily-sales view: the official
// close when present, otherwise the raw sales row.
type BestDailySales struct {
	Date       time.Time `json:"date" db:"date"`
	TotalSales int64     `json:"total_sales" db:"total_sales"`
	CardSales  int64     `json:"card_sales" db:"card_sales"`
	CashSales  int64     `json:"cash_sales" db:"cash_sales"`
	Visitors   int64     `json:"visitors" db:"visitors"`
	IsOfficial bool      `json:"is_official" db:"is_official"`
	Source     string    `json:"source" db:"source"`
}

// Inventory is the stock position of one ingredient, in base units.
type Inventory struct {
	StoreID      int64     `json:"store_id" db:"store_id"`
	IngredientID int64     `json:"ingredient_id" db:"ingredient_id"`
	OnHand       float64   `json:"on_hand" db:"on_hand"`
	SafetyStock  float64   `json:"safety_stock" db:"safety_stock"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ExpenseStructure is one planned cost line for a month. For fixed categories
// Amount is absolute KRW; for rate categories Amount is a percent 0..100.
type ExpenseStructure struct {
	StoreID  int64   `json:"store_id" db:"store_id"`
	Year     int     `json:"year" db:"year"`
	Month    int     `json:"month" db:"month"`
	Category string  `json:"category" db:"category"`
	ItemName string  `json:"item_name" db:"item_name"`
	Amount   float64 `json:"amount" db:"amount"`
}

// ActualSettlementItem is one settled cost line. Exactly one of Amount or
// Percent is the primary value.
type ActualSettlementItem struct {
	StoreID    int64    `json:"store_id" db:"store_id"`
	Year       int      `json:"year" db:"year"`
	Month      int      `json:"month" db:"month"`
	TemplateID string   `json:"template_id" db:"template_id"`
	Category   string   `json:"category" db:"category"`
	Amount     *int64   `json:"amount,omitempty" db:"amount"`
	Percent    *float64 `json:"percent,omitempty" db:"percent"`
}

// Target is the monthly plan. The five rate fields should sum to ~100; a
// deviation beyond 0.1 is reported as a warning, never rejected.
type Target struct {
	StoreID         int64   `json:"store_id" db:"store_id"`
	Year            int     `json:"year" db:"year"`
	Month           int     `json:"month" db:"month"`
	TargetSales     int64   `json:"target_sales" db:"target_sales"`
	TargetCostRate  float64 `json:"target_cost_rate" db:"target_cost_rate"`
	TargetLaborRate float64 `json:"target_labor_rate" db:"target_labor_rate"`
	TargetRentRate  float64 `json:"target_rent_rate" db:"target_rent_rate"`
	TargetOtherRate float64 `json:"target_other_rate" db:"target_other_rate"`
	TargetProfit    float64 `json:"target_profit_rate" db:"target_profit_rate"`
}

// RateSum returns the sum of the five target rate fields.
func (t Target) RateSum() float64 {
	return t.TargetCostRate + t.TargetLaborRate + t.TargetRentRate + t.TargetOtherRate + t.TargetProfit
}

// MenuRoleTag classifies a menu for portfolio design. Role is one of
// bait/volume/margin/unclassified; Category is the portfolio category.
type MenuRoleTag struct {
	StoreID  int64  `json:"store_id" db:"store_id"`
	MenuID   int64  `json:"menu_id" db:"menu_id"`
	Role     string `json:"role" db:"role"`
	Category string `json:"category" db:"category"`
}

// IngredientStructureState carries per-ingredient design decisions.
// IsSubstitutable nil means undecided; OrderType "unset" means undecided.
type IngredientStructureState struct {
	StoreID         int64  `json:"store_id" db:"store_id"`
	IngredientID    int64  `json:"ingredient_id" db:"ingredient_id"`
	IsSubstitutable *bool  `json:"is_substitutable,omitempty" db:"is_substitutable"`
	OrderType       string `json:"order_type" db:"order_type"`
}

// Supplier master for order optimization.
type Supplier struct {
	ID           int64  `json:"id" db:"id"`
	StoreID      int64  `json:"store_id" db:"store_id"`
	Name         string `json:"name" db:"name"`
	MinOrderKRW  int64  `json:"min_order_krw" db:"min_order_krw"`
	DeliveryFee  int64  `json:"delivery_fee" db:"delivery_fee"`
	LeadTimeDays int    `json:"lead_time_days" db:"lead_time_days"`
	ContactMemo  string `json:"contact_memo" db:"contact_memo"`
}

// IngredientSupplier maps an ingredient to its preferred supplier.
type IngredientSupplier struct {
	StoreID      int64 `json:"store_id" db:"store_id"`
	IngredientID int64 `json:"ingredient_id" db:"ingredient_id"`
	SupplierID   int64 `json:"supplier_id" db:"supplier_id"`
}
