// internal/repository/postgres/master_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/repository"
)

type masterRepository struct {
	db *sqlx.DB
}

func NewMasterRepository(db *sqlx.DB) repository.MasterRepository {
	return &masterRepository{db: db}
}

func (r *masterRepository) ListMenus(ctx context.Context, storeID int64) ([]domain.Menu, error) {
	query := `
		SELECT id, store_id, name, sale_price, created_at, updated_at
		FROM menus
		WHERE store_id = $1
		ORDER BY name
	`

	var menus []domain.Menu
	if err := r.db.SelectContext(ctx, &menus, query, storeID); err != nil {
		return nil, fmt.Errorf("error listing menus: %w", err)
	}

	return menus, nil
}

func (r *masterRepository) SaveMenu(ctx context.Context, menu domain.Menu) (int64, error) {
	if menu.SalePrice < 0 {
		return 0, domain.NewValidationError("sale_price", menu.SalePrice, "must be non-negative")
	}

	query := `
		INSERT INTO menus (store_id, name, sale_price, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (store_id, name)
		DO UPDATE SET sale_price = EXCLUDED.sale_price, updated_at = NOW()
		RETURNING id
	`

	var id int64
	if err := r.db.GetContext(ctx, &id, query, menu.StoreID, menu.Name, menu.SalePrice); err != nil {
		return 0, fmt.Errorf("error saving menu: %w", err)
	}

	return id, nil
}

func (r *masterRepository) DeleteMenu(ctx context.Context, storeID, menuID int64) error {
	var refs int
	countQuery := `
		SELECT (SELECT COUNT(*) FROM recipe_lines WHERE store_id = $1 AND menu_id = $2)
		     + (SELECT COUNT(*) FROM daily_sales_items WHERE store_id = $1 AND menu_id = $2)
	`
	if err := r.db.GetContext(ctx, &refs, countQuery, storeID, menuID); err != nil {
		return fmt.Errorf("error counting menu references: %w", err)
	}
	if refs > 0 {
		return &domain.InvariantViolation{Entity: "menu", Detail: "still referenced by recipes or sales items"}
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM menus WHERE store_id = $1 AND id = $2`, storeID, menuID)
	if err != nil {
		return fmt.Errorf("error deleting menu: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *masterRepository) ListIngredients(ctx context.Context, storeID int64) ([]domain.Ingredient, error) {
	query := `
		SELECT id, store_id, name, base_unit, unit_price, order_unit,
		       conversion_rate, category, created_at, updated_at
		FROM ingredients
		WHERE store_id = $1
		ORDER BY name
	`

	var ingredients []domain.Ingredient
	if err := r.db.SelectContext(ctx, &ingredients, query, storeID); err != nil {
		return nil, fmt.Errorf("error listing ingredients: %w", err)
	}

	return ingredients, nil
}

func (r *masterRepository) SaveIngredient(ctx context.Context, ing domain.Ingredient) (int64, error) {
	if ing.UnitPrice < 0 {
		return 0, domain.NewValidationError("unit_price", ing.UnitPrice, "must be non-negative")
	}
	if ing.ConversionRate <= 0 {
		return 0, domain.NewValidationError("conversion_rate", ing.ConversionRate, "must be positive")
	}
	if !domain.IngredientCategories[ing.Category] {
		return 0, domain.NewValidationError("category", ing.Category, "unknown ingredient category")
	}

	query := `
		INSERT INTO ingredients (store_id, name, base_unit, unit_price, order_unit,
		                         conversion_rate, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (store_id, name)
		DO UPDATE SET base_unit = EXCLUDED.base_unit,
		              unit_price = EXCLUDED.unit_price,
		              order_unit = EXCLUDED.order_unit,
		              conversion_rate = EXCLUDED.conversion_rate,
		              category = EXCLUDED.category,
		              updated_at = NOW()
		RETURNING id
	`

	var id int64
	err := r.db.GetContext(ctx, &id, query,
		ing.StoreID, ing.Name, ing.BaseUnit, ing.UnitPrice, ing.OrderUnit,
		ing.ConversionRate, ing.Category)
	if err != nil {
		return 0, fmt.Errorf("error saving ingredient: %w", err)
	}

	return id, nil
}

func (r *masterRepository) DeleteIngredient(ctx context.Context, storeID, ingredientID int64) error {
	var refs int
	countQuery := `
		SELECT (SELECT COUNT(*) FROM recipe_lines WHERE store_id = $1 AND ingredient_id = $2)
		     + (SELECT COUNT(*) FROM inventory WHERE store_id = $1 AND ingredient_id = $2)
	`
	if err := r.db.GetContext(ctx, &refs, countQuery, storeID, ingredientID); err != nil {
		return fmt.Errorf("error counting ingredient references: %w", err)
	}
	if refs > 0 {
		return &domain.InvariantViolation{Entity: "ingredient", Detail: "still referenced by recipes or inventory"}
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM ingredients WHERE store_id = $1 AND id = $2`, storeID, ingredientID)
	if err != nil {
		return fmt.Errorf("error deleting ingredient: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *masterRepository) ListRecipeLines(ctx context.Context, storeID int64) ([]domain.RecipeLine, error) {
	query := `
		SELECT store_id, menu_id, ingredient_id, qty_per_serving
		FROM recipe_lines
		WHERE store_id = $1
		ORDER BY menu_id, ingredient_id
	`

	var lines []domain.RecipeLine
	if err := r.db.SelectContext(ctx, &lines, query, storeID); err != nil {
		return nil, fmt.Errorf("error listing recipe lines: %w", err)
	}

	return lines, nil
}

func (r *masterRepository) ListRecipeLinesForMenu(ctx context.Context, storeID, menuID int64) ([]domain.RecipeLine, error) {
	query := `
		SELECT store_id, menu_id, ingredient_id, qty_per_serving
		FROM recipe_lines
		WHERE store_id = $1 AND menu_id = $2
		ORDER BY ingredient_id
	`

	var lines []domain.RecipeLine
	if err := r.db.SelectContext(ctx, &lines, query, storeID, menuID); err != nil {
		return nil, fmt.Errorf("error listing recipe lines for menu: %w", err)
	}

	return lines, nil
}

// SaveRecipeLines replaces the full recipe of one menu in a transaction.
func (r *masterRepository) SaveRecipeLines(ctx context.Context, storeID, menuID int64, lines []domain.RecipeLine) error {
	for _, line := range lines {
		if line.QtyPerServing <= 0 {
			return domain.NewValidationError("qty_per_serving", line.QtyPerServing, "must be positive")
		}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning recipe transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_lines WHERE store_id = $1 AND menu_id = $2`, storeID, menuID); err != nil {
		return fmt.Errorf("error clearing recipe lines: %w", err)
	}

	insert := `
		INSERT INTO recipe_lines (store_id, menu_id, ingredient_id, qty_per_serving)
		VALUES ($1, $2, $3, $4)
	`
	for _, line := range lines {
		if _, err := tx.ExecContext(ctx, insert, storeID, menuID, line.IngredientID, line.QtyPerServing); err != nil {
			return fmt.Errorf("error inserting recipe line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing recipe lines: %w", err)
	}

	return nil
}

func (r *masterRepository) ListMenuRoleTags(ctx context.Context, storeID int64) ([]domain.MenuRoleTag, error) {
	query := `
		SELECT store_id, menu_id, role, category
		FROM menu_role_tags
		WHERE store_id = $1
	`

	var tags []domain.MenuRoleTag
	if err := r.db.SelectContext(ctx, &tags, query, storeID); err != nil {
		return nil, fmt.Errorf("error listing menu role tags: %w", err)
	}

	return tags, nil
}

func (r *masterRepository) SaveMenuRoleTag(ctx context.Context, tag domain.MenuRoleTag) error {
	query := `
		INSERT INTO menu_role_tags (store_id, menu_id, role, category)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (store_id, menu_id)
		DO UPDATE SET role = EXCLUDED.role, category = EXCLUDED.category
	`

	if _, err := r.db.ExecContext(ctx, query, tag.StoreID, tag.MenuID, tag.Role, tag.Category); err != nil {
		return fmt.Errorf("error saving menu role tag: %w", err)
	}

	return nil
}

func (r *masterRepository) ListIngredientStates(ctx context.Context, storeID int64) ([]domain.IngredientStructureState, error) {
	query := `
		SELECT store_id, ingredient_id, is_substitutable, order_type
		FROM ingredient_structure_states
		WHERE store_id = $1
	`

	var states []domain.IngredientStructureState
	if err := r.db.SelectContext(ctx, &states, query, storeID); err != nil {
		return nil, fmt.Errorf("error listing ingredient states: %w", err)
	}

	return states, nil
}

func (r *masterRepository) SaveIngredientState(ctx context.Context, state domain.IngredientStructureState) error {
	query := `
		INSERT INTO ingredient_structure_states (store_id, ingredient_id, is_substitutable, order_type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (store_id, ingredient_id)
		DO UPDATE SET is_substitutable = EXCLUDED.is_substitutable,
		              order_type = EXCLUDED.order_type
	`

	if _, err := r.db.ExecContext(ctx, query, state.StoreID, state.IngredientID, state.IsSubstitutable, state.OrderType); err != nil {
		return fmt.Errorf("error saving ingredient state: %w", err)
	}

	return nil
}

func (r *masterRepository) ListSuppliers(ctx context.Context, storeID int64) ([]domain.Supplier, error) {
	query := `
		SELECT id, store_id, name, min_order_krw, delivery_fee, lead_time_days, contact_memo
		FROM suppliers
		WHERE store_id = $1
		ORDER BY name
	`

	var suppliers []domain.Supplier
	if err := r.db.SelectContext(ctx, &suppliers, query, storeID); err != nil {
		return nil, fmt.Errorf("error listing suppliers: %w", err)
	}

	return suppliers, nil
}

func (r *masterRepository) SaveSupplier(ctx context.Context, sup domain.Supplier) (int64, error) {
	query := `
		INSERT INTO suppliers (store_id, name, min_order_krw, delivery_fee, lead_time_days, contact_memo)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (store_id, name)
		DO UPDATE SET min_order_krw = EXCLUDED.min_order_krw,
		              delivery_fee = EXCLUDED.delivery_fee,
		              lead_time_days = EXCLUDED.lead_time_days,
		              contact_memo = EXCLUDED.contact_memo
		RETURNING id
	`

	var id int64
	err := r.db.GetContext(ctx, &id, query,
		sup.StoreID, sup.Name, sup.MinOrderKRW, sup.DeliveryFee, sup.LeadTimeDays, sup.ContactMemo)
	if err != nil {
		return 0, fmt.Errorf("error saving supplier: %w", err)
	}

	return id, nil
}

func (r *masterRepository) ListIngredientSuppliers(ctx context.Context, storeID int64) ([]domain.IngredientSupplier, error) {
	query := `
		SELECT store_id, ingredient_id, supplier_id
		FROM ingredient_suppliers
		WHERE store_id = $1
	`

	var links []domain.IngredientSupplier
	if err := r.db.SelectContext(ctx, &links, query, storeID); err != nil {
		return nil, fmt.Errorf("error listing ingredient suppliers: %w", err)
	}

	return links, nil
}

func (r *masterRepository) SaveIngredientSupplier(ctx context.Context, link domain.IngredientSupplier) error {
	query := `
		INSERT INTO ingredient_suppliers (store_id, ingredient_id, supplier_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (store_id, ingredient_id)
		DO UPDATE SET supplier_id = EXCLUDED.supplier_id
	`

	if _, err := r.db.ExecContext(ctx, query, link.StoreID, link.IngredientID, link.SupplierID); err != nil {
		return fmt.Errorf("error saving ingredient supplier: %w", err)
	}

	return nil
}
