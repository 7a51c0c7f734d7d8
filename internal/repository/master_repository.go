// internal/repository/master_repository.go
package repository

import (
	"context"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
)

// MasterRepository serves the long-lived master tables: menus, ingredients,
// recipes and suppliers. Deletes are refused while dependents exist.
type MasterRepository interface {
	ListMenus(ctx context.Context, storeID int64) ([]domain.Menu, error)
	SaveMenu(ctx context.Context, menu domain.Menu) (int64, error)
	DeleteMenu(ctx context.Context, storeID, menuID int64) error

	ListIngredients(ctx context.Context, storeID int64) ([]domain.Ingredient, error)
	SaveIngredient(ctx context.Context, ing domain.Ingredient) (int64, error)
	DeleteIngredient(ctx context.Context, storeID, ingredientID int64) error

	ListRecipeLines(ctx context.Context, storeID int64) ([]domain.RecipeLine, error)
	ListRecipeLinesForMenu(ctx context.Context, storeID, menuID int64) ([]domain.RecipeLine, error)
	SaveRecipeLines(ctx context.Context, storeID, menuID int64, lines []domain.RecipeLine) error

	ListMenuRoleTags(ctx context.Context, storeID int64) ([]domain.MenuRoleTag, error)
	SaveMenuRoleTag(ctx context.Context, tag domain.MenuRoleTag) error

	ListIngredientStates(ctx context.Context, storeID int64) ([]domain.IngredientStructureState, error)
	SaveIngredientState(ctx context.Context, state domain.IngredientStructureState) error

	ListSuppliers(ctx context.Context, storeID int64) ([]domain.Supplier, error)
	SaveSupplier(ctx context.Context, sup domain.Supplier) (int64, error)
	ListIngredientSuppliers(ctx context.Context, storeID int64) ([]domain.IngredientSupplier, error)
	SaveIngredientSupplier(ctx context.Context, link domain.IngredientSupplier) error
}
