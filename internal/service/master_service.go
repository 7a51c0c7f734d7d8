// internal/service/master_service.go
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/storecoach-kr/storecoach-backend/internal/cache"
	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/repository"
)

// MasterService handles master-data CRUD. Every write bumps the version
// tokens of the tables it touched so memoized analytics go stale.
type MasterService struct {
	master repository.MasterRepository
	memo   cache.Memoizer
}

func NewMasterService(master repository.MasterRepository, memo cache.Memoizer) *MasterService {
	if memo == nil {
		memo = cache.NewNoopMemoizer()
	}
	return &MasterService{master: master, memo: memo}
}

func (s *MasterService) ListMenus(ctx context.Context, storeID int64) ([]domain.Menu, error) {
	menus, err := s.master.ListMenus(ctx, storeID)
	if err != nil {
		log.Warn().Err(err).Msg("master: menus load failed")
		return []domain.Menu{}, nil
	}
	return menus, nil
}

func (s *MasterService) SaveMenu(ctx context.Context, menu domain.Menu) (int64, error) {
	if menu.Name == "" {
		return 0, domain.NewValidationError("name", menu.Name, "name is required")
	}
	if menu.SalePrice < 0 {
		return 0, domain.NewValidationError("sale_price", menu.SalePrice, "must not be negative")
	}
	id, err := s.master.SaveMenu(ctx, menu)
	if err != nil {
		return 0, fmt.Errorf("error saving menu: %w", err)
	}
	s.bump(ctx, menu.StoreID, tableMenus)
	return id, nil
}

// DeleteMenu refuses while recipes or sales items reference the menu; the
// repository surfaces that as an InvariantViolation.
func (s *MasterService) DeleteMenu(ctx context.Context, storeID, menuID int64) error {
	if err := s.master.DeleteMenu(ctx, storeID, menuID); err != nil {
		return err
	}
	s.bump(ctx, storeID, tableMenus, tableRecipes)
	return nil
}

func (s *MasterService) ListIngredients(ctx context.Context, storeID int64) ([]domain.Ingredient, error) {
	ingredients, err := s.master.ListIngredients(ctx, storeID)
	if err != nil {
		log.Warn().Err(err).Msg("master: ingredients load failed")
		return []domain.Ingredient{}, nil
	}
	return ingredients, nil
}

func (s *MasterService) SaveIngredient(ctx context.Context, ing domain.Ingredient) (int64, error) {
	if ing.Name == "" {
		return 0, domain.NewValidationError("name", ing.Name, "name is required")
	}
	if ing.UnitPrice < 0 {
		return 0, domain.NewValidationError("unit_price", ing.UnitPrice, "must not be negative")
	}
	if ing.Category != "" && !domain.IngredientCategories[ing.Category] {
		return 0, domain.NewValidationError("category", ing.Category, "unknown ingredient category")
	}
	if ing.ConversionRate <= 0 {
		return 0, domain.NewValidationError("conversion_rate", ing.ConversionRate, "must be positive")
	}
	id, err := s.master.SaveIngredient(ctx, ing)
	if err != nil {
		return 0, fmt.Errorf("error saving ingredient: %w", err)
	}
	s.bump(ctx, ing.StoreID, tableIngredients)
	return id, nil
}

func (s *MasterService) DeleteIngredient(ctx context.Context, storeID, ingredientID int64) error {
	if err := s.master.DeleteIngredient(ctx, storeID, ingredientID); err != nil {
		return err
	}
	s.bump(ctx, storeID, tableIngredients, tableRecipes)
	return nil
}

func (s *MasterService) ListRecipeLines(ctx context.Context, storeID, menuID int64) ([]domain.RecipeLine, error) {
	lines, err := s.master.ListRecipeLinesForMenu(ctx, storeID, menuID)
	if err != nil {
		log.Warn().Err(err).Msg("master: recipes load failed")
		return []domain.RecipeLine{}, nil
	}
	return lines, nil
}

// SaveRecipeLines replaces one menu's recipe.
func (s *MasterService) SaveRecipeLines(ctx context.Context, storeID, menuID int64, lines []domain.RecipeLine) error {
	for _, line := range lines {
		if line.QtyPerServing <= 0 {
			return domain.NewValidationError("qty_per_serving", line.QtyPerServing, "must be positive")
		}
	}
	if err := s.master.SaveRecipeLines(ctx, storeID, menuID, lines); err != nil {
		return fmt.Errorf("error saving recipe: %w", err)
	}
	s.bump(ctx, storeID, tableRecipes)
	return nil
}

func (s *MasterService) ListSuppliers(ctx context.Context, storeID int64) ([]domain.Supplier, error) {
	suppliers, err := s.master.ListSuppliers(ctx, storeID)
	if err != nil {
		log.Warn().Err(err).Msg("master: suppliers load failed")
		return []domain.Supplier{}, nil
	}
	return suppliers, nil
}

func (s *MasterService) SaveSupplier(ctx context.Context, sup domain.Supplier) (int64, error) {
	if sup.Name == "" {
		return 0, domain.NewValidationError("name", sup.Name, "name is required")
	}
	if sup.MinOrderKRW < 0 || sup.DeliveryFee < 0 {
		return 0, domain.NewValidationError("min_order_krw", sup.MinOrderKRW, "amounts must not be negative")
	}
	id, err := s.master.SaveSupplier(ctx, sup)
	if err != nil {
		return 0, fmt.Errorf("error saving supplier: %w", err)
	}
	s.bump(ctx, sup.StoreID, tableSuppliers)
	return id, nil
}

// SaveIngredientSupplier maps an ingredient to its preferred supplier.
func (s *MasterService) SaveIngredientSupplier(ctx context.Context, link domain.IngredientSupplier) error {
	if err := s.master.SaveIngredientSupplier(ctx, link); err != nil {
		return fmt.Errorf("error saving supplier link: %w", err)
	}
	s.bump(ctx, link.StoreID, tableIngredientSuppliers)
	return nil
}

func (s *MasterService) bump(ctx context.Context, storeID int64, tables ...string) {
	if err := s.memo.BumpVersions(ctx, storeID, tables...); err != nil {
		log.Warn().Err(err).Msg("master: version bump failed")
	}
}
