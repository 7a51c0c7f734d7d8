// internal/service/backup_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/repository"
	"github.com/storecoach-kr/storecoach-backend/internal/storage"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

// Trailing sales window included in a backup snapshot.
const backupSalesDays = 90

// BackupService exports a store snapshot to object storage as one JSON
// document per run.
type BackupService struct {
	master repository.MasterRepository
	sales  repository.SalesRepository
	inv    repository.InventoryRepository
	store  storage.ObjectStorage
	clock  timeutil.Clock
}

func NewBackupService(master repository.MasterRepository, sales repository.SalesRepository, inv repository.InventoryRepository, store storage.ObjectStorage, clock timeutil.Clock) *BackupService {
	return &BackupService{master: master, sales: sales, inv: inv, store: store, clock: clock}
}

// Snapshot is the exported document. Sales carry the last 90 best-available
// days; settlement and target history stays in the database.
type Snapshot struct {
	StoreID     int64                             `json:"store_id"`
	ExportedAt  time.Time                         `json:"exported_at"`
	Menus       []domain.Menu                     `json:"menus"`
	Ingredients []domain.Ingredient               `json:"ingredients"`
	Recipes     []domain.RecipeLine               `json:"recipes"`
	RoleTags    []domain.MenuRoleTag              `json:"menu_role_tags"`
	States      []domain.IngredientStructureState `json:"ingredient_states"`
	Suppliers   []domain.Supplier                 `json:"suppliers"`
	Links       []domain.IngredientSupplier       `json:"ingredient_suppliers"`
	Inventory   []domain.Inventory                `json:"inventory"`
	DailySales  []domain.BestDailySales           `json:"daily_sales"`
}

// Export uploads a snapshot and returns its object key.
func (s *BackupService) Export(ctx context.Context, storeID int64) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("backup storage is not configured")
	}

	now := s.clock.NowKST()
	snapshot := Snapshot{StoreID: storeID, ExportedAt: now}

	var err error
	if snapshot.Menus, err = s.master.ListMenus(ctx, storeID); err != nil {
		return "", fmt.Errorf("error loading menus: %w", err)
	}
	if snapshot.Ingredients, err = s.master.ListIngredients(ctx, storeID); err != nil {
		return "", fmt.Errorf("error loading ingredients: %w", err)
	}
	if snapshot.Recipes, err = s.master.ListRecipeLines(ctx, storeID); err != nil {
		return "", fmt.Errorf("error loading recipes: %w", err)
	}
	if snapshot.RoleTags, err = s.master.ListMenuRoleTags(ctx, storeID); err != nil {
		return "", fmt.Errorf("error loading role tags: %w", err)
	}
	if snapshot.States, err = s.master.ListIngredientStates(ctx, storeID); err != nil {
		return "", fmt.Errorf("error loading ingredient states: %w", err)
	}
	if snapshot.Suppliers, err = s.master.ListSuppliers(ctx, storeID); err != nil {
		return "", fmt.Errorf("error loading suppliers: %w", err)
	}
	if snapshot.Links, err = s.master.ListIngredientSuppliers(ctx, storeID); err != nil {
		return "", fmt.Errorf("error loading supplier links: %w", err)
	}
	if snapshot.Inventory, err = s.inv.ListInventory(ctx, storeID); err != nil {
		return "", fmt.Errorf("error loading inventory: %w", err)
	}

	end := timeutil.DateOf(now)
	start := end.AddDate(0, 0, -(backupSalesDays - 1))
	if snapshot.DailySales, err = s.sales.BestAvailableDailySales(ctx, storeID, &start, &end); err != nil {
		return "", fmt.Errorf("error loading daily sales: %w", err)
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("error encoding snapshot: %w", err)
	}

	key := fmt.Sprintf("backups/store-%d/%s-%s.json", storeID, now.Format("20060102T150405"), uuid.NewString())
	if err := s.store.UploadObject(ctx, key, payload); err != nil {
		return "", err
	}

	log.Info().Int64("store_id", storeID).Str("key", key).Int("bytes", len(payload)).Msg("backup exported")
	return key, nil
}
