// internal/repository/inventory_repository.go
package repository

import (
	"context"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
)

// InventoryRepository serves stock positions. All quantities are base units.
type InventoryRepository interface {
	ListInventory(ctx context.Context, storeID int64) ([]domain.Inventory, error)
	UpsertInventory(ctx context.Context, row domain.Inventory) error
}
