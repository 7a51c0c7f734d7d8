// internal/repository/postgres/inventory_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/repository"
)

type inventoryRepository struct {
	db *sqlx.DB
}

func NewInventoryRepository(db *sqlx.DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) ListInventory(ctx context.Context, storeID int64) ([]domain.Inventory, error) {
	query := `
		SELECT store_id, ingredient_id, on_hand, safety_stock, updated_at
		FROM inventory
		WHERE store_id = $1
		ORDER BY ingredient_id
	`

	var rows []domain.Inventory
	if err := r.db.SelectContext(ctx, &rows, query, storeID); err != nil {
		return nil, fmt.Errorf("error listing inventory: %w", err)
	}

	return rows, nil
}

func (r *inventoryRepository) UpsertInventory(ctx context.Context, row domain.Inventory) error {
	if row.OnHand < 0 || row.SafetyStock < 0 {
		return domain.NewValidationError("on_hand/safety_stock", row.OnHand, "must be non-negative")
	}

	query := `
		INSERT INTO inventory (store_id, ingredient_id, on_hand, safety_stock, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (store_id, ingredient_id)
		DO UPDATE SET on_hand = EXCLUDED.on_hand,
		              safety_stock = EXCLUDED.safety_stock,
		              updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, row.StoreID, row.IngredientID, row.OnHand, row.SafetyStock); err != nil {
		return fmt.Errorf("error upserting inventory: %w", err)
	}

	return nil
}
