// internal/repository/finance_repository.go
package repository

import (
	"context"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
)

// FinanceRepository serves the planned cost structure, actual settlements and
// monthly targets.
type FinanceRepository interface {
	ListExpenseStructure(ctx context.Context, storeID int64, year, month int) ([]domain.ExpenseStructure, error)
	SaveExpenseStructure(ctx context.Context, storeID int64, year, month int, rows []domain.ExpenseStructure) error

	ListActualSettlementItems(ctx context.Context, storeID int64, year, month int) ([]domain.ActualSettlementItem, error)
	SaveActualSettlementItems(ctx context.Context, storeID int64, year, month int, rows []domain.ActualSettlementItem) error

	// GetTarget returns ErrNotFound when no target is registered for the month.
	GetTarget(ctx context.Context, storeID int64, year, month int) (*domain.Target, error)
	SaveTarget(ctx context.Context, target domain.Target) error
}
