// internal/repository/health_repository.go
package repository

import (
	"context"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
)

// HealthRepository serves check sessions, answers and per-category results.
type HealthRepository interface {
	// GetOpenSession returns ErrNotFound when the store has no open session.
	GetOpenSession(ctx context.Context, storeID int64) (*domain.HealthSession, error)
	GetSession(ctx context.Context, sessionID int64) (*domain.HealthSession, error)
	CreateSession(ctx context.Context, storeID int64) (*domain.HealthSession, error)
	// FinalizeSession writes derived fields. CompletedAt is only set when the
	// session is not already completed.
	FinalizeSession(ctx context.Context, session domain.HealthSession) error

	ListAnswers(ctx context.Context, sessionID int64) ([]domain.HealthAnswer, error)
	UpsertAnswer(ctx context.Context, ans domain.HealthAnswer) error

	SaveResults(ctx context.Context, sessionID int64, results []domain.HealthResult) error
	ListResults(ctx context.Context, sessionID int64) ([]domain.HealthResult, error)
}
