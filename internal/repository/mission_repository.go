// internal/repository/mission_repository.go
package repository

import (
	"context"
	"time"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
)

// MissionRepository serves daily missions and their tasks. At most one active
// mission may exist per (store, date); CreateMission enforces it.
type MissionRepository interface {
	// GetActiveMission returns ErrNotFound when no active mission exists for
	// the date.
	GetActiveMission(ctx context.Context, storeID int64, date time.Time) (*domain.Mission, error)
	GetMission(ctx context.Context, missionID int64) (*domain.Mission, error)
	CreateMission(ctx context.Context, mission domain.Mission, tasks []domain.MissionTask) (int64, error)
	UpdateMissionStatus(ctx context.Context, missionID int64, status string, completedAt *time.Time) error
	ListMissions(ctx context.Context, storeID int64, limit int) ([]domain.Mission, error)

	ListTasks(ctx context.Context, missionID int64) ([]domain.MissionTask, error)
	SetTaskDone(ctx context.Context, taskID int64, done bool) error
}
