// internal/repository/postgres/mission_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/repository"
)

type missionRepository struct {
	db *sqlx.DB
}

func NewMissionRepository(db *sqlx.DB) repository.MissionRepository {
	return &missionRepository{db: db}
}

func (r *missionRepository) GetActiveMission(ctx context.Context, storeID int64, date time.Time) (*domain.Mission, error) {
	query := `
		SELECT id, store_id, mission_date, status, cause_type, title, reason_json, cta_page, completed_at
		FROM missions
		WHERE store_id = $1 AND mission_date = $2 AND status = $3
	`

	var mission domain.Mission
	if err := r.db.GetContext(ctx, &mission, query, storeID, date, domain.MissionStatusActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("error loading active mission: %w", err)
	}

	return &mission, nil
}

func (r *missionRepository) GetMission(ctx context.Context, missionID int64) (*domain.Mission, error) {
	query := `
		SELECT id, store_id, mission_date, status, cause_type, title, reason_json, cta_page, completed_at
		FROM missions
		WHERE id = $1
	`

	var mission domain.Mission
	if err := r.db.GetContext(ctx, &mission, query, missionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("error loading mission: %w", err)
	}

	return &mission, nil
}

// CreateMission inserts a mission and its checklist in one transaction. The
// one-active-mission-per-day invariant is enforced before the insert.
func (r *missionRepository) CreateMission(ctx context.Context, mission domain.Mission, tasks []domain.MissionTask) (int64, error) {
	var active int
	check := `SELECT COUNT(*) FROM missions WHERE store_id = $1 AND mission_date = $2 AND status = $3`
	if err := r.db.GetContext(ctx, &active, check, mission.StoreID, mission.MissionDate, domain.MissionStatusActive); err != nil {
		return 0, fmt.Errorf("error checking active missions: %w", err)
	}
	if active > 0 {
		return 0, &domain.InvariantViolation{Entity: "mission", Detail: "an active mission already exists for this date"}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("error beginning mission transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO missions (store_id, mission_date, status, cause_type, title, reason_json, cta_page)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err = tx.GetContext(ctx, &id, insert,
		mission.StoreID, mission.MissionDate, domain.MissionStatusActive,
		mission.CauseType, mission.Title, mission.ReasonJSON, mission.CTAPage)
	if err != nil {
		return 0, fmt.Errorf("error inserting mission: %w", err)
	}

	taskInsert := `
		INSERT INTO mission_tasks (mission_id, task_order, title, is_done)
		VALUES ($1, $2, $3, false)
	`
	for i, task := range tasks {
		if _, err := tx.ExecContext(ctx, taskInsert, id, i+1, task.Title); err != nil {
			return 0, fmt.Errorf("error inserting mission task: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing mission: %w", err)
	}

	return id, nil
}

func (r *missionRepository) UpdateMissionStatus(ctx context.Context, missionID int64, status string, completedAt *time.Time) error {
	switch status {
	case domain.MissionStatusActive, domain.MissionStatusCompleted, domain.MissionStatusAbandoned:
	default:
		return domain.NewValidationError("status", status, "unknown mission status")
	}

	query := `UPDATE missions SET status = $2, completed_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, missionID, status, completedAt)
	if err != nil {
		return fmt.Errorf("error updating mission status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *missionRepository) ListMissions(ctx context.Context, storeID int64, limit int) ([]domain.Mission, error) {
	if limit <= 0 {
		limit = 30
	}

	query := `
		SELECT id, store_id, mission_date, status, cause_type, title, reason_json, cta_page, completed_at
		FROM missions
		WHERE store_id = $1
		ORDER BY mission_date DESC
		LIMIT $2
	`

	var missions []domain.Mission
	if err := r.db.SelectContext(ctx, &missions, query, storeID, limit); err != nil {
		return nil, fmt.Errorf("error listing missions: %w", err)
	}

	return missions, nil
}

func (r *missionRepository) ListTasks(ctx context.Context, missionID int64) ([]domain.MissionTask, error) {
	query := `
		SELECT id, mission_id, task_order, title, is_done
		FROM mission_tasks
		WHERE mission_id = $1
		ORDER BY task_order
	`

	var tasks []domain.MissionTask
	if err := r.db.SelectContext(ctx, &tasks, query, missionID); err != nil {
		return nil, fmt.Errorf("error listing mission tasks: %w", err)
	}

	return tasks, nil
}

func (r *missionRepository) SetTaskDone(ctx context.Context, taskID int64, done bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE mission_tasks SET is_done = $2 WHERE id = $1`, taskID, done)
	if err != nil {
		return fmt.Errorf("error updating task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}

	return nil
}
