// internal/repository/postgres/health_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/repository"
)

type healthRepository struct {
	db *sqlx.DB
}

func NewHealthRepository(db *sqlx.DB) repository.HealthRepository {
	return &healthRepository{db: db}
}

func (r *healthRepository) GetOpenSession(ctx context.Context, storeID int64) (*domain.HealthSession, error) {
	query := `
		SELECT id, store_id, started_at, completed_at, overall_score, overall_grade,
		       main_bottleneck, diagnosis_json
		FROM health_sessions
		WHERE store_id = $1 AND completed_at IS NULL
		ORDER BY started_at DESC
		LIMIT 1
	`

	var session domain.HealthSession
	if err := r.db.GetContext(ctx, &session, query, storeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("error loading open session: %w", err)
	}

	return &session, nil
}

func (r *healthRepository) GetSession(ctx context.Context, sessionID int64) (*domain.HealthSession, error) {
	query := `
		SELECT id, store_id, started_at, completed_at, overall_score, overall_grade,
		       main_bottleneck, diagnosis_json
		FROM health_sessions
		WHERE id = $1
	`

	var session domain.HealthSession
	if err := r.db.GetContext(ctx, &session, query, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("error loading session: %w", err)
	}

	return &session, nil
}

// CreateSession opens a new session. At most one open session per store is
// allowed; an existing open session is returned instead of creating another.
func (r *healthRepository) CreateSession(ctx context.Context, storeID int64) (*domain.HealthSession, error) {
	existing, err := r.GetOpenSession(ctx, storeID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	query := `
		INSERT INTO health_sessions (store_id, started_at, overall_score, overall_grade, main_bottleneck, diagnosis_json)
		VALUES ($1, NOW(), 0, '', '', '')
		RETURNING id, store_id, started_at, completed_at, overall_score, overall_grade,
		          main_bottleneck, diagnosis_json
	`

	var session domain.HealthSession
	if err := r.db.GetContext(ctx, &session, query, storeID); err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	return &session, nil
}

// FinalizeSession upserts the derived fields. completed_at is preserved once
// set so re-finalizing stays idempotent.
func (r *healthRepository) FinalizeSession(ctx context.Context, session domain.HealthSession) error {
	query := `
		UPDATE health_sessions
		SET overall_score = $2,
		    overall_grade = $3,
		    main_bottleneck = $4,
		    diagnosis_json = $5,
		    completed_at = COALESCE(completed_at, NOW())
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		session.ID, session.OverallScore, session.OverallGrade,
		session.MainBottleneck, session.DiagnosisJSON)
	if err != nil {
		return fmt.Errorf("error finalizing session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *healthRepository) ListAnswers(ctx context.Context, sessionID int64) ([]domain.HealthAnswer, error) {
	query := `
		SELECT store_id, session_id, category, question_code, raw, score, memo
		FROM health_answers
		WHERE session_id = $1
		ORDER BY category, question_code
	`

	var answers []domain.HealthAnswer
	if err := r.db.SelectContext(ctx, &answers, query, sessionID); err != nil {
		return nil, fmt.Errorf("error listing answers: %w", err)
	}

	return answers, nil
}

func (r *healthRepository) UpsertAnswer(ctx context.Context, ans domain.HealthAnswer) error {
	query := `
		INSERT INTO health_answers (store_id, session_id, category, question_code, raw, score, memo)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id, category, question_code)
		DO UPDATE SET raw = EXCLUDED.raw,
		              score = EXCLUDED.score,
		              memo = EXCLUDED.memo
	`

	_, err := r.db.ExecContext(ctx, query,
		ans.StoreID, ans.SessionID, ans.Category, ans.QuestionCode, ans.Raw, ans.Score, ans.Memo)
	if err != nil {
		return fmt.Errorf("error upserting answer: %w", err)
	}

	return nil
}

func (r *healthRepository) SaveResults(ctx context.Context, sessionID int64, results []domain.HealthResult) error {
	query := `
		INSERT INTO health_results (store_id, session_id, category, score_avg, risk_level, strength_flags, risk_flags)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id, category)
		DO UPDATE SET score_avg = EXCLUDED.score_avg,
		              risk_level = EXCLUDED.risk_level,
		              strength_flags = EXCLUDED.strength_flags,
		              risk_flags = EXCLUDED.risk_flags
	`

	for _, res := range results {
		_, err := r.db.ExecContext(ctx, query,
			res.StoreID, sessionID, res.Category, res.ScoreAvg, res.RiskLevel,
			pq.Array(res.StrengthFlags), pq.Array(res.RiskFlags))
		if err != nil {
			return fmt.Errorf("error saving result for %s: %w", res.Category, err)
		}
	}

	return nil
}

func (r *healthRepository) ListResults(ctx context.Context, sessionID int64) ([]domain.HealthResult, error) {
	query := `
		SELECT store_id, session_id, category, score_avg, risk_level, strength_flags, risk_flags
		FROM health_results
		WHERE session_id = $1
		ORDER BY category
	`

	rows, err := r.db.QueryxContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error listing results: %w", err)
	}
	defer rows.Close()

	var results []domain.HealthResult
	for rows.Next() {
		var res domain.HealthResult
		var strengths, risks pq.StringArray
		if err := rows.Scan(&res.StoreID, &res.SessionID, &res.Category, &res.ScoreAvg,
			&res.RiskLevel, &strengths, &risks); err != nil {
			return nil, fmt.Errorf("error scanning result: %w", err)
		}
		res.StrengthFlags = strengths
		res.RiskFlags = risks
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}

	return results, nil
}
