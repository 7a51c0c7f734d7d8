// internal/service/health_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/storecoach-kr/storecoach-backend/internal/cache"
	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/engine/health"
	"github.com/storecoach-kr/storecoach-backend/internal/repository"
)

// HealthService runs the store check lifecycle: open a session, collect
// answers, finalize into scores and a diagnosis.
type HealthService struct {
	repo repository.HealthRepository
	memo cache.Memoizer
}

func NewHealthService(repo repository.HealthRepository, memo cache.Memoizer) *HealthService {
	if memo == nil {
		memo = cache.NewNoopMemoizer()
	}
	return &HealthService{repo: repo, memo: memo}
}

// HealthReport bundles a session with its per-category results and the
// structured diagnosis, when present.
type HealthReport struct {
	Session   domain.HealthSession    `json:"session"`
	Results   []domain.HealthResult   `json:"results"`
	Diagnosis *domain.HealthDiagnosis `json:"diagnosis,omitempty"`
}

// StartSession returns the store's open session, creating one when none
// exists.
func (s *HealthService) StartSession(ctx context.Context, storeID int64) (*domain.HealthSession, error) {
	session, err := s.repo.GetOpenSession(ctx, storeID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("error loading open session: %w", err)
	}

	session, err = s.repo.CreateSession(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}
	s.bump(ctx, storeID, tableHealthSessions)
	return session, nil
}

// Answer records one answer on an open session. Completed sessions are
// immutable.
func (s *HealthService) Answer(ctx context.Context, storeID, sessionID int64, category, questionCode, raw, memo string) error {
	if domain.HealthCategoryNames[category] == "" {
		return domain.NewValidationError("category", category, "unknown check category")
	}

	score, err := health.ScoreFromRaw(raw)
	if err != nil {
		return err
	}

	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("error loading session: %w", err)
	}
	if session.StoreID != storeID {
		return repository.ErrNotFound
	}
	if session.CompletedAt != nil {
		return domain.NewValidationError("session_id", sessionID, "session already completed")
	}

	ans := domain.HealthAnswer{
		StoreID:      storeID,
		SessionID:    sessionID,
		Category:     category,
		QuestionCode: questionCode,
		Raw:          raw,
		Score:        score,
		Memo:         memo,
	}
	if err := s.repo.UpsertAnswer(ctx, ans); err != nil {
		return fmt.Errorf("error saving answer: %w", err)
	}
	s.bump(ctx, storeID, tableHealthAnswers)
	return nil
}

// Finalize scores the session, stores per-category results and attaches the
// diagnosis. Re-finalizing recomputes derived fields without moving the
// completion timestamp. The diagnosis is best effort: a serialization failure
// logs a warning and the finalize still succeeds.
func (s *HealthService) Finalize(ctx context.Context, storeID, sessionID int64) (*HealthReport, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error loading session: %w", err)
	}
	if session.StoreID != storeID {
		return nil, repository.ErrNotFound
	}

	answers, err := s.repo.ListAnswers(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error loading answers: %w", err)
	}

	outcome := health.Score(storeID, sessionID, answers)
	session.OverallScore = outcome.OverallScore
	session.OverallGrade = outcome.OverallGrade
	session.MainBottleneck = outcome.MainBottleneck

	diagnosis := health.Diagnose(outcome.AxisScores)
	if payload, err := json.Marshal(diagnosis); err != nil {
		log.Warn().Err(err).Msg("health check: diagnosis encode failed")
		session.DiagnosisJSON = ""
	} else {
		session.DiagnosisJSON = string(payload)
	}

	if err := s.repo.SaveResults(ctx, sessionID, outcome.Results); err != nil {
		return nil, fmt.Errorf("error saving results: %w", err)
	}
	if err := s.repo.FinalizeSession(ctx, *session); err != nil {
		return nil, fmt.Errorf("error finalizing session: %w", err)
	}
	s.bump(ctx, storeID, tableHealthSessions, tableHealthResults)

	return &HealthReport{Session: *session, Results: outcome.Results, Diagnosis: &diagnosis}, nil
}

// Report returns the stored outcome of a session.
func (s *HealthService) Report(ctx context.Context, storeID, sessionID int64) (*HealthReport, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error loading session: %w", err)
	}
	if session.StoreID != storeID {
		return nil, repository.ErrNotFound
	}

	results, err := s.repo.ListResults(ctx, sessionID)
	if err != nil {
		log.Warn().Err(err).Msg("health check: results load failed")
		results = []domain.HealthResult{}
	}

	report := &HealthReport{Session: *session, Results: results}
	if session.DiagnosisJSON != "" {
		var diagnosis domain.HealthDiagnosis
		if err := json.Unmarshal([]byte(session.DiagnosisJSON), &diagnosis); err != nil {
			log.Warn().Err(err).Msg("health check: diagnosis decode failed")
		} else {
			report.Diagnosis = &diagnosis
		}
	}
	return report, nil
}

func (s *HealthService) bump(ctx context.Context, storeID int64, tables ...string) {
	if err := s.memo.BumpVersions(ctx, storeID, tables...); err != nil {
		log.Warn().Err(err).Msg("health check: version bump failed")
	}
}
