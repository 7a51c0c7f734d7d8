// internal/service/health_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/repository"
)

type fakeHealthRepo struct {
	nextID   int64
	sessions map[int64]*domain.HealthSession
	answers  map[int64][]domain.HealthAnswer
	results  map[int64][]domain.HealthResult
}

func newFakeHealthRepo() *fakeHealthRepo {
	return &fakeHealthRepo{
		nextID:   1,
		sessions: map[int64]*domain.HealthSession{},
		answers:  map[int64][]domain.HealthAnswer{},
		results:  map[int64][]domain.HealthResult{},
	}
}

func (f *fakeHealthRepo) GetOpenSession(ctx context.Context, storeID int64) (*domain.HealthSession, error) {
	for _, s := range f.sessions {
		if s.StoreID == storeID && s.CompletedAt == nil {
			copied := *s
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeHealthRepo) GetSession(ctx context.Context, sessionID int64) (*domain.HealthSession, error) {
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeHealthRepo) CreateSession(ctx context.Context, storeID int64) (*domain.HealthSession, error) {
	s := &domain.HealthSession{ID: f.nextID, StoreID: storeID, StartedAt: time.Now()}
	f.sessions[s.ID] = s
	f.nextID++
	copied := *s
	return &copied, nil
}

func (f *fakeHealthRepo) FinalizeSession(ctx context.Context, session domain.HealthSession) error {
	stored := f.sessions[session.ID]
	completedAt := stored.CompletedAt
	if completedAt == nil {
		now := time.Now()
		completedAt = &now
	}
	session.CompletedAt = completedAt
	f.sessions[session.ID] = &session
	return nil
}

func (f *fakeHealthRepo) ListAnswers(ctx context.Context, sessionID int64) ([]domain.HealthAnswer, error) {
	return f.answers[sessionID], nil
}

func (f *fakeHealthRepo) UpsertAnswer(ctx context.Context, ans domain.HealthAnswer) error {
	for i, existing := range f.answers[ans.SessionID] {
		if existing.Category == ans.Category && existing.QuestionCode == ans.QuestionCode {
			f.answers[ans.SessionID][i] = ans
			return nil
		}
	}
	f.answers[ans.SessionID] = append(f.answers[ans.SessionID], ans)
	return nil
}

func (f *fakeHealthRepo) SaveResults(ctx context.Context, sessionID int64, results []domain.HealthResult) error {
	f.results[sessionID] = results
	return nil
}

func (f *fakeHealthRepo) ListResults(ctx context.Context, sessionID int64) ([]domain.HealthResult, error) {
	return f.results[sessionID], nil
}

func TestStartSessionReusesOpenSession(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewHealthService(repo, nil)
	ctx := context.Background()

	first, err := svc.StartSession(ctx, 1)
	require.NoError(t, err)
	second, err := svc.StartSession(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.sessions, 1)
}

func TestAnswerRejectsUnknownInput(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewHealthService(repo, nil)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, 1)
	require.NoError(t, err)

	var ve *domain.ValidationError
	err = svc.Answer(ctx, 1, session.ID, "X9", "q1", "yes", "")
	require.ErrorAs(t, err, &ve)

	err = svc.Answer(ctx, 1, session.ID, "Q", "q1", "sometimes", "")
	require.ErrorAs(t, err, &ve)
}

func TestAnswerWrongStoreIsNotFound(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewHealthService(repo, nil)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, 1)
	require.NoError(t, err)

	err = svc.Answer(ctx, 2, session.ID, "Q", "q1", "yes", "")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFinalizeScoresSession(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewHealthService(repo, nil)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Answer(ctx, 1, session.ID, "Q", "q1", "yes", ""))
	require.NoError(t, svc.Answer(ctx, 1, session.ID, "Q", "q2", "yes", ""))
	require.NoError(t, svc.Answer(ctx, 1, session.ID, "S", "s1", "no", ""))
	require.NoError(t, svc.Answer(ctx, 1, session.ID, "F", "f1", "maybe", ""))

	report, err := svc.Finalize(ctx, 1, session.ID)
	require.NoError(t, err)

	assert.Equal(t, 100.0, report.Results[0].ScoreAvg) // Q answered all-yes
	assert.Equal(t, "S", report.Session.MainBottleneck)
	assert.NotEmpty(t, report.Session.DiagnosisJSON)
	require.NotNil(t, report.Diagnosis)
	assert.Len(t, report.Results, 3)

	stored := repo.sessions[session.ID]
	require.NotNil(t, stored.CompletedAt)
	assert.Equal(t, report.Session.OverallScore, stored.OverallScore)
}

func TestAnswerOnCompletedSessionFails(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewHealthService(repo, nil)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Answer(ctx, 1, session.ID, "Q", "q1", "yes", ""))

	_, err = svc.Finalize(ctx, 1, session.ID)
	require.NoError(t, err)

	var ve *domain.ValidationError
	err = svc.Answer(ctx, 1, session.ID, "Q", "q2", "no", "")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "session_id", ve.Field)
}

func TestReportRoundTripsDiagnosis(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewHealthService(repo, nil)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Answer(ctx, 1, session.ID, "Q", "q1", "no", ""))
	_, err = svc.Finalize(ctx, 1, session.ID)
	require.NoError(t, err)

	report, err := svc.Report(ctx, 1, session.ID)
	require.NoError(t, err)
	require.NotNil(t, report.Diagnosis)
	assert.Len(t, report.Results, 1)
}
