package attempt_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/examcore-2026.net/internal/core/services/attempt"
	"gitlab.com/examcore-2026.net/internal/domain"
	"gitlab.com/examcore-2026.net/internal/static/errs"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

type fakeAttemptRepo struct {
	saved *domain.Attempt
	owner uuid.UUID

	finalStatus domain.AttemptStatus
	finalScore  int
	finalMax    int
	finalized   bool
}

func (r *fakeAttemptRepo) SaveAttempt(_ context.Context, a *domain.Attempt) error {
	r.saved = a
	return nil
}

func (r *fakeAttemptRepo) GetAttempt(_ context.Context, attemptID uuid.UUID) (*domain.Attempt, error) {
	if r.saved != nil && r.saved.ID == attemptID {
		return r.saved, nil
	}
	return nil, nil
}

func (r *fakeAttemptRepo) GetActiveAttempt(_ context.Context, attemptID, userID uuid.UUID) (*domain.Attempt, error) {
	if r.saved == nil || r.saved.ID != attemptID || r.owner != userID {
		return nil, nil
	}
	return r.saved, nil
}

func (r *fakeAttemptRepo) MarkAutoSubmitted(context.Context, uuid.UUID, time.Time) error {
	return nil
}

func (r *fakeAttemptRepo) FinalizeAttempt(_ context.Context, _ uuid.UUID, status domain.AttemptStatus, score, maxScore int, _ time.Time) error {
	r.finalized = true
	r.finalStatus = status
	r.finalScore = score
	r.finalMax = maxScore
	return nil
}

type fakeQuestionRepo struct {
	test     *domain.Test
	points   map[uuid.UUID]int
	maxScore int
}

func (r *fakeQuestionRepo) GetQuestion(context.Context, uuid.UUID) (*domain.Question, error) {
	return nil, nil
}

func (r *fakeQuestionRepo) GetTestCases(context.Context, uuid.UUID, bool) ([]*domain.TestCase, error) {
	return nil, nil
}

func (r *fakeQuestionRepo) GetQuestionPoints(_ context.Context, _ uuid.UUID, questionID uuid.UUID) (int, error) {
	if points, ok := r.points[questionID]; ok {
		return points, nil
	}
	return domain.DefaultQuestionPoints, nil
}

func (r *fakeQuestionRepo) GetTestMaxScore(context.Context, uuid.UUID) (int, error) {
	return r.maxScore, nil
}

func (r *fakeQuestionRepo) GetTest(_ context.Context, testID uuid.UUID) (*domain.Test, error) {
	if r.test != nil && r.test.ID == testID {
		return r.test, nil
	}
	return nil, nil
}

type fakeSubmissionRepo struct {
	history []*domain.Submission
}

func (r *fakeSubmissionRepo) SaveSubmission(context.Context, *domain.Submission, []*domain.SubmissionCaseResult) error {
	return nil
}

func (r *fakeSubmissionRepo) GetSubmission(context.Context, uuid.UUID) (*domain.Submission, error) {
	return nil, nil
}

func (r *fakeSubmissionRepo) GetCaseResults(context.Context, uuid.UUID) ([]*domain.SubmissionCaseResult, error) {
	return nil, nil
}

func (r *fakeSubmissionRepo) GetSubmitHistory(context.Context, uuid.UUID, uuid.UUID) ([]*domain.Submission, error) {
	return r.history, nil
}

func (r *fakeSubmissionRepo) GetAttemptSubmitHistory(context.Context, uuid.UUID) ([]*domain.Submission, error) {
	return r.history, nil
}

func submitRecord(attemptID, questionID uuid.UUID, passed, total int) *domain.Submission {
	return &domain.Submission{
		ID:          uuid.New(),
		AttemptID:   attemptID,
		QuestionID:  questionID,
		RunType:     domain.RunTypeSubmit,
		PassedCount: passed,
		TotalCount:  total,
	}
}

func TestStartAttempt_UsesTestTimeLimit(t *testing.T) {
	testID := uuid.New()
	attempts := &fakeAttemptRepo{}
	questions := &fakeQuestionRepo{test: &domain.Test{ID: testID, Title: "Midterm", TimeLimitMinutes: 90}}
	svc := attempt.NewAttemptService(attempts, questions, &fakeSubmissionRepo{}, nopLogger{})

	a, err := svc.StartAttempt(context.Background(), uuid.New(), testID)
	require.NoError(t, err)

	assert.Equal(t, domain.AttemptStatusActive, a.Status)
	assert.WithinDuration(t, a.StartedAt.Add(90*time.Minute), a.EndsAt, time.Second)
	assert.Equal(t, a, attempts.saved)
}

func TestStartAttempt_DefaultsDurationWhenUnset(t *testing.T) {
	testID := uuid.New()
	attempts := &fakeAttemptRepo{}
	questions := &fakeQuestionRepo{test: &domain.Test{ID: testID, Title: "Quiz"}}
	svc := attempt.NewAttemptService(attempts, questions, &fakeSubmissionRepo{}, nopLogger{})

	a, err := svc.StartAttempt(context.Background(), uuid.New(), testID)
	require.NoError(t, err)

	assert.WithinDuration(t, a.StartedAt.Add(60*time.Minute), a.EndsAt, time.Second)
}

func TestStartAttempt_UnknownTest(t *testing.T) {
	svc := attempt.NewAttemptService(&fakeAttemptRepo{}, &fakeQuestionRepo{}, &fakeSubmissionRepo{}, nopLogger{})

	_, err := svc.StartAttempt(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
}

func TestFinalizeAttempt_RecomputesBestPerQuestion(t *testing.T) {
	userID := uuid.New()
	active := domain.NewAttempt(userID, uuid.New(), time.Hour)
	active.Score = 999 // a corrupted running total must not leak into the final score

	q1, q2 := uuid.New(), uuid.New()
	submissions := &fakeSubmissionRepo{history: []*domain.Submission{
		submitRecord(active.ID, q1, 4, 10),
		submitRecord(active.ID, q1, 9, 10),
		submitRecord(active.ID, q1, 6, 10),
		submitRecord(active.ID, q2, 1, 2),
	}}
	questions := &fakeQuestionRepo{
		points:   map[uuid.UUID]int{q1: 100, q2: 50},
		maxScore: 150,
	}
	attempts := &fakeAttemptRepo{saved: active, owner: userID}

	svc := attempt.NewAttemptService(attempts, questions, submissions, nopLogger{})

	result, err := svc.FinalizeAttempt(context.Background(), userID, active.ID)
	require.NoError(t, err)

	assert.Equal(t, 115, result.Score, "best of q1 (90) plus best of q2 (25)")
	assert.Equal(t, 150, result.MaxScore)
	assert.Equal(t, domain.AttemptStatusSubmitted, result.Status)
	assert.True(t, attempts.finalized)
	assert.Equal(t, 115, attempts.finalScore)
}

func TestFinalizeAttempt_ExpiredBecomesAutoSubmitted(t *testing.T) {
	userID := uuid.New()
	active := domain.NewAttempt(userID, uuid.New(), time.Hour)
	active.EndsAt = time.Now().Add(-time.Minute)

	attempts := &fakeAttemptRepo{saved: active, owner: userID}
	svc := attempt.NewAttemptService(attempts, &fakeQuestionRepo{maxScore: 100}, &fakeSubmissionRepo{}, nopLogger{})

	result, err := svc.FinalizeAttempt(context.Background(), userID, active.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.AttemptStatusAutoSubmitted, result.Status)
	assert.Equal(t, domain.AttemptStatusAutoSubmitted, attempts.finalStatus)
}

func TestFinalizeAttempt_UnknownAttempt(t *testing.T) {
	svc := attempt.NewAttemptService(&fakeAttemptRepo{}, &fakeQuestionRepo{}, &fakeSubmissionRepo{}, nopLogger{})

	_, err := svc.FinalizeAttempt(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, errs.InvalidAttempt)
}
