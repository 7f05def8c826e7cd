package grading_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/examcore-2026.net/internal/core/services/grading"
	"gitlab.com/examcore-2026.net/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

// memSubmissionRepo keeps submissions in memory in insertion order
type memSubmissionRepo struct {
	submissions []*domain.Submission
	caseResults map[uuid.UUID][]*domain.SubmissionCaseResult
}

func newMemSubmissionRepo() *memSubmissionRepo {
	return &memSubmissionRepo{caseResults: make(map[uuid.UUID][]*domain.SubmissionCaseResult)}
}

func (r *memSubmissionRepo) SaveSubmission(_ context.Context, submission *domain.Submission, caseResults []*domain.SubmissionCaseResult) error {
	r.submissions = append(r.submissions, submission)
	r.caseResults[submission.ID] = caseResults
	return nil
}

func (r *memSubmissionRepo) GetSubmission(_ context.Context, submissionID uuid.UUID) (*domain.Submission, error) {
	for _, s := range r.submissions {
		if s.ID == submissionID {
			return s, nil
		}
	}
	return nil, nil
}

func (r *memSubmissionRepo) GetCaseResults(_ context.Context, submissionID uuid.UUID) ([]*domain.SubmissionCaseResult, error) {
	return r.caseResults[submissionID], nil
}

func (r *memSubmissionRepo) GetSubmitHistory(_ context.Context, attemptID, questionID uuid.UUID) ([]*domain.Submission, error) {
	var history []*domain.Submission
	for _, s := range r.submissions {
		if s.AttemptID == attemptID && s.QuestionID == questionID && s.RunType == domain.RunTypeSubmit {
			history = append(history, s)
		}
	}
	return history, nil
}

func (r *memSubmissionRepo) GetAttemptSubmitHistory(_ context.Context, attemptID uuid.UUID) ([]*domain.Submission, error) {
	var history []*domain.Submission
	for _, s := range r.submissions {
		if s.AttemptID == attemptID && s.RunType == domain.RunTypeSubmit {
			history = append(history, s)
		}
	}
	return history, nil
}

// memGradingRepo applies the best-of rule over the submission store's
// history, mirroring the locked transaction of the SQL implementation
type memGradingRepo struct {
	store *memSubmissionRepo
	total int
	calls int
}

func (g *memGradingRepo) ApplyQuestionScore(ctx context.Context, attemptID, questionID, newSubmissionID uuid.UUID, points, passedCount, totalCount int) (int, bool, error) {
	g.calls++

	previousBest := 0
	history, _ := g.store.GetSubmitHistory(ctx, attemptID, questionID)
	for _, s := range history {
		if s.ID == newSubmissionID {
			continue
		}
		if score := domain.QuestionScore(points, s.PassedCount, s.TotalCount); score > previousBest {
			previousBest = score
		}
	}

	newScore := domain.QuestionScore(points, passedCount, totalCount)
	if newScore <= previousBest {
		return g.total, false, nil
	}

	g.total = g.total - previousBest + newScore
	return g.total, true, nil
}

type memQuestionRepo struct {
	points int
}

func (r *memQuestionRepo) GetQuestion(context.Context, uuid.UUID) (*domain.Question, error) {
	return nil, nil
}

func (r *memQuestionRepo) GetTestCases(context.Context, uuid.UUID, bool) ([]*domain.TestCase, error) {
	return nil, nil
}

func (r *memQuestionRepo) GetQuestionPoints(context.Context, uuid.UUID, uuid.UUID) (int, error) {
	return r.points, nil
}

func (r *memQuestionRepo) GetTestMaxScore(context.Context, uuid.UUID) (int, error) {
	return r.points, nil
}

func (r *memQuestionRepo) GetTest(context.Context, uuid.UUID) (*domain.Test, error) {
	return nil, nil
}

func verdictsWithPassed(passed, total int) []domain.TestVerdict {
	verdicts := make([]domain.TestVerdict, total)
	for i := range verdicts {
		verdicts[i] = domain.TestVerdict{CaseOrder: i, Passed: i < passed}
	}
	return verdicts
}

func testAttempt() *domain.Attempt {
	return domain.NewAttempt(uuid.New(), uuid.New(), time.Hour)
}

func TestRecordSubmission_RunDoesNotTouchScore(t *testing.T) {
	store := newMemSubmissionRepo()
	gradingRepo := &memGradingRepo{store: store}
	svc := grading.NewGradingService(store, gradingRepo, &memQuestionRepo{points: 100}, nopLogger{})

	attempt := testAttempt()
	outcome, err := svc.RecordSubmission(context.Background(), attempt, uuid.New(),
		"python", "print(1)", domain.RunTypeRun, verdictsWithPassed(3, 3))
	require.NoError(t, err)

	assert.Equal(t, 0, gradingRepo.calls, "practice runs must never reach the grader")
	assert.Equal(t, attempt.Score, outcome.AttemptScore)
	assert.False(t, outcome.ScoreImproved)
	assert.Len(t, store.submissions, 1, "practice runs are still persisted")
}

func TestRecordSubmission_SubmitKeepsBestScore(t *testing.T) {
	store := newMemSubmissionRepo()
	gradingRepo := &memGradingRepo{store: store}
	svc := grading.NewGradingService(store, gradingRepo, &memQuestionRepo{points: 100}, nopLogger{})

	attempt := testAttempt()
	questionID := uuid.New()

	submit := func(passed int) *grading.Outcome {
		outcome, err := svc.RecordSubmission(context.Background(), attempt, questionID,
			"python", "print(1)", domain.RunTypeSubmit, verdictsWithPassed(passed, 10))
		require.NoError(t, err)
		return outcome
	}

	first := submit(4)
	assert.Equal(t, 40, first.AttemptScore)
	assert.True(t, first.ScoreImproved)

	second := submit(9)
	assert.Equal(t, 90, second.AttemptScore)
	assert.True(t, second.ScoreImproved)

	third := submit(6)
	assert.Equal(t, 90, third.AttemptScore, "a worse later submit must not lower the score")
	assert.False(t, third.ScoreImproved)
}

func TestRecordSubmission_RepeatedSubmitDoesNotDoubleCount(t *testing.T) {
	store := newMemSubmissionRepo()
	gradingRepo := &memGradingRepo{store: store}
	svc := grading.NewGradingService(store, gradingRepo, &memQuestionRepo{points: 100}, nopLogger{})

	attempt := testAttempt()
	questionID := uuid.New()

	for i := 0; i < 3; i++ {
		outcome, err := svc.RecordSubmission(context.Background(), attempt, questionID,
			"python", "print(1)", domain.RunTypeSubmit, verdictsWithPassed(5, 10))
		require.NoError(t, err)
		assert.Equal(t, 50, outcome.AttemptScore)
	}
}

func TestRecordSubmission_PersistsCaseResults(t *testing.T) {
	store := newMemSubmissionRepo()
	gradingRepo := &memGradingRepo{store: store}
	svc := grading.NewGradingService(store, gradingRepo, &memQuestionRepo{points: 100}, nopLogger{})

	outcome, err := svc.RecordSubmission(context.Background(), testAttempt(), uuid.New(),
		"python", "print(1)", domain.RunTypeSubmit, verdictsWithPassed(2, 3))
	require.NoError(t, err)

	submission, caseResults, err := svc.GetSubmission(context.Background(), outcome.SubmissionID)
	require.NoError(t, err)
	require.NotNil(t, submission)

	assert.Equal(t, 2, submission.PassedCount)
	assert.Equal(t, domain.VerdictFailed, submission.Verdict)
	require.Len(t, caseResults, 3)
	assert.Equal(t, submission.ID, caseResults[0].SubmissionID)
}

func TestGetSubmission_NotFound(t *testing.T) {
	store := newMemSubmissionRepo()
	svc := grading.NewGradingService(store, &memGradingRepo{store: store}, &memQuestionRepo{points: 100}, nopLogger{})

	submission, caseResults, err := svc.GetSubmission(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, submission)
	assert.Nil(t, caseResults)
}
