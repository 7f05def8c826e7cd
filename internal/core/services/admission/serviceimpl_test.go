package admission_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/examcore-2026.net/internal/core/services/admission"
	"gitlab.com/examcore-2026.net/internal/domain"
	"gitlab.com/examcore-2026.net/internal/static/errs"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

type fakeAttemptRepo struct {
	attempt       *domain.Attempt
	owner         uuid.UUID
	autoSubmitted bool
}

func (r *fakeAttemptRepo) SaveAttempt(context.Context, *domain.Attempt) error { return nil }

func (r *fakeAttemptRepo) GetAttempt(_ context.Context, attemptID uuid.UUID) (*domain.Attempt, error) {
	if r.attempt != nil && r.attempt.ID == attemptID {
		return r.attempt, nil
	}
	return nil, nil
}

func (r *fakeAttemptRepo) GetActiveAttempt(_ context.Context, attemptID, userID uuid.UUID) (*domain.Attempt, error) {
	if r.attempt == nil || r.attempt.ID != attemptID || r.owner != userID {
		return nil, nil
	}
	if r.attempt.Status != domain.AttemptStatusActive {
		return nil, nil
	}
	return r.attempt, nil
}

func (r *fakeAttemptRepo) MarkAutoSubmitted(context.Context, uuid.UUID, time.Time) error {
	r.autoSubmitted = true
	return nil
}

func (r *fakeAttemptRepo) FinalizeAttempt(context.Context, uuid.UUID, domain.AttemptStatus, int, int, time.Time) error {
	return nil
}

type fakeQuestionRepo struct {
	question *domain.Question
	cases    []*domain.TestCase
}

func (r *fakeQuestionRepo) GetQuestion(_ context.Context, questionID uuid.UUID) (*domain.Question, error) {
	if r.question != nil && r.question.ID == questionID {
		return r.question, nil
	}
	return nil, nil
}

func (r *fakeQuestionRepo) GetTestCases(_ context.Context, _ uuid.UUID, publicOnly bool) ([]*domain.TestCase, error) {
	if !publicOnly {
		return r.cases, nil
	}
	var public []*domain.TestCase
	for _, tc := range r.cases {
		if tc.IsPublic {
			public = append(public, tc)
		}
	}
	return public, nil
}

func (r *fakeQuestionRepo) GetQuestionPoints(context.Context, uuid.UUID, uuid.UUID) (int, error) {
	return domain.DefaultQuestionPoints, nil
}

func (r *fakeQuestionRepo) GetTestMaxScore(context.Context, uuid.UUID) (int, error) {
	return domain.DefaultQuestionPoints, nil
}

func (r *fakeQuestionRepo) GetTest(context.Context, uuid.UUID) (*domain.Test, error) {
	return nil, nil
}

type fakeRateLimiter struct {
	allow bool
	calls int
}

func (l *fakeRateLimiter) Allow(context.Context, uuid.UUID, domain.RunType) (bool, error) {
	l.calls++
	return l.allow, nil
}

type admissionFixture struct {
	svc       *admission.AdmissionService
	attempts  *fakeAttemptRepo
	questions *fakeQuestionRepo
	limiter   *fakeRateLimiter

	userID uuid.UUID
	req    *admission.ExecRequest
}

func newFixture() *admissionFixture {
	userID := uuid.New()
	attempt := domain.NewAttempt(userID, uuid.New(), time.Hour)
	question := &domain.Question{
		ID:                 uuid.New(),
		Title:              "Two Sum",
		SupportedLanguages: []string{"python", "cpp", "ruby"},
	}

	attempts := &fakeAttemptRepo{attempt: attempt, owner: userID}
	questions := &fakeQuestionRepo{
		question: question,
		cases: []*domain.TestCase{
			{ID: uuid.New(), QuestionID: question.ID, Input: "1 2", ExpectedOutput: "3", IsPublic: true, OrderIndex: 0},
			{ID: uuid.New(), QuestionID: question.ID, Input: "5 5", ExpectedOutput: "10", IsPublic: false, OrderIndex: 1},
		},
	}
	limiter := &fakeRateLimiter{allow: true}

	return &admissionFixture{
		svc:       admission.NewAdmissionService(attempts, questions, limiter, nopLogger{}),
		attempts:  attempts,
		questions: questions,
		limiter:   limiter,
		userID:    userID,
		req: &admission.ExecRequest{
			AttemptID:  attempt.ID,
			QuestionID: question.ID,
			Language:   "python",
			Code:       "print(1)",
			RunType:    domain.RunTypeSubmit,
		},
	}
}

func TestAdmit_GrantsValidRequest(t *testing.T) {
	f := newFixture()

	grant, err := f.svc.Admit(context.Background(), f.userID, f.req)
	require.NoError(t, err)

	assert.Equal(t, f.attempts.attempt.ID, grant.Attempt.ID)
	assert.Equal(t, f.questions.question.ID, grant.Question.ID)
	assert.Len(t, grant.TestCases, 2, "submit runs see all test cases")
}

func TestAdmit_RunTypeSeesOnlyPublicCases(t *testing.T) {
	f := newFixture()
	f.req.RunType = domain.RunTypeRun

	grant, err := f.svc.Admit(context.Background(), f.userID, f.req)
	require.NoError(t, err)

	require.Len(t, grant.TestCases, 1)
	assert.True(t, grant.TestCases[0].IsPublic)
}

func TestAdmit_UnknownAttempt(t *testing.T) {
	f := newFixture()
	f.req.AttemptID = uuid.New()

	_, err := f.svc.Admit(context.Background(), f.userID, f.req)
	require.ErrorIs(t, err, errs.InvalidAttempt)
}

func TestAdmit_AttemptOfAnotherUser(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Admit(context.Background(), uuid.New(), f.req)
	require.ErrorIs(t, err, errs.InvalidAttempt)
}

func TestAdmit_ExpiredAttemptAutoSubmits(t *testing.T) {
	f := newFixture()
	f.attempts.attempt.EndsAt = time.Now().Add(-time.Minute)

	_, err := f.svc.Admit(context.Background(), f.userID, f.req)
	require.ErrorIs(t, err, errs.TimeExpired)

	assert.True(t, f.attempts.autoSubmitted, "expired attempts must be closed on first touch")
}

func TestAdmit_UnknownQuestion(t *testing.T) {
	f := newFixture()
	f.req.QuestionID = uuid.New()

	_, err := f.svc.Admit(context.Background(), f.userID, f.req)
	require.ErrorIs(t, err, errs.QuestionNotFound)
}

func TestAdmit_LanguageNotAllowedByQuestion(t *testing.T) {
	f := newFixture()
	f.req.Language = "java"

	_, err := f.svc.Admit(context.Background(), f.userID, f.req)
	require.ErrorIs(t, err, errs.LangNotAllowed)
}

func TestAdmit_LanguageUnknownToExecutor(t *testing.T) {
	f := newFixture()
	// The question permits ruby but the execution service has no id for it.
	f.req.Language = "ruby"

	_, err := f.svc.Admit(context.Background(), f.userID, f.req)
	require.ErrorIs(t, err, errs.LangNotSupported)
}

func TestAdmit_RateLimited(t *testing.T) {
	f := newFixture()
	f.limiter.allow = false

	_, err := f.svc.Admit(context.Background(), f.userID, f.req)
	require.ErrorIs(t, err, errs.RateLimited)
}

func TestAdmit_NoTestCases(t *testing.T) {
	f := newFixture()
	f.questions.cases = nil

	_, err := f.svc.Admit(context.Background(), f.userID, f.req)
	require.ErrorIs(t, err, errs.NoTestCases)
}

func TestAdmit_ChecksRunInOrder(t *testing.T) {
	f := newFixture()
	// Both the question and the rate limit would reject; the question check
	// comes first so its code wins.
	f.req.QuestionID = uuid.New()
	f.limiter.allow = false

	_, err := f.svc.Admit(context.Background(), f.userID, f.req)
	require.ErrorIs(t, err, errs.QuestionNotFound)
	assert.Zero(t, f.limiter.calls, "rejected requests must not consume rate limit budget")
}
