// package submissionrepository contains the PostgreSQL implementation of the
// submission store and the best-of-attempts grading update
package submissionrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/examcore-2026.net/internal/core/ports/primary"
	"gitlab.com/examcore-2026.net/internal/core/ports/secondary"
	"gitlab.com/examcore-2026.net/internal/domain"
	querybuilder "gitlab.com/examcore-2026.net/internal/utils"
)

var (
	_ secondary.SubmissionRepository = (*SubmissionRepository)(nil)
	_ secondary.GradingRepository    = (*SubmissionRepository)(nil)
)

// SubmissionRepository implements the submission and grading repositories
// with PostgreSQL
type SubmissionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

// NewSubmissionRepository creates a new PostgreSQL submission repository
func NewSubmissionRepository(db *sqlx.DB, logger primary.Logger, schema string) *SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

// SaveSubmission persists a submission and its case results in one
// transaction. The submission is append-only: there is no update path.
func (r *SubmissionRepository) SaveSubmission(ctx context.Context, submission *domain.Submission, caseResults []*domain.SubmissionCaseResult) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO submissions (
			id, attempt_id, question_id, language, code, run_type,
			passed_count, total_count, verdict, time_ms, memory_kb,
			stdout_preview, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = tx.ExecContext(
		ctx,
		query,
		submission.ID,
		submission.AttemptID,
		submission.QuestionID,
		submission.Language,
		submission.Code,
		submission.RunType,
		submission.PassedCount,
		submission.TotalCount,
		submission.Verdict,
		submission.TimeMS,
		submission.MemoryKB,
		submission.StdoutPreview,
		submission.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to save submission", "submissionId", submission.ID, "error", err)
		return fmt.Errorf("failed to save submission: %w", err)
	}

	if len(caseResults) > 0 {
		caseTbl := domain.GetSubmissionCaseResultTable()
		builder := querybuilder.NewInsertBuilder(r.schema).
			Insert(
				caseTbl.ID,
				caseTbl.SubmissionID,
				caseTbl.Input,
				caseTbl.ExpectedOutput,
				caseTbl.ActualOutput,
				caseTbl.Status,
				caseTbl.CaseOrder,
				caseTbl.TimeMS,
				caseTbl.MemoryKB,
			).
			Into(caseTbl.TableName())

		for _, cr := range caseResults {
			builder.Values(
				cr.ID,
				cr.SubmissionID,
				cr.Input,
				cr.ExpectedOutput,
				cr.ActualOutput,
				cr.Status,
				cr.CaseOrder,
				cr.TimeMS,
				cr.MemoryKB,
			)
		}

		caseQuery, args := builder.Build()
		if _, err := tx.ExecContext(ctx, caseQuery, args...); err != nil {
			r.logger.Error("Failed to save case results", "submissionId", submission.ID, "error", err)
			return fmt.Errorf("failed to save case results: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit submission: %w", err)
	}

	return nil
}

// GetSubmission retrieves a submission by ID
func (r *SubmissionRepository) GetSubmission(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error) {
	query := `
		SELECT id, attempt_id, question_id, language, code, run_type,
		       passed_count, total_count, verdict, time_ms, memory_kb,
		       stdout_preview, created_at
		FROM submissions
		WHERE id = $1
	`

	var submission domain.Submission
	err := r.db.GetContext(ctx, &submission, query, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get submission", "submissionId", submissionID, "error", err)
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return &submission, nil
}

// GetCaseResults retrieves a submission's case results in case order
func (r *SubmissionRepository) GetCaseResults(ctx context.Context, submissionID uuid.UUID) ([]*domain.SubmissionCaseResult, error) {
	query := `
		SELECT id, submission_id, input, expected_output, actual_output,
		       status, case_order, time_ms, memory_kb
		FROM submission_case_results
		WHERE submission_id = $1
		ORDER BY case_order
	`

	var results []*domain.SubmissionCaseResult
	if err := r.db.SelectContext(ctx, &results, query, submissionID); err != nil {
		r.logger.Error("Failed to get case results", "submissionId", submissionID, "error", err)
		return nil, fmt.Errorf("failed to get case results: %w", err)
	}

	return results, nil
}

// GetSubmitHistory retrieves all submit-type submissions for one question
// within one attempt, newest first
func (r *SubmissionRepository) GetSubmitHistory(ctx context.Context, attemptID, questionID uuid.UUID) ([]*domain.Submission, error) {
	query := `
		SELECT id, attempt_id, question_id, language, code, run_type,
		       passed_count, total_count, verdict, time_ms, memory_kb,
		       stdout_preview, created_at
		FROM submissions
		WHERE attempt_id = $1 AND question_id = $2 AND run_type = $3
		ORDER BY created_at DESC
	`

	var submissions []*domain.Submission
	err := r.db.SelectContext(ctx, &submissions, query, attemptID, questionID, domain.RunTypeSubmit)
	if err != nil {
		r.logger.Error("Failed to get submit history", "attemptId", attemptID, "questionId", questionID, "error", err)
		return nil, fmt.Errorf("failed to get submit history: %w", err)
	}

	return submissions, nil
}

// GetAttemptSubmitHistory retrieves all submit-type submissions of an attempt
func (r *SubmissionRepository) GetAttemptSubmitHistory(ctx context.Context, attemptID uuid.UUID) ([]*domain.Submission, error) {
	query := `
		SELECT id, attempt_id, question_id, language, code, run_type,
		       passed_count, total_count, verdict, time_ms, memory_kb,
		       stdout_preview, created_at
		FROM submissions
		WHERE attempt_id = $1 AND run_type = $2
		ORDER BY created_at
	`

	var submissions []*domain.Submission
	err := r.db.SelectContext(ctx, &submissions, query, attemptID, domain.RunTypeSubmit)
	if err != nil {
		r.logger.Error("Failed to get attempt submit history", "attemptId", attemptID, "error", err)
		return nil, fmt.Errorf("failed to get attempt submit history: %w", err)
	}

	return submissions, nil
}

// ApplyQuestionScore applies the best-of-attempts rule for one question
// inside a single transaction. The attempt row is locked so two concurrent
// submits for the same question serialize instead of losing an update.
func (r *SubmissionRepository) ApplyQuestionScore(ctx context.Context, attemptID, questionID, newSubmissionID uuid.UUID, points, passedCount, totalCount int) (int, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var currentScore int
	err = tx.QueryRowContext(ctx, `SELECT score FROM attempts WHERE id = $1 FOR UPDATE`, attemptID).Scan(&currentScore)
	if err != nil {
		r.logger.Error("Failed to lock attempt for scoring", "attemptId", attemptID, "error", err)
		return 0, false, fmt.Errorf("failed to lock attempt: %w", err)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT passed_count, total_count
		FROM submissions
		WHERE attempt_id = $1 AND question_id = $2 AND run_type = $3 AND id <> $4
	`, attemptID, questionID, domain.RunTypeSubmit, newSubmissionID)
	if err != nil {
		r.logger.Error("Failed to read prior submissions", "attemptId", attemptID, "error", err)
		return 0, false, fmt.Errorf("failed to read prior submissions: %w", err)
	}

	previousBest := 0
	for rows.Next() {
		var passed, total int
		if err := rows.Scan(&passed, &total); err != nil {
			rows.Close()
			return 0, false, fmt.Errorf("failed to scan prior submission: %w", err)
		}
		if score := domain.QuestionScore(points, passed, total); score > previousBest {
			previousBest = score
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, false, fmt.Errorf("failed to iterate prior submissions: %w", err)
	}

	newScore := domain.QuestionScore(points, passedCount, totalCount)
	if newScore <= previousBest {
		// Nothing to credit; history alone decides the contribution.
		return currentScore, false, tx.Commit()
	}

	total := currentScore - previousBest + newScore
	if _, err := tx.ExecContext(ctx, `UPDATE attempts SET score = $1 WHERE id = $2`, total, attemptID); err != nil {
		r.logger.Error("Failed to update attempt score", "attemptId", attemptID, "error", err)
		return 0, false, fmt.Errorf("failed to update attempt score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("failed to commit score update: %w", err)
	}

	return total, true, nil
}
