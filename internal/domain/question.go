package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Question is a coding question as stored by the portal
type Question struct {
	ID                 uuid.UUID      `db:"id"`
	Title              string         `db:"title"`
	ProblemStatement   string         `db:"problem_statement"`
	SupportedLanguages pq.StringArray `db:"supported_languages"`
	CreatedAt          time.Time      `db:"created_at"`
}

// AllowsLanguage reports whether the question permits the given language
func (q *Question) AllowsLanguage(language string) bool {
	for _, lang := range q.SupportedLanguages {
		if lang == language {
			return true
		}
	}
	return false
}

// DefaultQuestionPoints is assumed when a test has no explicit points
// mapping for a question.
const DefaultQuestionPoints = 100

// Test is the exam a set of questions belongs to
type Test struct {
	ID               uuid.UUID `db:"id"`
	Title            string    `db:"title"`
	TimeLimitMinutes int       `db:"time_limit_minutes"`
}
