package domain

import "github.com/google/uuid"

// TestCase represents a test case for code execution
type TestCase struct {
	ID             uuid.UUID `db:"id"`
	QuestionID     uuid.UUID `db:"question_id"`
	Input          string    `db:"input"`
	ExpectedOutput string    `db:"expected_output"`
	IsPublic       bool      `db:"is_public"`
	OrderIndex     int       `db:"order_index"`
}
