package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunType distinguishes a practice run from a graded submit
type RunType string

const (
	RunTypeRun    RunType = "run"
	RunTypeSubmit RunType = "submit"
)

// Valid reports whether the run type is one of the known values
func (t RunType) Valid() bool {
	return t == RunTypeRun || t == RunTypeSubmit
}

// Verdict is the overall outcome of a submission
type Verdict string

const (
	VerdictPassed Verdict = "passed"
	VerdictFailed Verdict = "failed"
)

// Submission is the immutable record of one code run against a question.
// It is created once per run/submit action and never mutated afterwards.
type Submission struct {
	ID            uuid.UUID `db:"id"`
	AttemptID     uuid.UUID `db:"attempt_id"`
	QuestionID    uuid.UUID `db:"question_id"`
	Language      string    `db:"language"`
	Code          string    `db:"code"`
	RunType       RunType   `db:"run_type"`
	PassedCount   int       `db:"passed_count"`
	TotalCount    int       `db:"total_count"`
	Verdict       Verdict   `db:"verdict"`
	TimeMS        int       `db:"time_ms"`
	MemoryKB      int       `db:"memory_kb"`
	StdoutPreview string    `db:"stdout_preview"`
	CreatedAt     time.Time `db:"created_at"`
}

// SubmissionCaseResult is one test verdict persisted with its submission
type SubmissionCaseResult struct {
	ID             uuid.UUID  `db:"id"`
	SubmissionID   uuid.UUID  `db:"submission_id"`
	Input          string     `db:"input"`
	ExpectedOutput string     `db:"expected_output"`
	ActualOutput   string     `db:"actual_output"`
	Status         CaseStatus `db:"status"`
	CaseOrder      int        `db:"case_order"`
	TimeMS         float64    `db:"time_ms"`
	MemoryKB       int        `db:"memory_kb"`
}

const stdoutPreviewLimit = 500

// NewSubmission builds a submission record from a set of verdicts
func NewSubmission(attemptID, questionID uuid.UUID, language, code string, runType RunType, verdicts []TestVerdict) *Submission {
	passed := 0
	var totalTime float64
	totalMemory := 0
	for _, v := range verdicts {
		if v.Passed {
			passed++
		}
		totalTime += v.TimeMS
		totalMemory += v.MemoryKB
	}

	total := len(verdicts)
	verdict := VerdictFailed
	if total > 0 && passed == total {
		verdict = VerdictPassed
	}

	avgTime := 0
	avgMemory := 0
	if total > 0 {
		avgTime = int(totalTime) / total
		avgMemory = totalMemory / total
	}

	preview := ""
	if total > 0 {
		preview = verdicts[0].ActualOutput
		if len(preview) > stdoutPreviewLimit {
			preview = preview[:stdoutPreviewLimit]
		}
	}

	return &Submission{
		ID:            uuid.New(),
		AttemptID:     attemptID,
		QuestionID:    questionID,
		Language:      language,
		Code:          code,
		RunType:       runType,
		PassedCount:   passed,
		TotalCount:    total,
		Verdict:       verdict,
		TimeMS:        avgTime,
		MemoryKB:      avgMemory,
		StdoutPreview: preview,
		CreatedAt:     time.Now(),
	}
}

// CaseResults materializes the per-case rows for a submission
func (s *Submission) CaseResults(verdicts []TestVerdict) []*SubmissionCaseResult {
	rows := make([]*SubmissionCaseResult, 0, len(verdicts))
	for _, v := range verdicts {
		rows = append(rows, &SubmissionCaseResult{
			ID:             uuid.New(),
			SubmissionID:   s.ID,
			Input:          v.Input,
			ExpectedOutput: v.ExpectedOutput,
			ActualOutput:   v.ActualOutput,
			Status:         v.Status,
			CaseOrder:      v.CaseOrder,
			TimeMS:         v.TimeMS,
			MemoryKB:       v.MemoryKB,
		})
	}
	return rows
}

// QuestionScore computes the points earned by a submission that passed
// passedCount of totalCount cases on a question worth points.
func QuestionScore(points, passedCount, totalCount int) int {
	if totalCount <= 0 {
		return 0
	}
	return int(float64(points)*float64(passedCount)/float64(totalCount) + 0.5)
}

type SubmissionTable struct {
	ID            string
	AttemptID     string
	QuestionID    string
	Language      string
	Code          string
	RunType       string
	PassedCount   string
	TotalCount    string
	Verdict       string
	TimeMS        string
	MemoryKB      string
	StdoutPreview string
	CreatedAt     string
}

func GetSubmissionTable() SubmissionTable {
	return SubmissionTable{
		ID:            "id",
		AttemptID:     "attempt_id",
		QuestionID:    "question_id",
		Language:      "language",
		Code:          "code",
		RunType:       "run_type",
		PassedCount:   "passed_count",
		TotalCount:    "total_count",
		Verdict:       "verdict",
		TimeMS:        "time_ms",
		MemoryKB:      "memory_kb",
		StdoutPreview: "stdout_preview",
		CreatedAt:     "created_at",
	}
}

func (SubmissionTable) TableName() string {
	return "submissions"
}

type SubmissionCaseResultTable struct {
	ID             string
	SubmissionID   string
	Input          string
	ExpectedOutput string
	ActualOutput   string
	Status         string
	CaseOrder      string
	TimeMS         string
	MemoryKB       string
}

func GetSubmissionCaseResultTable() SubmissionCaseResultTable {
	return SubmissionCaseResultTable{
		ID:             "id",
		SubmissionID:   "submission_id",
		Input:          "input",
		ExpectedOutput: "expected_output",
		ActualOutput:   "actual_output",
		Status:         "status",
		CaseOrder:      "case_order",
		TimeMS:         "time_ms",
		MemoryKB:       "memory_kb",
	}
}

func (SubmissionCaseResultTable) TableName() string {
	return "submission_case_results"
}
