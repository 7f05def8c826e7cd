package execution

import "gitlab.com/examcore-2026.net/internal/domain"

// ExecuteRequest represents a request to run or submit code for a question
type ExecuteRequest struct {
	AttemptID  string `json:"attempt_id"`
	QuestionID string `json:"question_id"`
	Language   string `json:"language"`
	Code       string `json:"code"`
	RunType    string `json:"run_type"`
}

// ExecuteResponse represents the grading result of a run or submit
type ExecuteResponse struct {
	SubmissionID string               `json:"submission_id"`
	Status       string               `json:"status"`
	PassedCount  int                  `json:"passed_count"`
	TotalCount   int                  `json:"total_count"`
	Verdict      domain.Verdict       `json:"verdict"`
	TimeMS       int                  `json:"time_ms"`
	MemoryKB     int                  `json:"memory_kb"`
	Score        int                  `json:"score"`
	Results      []domain.TestVerdict `json:"results"`
}

// SubmissionResponse is a stored submission read back with its case results
type SubmissionResponse struct {
	Submission  *domain.Submission             `json:"submission"`
	CaseResults []*domain.SubmissionCaseResult `json:"case_results"`
}

// HealthResponse reports executor pool liveness
type HealthResponse struct {
	Healthy  bool   `json:"healthy"`
	Endpoint string `json:"endpoint,omitempty"`
}
