package execution

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/examcore-2026.net/internal/core/ports/primary"
	"gitlab.com/examcore-2026.net/internal/core/ports/secondary"
	"gitlab.com/examcore-2026.net/internal/core/services/admission"
	"gitlab.com/examcore-2026.net/internal/core/services/grading"
	"gitlab.com/examcore-2026.net/internal/domain"
	"gitlab.com/examcore-2026.net/internal/handlers"
	"gitlab.com/examcore-2026.net/internal/handlers/response"
	"gitlab.com/examcore-2026.net/internal/static/errs"
)

// ExecutionHandler handles code run/submit API requests
type ExecutionHandler struct {
	admissionService admission.IAdmissionService
	gradingService   grading.IGradingService
	executor         secondary.CodeExecutor
	logger           primary.Logger
}

// NewExecutionHandler creates a new execution handler
func NewExecutionHandler(
	admissionService admission.IAdmissionService,
	gradingService grading.IGradingService,
	executor secondary.CodeExecutor,
	logger primary.Logger,
) *ExecutionHandler {
	return &ExecutionHandler{
		admissionService: admissionService,
		gradingService:   gradingService,
		executor:         executor,
		logger:           logger,
	}
}

// RegisterRoutes registers the API routes for ExecutionHandler
func (h *ExecutionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/execute", h.Execute).Methods("POST")
	router.HandleFunc("/api/submissions/{submissionId}", h.GetSubmission).Methods("GET")
}

// RegisterHealthRoute registers the unauthenticated executor probe
func (h *ExecutionHandler) RegisterHealthRoute(router *mux.Router) {
	router.HandleFunc("/api/executor/health", h.ExecutorHealth).Methods("GET")
}

// Execute admits, runs, and grades one run/submit request
func (h *ExecutionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, ok := handlers.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.WriteError(w, http.StatusBadRequest, "MISSING_FIELDS", "Invalid request body")
		return
	}

	execReq, errCode := h.parseRequest(&req)
	if errCode != "" {
		response.WriteError(w, http.StatusBadRequest, errCode,
			"Missing required fields: attempt_id, question_id, language, code, run_type")
		return
	}

	grant, err := h.admissionService.Admit(r.Context(), userID, execReq)
	if err != nil {
		h.writeAdmissionError(w, err)
		return
	}

	verdicts, err := h.executor.ExecuteCode(r.Context(), execReq.Code, execReq.Language, grant.TestCases)
	if err != nil {
		h.writeExecutionError(w, err)
		return
	}

	outcome, err := h.gradingService.RecordSubmission(
		r.Context(), grant.Attempt, execReq.QuestionID, execReq.Language, execReq.Code, execReq.RunType, verdicts)
	if err != nil {
		h.logger.Error("Failed to record submission", "attemptId", grant.Attempt.ID, "error", err)
		response.WriteError(w, http.StatusInternalServerError, "PROCESSING_ERROR", "Failed to store submission results")
		return
	}

	response.WriteSuccess(w, &ExecuteResponse{
		SubmissionID: outcome.SubmissionID.String(),
		Status:       "completed",
		PassedCount:  outcome.PassedCount,
		TotalCount:   outcome.TotalCount,
		Verdict:      outcome.Verdict,
		TimeMS:       outcome.TimeMS,
		MemoryKB:     outcome.MemoryKB,
		Score:        outcome.AttemptScore,
		Results:      outcome.Verdicts,
	})
}

// GetSubmission reads back a stored submission with its case results
func (h *ExecutionHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	submissionID, err := uuid.Parse(vars["submissionId"])
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, "MISSING_FIELDS", "Invalid submission ID")
		return
	}

	submission, caseResults, err := h.gradingService.GetSubmission(r.Context(), submissionID)
	if err != nil {
		h.logger.Error("Failed to get submission", "submissionId", submissionID, "error", err)
		response.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load submission")
		return
	}
	if submission == nil {
		response.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Submission not found")
		return
	}

	response.WriteSuccess(w, &SubmissionResponse{
		Submission:  submission,
		CaseResults: caseResults,
	})
}

// ExecutorHealth probes the executor endpoint pool
func (h *ExecutionHandler) ExecutorHealth(w http.ResponseWriter, r *http.Request) {
	healthy, endpoint := h.executor.TestConnection(r.Context())
	response.WriteSuccess(w, &HealthResponse{
		Healthy:  healthy,
		Endpoint: endpoint,
	})
}

func (h *ExecutionHandler) parseRequest(req *ExecuteRequest) (*admission.ExecRequest, string) {
	if req.AttemptID == "" || req.QuestionID == "" || req.Language == "" || req.Code == "" || req.RunType == "" {
		return nil, "MISSING_FIELDS"
	}

	attemptID, err := uuid.Parse(req.AttemptID)
	if err != nil {
		return nil, "MISSING_FIELDS"
	}
	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		return nil, "MISSING_FIELDS"
	}

	runType := domain.RunType(req.RunType)
	if !runType.Valid() {
		return nil, "MISSING_FIELDS"
	}

	return &admission.ExecRequest{
		AttemptID:  attemptID,
		QuestionID: questionID,
		Language:   req.Language,
		Code:       req.Code,
		RunType:    runType,
	}, ""
}

func (h *ExecutionHandler) writeAdmissionError(w http.ResponseWriter, err error) {
	var admissionErr *errs.AdmissionError
	if errors.As(err, &admissionErr) {
		response.WriteError(w, admissionErr.Status, admissionErr.Code, admissionErr.Message)
		return
	}

	h.logger.Error("Admission check failed", "error", err)
	response.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

func (h *ExecutionHandler) writeExecutionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.EmptyCode), errors.Is(err, errs.DangerousCode):
		response.WriteError(w, http.StatusBadRequest, "PROCESSING_ERROR", err.Error())
	case errors.Is(err, errs.UnsupportedLanguage):
		response.WriteError(w, http.StatusBadRequest, "LANG_NOT_SUPPORTED", err.Error())
	case errors.Is(err, errs.ExecutionUnavailable):
		response.WriteError(w, http.StatusBadGateway, "PROCESSING_ERROR", "Cannot connect to execution service")
	default:
		h.logger.Error("Execution failed", "error", err)
		response.WriteError(w, http.StatusInternalServerError, "PROCESSING_ERROR", "Failed to process test cases")
	}
}
