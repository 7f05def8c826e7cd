package attempts

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/examcore-2026.net/internal/core/ports/primary"
	"gitlab.com/examcore-2026.net/internal/core/services/attempt"
	"gitlab.com/examcore-2026.net/internal/handlers"
	"gitlab.com/examcore-2026.net/internal/handlers/response"
	"gitlab.com/examcore-2026.net/internal/static/errs"
)

// AttemptHandler handles attempt lifecycle API requests
type AttemptHandler struct {
	attemptService attempt.IAttemptService
	logger         primary.Logger
}

// NewAttemptHandler creates a new attempt handler
func NewAttemptHandler(attemptService attempt.IAttemptService, logger primary.Logger) *AttemptHandler {
	return &AttemptHandler{
		attemptService: attemptService,
		logger:         logger,
	}
}

// RegisterRoutes registers the API routes for AttemptHandler
func (h *AttemptHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/attempts", h.StartAttempt).Methods("POST")
	router.HandleFunc("/api/attempts/{attemptId}/finalize", h.FinalizeAttempt).Methods("POST")
}

// StartAttemptRequest represents a request to start an attempt
type StartAttemptRequest struct {
	TestID string `json:"test_id"`
}

// StartAttempt opens a timed attempt for the caller
func (h *AttemptHandler) StartAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := handlers.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req StartAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.WriteError(w, http.StatusBadRequest, "MISSING_TEST_ID", "Test ID is required")
		return
	}

	testID, err := uuid.Parse(req.TestID)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, "MISSING_TEST_ID", "Test ID is required")
		return
	}

	newAttempt, err := h.attemptService.StartAttempt(r.Context(), userID, testID)
	if err != nil {
		h.logger.Error("Failed to start attempt", "testId", testID, "error", err)
		response.WriteError(w, http.StatusInternalServerError, "ATTEMPT_CREATION_FAILED", "Failed to create attempt")
		return
	}

	response.WriteSuccess(w, newAttempt)
}

// FinalizeAttempt closes the caller's active attempt
func (h *AttemptHandler) FinalizeAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := handlers.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	vars := mux.Vars(r)
	attemptID, err := uuid.Parse(vars["attemptId"])
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, "INVALID_ATTEMPT", "Invalid attempt ID")
		return
	}

	result, err := h.attemptService.FinalizeAttempt(r.Context(), userID, attemptID)
	if err != nil {
		var admissionErr *errs.AdmissionError
		if errors.As(err, &admissionErr) {
			response.WriteError(w, admissionErr.Status, admissionErr.Code, admissionErr.Message)
			return
		}
		h.logger.Error("Failed to finalize attempt", "attemptId", attemptID, "error", err)
		response.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to finalize attempt")
		return
	}

	response.WriteSuccess(w, result)
}
