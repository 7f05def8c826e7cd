package response

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response shape of the grading API
type Envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	ErrorCode string      `json:"error_code,omitempty"`
	Message   string      `json:"message,omitempty"`
}

// WriteError writes a structured failure so callers can react to the code
// rather than parse a message
func WriteError(w http.ResponseWriter, status int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{
		Success:   false,
		ErrorCode: errorCode,
		Message:   message,
	})
}

// WriteSuccess writes a successful payload in the envelope
func WriteSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Envelope{
		Success: true,
		Data:    data,
	})
}
