package errs

import "net/http"

// AdmissionError is a request-gate rejection. Each carries the wire error
// code and HTTP status the grading endpoint reports for it.
type AdmissionError struct {
	Code    string
	Status  int
	Message string
}

func (e *AdmissionError) Error() string {
	return e.Message
}

var (
	InvalidAttempt = &AdmissionError{
		Code:    "INVALID_ATTEMPT",
		Status:  http.StatusForbidden,
		Message: "Invalid or expired attempt",
	}
	TimeExpired = &AdmissionError{
		Code:    "TIME_EXPIRED",
		Status:  http.StatusForbidden,
		Message: "Time has expired for this attempt",
	}
	QuestionNotFound = &AdmissionError{
		Code:    "QUESTION_NOT_FOUND",
		Status:  http.StatusBadRequest,
		Message: "Question not found",
	}
	LangNotAllowed = &AdmissionError{
		Code:    "LANG_NOT_ALLOWED",
		Status:  http.StatusBadRequest,
		Message: "Language not supported for this question",
	}
	LangNotSupported = &AdmissionError{
		Code:    "LANG_NOT_SUPPORTED",
		Status:  http.StatusBadRequest,
		Message: "Language is not supported by the code execution system",
	}
	RateLimited = &AdmissionError{
		Code:    "RATE_LIMITED",
		Status:  http.StatusTooManyRequests,
		Message: "Rate limit exceeded",
	}
	NoTestCases = &AdmissionError{
		Code:    "NO_TEST_CASES",
		Status:  http.StatusBadRequest,
		Message: "No test cases available for this question",
	}
)
