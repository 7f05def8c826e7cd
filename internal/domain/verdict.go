package domain

import (
	"strconv"
	"strings"
)

// CaseStatus is the outcome of a single test case
type CaseStatus string

const (
	CaseStatusPass  CaseStatus = "pass"
	CaseStatusFail  CaseStatus = "fail"
	CaseStatusError CaseStatus = "error"
)

// TestVerdict is the evaluated outcome of running code against one test
// case. TimeMS is in milliseconds, MemoryKB in kilobytes.
type TestVerdict struct {
	Input          string     `json:"input"`
	ExpectedOutput string     `json:"expected_output"`
	ActualOutput   string     `json:"actual_output"`
	Status         CaseStatus `json:"status"`
	Passed         bool       `json:"passed"`
	CaseOrder      int        `json:"case_order"`
	TimeMS         float64    `json:"time"`
	MemoryKB       int        `json:"memory"`
}

// NormalizeOutput trims surrounding whitespace and folds CRLF line endings
// to LF so outputs produced on different platforms compare equal.
func NormalizeOutput(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", "\n")
}

// EvaluateVerdict compares an execution result against its test case. A
// case passes only when the normalized outputs match AND the service
// accepted the run; a runtime error with coincidentally matching output
// still fails.
func EvaluateVerdict(result *ExecutionResult, testCase *TestCase) TestVerdict {
	actual := result.Stdout
	if actual == "" {
		actual = result.Stderr
	}

	passed := NormalizeOutput(actual) == NormalizeOutput(testCase.ExpectedOutput) &&
		result.Status.ID == StatusAccepted

	status := CaseStatusFail
	if passed {
		status = CaseStatusPass
	}

	var timeMS float64
	if seconds, err := strconv.ParseFloat(result.Time, 64); err == nil {
		timeMS = seconds * 1000
	}

	return TestVerdict{
		Input:          testCase.Input,
		ExpectedOutput: testCase.ExpectedOutput,
		ActualOutput:   actual,
		Status:         status,
		Passed:         passed,
		CaseOrder:      testCase.OrderIndex,
		TimeMS:         timeMS,
		MemoryKB:       result.Memory,
	}
}

// ErrorVerdict stands in for a case that never produced a result, for
// example when its job timed out or the dispatch failed.
func ErrorVerdict(testCase *TestCase) TestVerdict {
	return TestVerdict{
		Input:          testCase.Input,
		ExpectedOutput: testCase.ExpectedOutput,
		ActualOutput:   "Execution Error",
		Status:         CaseStatusError,
		Passed:         false,
		CaseOrder:      testCase.OrderIndex,
	}
}
