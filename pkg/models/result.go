package models

import "math"

// TestStatus is the verdict of one executed case.
type TestStatus string

const (
	StatusPassed  TestStatus = "passed"
	StatusFailed  TestStatus = "failed"
	StatusSkipped TestStatus = "skipped"
	StatusError   TestStatus = "error"
)

// AssertionResult records the evaluation of a single assertion.
type AssertionResult struct {
	Type     AssertionType `json:"assertion_type" yaml:"assertion_type"`
	Path     string        `json:"path" yaml:"path"`
	Expected any           `json:"expected" yaml:"expected"`
	Actual   any           `json:"actual" yaml:"actual"`
	Passed   bool          `json:"passed" yaml:"passed"`
	Message  string        `json:"message,omitempty" yaml:"message,omitempty"`
}

// CaseResult is the outcome of executing one test case. A transport-level
// failure is recorded with StatusError, ResponseStatus 0 and no assertions.
type CaseResult struct {
	CaseID         string            `json:"test_case_id" yaml:"test_case_id"`
	CaseTitle      string            `json:"test_case_title" yaml:"test_case_title"`
	Status         TestStatus        `json:"status" yaml:"status"`
	Method         string            `json:"method" yaml:"method"`
	Endpoint       string            `json:"endpoint" yaml:"endpoint"`
	RequestHeaders map[string]string `json:"request_headers,omitempty" yaml:"request_headers,omitempty"`
	RequestBody    map[string]any    `json:"request_body,omitempty" yaml:"request_body,omitempty"`
	ResponseStatus int               `json:"response_status" yaml:"response_status"`
	ResponseBody   any               `json:"response_body,omitempty" yaml:"response_body,omitempty"`
	ResponseTimeMS float64           `json:"response_time_ms" yaml:"response_time_ms"`
	Assertions     []AssertionResult `json:"assertions,omitempty" yaml:"assertions,omitempty"`
	ErrorMessage   string            `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	ExecutedAt     string            `json:"executed_at" yaml:"executed_at"`
}

// SuiteResult aggregates the results of one suite run. TotalTimeMS is the
// sum of per-case latencies, not the wall-clock duration of the run.
type SuiteResult struct {
	SuiteName   string       `json:"suite_name" yaml:"suite_name"`
	BaseURL     string       `json:"base_url" yaml:"base_url"`
	Total       int          `json:"total" yaml:"total"`
	Passed      int          `json:"passed" yaml:"passed"`
	Failed      int          `json:"failed" yaml:"failed"`
	Skipped     int          `json:"skipped" yaml:"skipped"`
	Error       int          `json:"error" yaml:"error"`
	PassRate    float64      `json:"pass_rate" yaml:"pass_rate"`
	TotalTimeMS float64      `json:"total_time_ms" yaml:"total_time_ms"`
	Results     []CaseResult `json:"results" yaml:"results"`
	StartedAt   string       `json:"started_at" yaml:"started_at"`
	FinishedAt  string       `json:"finished_at" yaml:"finished_at"`
}

// PassRateOf computes the pass percentage rounded to two decimals, zero
// when no cases ran.
func PassRateOf(passed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(passed)/float64(total)*100*100) / 100
}
