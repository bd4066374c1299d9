package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/apiforge/apiforge/pkg/models"
)

func renderMarkdown(w io.Writer, results []*models.SuiteResult) error {
	var b strings.Builder

	b.WriteString("# API Test Report\n\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().UTC().Format(time.RFC3339)))

	total, passed := 0, 0
	for _, sr := range results {
		total += sr.Total
		passed += sr.Passed
	}
	b.WriteString(fmt.Sprintf("Overall: %d/%d passed (%.2f%%)\n\n", passed, total, models.PassRateOf(passed, total)))

	for _, sr := range results {
		b.WriteString(fmt.Sprintf("## Suite: %s\n\n", sr.SuiteName))
		if sr.BaseURL != "" {
			b.WriteString(fmt.Sprintf("Base URL: `%s`\n\n", sr.BaseURL))
		}

		b.WriteString("| Total | Passed | Failed | Skipped | Errors | Pass Rate | Total Time |\n")
		b.WriteString("|------:|-------:|-------:|--------:|-------:|----------:|-----------:|\n")
		b.WriteString(fmt.Sprintf("| %d | %d | %d | %d | %d | %.2f%% | %.1fms |\n\n",
			sr.Total, sr.Passed, sr.Failed, sr.Skipped, sr.Error, sr.PassRate, sr.TotalTimeMS))

		if stats, ok := computeLatencyStats(sr); ok {
			b.WriteString("### Latency\n\n")
			b.WriteString("| Min | Avg | Max | P95 | P99 |\n")
			b.WriteString("|----:|----:|----:|----:|----:|\n")
			b.WriteString(fmt.Sprintf("| %.1fms | %.1fms | %.1fms | %.1fms | %.1fms |\n\n",
				stats.Min, stats.Avg, stats.Max, stats.P95, stats.P99))
		}

		b.WriteString("### Cases\n\n")
		b.WriteString("| ID | Title | Method | Endpoint | Status | Time |\n")
		b.WriteString("|----|-------|--------|----------|--------|-----:|\n")
		for _, r := range sr.Results {
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %.1fms |\n",
				r.CaseID, escapePipes(r.CaseTitle), r.Method, escapePipes(r.Endpoint), statusMark(r.Status), r.ResponseTimeMS))
		}
		b.WriteString("\n")

		writeFailureDetails(&b, sr)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeFailureDetails(b *strings.Builder, sr *models.SuiteResult) {
	wroteHeader := false
	for _, r := range sr.Results {
		if r.Status != models.StatusFailed && r.Status != models.StatusError {
			continue
		}
		if !wroteHeader {
			b.WriteString("### Failures\n\n")
			wroteHeader = true
		}
		b.WriteString(fmt.Sprintf("#### %s: %s\n\n", r.CaseID, r.CaseTitle))
		b.WriteString(fmt.Sprintf("- Request: `%s %s`\n", r.Method, r.Endpoint))
		b.WriteString(fmt.Sprintf("- Response status: %d\n", r.ResponseStatus))
		if r.ErrorMessage != "" {
			b.WriteString(fmt.Sprintf("- Error: %s\n", r.ErrorMessage))
		}
		for _, a := range r.Assertions {
			if a.Passed {
				continue
			}
			b.WriteString(fmt.Sprintf("- Failed assertion `%s`: %s\n", a.Type, a.Message))
		}
		b.WriteString("\n")
	}
}

func statusMark(s models.TestStatus) string {
	switch s {
	case models.StatusPassed:
		return "✅ passed"
	case models.StatusFailed:
		return "❌ failed"
	case models.StatusSkipped:
		return "⏭ skipped"
	case models.StatusError:
		return "⚠️ error"
	}
	return string(s)
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
