package report

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yamlLib "gopkg.in/yaml.v3"

	"github.com/apiforge/apiforge/pkg/models"
)

func sampleResults() []*models.SuiteResult {
	return []*models.SuiteResult{{
		SuiteName:   "users",
		BaseURL:     "http://localhost:8080",
		Total:       3,
		Passed:      2,
		Failed:      1,
		PassRate:    66.67,
		TotalTimeMS: 360,
		Results: []models.CaseResult{
			{CaseID: "TC_0001", CaseTitle: "GET /users - valid request succeeds", Method: "GET",
				Endpoint: "/users", Status: models.StatusPassed, ResponseStatus: 200, ResponseTimeMS: 100},
			{CaseID: "TC_0002", CaseTitle: "GET /users - invalid page", Method: "GET",
				Endpoint: "/users", Status: models.StatusFailed, ResponseStatus: 200, ResponseTimeMS: 60,
				Assertions: []models.AssertionResult{{
					Type: models.AssertStatusCode, Expected: 400, Actual: 200,
					Passed: false, Message: "expected status 400, got 200",
				}}},
			{CaseID: "TC_0003", CaseTitle: "GET /users/{id} - valid request succeeds", Method: "GET",
				Endpoint: "/users/{id}", Status: models.StatusPassed, ResponseStatus: 200, ResponseTimeMS: 200},
		},
	}}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"markdown", "md", "json", "yaml", "xlsx", "console"} {
		_, err := ParseFormat(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "md", Extension(FormatMarkdown))
	assert.Equal(t, "json", Extension(FormatJSON))
	assert.Equal(t, "yaml", Extension(FormatYAML))
	assert.Equal(t, "xlsx", Extension(FormatXLSX))
	assert.Equal(t, "txt", Extension(FormatConsole))
}

func TestRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatMarkdown, sampleResults()))
	out := buf.String()

	assert.Contains(t, out, "# API Test Report")
	assert.Contains(t, out, "## Suite: users")
	assert.Contains(t, out, "| 3 | 2 | 1 | 0 | 0 | 66.67% | 360.0ms |")
	assert.Contains(t, out, "### Latency")
	assert.Contains(t, out, "### Failures")
	assert.Contains(t, out, "expected status 400, got 200")
	assert.Contains(t, out, "TC_0002")
	// endpoint braces must survive the table
	assert.Contains(t, out, "/users/{id}")
}

func TestRenderJSON_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatJSON, sampleResults()))

	var decoded []*models.SuiteResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "users", decoded[0].SuiteName)
	assert.Equal(t, 66.67, decoded[0].PassRate)
}

func TestRenderYAML_UsesJSONKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatYAML, sampleResults()))

	var decoded []map[string]any
	require.NoError(t, yamlLib.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "users", decoded[0]["suite_name"])
	assert.Contains(t, decoded[0], "pass_rate")
}

func TestRenderConsole(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatConsole, sampleResults()))
	out := buf.String()

	assert.Contains(t, out, "Suite: users")
	assert.Contains(t, out, "TC_0001")
	assert.Contains(t, out, "pass rate: 66.67%")
}

func TestRender_XLSXNeedsFile(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Render(&buf, FormatXLSX, sampleResults()))
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(path, sampleResults()))
	assert.FileExists(t, path)
}

func TestPrintGenerationSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintGenerationSummary(&buf, &models.GeneratedSuites{
		APIName:    "Demo",
		APIVersion: "1.0.0",
		Suites: []models.CaseSuite{
			{SuiteName: "users", TestCases: make([]models.TestCase, 3)},
		},
		Summary: models.GenerationSummary{
			TotalCases: 3,
			ByType:     map[models.TestType]int{models.TypePositive: 3},
			ByPriority: map[models.Priority]int{models.PriorityP0: 3},
		},
	})
	out := buf.String()
	assert.Contains(t, out, "Generated 3 test cases")
	assert.Contains(t, out, "positive")
	assert.Contains(t, out, "P0")
}

func TestComputeLatencyStats(t *testing.T) {
	sr := sampleResults()[0]
	stats, ok := computeLatencyStats(sr)
	require.True(t, ok)

	assert.Equal(t, 60.0, stats.Min)
	assert.Equal(t, 200.0, stats.Max)
	assert.InDelta(t, 120.0, stats.Avg, 0.0001)
	assert.Equal(t, 200.0, stats.P95)
	assert.Equal(t, 200.0, stats.P99)

	empty := &models.SuiteResult{Results: []models.CaseResult{{Status: models.StatusSkipped}}}
	_, ok = computeLatencyStats(empty)
	assert.False(t, ok)
}

func TestStatusMark(t *testing.T) {
	assert.True(t, strings.Contains(statusMark(models.StatusPassed), "passed"))
	assert.True(t, strings.Contains(statusMark(models.StatusError), "error"))
}
