// Package report renders run results in the formats the CLI and the
// HTTP surface expose: markdown, json, yaml, xlsx and a console table.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/apiforge/apiforge/pkg/models"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatXLSX     Format = "xlsx"
	FormatConsole  Format = "console"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatMarkdown, FormatJSON, FormatYAML, FormatXLSX, FormatConsole:
		return Format(s), nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown report format %q, want markdown, json, yaml, xlsx or console", s)
}

// Extension returns the file extension a format is saved under.
func Extension(format Format) string {
	switch format {
	case FormatMarkdown:
		return "md"
	case FormatConsole:
		return "txt"
	}
	return string(format)
}

// Render writes the results in the given format to w. The xlsx format
// needs a file path and is handled by WriteXLSX instead.
func Render(w io.Writer, format Format, results []*models.SuiteResult) error {
	switch format {
	case FormatMarkdown:
		return renderMarkdown(w, results)
	case FormatJSON:
		return renderJSON(w, results)
	case FormatYAML:
		return renderYAML(w, results)
	case FormatConsole:
		return renderConsole(w, results)
	case FormatXLSX:
		return fmt.Errorf("xlsx reports are file based, use WriteXLSX")
	}
	return fmt.Errorf("unknown report format %q", format)
}

// latencyStats summarizes the response times of executed cases.
// Skipped cases carry no latency and are left out.
type latencyStats struct {
	Min float64
	Avg float64
	Max float64
	P95 float64
	P99 float64
}

func computeLatencyStats(sr *models.SuiteResult) (latencyStats, bool) {
	var samples []float64
	for _, r := range sr.Results {
		if r.Status == models.StatusSkipped {
			continue
		}
		samples = append(samples, r.ResponseTimeMS)
	}
	if len(samples) == 0 {
		return latencyStats{}, false
	}
	sort.Float64s(samples)

	var sum float64
	for _, s := range samples {
		sum += s
	}
	return latencyStats{
		Min: samples[0],
		Avg: sum / float64(len(samples)),
		Max: samples[len(samples)-1],
		P95: percentile(samples, 95),
		P99: percentile(samples, 99),
	}, true
}

// percentile uses the nearest-rank method on an already sorted slice.
func percentile(sorted []float64, p float64) float64 {
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}
