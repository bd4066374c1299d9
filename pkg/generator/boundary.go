package generator

import (
	"fmt"
	"strings"

	"github.com/apiforge/apiforge/pkg/models"
)

// boundaryCases probes each parameter with values on the edges of its
// type's range. The expected status depends on whether the boundary
// value is still a well formed input for the parameter.
func (g *Generator) boundaryCases(ep models.Endpoint) []models.TestCase {
	var cases []models.TestCase

	for _, p := range ep.Parameters {
		if p.In != models.InQuery && p.In != models.InPath {
			continue
		}

		boundaries := g.pool.Boundary(p.Type, p.Name)
		if len(boundaries) > 4 {
			boundaries = boundaries[:4]
		}
		for _, val := range boundaries {
			pathParams, queryParams, headers, body := g.buildValidRequest(ep, false)
			if p.In == models.InPath {
				pathParams[p.Name] = val
			} else {
				queryParams[p.Name] = val
			}
			expected := 400
			if isValidBoundary(p, val) {
				expected = 200
			}
			cases = append(cases, models.TestCase{
				ID:             g.nextID(),
				Title:          fmt.Sprintf("%s %s - boundary %s = %v", ep.Method, ep.Path, p.Name, val),
				Description:    fmt.Sprintf("probe parameter %q at a boundary of its value range", p.Name),
				TestType:       models.TypeBoundary,
				Priority:       models.PriorityP1,
				Endpoint:       ep.Path,
				Method:         ep.Method,
				Headers:        headers,
				PathParams:     pathParams,
				QueryParams:    queryParams,
				RequestBody:    body,
				ExpectedStatus: expected,
				Tags:           ep.Tags,
				DesignMethod:   fmt.Sprintf("boundary value analysis - %s", p.Name),
			})
		}
	}

	return cases
}

// isValidBoundary reports whether a boundary value should still be
// accepted by the server. Empty or null values are never valid, and
// identifier-like parameters must not be negative.
func isValidBoundary(p models.Parameter, val any) bool {
	if val == nil || val == "" {
		return false
	}
	if n, ok := asInt(val); ok && n < 0 && strings.Contains(strings.ToLower(p.Name), "id") {
		return false
	}
	return true
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}
