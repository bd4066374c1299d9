package generator

import (
	"fmt"

	"github.com/apiforge/apiforge/pkg/models"
)

// positiveCases emits the basic success case with every parameter
// populated, plus a minimal required-only case when the endpoint has
// optional inputs.
func (g *Generator) positiveCases(ep models.Endpoint) []models.TestCase {
	var cases []models.TestCase

	pathParams, queryParams, headers, body := g.buildValidRequest(ep, false)
	cases = append(cases, models.TestCase{
		ID:             g.nextID(),
		Title:          fmt.Sprintf("%s %s - valid request succeeds", ep.Method, ep.Path),
		Description:    fmt.Sprintf("verify that %s responds successfully to a fully valid request", summaryOrPath(ep)),
		TestType:       models.TypePositive,
		Priority:       models.PriorityP0,
		Endpoint:       ep.Path,
		Method:         ep.Method,
		Headers:        headers,
		PathParams:     pathParams,
		QueryParams:    queryParams,
		RequestBody:    body,
		ExpectedStatus: 200,
		Assertions: []models.Assertion{
			{Type: models.AssertResponseTime, MaxMS: 3000},
		},
		Tags:         ep.Tags,
		DesignMethod: "positive - valid equivalence class",
	})

	if hasOptionalParams(ep) {
		pathParams, queryParams, headers, body = g.buildValidRequest(ep, true)
		cases = append(cases, models.TestCase{
			ID:             g.nextID(),
			Title:          fmt.Sprintf("%s %s - required parameters only", ep.Method, ep.Path),
			Description:    "verify the endpoint works when only required parameters are supplied",
			TestType:       models.TypePositive,
			Priority:       models.PriorityP1,
			Endpoint:       ep.Path,
			Method:         ep.Method,
			Headers:        headers,
			PathParams:     pathParams,
			QueryParams:    queryParams,
			RequestBody:    body,
			ExpectedStatus: 200,
			Tags:           ep.Tags,
			DesignMethod:   "positive - minimal valid input",
		})
	}

	return cases
}

func summaryOrPath(ep models.Endpoint) string {
	if ep.Summary != "" {
		return ep.Summary
	}
	return ep.Path
}
