package generator

import (
	"fmt"
	"strings"

	"github.com/apiforge/apiforge/pkg/models"
)

// errorGuessCases covers the failure modes experience says servers get
// wrong: empty bodies, wrong content types, oversized payloads and
// references to resources that do not exist.
func (g *Generator) errorGuessCases(ep models.Endpoint) []models.TestCase {
	var cases []models.TestCase

	if isMutating(ep.Method) && ep.RequestBody != nil {
		pathParams, queryParams, headers, _ := g.buildValidRequest(ep, false)
		cases = append(cases, models.TestCase{
			ID:             g.nextID(),
			Title:          fmt.Sprintf("%s %s - empty request body", ep.Method, ep.Path),
			Description:    "verify the endpoint rejects an empty JSON object body",
			TestType:       models.TypeErrorGuess,
			Priority:       models.PriorityP1,
			Endpoint:       ep.Path,
			Method:         ep.Method,
			Headers:        headers,
			PathParams:     pathParams,
			QueryParams:    queryParams,
			RequestBody:    map[string]any{},
			ExpectedStatus: 400,
			Tags:           ep.Tags,
			DesignMethod:   "error guessing - empty body",
		})
	}

	if isMutating(ep.Method) {
		pathParams, queryParams, headers, body := g.buildValidRequest(ep, false)
		headers["Content-Type"] = "text/plain"
		cases = append(cases, models.TestCase{
			ID:             g.nextID(),
			Title:          fmt.Sprintf("%s %s - wrong content type", ep.Method, ep.Path),
			Description:    "verify the endpoint rejects a text/plain content type",
			TestType:       models.TypeErrorGuess,
			Priority:       models.PriorityP2,
			Endpoint:       ep.Path,
			Method:         ep.Method,
			Headers:        headers,
			PathParams:     pathParams,
			QueryParams:    queryParams,
			RequestBody:    body,
			ExpectedStatus: 415,
			Tags:           ep.Tags,
			DesignMethod:   "error guessing - unsupported media type",
		})
	}

	if isMutating(ep.Method) && ep.RequestBody != nil {
		pathParams, queryParams, headers, _ := g.buildValidRequest(ep, false)
		cases = append(cases, models.TestCase{
			ID:             g.nextID(),
			Title:          fmt.Sprintf("%s %s - oversized request body", ep.Method, ep.Path),
			Description:    "verify the endpoint rejects a payload of roughly one megabyte",
			TestType:       models.TypeErrorGuess,
			Priority:       models.PriorityP2,
			Endpoint:       ep.Path,
			Method:         ep.Method,
			Headers:        headers,
			PathParams:     pathParams,
			QueryParams:    queryParams,
			RequestBody:    map[string]any{"data": strings.Repeat("x", 1000000)},
			ExpectedStatus: 413,
			Assertions: []models.Assertion{
				{Type: models.AssertStatusCodeIn, Expected: []any{413, 400}},
			},
			Tags:         ep.Tags,
			DesignMethod: "error guessing - oversized payload",
		})
	}

	for _, p := range ep.Parameters {
		if p.In != models.InPath || !strings.Contains(strings.ToLower(p.Name), "id") {
			continue
		}
		pathParams, queryParams, headers, body := g.buildValidRequest(ep, false)
		pathParams[p.Name] = 999999999
		cases = append(cases, models.TestCase{
			ID:             g.nextID(),
			Title:          fmt.Sprintf("%s %s - nonexistent resource", ep.Method, ep.Path),
			Description:    fmt.Sprintf("verify the endpoint returns not found for an unknown %s", p.Name),
			TestType:       models.TypeErrorGuess,
			Priority:       models.PriorityP1,
			Endpoint:       ep.Path,
			Method:         ep.Method,
			Headers:        headers,
			PathParams:     pathParams,
			QueryParams:    queryParams,
			RequestBody:    body,
			ExpectedStatus: 404,
			Tags:           ep.Tags,
			DesignMethod:   "error guessing - nonexistent resource id",
		})
		break
	}

	return cases
}
