package generator

import (
	"fmt"

	"github.com/apiforge/apiforge/pkg/models"
)

// equivalenceCases partitions each parameter's input space and emits
// one case per invalid class, plus a case per required parameter that
// omits it entirely.
func (g *Generator) equivalenceCases(ep models.Endpoint) []models.TestCase {
	var cases []models.TestCase

	for _, p := range ep.Parameters {
		if p.In != models.InQuery && p.In != models.InPath {
			continue
		}

		invalid := g.pool.Invalid(p.Type, p.Name)
		if len(invalid) > 3 {
			invalid = invalid[:3]
		}
		priority := models.PriorityP2
		if p.Required {
			priority = models.PriorityP1
		}
		for _, val := range invalid {
			pathParams, queryParams, headers, body := g.buildValidRequest(ep, false)
			if p.In == models.InPath {
				pathParams[p.Name] = val
			} else {
				queryParams[p.Name] = val
			}
			cases = append(cases, models.TestCase{
				ID:             g.nextID(),
				Title:          fmt.Sprintf("%s %s - invalid %s (%s)", ep.Method, ep.Path, p.Name, valueKind(val)),
				Description:    fmt.Sprintf("verify the endpoint rejects an invalid value for parameter %q", p.Name),
				TestType:       models.TypeEquivalence,
				Priority:       priority,
				Endpoint:       ep.Path,
				Method:         ep.Method,
				Headers:        headers,
				PathParams:     pathParams,
				QueryParams:    queryParams,
				RequestBody:    body,
				ExpectedStatus: 400,
				Assertions: []models.Assertion{
					{Type: models.AssertResponseContains, Expected: "error"},
				},
				Tags:         ep.Tags,
				DesignMethod: fmt.Sprintf("equivalence partitioning - invalid class for %s", p.Name),
			})
		}
	}

	for _, p := range ep.Parameters {
		if !p.Required || (p.In != models.InQuery && p.In != models.InPath) {
			continue
		}
		pathParams, queryParams, headers, body := g.buildValidRequest(ep, false)
		if p.In == models.InPath {
			delete(pathParams, p.Name)
		} else {
			delete(queryParams, p.Name)
		}
		cases = append(cases, models.TestCase{
			ID:             g.nextID(),
			Title:          fmt.Sprintf("%s %s - missing required %s", ep.Method, ep.Path, p.Name),
			Description:    fmt.Sprintf("verify the endpoint rejects a request without required parameter %q", p.Name),
			TestType:       models.TypeEquivalence,
			Priority:       models.PriorityP0,
			Endpoint:       ep.Path,
			Method:         ep.Method,
			Headers:        headers,
			PathParams:     pathParams,
			QueryParams:    queryParams,
			RequestBody:    body,
			ExpectedStatus: 400,
			Tags:           ep.Tags,
			DesignMethod:   fmt.Sprintf("equivalence partitioning - missing required parameter %s", p.Name),
		})
	}

	return cases
}
