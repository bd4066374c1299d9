package generator

import (
	"fmt"

	"github.com/apiforge/apiforge/pkg/models"
)

const (
	sqlInjectionPayload = "'; DROP TABLE users;--"
	xssPayload          = "<script>alert('XSS')</script>"
)

// securityCases probes authentication handling and the classic
// injection vectors. Auth cases are only emitted for endpoints that
// declare a security requirement.
func (g *Generator) securityCases(ep models.Endpoint) []models.TestCase {
	var cases []models.TestCase

	if ep.Security {
		pathParams, queryParams, _, body := g.buildValidRequest(ep, false)
		cases = append(cases, models.TestCase{
			ID:             g.nextID(),
			Title:          fmt.Sprintf("%s %s - no authentication", ep.Method, ep.Path),
			Description:    "verify the endpoint rejects a request without credentials",
			TestType:       models.TypeSecurity,
			Priority:       models.PriorityP0,
			Endpoint:       ep.Path,
			Method:         ep.Method,
			Headers:        map[string]string{},
			PathParams:     pathParams,
			QueryParams:    queryParams,
			RequestBody:    body,
			ExpectedStatus: 401,
			Tags:           ep.Tags,
			DesignMethod:   "security - missing credentials",
		})

		pathParams, queryParams, headers, body := g.buildValidRequest(ep, false)
		headers["Authorization"] = "Bearer invalid_token_xxx"
		cases = append(cases, models.TestCase{
			ID:             g.nextID(),
			Title:          fmt.Sprintf("%s %s - invalid token", ep.Method, ep.Path),
			Description:    "verify the endpoint rejects a malformed bearer token",
			TestType:       models.TypeSecurity,
			Priority:       models.PriorityP0,
			Endpoint:       ep.Path,
			Method:         ep.Method,
			Headers:        headers,
			PathParams:     pathParams,
			QueryParams:    queryParams,
			RequestBody:    body,
			ExpectedStatus: 401,
			Assertions: []models.Assertion{
				{Type: models.AssertStatusCodeIn, Expected: []any{401, 403}},
			},
			Tags:         ep.Tags,
			DesignMethod: "security - invalid credentials",
		})
	}

	for _, p := range ep.Parameters {
		if p.Type != "string" || (p.In != models.InQuery && p.In != models.InPath) {
			continue
		}
		pathParams, queryParams, headers, body := g.buildValidRequest(ep, false)
		if p.In == models.InPath {
			pathParams[p.Name] = sqlInjectionPayload
		} else {
			queryParams[p.Name] = sqlInjectionPayload
		}
		cases = append(cases, models.TestCase{
			ID:             g.nextID(),
			Title:          fmt.Sprintf("%s %s - SQL injection in %s", ep.Method, ep.Path, p.Name),
			Description:    fmt.Sprintf("verify parameter %q is not passed through to a SQL layer", p.Name),
			TestType:       models.TypeSecurity,
			Priority:       models.PriorityP0,
			Endpoint:       ep.Path,
			Method:         ep.Method,
			Headers:        headers,
			PathParams:     pathParams,
			QueryParams:    queryParams,
			RequestBody:    body,
			ExpectedStatus: 400,
			Assertions: []models.Assertion{
				{Type: models.AssertStatusCodeIn, Expected: []any{400, 200}},
				{Type: models.AssertResponseNotContains, Expected: "error"},
			},
			Tags:         ep.Tags,
			DesignMethod: fmt.Sprintf("security - SQL injection probe on %s", p.Name),
		})
		break
	}

	for _, p := range ep.Parameters {
		if p.Type != "string" || (p.In != models.InQuery && p.In != models.InPath) {
			continue
		}
		pathParams, queryParams, headers, body := g.buildValidRequest(ep, false)
		if p.In == models.InPath {
			pathParams[p.Name] = xssPayload
		} else {
			queryParams[p.Name] = xssPayload
		}
		cases = append(cases, models.TestCase{
			ID:             g.nextID(),
			Title:          fmt.Sprintf("%s %s - XSS payload in %s", ep.Method, ep.Path, p.Name),
			Description:    fmt.Sprintf("verify parameter %q is not reflected unescaped", p.Name),
			TestType:       models.TypeSecurity,
			Priority:       models.PriorityP1,
			Endpoint:       ep.Path,
			Method:         ep.Method,
			Headers:        headers,
			PathParams:     pathParams,
			QueryParams:    queryParams,
			RequestBody:    body,
			ExpectedStatus: 400,
			Assertions: []models.Assertion{
				{Type: models.AssertResponseNotContains, Expected: "<script>"},
			},
			Tags:         ep.Tags,
			DesignMethod: fmt.Sprintf("security - XSS probe on %s", p.Name),
		})
		break
	}

	return cases
}
