// Package generator derives API test cases from endpoint descriptors using
// systematic test-design techniques: positive, equivalence partitioning,
// boundary value analysis, error guessing and security probing. Generation
// is purely rule-driven; no external service is involved.
package generator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/apiforge/apiforge/pkg/models"
	"github.com/apiforge/apiforge/pkg/valuepool"
	"github.com/apiforge/apiforge/utils"
)

// Generator produces test cases for endpoints. The case-id counter is
// owned by the instance, so ids are sequential within one Generator and
// two Generators never contend.
type Generator struct {
	logger  *zap.Logger
	pool    *valuepool.Pool
	counter int
}

var _ Service = (*Generator)(nil)

// New creates a Generator drawing values from the given pool.
func New(logger *zap.Logger, pool *valuepool.Pool) *Generator {
	return &Generator{
		logger: logger,
		pool:   pool,
	}
}

// ForEndpoint generates cases for one endpoint in a fixed technique order:
// positive, equivalence, boundary, error guessing, security. The order
// determines case ids. A malformed descriptor aborts generation for this
// endpoint only.
func (g *Generator) ForEndpoint(ep models.Endpoint) ([]models.TestCase, error) {
	if err := validateEndpoint(ep); err != nil {
		return nil, err
	}

	var cases []models.TestCase
	cases = append(cases, g.positiveCases(ep)...)
	cases = append(cases, g.equivalenceCases(ep)...)
	cases = append(cases, g.boundaryCases(ep)...)
	cases = append(cases, g.errorGuessCases(ep)...)
	cases = append(cases, g.securityCases(ep)...)

	g.logger.Debug("generated cases for endpoint",
		zap.String("method", ep.Method),
		zap.String("path", ep.Path),
		zap.Int("cases", len(cases)))

	return cases, nil
}

// All generates cases for every endpoint, grouping suites by each
// endpoint's first tag ("default" when untagged). A malformed endpoint is
// logged and skipped; the remaining endpoints still generate.
func (g *Generator) All(spec *models.APISpec) (*models.GeneratedSuites, error) {
	if spec == nil {
		return nil, fmt.Errorf("api spec is nil")
	}

	out := &models.GeneratedSuites{
		APIName:     spec.Title,
		APIVersion:  spec.Version,
		BaseURL:     spec.BaseURL,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Summary: models.GenerationSummary{
			TotalEndpoints: len(spec.Endpoints),
			ByType:         make(map[models.TestType]int),
			ByPriority:     make(map[models.Priority]int),
		},
	}

	suiteIdx := make(map[string]int)
	for _, ep := range spec.Endpoints {
		cases, err := g.ForEndpoint(ep)
		if err != nil {
			utils.LogError(g.logger, err, "skipping malformed endpoint",
				zap.String("method", ep.Method), zap.String("path", ep.Path))
			continue
		}

		tag := "default"
		if len(ep.Tags) > 0 && ep.Tags[0] != "" {
			tag = ep.Tags[0]
		}
		idx, ok := suiteIdx[tag]
		if !ok {
			idx = len(out.Suites)
			suiteIdx[tag] = idx
			out.Suites = append(out.Suites, models.CaseSuite{
				SuiteName:   tag,
				Description: fmt.Sprintf("test cases for the %s module", tag),
			})
		}
		out.Suites[idx].TestCases = append(out.Suites[idx].TestCases, cases...)
	}

	for _, suite := range out.Suites {
		out.Summary.TotalCases += len(suite.TestCases)
		for _, c := range suite.TestCases {
			out.Summary.ByType[c.TestType]++
			out.Summary.ByPriority[c.Priority]++
		}
	}

	return out, nil
}

func validateEndpoint(ep models.Endpoint) error {
	if ep.Path == "" {
		return fmt.Errorf("endpoint descriptor has no path")
	}
	if ep.Method == "" {
		return fmt.Errorf("endpoint descriptor %s has no method", ep.Path)
	}
	for _, p := range ep.Parameters {
		if p.Name == "" {
			return fmt.Errorf("endpoint %s %s has a parameter without a name", ep.Method, ep.Path)
		}
	}
	if ep.RequestBody != nil && ep.RequestBody.Properties == nil {
		return fmt.Errorf("endpoint %s %s declares a request body without properties", ep.Method, ep.Path)
	}
	return nil
}

func (g *Generator) nextID() string {
	g.counter++
	return fmt.Sprintf("TC_%04d", g.counter)
}

// buildValidRequest populates every parameter from example, default, first
// enum entry or the value pool, in that order. With requiredOnly set,
// optional parameters and body properties are dropped.
func (g *Generator) buildValidRequest(ep models.Endpoint, requiredOnly bool) (pathParams, queryParams map[string]any, headers map[string]string, body map[string]any) {
	pathParams = map[string]any{}
	queryParams = map[string]any{}
	headers = map[string]string{"Content-Type": "application/json"}

	for _, p := range ep.Parameters {
		if requiredOnly && !p.Required {
			continue
		}
		value := g.paramValue(p)
		switch p.In {
		case models.InPath:
			pathParams[p.Name] = value
		case models.InQuery:
			queryParams[p.Name] = value
		case models.InHeader:
			headers[p.Name] = fmt.Sprintf("%v", value)
		}
	}

	if ep.RequestBody != nil {
		body = g.bodyFromSchema(ep.RequestBody, requiredOnly)
	}
	return pathParams, queryParams, headers, body
}

func (g *Generator) paramValue(p models.Parameter) any {
	switch {
	case p.Example != nil:
		return p.Example
	case p.Default != nil:
		return p.Default
	case len(p.Enum) > 0:
		return p.Enum[0]
	default:
		return g.pool.Valid(p.Type, p.Name)
	}
}

// bodyFromSchema fills body properties in sorted name order so a
// seeded pool draws values deterministically.
func (g *Generator) bodyFromSchema(schema *models.BodySchema, requiredOnly bool) map[string]any {
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	body := map[string]any{}
	for _, name := range names {
		prop := schema.Properties[name]
		if requiredOnly && !contains(schema.RequiredFields, name) {
			continue
		}
		switch {
		case prop.Example != nil:
			body[name] = prop.Example
		case prop.Default != nil:
			body[name] = prop.Default
		case len(prop.Enum) > 0:
			body[name] = prop.Enum[0]
		default:
			body[name] = g.pool.Valid(prop.Type, name)
		}
	}
	return body
}

func hasOptionalParams(ep models.Endpoint) bool {
	for _, p := range ep.Parameters {
		if !p.Required {
			return true
		}
	}
	if ep.RequestBody != nil {
		for name := range ep.RequestBody.Properties {
			if !contains(ep.RequestBody.RequiredFields, name) {
				return true
			}
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// valueKind names a value's type for case titles, mirroring how invalid
// values are reported in descriptions.
func valueKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int32, int64:
		return "int"
	case float32, float64:
		return "float"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func isMutating(method string) bool {
	switch strings.ToUpper(method) {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}
