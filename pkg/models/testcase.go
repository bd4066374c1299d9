package models

// TestType tags the test-design technique that produced a case.
type TestType string

const (
	TypePositive    TestType = "positive"
	TypeNegative    TestType = "negative"
	TypeBoundary    TestType = "boundary"
	TypeEquivalence TestType = "equivalence"
	TypeErrorGuess  TestType = "error_guess"
	TypeSecurity    TestType = "security"
)

// Priority ranks a case from core functionality (P0) to edge scenario (P3).
type Priority string

const (
	PriorityP0 Priority = "P0"
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
)

// AssertionType defines a custom type for assertion types.
type AssertionType string

const (
	AssertExists              AssertionType = "exists"
	AssertEquals              AssertionType = "equals"
	AssertNotEquals           AssertionType = "not_equals"
	AssertContains            AssertionType = "contains"
	AssertGreaterThan         AssertionType = "greater_than"
	AssertLessThan            AssertionType = "less_than"
	AssertTypeIs              AssertionType = "type_is"
	AssertMatches             AssertionType = "matches"
	AssertStatusCode          AssertionType = "status_code"
	AssertStatusCodeIn        AssertionType = "status_code_in"
	AssertResponseContains    AssertionType = "response_contains"
	AssertResponseNotContains AssertionType = "response_not_contains"
	AssertResponseTime        AssertionType = "response_time"
)

// Assertion is one declarative check against a captured response. Only the
// fields its type needs are set: Path and Expected for path-addressed
// checks, Expected alone for status checks, MaxMS for response-time checks.
type Assertion struct {
	Type     AssertionType `json:"type" yaml:"type"`
	Path     string        `json:"path,omitempty" yaml:"path,omitempty"`
	Expected any           `json:"expected,omitempty" yaml:"expected,omitempty"`
	MaxMS    float64       `json:"max_ms,omitempty" yaml:"max_ms,omitempty"`
}

// TestCase is one generated (or hand-written) API test case. Created once
// by the generator and treated as immutable by the runner.
type TestCase struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	TestType    TestType `json:"test_type" yaml:"test_type"`
	Priority    Priority `json:"priority" yaml:"priority"`
	Endpoint    string   `json:"endpoint" yaml:"endpoint"`
	Method      string   `json:"method" yaml:"method"`

	Headers     map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	PathParams  map[string]any    `json:"path_params,omitempty" yaml:"path_params,omitempty"`
	QueryParams map[string]any    `json:"query_params,omitempty" yaml:"query_params,omitempty"`
	RequestBody map[string]any    `json:"request_body,omitempty" yaml:"request_body,omitempty"`

	ExpectedStatus int         `json:"expected_status" yaml:"expected_status"`
	Assertions     []Assertion `json:"assertions,omitempty" yaml:"assertions,omitempty"`
	Extract        map[string]string `json:"extract,omitempty" yaml:"extract,omitempty"`

	Tags         []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	DesignMethod string   `json:"design_method" yaml:"design_method"`
}

// CaseSuite groups the cases generated for one API tag.
type CaseSuite struct {
	SuiteName   string     `json:"suite_name" yaml:"suite_name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	TestCases   []TestCase `json:"test_cases" yaml:"test_cases"`
}

// GenerationSummary holds rollup counts for a whole-spec generation run.
type GenerationSummary struct {
	TotalEndpoints int              `json:"total_endpoints" yaml:"total_endpoints"`
	TotalCases     int              `json:"total_cases" yaml:"total_cases"`
	ByType         map[TestType]int `json:"by_type" yaml:"by_type"`
	ByPriority     map[Priority]int `json:"by_priority" yaml:"by_priority"`
}

// GeneratedSuites is the output of generating cases for an entire spec,
// grouped by each endpoint's first tag.
type GeneratedSuites struct {
	APIName     string            `json:"api_name" yaml:"api_name"`
	APIVersion  string            `json:"api_version" yaml:"api_version"`
	BaseURL     string            `json:"base_url" yaml:"base_url"`
	GeneratedAt string            `json:"generated_at" yaml:"generated_at"`
	Suites      []CaseSuite       `json:"test_suites" yaml:"test_suites"`
	Summary     GenerationSummary `json:"summary" yaml:"summary"`
}

// AllCases flattens the grouped suites back into one ordered case list.
func (g *GeneratedSuites) AllCases() []TestCase {
	var cases []TestCase
	for _, s := range g.Suites {
		cases = append(cases, s.TestCases...)
	}
	return cases
}
