// Package models defines the shared data types exchanged between the
// parser, the case generator, the suite runner and the reporters.
package models

// ParamLocation is where a parameter is carried in the request.
type ParamLocation string

const (
	InPath   ParamLocation = "path"
	InQuery  ParamLocation = "query"
	InHeader ParamLocation = "header"
)

// Parameter describes a single endpoint parameter as normalized by the
// spec parser.
type Parameter struct {
	Name     string        `json:"name" yaml:"name"`
	In       ParamLocation `json:"in" yaml:"in"`
	Required bool          `json:"required" yaml:"required"`
	Type     string        `json:"type" yaml:"type"`
	Default  any           `json:"default,omitempty" yaml:"default,omitempty"`
	Enum     []any         `json:"enum,omitempty" yaml:"enum,omitempty"`
	Example  any           `json:"example,omitempty" yaml:"example,omitempty"`
}

// Property describes one request-body property.
type Property struct {
	Type    string `json:"type" yaml:"type"`
	Default any    `json:"default,omitempty" yaml:"default,omitempty"`
	Enum    []any  `json:"enum,omitempty" yaml:"enum,omitempty"`
	Example any    `json:"example,omitempty" yaml:"example,omitempty"`
}

// BodySchema is the normalized JSON request-body schema of an endpoint.
// RequiredFields lists the property names that must be present.
type BodySchema struct {
	Required       bool                `json:"required" yaml:"required"`
	Properties     map[string]Property `json:"properties" yaml:"properties"`
	RequiredFields []string            `json:"required_fields,omitempty" yaml:"required_fields,omitempty"`
}

// Endpoint is the normalized descriptor of one operation of the API under
// test. It is produced by the spec parser and is not mutated afterwards.
type Endpoint struct {
	Path        string      `json:"path" yaml:"path"`
	Method      string      `json:"method" yaml:"method"`
	Summary     string      `json:"summary,omitempty" yaml:"summary,omitempty"`
	Parameters  []Parameter `json:"parameters" yaml:"parameters"`
	RequestBody *BodySchema `json:"request_body,omitempty" yaml:"request_body,omitempty"`
	Security    bool        `json:"security" yaml:"security"`
	Tags        []string    `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// APISpec is a parsed API document: metadata plus its endpoint set.
type APISpec struct {
	Title     string     `json:"title" yaml:"title"`
	Version   string     `json:"version" yaml:"version"`
	BaseURL   string     `json:"base_url" yaml:"base_url"`
	Endpoints []Endpoint `json:"endpoints" yaml:"endpoints"`
}
