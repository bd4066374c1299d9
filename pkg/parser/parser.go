// Package parser loads OpenAPI 3 documents and flattens them into the
// endpoint model the generator consumes.
package parser

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	"github.com/apiforge/apiforge/pkg/models"
)

// Parser wraps a kin-openapi loader. The loader follows local file
// references by default.
type Parser struct {
	logger *zap.Logger
	loader *openapi3.Loader
}

func New(logger *zap.Logger) *Parser {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	return &Parser{logger: logger, loader: loader}
}

// ParseFile loads and validates an OpenAPI document from disk. Both
// JSON and YAML documents are accepted.
func (p *Parser) ParseFile(ctx context.Context, path string) (*models.APISpec, error) {
	doc, err := p.loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document %q: %w", path, err)
	}
	return p.convert(ctx, doc)
}

// ParseURL fetches an OpenAPI document over HTTP.
func (p *Parser) ParseURL(ctx context.Context, rawURL string) (*models.APISpec, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid openapi document url %q: %w", rawURL, err)
	}
	doc, err := p.loader.LoadFromURI(u)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch openapi document %q: %w", rawURL, err)
	}
	return p.convert(ctx, doc)
}

// ParseData loads an OpenAPI document from raw bytes.
func (p *Parser) ParseData(ctx context.Context, data []byte) (*models.APISpec, error) {
	doc, err := p.loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	return p.convert(ctx, doc)
}

func (p *Parser) convert(ctx context.Context, doc *openapi3.T) (*models.APISpec, error) {
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi document failed validation: %w", err)
	}

	spec := &models.APISpec{}
	if doc.Info != nil {
		spec.Title = doc.Info.Title
		spec.Version = doc.Info.Version
	}
	if len(doc.Servers) > 0 {
		spec.BaseURL = doc.Servers[0].URL
	}

	globalSecurity := len(doc.Security) > 0

	paths := doc.Paths.Map()
	pathKeys := make([]string, 0, len(paths))
	for k := range paths {
		pathKeys = append(pathKeys, k)
	}
	sort.Strings(pathKeys)

	for _, path := range pathKeys {
		item := paths[path]
		ops := item.Operations()
		methods := make([]string, 0, len(ops))
		for m := range ops {
			methods = append(methods, m)
		}
		sort.Strings(methods)

		for _, method := range methods {
			op := ops[method]
			ep := models.Endpoint{
				Path:     path,
				Method:   method,
				Summary:  op.Summary,
				Tags:     op.Tags,
				Security: globalSecurity,
			}
			if op.Security != nil {
				ep.Security = len(*op.Security) > 0
			}

			for _, ref := range append(append(openapi3.Parameters{}, item.Parameters...), op.Parameters...) {
				if ref == nil || ref.Value == nil {
					continue
				}
				ep.Parameters = append(ep.Parameters, convertParameter(ref.Value))
			}

			if op.RequestBody != nil && op.RequestBody.Value != nil {
				ep.RequestBody = convertBody(op.RequestBody.Value)
			}

			p.logger.Debug("parsed endpoint",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("parameters", len(ep.Parameters)))
			spec.Endpoints = append(spec.Endpoints, ep)
		}
	}

	if len(spec.Endpoints) == 0 {
		return nil, fmt.Errorf("openapi document %q declares no operations", spec.Title)
	}
	return spec, nil
}

func convertParameter(src *openapi3.Parameter) models.Parameter {
	p := models.Parameter{
		Name:     src.Name,
		In:       models.ParamLocation(src.In),
		Required: src.Required,
		Type:     "string",
		Example:  src.Example,
	}
	if src.Schema != nil && src.Schema.Value != nil {
		s := src.Schema.Value
		p.Type = schemaType(s)
		p.Default = s.Default
		if p.Example == nil {
			p.Example = s.Example
		}
		for _, e := range s.Enum {
			p.Enum = append(p.Enum, e)
		}
	}
	return p
}

func convertBody(src *openapi3.RequestBody) *models.BodySchema {
	media := src.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil
	}
	s := media.Schema.Value

	body := &models.BodySchema{
		Required:       src.Required,
		Properties:     map[string]models.Property{},
		RequiredFields: s.Required,
	}
	for name, ref := range s.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := models.Property{
			Type:    schemaType(ref.Value),
			Example: ref.Value.Example,
			Default: ref.Value.Default,
		}
		for _, e := range ref.Value.Enum {
			prop.Enum = append(prop.Enum, e)
		}
		body.Properties[name] = prop
	}
	return body
}

func schemaType(s *openapi3.Schema) string {
	if s.Type != nil && len(*s.Type) > 0 {
		return (*s.Type)[0]
	}
	return "string"
}
