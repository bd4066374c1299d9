package generator

import "github.com/apiforge/apiforge/pkg/models"

// Service generates test cases from normalized endpoint descriptors.
type Service interface {
	// ForEndpoint derives the full battery of cases for one endpoint.
	ForEndpoint(ep models.Endpoint) ([]models.TestCase, error)
	// All generates cases for every endpoint of a spec, grouped by the
	// endpoint's first tag, with rollup counts.
	All(spec *models.APISpec) (*models.GeneratedSuites, error)
}
