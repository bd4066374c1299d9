package report

import (
	"encoding/json"
	"fmt"
	"io"

	yamlLib "github.com/invopop/yaml"

	"github.com/apiforge/apiforge/pkg/models"
)

func renderJSON(w io.Writer, results []*models.SuiteResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode json report: %w", err)
	}
	return nil
}

// renderYAML goes through the json representation so the yaml keys
// match the json tags of the result types.
func renderYAML(w io.Writer, results []*models.SuiteResult) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	out, err := yamlLib.JSONToYAML(raw)
	if err != nil {
		return fmt.Errorf("failed to convert report to yaml: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("failed to write yaml report: %w", err)
	}
	return nil
}
