// Package export renders a project into other deployment formats.
package export

import (
	"encoding/json"

	"github.com/sinzlab/labctl/internal/schema"
)

// Exporter renders a project into one output format.
type Exporter func(project *schema.Project) ([]byte, error)

var formats = map[string]Exporter{
	"json":    JSON,
	"compose": Compose,
}

// ForFormat looks up the exporter registered under a format name.
func ForFormat(format string) (Exporter, bool) {
	exporter, ok := formats[format]
	return exporter, ok
}

// JSON renders the project in the schema's own field layout, indented.
func JSON(project *schema.Project) ([]byte, error) {
	return json.MarshalIndent(project, "", "  ")
}
