package main

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	formatJSON    = "json"
	formatYAML    = "yaml"
	formatGeoJSON = "geojson"
)

func validateFormat(format string) error {
	switch strings.ToLower(format) {
	case formatJSON, formatYAML, formatGeoJSON:
		return nil
	default:
		return eris.Errorf("unsupported output format %q", format)
	}
}

// writeOutput renders v as indented JSON or YAML. The geojson format only
// changes commands that have a geographic result; elsewhere it is JSON.
func writeOutput(w io.Writer, format string, v any) error {
	if strings.EqualFold(format, formatYAML) {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode json")
	}
	return nil
}
