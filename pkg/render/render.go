// Package render writes reports and dashboards in the supported output formats.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an output format name.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHTML Format = "html"
)

const (
	jsonIndent = "  "
	yamlIndent = 2
)

// ErrUnknownFormat reports an unsupported format name.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat validates name against allowed formats.
func ParseFormat(name string, allowed ...Format) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))

	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}

	names := make([]string, 0, len(allowed))
	for _, a := range allowed {
		names = append(names, string(a))
	}

	return "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownFormat, name, strings.Join(names, ", "))
}

// JSON writes v as indented JSON followed by a newline.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", jsonIndent)

	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

// YAML writes v as a YAML document.
func YAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(yamlIndent)

	encodeErr := enc.Encode(v)
	if encodeErr != nil {
		return fmt.Errorf("encode yaml: %w", encodeErr)
	}

	closeErr := enc.Close()
	if closeErr != nil {
		return fmt.Errorf("flush yaml: %w", closeErr)
	}

	return nil
}
