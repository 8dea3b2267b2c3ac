// Package output serialises reports and rule sets for the CLI.
package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format represents output format types.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// ParseFormat maps a flag value to a Format. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "jsonl":
		return FormatJSONL, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
}

// Encode writes a single value. JSON is indented with two spaces;
// JSONL writes the value on one line.
func Encode(w io.Writer, format Format, v any) error {
	bw := bufio.NewWriter(w)

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(bw)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return err
		}
	case FormatJSONL:
		if err := json.NewEncoder(bw).Encode(v); err != nil {
			return err
		}
	case FormatYAML:
		enc := yaml.NewEncoder(bw)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}

	return bw.Flush()
}

// EncodeAll writes a list. JSONL emits one line per item; JSON and YAML
// emit a single array document.
func EncodeAll[T any](w io.Writer, format Format, items []T) error {
	if format != FormatJSONL {
		return Encode(w, format, items)
	}
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return bw.Flush()
}
