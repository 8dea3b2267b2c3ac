package sanitizer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// FromFile loads a rule set from a JSON or YAML file.
func FromFile(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FromJSON(data)
	case ".yaml", ".yml":
		return FromYAML(data)
	default:
		return nil, fmt.Errorf("unsupported rules file format: %s", ext)
	}
}

// FromJSON creates a rule set from JSON data.
func FromJSON(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse JSON rules: %w", err)
	}
	return finish(&rs)
}

// FromYAML creates a rule set from YAML data.
func FromYAML(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse YAML rules: %w", err)
	}
	return finish(&rs)
}

// finish validates a decoded set, resolves Extends and compiles patterns.
func finish(rs *RuleSet) (*RuleSet, error) {
	if err := validate.Struct(rs); err != nil {
		return nil, fmt.Errorf("invalid rules %q: %w", rs.Name, err)
	}
	for i := range rs.Rules {
		if rs.Rules[i].Kind == "" {
			rs.Rules[i].Kind = KindCustom
		}
	}

	compiled, err := Compile(rs.Name, rs.Rules)
	if err != nil {
		return nil, err
	}
	if rs.Extends == "" {
		return compiled, nil
	}

	base, err := Preset(rs.Extends)
	if err != nil {
		return nil, err
	}
	merged := base.Merge(compiled)
	merged.Name = rs.Name
	return merged, nil
}
