package sanitizer

import (
	"fmt"
	"strings"
	"time"
)

// Stats captures what a sanitize pass did.
type Stats struct {
	InputBytes  int `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int `json:"output_bytes" yaml:"output_bytes"`

	// RuleMatches holds the number of replacements per rule, in rule order.
	RuleMatches []RuleMatch `json:"rule_matches" yaml:"rule_matches"`

	Duration time.Duration `json:"duration_ns" yaml:"duration_ns"`
}

// RuleMatch is the replacement count for one rule.
type RuleMatch struct {
	Rule  string `json:"rule" yaml:"rule"`
	Count int    `json:"count" yaml:"count"`
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{}
}

// RecordMatches records how many replacements a rule made.
func (s *Stats) RecordMatches(rule string, count int) {
	s.RuleMatches = append(s.RuleMatches, RuleMatch{Rule: rule, Count: count})
}

// TotalMatches returns the sum of all replacements.
func (s *Stats) TotalMatches() int {
	total := 0
	for _, m := range s.RuleMatches {
		total += m.Count
	}
	return total
}

// ReductionPercent returns the percentage reduction in size.
func (s *Stats) ReductionPercent() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.InputBytes-s.OutputBytes) / float64(s.InputBytes) * 100
}

// String returns a human-readable summary.
func (s *Stats) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Size: %d -> %d bytes (%.1f%% reduction)\n",
		s.InputBytes, s.OutputBytes, s.ReductionPercent()))
	sb.WriteString(fmt.Sprintf("Replacements: %d\n", s.TotalMatches()))

	var parts []string
	for _, m := range s.RuleMatches {
		if m.Count > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", m.Rule, m.Count))
		}
	}
	if len(parts) > 0 {
		sb.WriteString("By rule: ")
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Duration: %v\n", s.Duration.Round(time.Microsecond)))
	return sb.String()
}

// Warning represents a non-fatal issue.
type Warning struct {
	Phase   string `json:"phase" yaml:"phase"`
	Message string `json:"message" yaml:"message"`
	Context string `json:"context,omitempty" yaml:"context,omitempty"`
}

// String returns a formatted warning message.
func (w Warning) String() string {
	if w.Context != "" {
		return fmt.Sprintf("[%s] %s (context: %s)", w.Phase, w.Message, w.Context)
	}
	return fmt.Sprintf("[%s] %s", w.Phase, w.Message)
}

// Result contains the output of a sanitize pass.
type Result struct {
	Content  string    `json:"-" yaml:"-"`
	Stats    *Stats    `json:"stats" yaml:"stats"`
	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// AddWarning adds a warning to the result.
func (r *Result) AddWarning(phase, message, context string) {
	r.Warnings = append(r.Warnings, Warning{
		Phase:   phase,
		Message: message,
		Context: context,
	})
}

// HasWarnings returns true if any warnings were recorded.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
