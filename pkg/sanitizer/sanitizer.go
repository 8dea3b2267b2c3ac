package sanitizer

import (
	"time"
)

// Sanitize applies every rule of rs to text, in order. Each rule scans the
// whole current working string and replaces all non-overlapping matches.
// A nil or empty set returns text unchanged, as does a rule whose
// pattern does not compile.
func Sanitize(text string, rs *RuleSet) string {
	if rs == nil {
		return text
	}
	for i := range rs.Rules {
		text, _, _ = rs.Rules[i].apply(text)
	}
	return text
}

// Sanitizer applies a fixed RuleSet.
// It implements the cleaner.Cleaner interface.
type Sanitizer struct {
	rules *RuleSet
	stats *Stats
	last  *Result
}

// New creates a Sanitizer for rs. If rs is nil, DocumentRules() is used.
func New(rs *RuleSet) *Sanitizer {
	if rs == nil {
		rs = DocumentRules()
	}
	return &Sanitizer{rules: rs}
}

// Name returns the cleaner name for logging.
func (s *Sanitizer) Name() string {
	return "sanitize(" + s.rules.Name + ")"
}

// Rules returns the rule set in use.
func (s *Sanitizer) Rules() *RuleSet {
	return s.rules
}

// Clean implements cleaner.Cleaner. Sanitizing cannot fail.
func (s *Sanitizer) Clean(html string) (string, error) {
	return s.SanitizeWithStats(html).Content, nil
}

// SanitizeWithStats sanitizes text and records per-rule replacement counts.
func (s *Sanitizer) SanitizeWithStats(text string) *Result {
	start := time.Now()
	result := &Result{
		Stats: NewStats(),
	}
	result.Stats.InputBytes = len(text)

	for i := range s.rules.Rules {
		r := &s.rules.Rules[i]
		var (
			n   int
			err error
		)
		text, n, err = r.apply(text)
		if err != nil {
			result.AddWarning("sanitize", "rule skipped", err.Error())
		}
		result.Stats.RecordMatches(r.Name, n)
	}

	result.Warnings = append(result.Warnings, s.rules.Lint()...)

	result.Content = text
	result.Stats.OutputBytes = len(text)
	result.Stats.Duration = time.Since(start)
	s.stats = result.Stats
	s.last = result
	return result
}

// LastResult returns the result of the last pass, including passes made
// through Clean, or nil before the first pass.
func (s *Sanitizer) LastResult() *Result {
	return s.last
}

// Stats returns the stats from the last pass.
func (s *Sanitizer) Stats() *Stats {
	return s.stats
}
