package sanitizer

import (
	"fmt"
	"regexp"
)

// Kind identifies which catalog entry produced a rule.
// It is informational except for KindCollapseSpaces, which Lint uses
// to check rule ordering.
type Kind string

const (
	KindClassMarker    Kind = "class-marker"
	KindClassFamily    Kind = "class-family"
	KindClassToken     Kind = "class-token"
	KindAttribute      Kind = "attribute"
	KindEmptyClass     Kind = "empty-class"
	KindCollapseSpaces Kind = "collapse-spaces"
	KindPathRewrite    Kind = "path-rewrite"
	KindPathStrip      Kind = "path-strip"
	KindCustom         Kind = "custom"
)

// Rule is a single rewrite: every non-overlapping match of Pattern
// is replaced with Replacement. Replacement is literal; "$1" is not expanded.
type Rule struct {
	Name        string `json:"name" yaml:"name" validate:"required"`
	Kind        Kind   `json:"kind,omitempty" yaml:"kind,omitempty" validate:"omitempty,oneof=class-marker class-family class-token attribute empty-class collapse-spaces path-rewrite path-strip custom"`
	Pattern     string `json:"pattern" yaml:"pattern" validate:"required"`
	Replacement string `json:"replacement" yaml:"replacement"`

	re *regexp.Regexp
}

// compile prepares the rule's regexp. It is safe to call more than once.
func (r *Rule) compile() error {
	if r.re != nil {
		return nil
	}
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return fmt.Errorf("rule %q: invalid pattern %q: %w", r.Name, r.Pattern, err)
	}
	r.re = re
	return nil
}

// apply rewrites s and reports how many matches were replaced.
// Rules that did not go through Compile are compiled on first use;
// an invalid pattern leaves s unchanged and returns the compile error.
func (r *Rule) apply(s string) (string, int, error) {
	if err := r.compile(); err != nil {
		return s, 0, err
	}
	matches := r.re.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s, 0, nil
	}
	return r.re.ReplaceAllLiteralString(s, r.Replacement), len(matches), nil
}

// StripClassMarker removes a marker class that is either the whole class
// attribute (class="marker") or its first token (class="marker other").
// The prefix form removes only `class="marker` plus trailing whitespace;
// the remaining tokens and the closing quote are left untouched.
func StripClassMarker(marker string) []Rule {
	q := regexp.QuoteMeta(marker)
	return []Rule{
		{
			Name:    "strip-class-" + marker,
			Kind:    KindClassMarker,
			Pattern: `class="` + q + `"`,
		},
		{
			Name:    "strip-class-prefix-" + marker,
			Kind:    KindClassMarker,
			Pattern: `class="` + q + `\s*`,
		},
	}
}

// StripClassFamily removes whitespace-prefixed class tokens starting with prefix,
// e.g. every o_animate* token.
func StripClassFamily(prefix string) Rule {
	return Rule{
		Name:    "strip-family-" + prefix,
		Kind:    KindClassFamily,
		Pattern: `\s+` + regexp.QuoteMeta(prefix) + `[^"\s]*`,
	}
}

// StripClassToken removes a whitespace-prefixed utility class token.
func StripClassToken(token string) Rule {
	return Rule{
		Name:    "strip-token-" + token,
		Kind:    KindClassToken,
		Pattern: `\s+` + regexp.QuoteMeta(token),
	}
}

// StripAttribute removes a double-quoted attribute and its value.
func StripAttribute(attr string) Rule {
	return Rule{
		Name:    "strip-attr-" + attr,
		Kind:    KindAttribute,
		Pattern: `\s+` + regexp.QuoteMeta(attr) + `="[^"]*"`,
	}
}

// StripEmptyClass removes class attributes left empty by earlier rules,
// in both quoting styles.
func StripEmptyClass() []Rule {
	return []Rule{
		{Name: "strip-empty-class-dq", Kind: KindEmptyClass, Pattern: `class="\s*"`},
		{Name: "strip-empty-class-sq", Kind: KindEmptyClass, Pattern: `class='\s*'`},
	}
}

// CollapseSpaces folds runs of two or more spaces into one.
// It must be the last rule of a set; see RuleSet.Lint.
func CollapseSpaces() Rule {
	return Rule{
		Name:        "collapse-spaces",
		Kind:        KindCollapseSpaces,
		Pattern:     `  +`,
		Replacement: " ",
	}
}

// RewritePath replaces a literal asset path prefix.
func RewritePath(from, to string) Rule {
	return Rule{
		Name:        "rewrite-path-" + from,
		Kind:        KindPathRewrite,
		Pattern:     regexp.QuoteMeta(from),
		Replacement: to,
	}
}

// StripPath removes a path starting with prefix up to the closing quote.
func StripPath(prefix string) Rule {
	return Rule{
		Name:    "strip-path-" + prefix,
		Kind:    KindPathStrip,
		Pattern: regexp.QuoteMeta(prefix) + `[^"']*`,
	}
}

// Custom builds a rule from a raw pattern.
func Custom(name, pattern, replacement string) Rule {
	return Rule{
		Name:        name,
		Kind:        KindCustom,
		Pattern:     pattern,
		Replacement: replacement,
	}
}
