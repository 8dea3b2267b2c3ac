// Package sanitizer removes website-builder artifacts from HTML text by
// applying an ordered list of regular-expression rewrite rules.
//
// The sanitizer never parses HTML. Rules operate on raw text, so they are
// total: malformed markup is rewritten on a best-effort basis and a rule
// that matches nothing leaves the input unchanged.
package sanitizer

import (
	"fmt"
	"sort"
)

// Preset names accepted by Preset.
const (
	PresetCleanup  = "cleanup"
	PresetDocument = "document"
	PresetFooter   = "footer"
)

// RuleSet is an ordered, compiled list of rules.
type RuleSet struct {
	Name string `json:"name" yaml:"name" validate:"required"`

	// Extends names a preset whose rules run before these ones.
	// Only meaningful in rule files; Compile ignores it.
	Extends string `json:"extends,omitempty" yaml:"extends,omitempty" validate:"omitempty,oneof=cleanup document footer"`

	Rules []Rule `json:"rules" yaml:"rules" validate:"unique=Name,dive"`
}

// Compile builds a RuleSet, compiling every pattern up front so that
// applying the set cannot fail.
func Compile(name string, rules []Rule) (*RuleSet, error) {
	rs := &RuleSet{
		Name:  name,
		Rules: make([]Rule, len(rules)),
	}
	copy(rs.Rules, rules)
	for i := range rs.Rules {
		if err := rs.Rules[i].compile(); err != nil {
			return nil, err
		}
	}
	return rs, nil
}

// MustCompile is like Compile but panics on an invalid pattern.
// Intended for the built-in presets.
func MustCompile(name string, rules []Rule) *RuleSet {
	rs, err := Compile(name, rules)
	if err != nil {
		panic(err)
	}
	return rs
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rules)
}

// Merge returns a new set with other's rules appended after this set's rules.
// A rule in other whose name already exists replaces that rule in place.
// If either set contains collapse-spaces rules, only the last one is kept
// and it is moved to the end so the ordering contract still holds.
func (rs *RuleSet) Merge(other *RuleSet) *RuleSet {
	if other == nil {
		return rs
	}

	merged := &RuleSet{Name: rs.Name + "+" + other.Name}
	index := make(map[string]int)

	add := func(rules []Rule) {
		for _, r := range rules {
			if i, ok := index[r.Name]; ok {
				merged.Rules[i] = r
				continue
			}
			index[r.Name] = len(merged.Rules)
			merged.Rules = append(merged.Rules, r)
		}
	}
	add(rs.Rules)
	add(other.Rules)

	var collapse *Rule
	kept := merged.Rules[:0]
	for i := range merged.Rules {
		if merged.Rules[i].Kind == KindCollapseSpaces {
			r := merged.Rules[i]
			collapse = &r
			continue
		}
		kept = append(kept, merged.Rules[i])
	}
	if collapse != nil {
		kept = append(kept, *collapse)
	}
	merged.Rules = kept
	return merged
}

// Lint reports ordering problems. A collapse-spaces rule must come after
// every stripping rule, otherwise gaps left by later rules survive as
// double spaces.
func (rs *RuleSet) Lint() []Warning {
	var warnings []Warning
	for i, r := range rs.Rules {
		if r.Kind != KindCollapseSpaces {
			continue
		}
		for _, later := range rs.Rules[i+1:] {
			if later.Kind == KindCollapseSpaces {
				continue
			}
			warnings = append(warnings, Warning{
				Phase:   "lint",
				Message: fmt.Sprintf("rule %q runs after whitespace collapse %q", later.Name, r.Name),
				Context: rs.Name,
			})
		}
	}
	return warnings
}

// CleanupRules is the rule set used to tidy a full page in place.
func CleanupRules() *RuleSet {
	var rules []Rule
	rules = append(rules, StripClassMarker("o_default_snippet_text")...)
	rules = append(rules,
		StripClassFamily("o_animate"),
		StripClassFamily("o_anim_"),
		StripClassToken("oe_structure"),
		StripClassToken("oe_empty"),
		StripAttribute("data-snippet"),
		StripAttribute("data-name"),
		StripAttribute("data-vcss"),
	)
	rules = append(rules, StripEmptyClass()...)
	rules = append(rules, CollapseSpaces())
	return MustCompile(PresetCleanup, rules)
}

// DocumentRules is the rule set applied to a raw export before its
// sections are extracted.
func DocumentRules() *RuleSet {
	return MustCompile(PresetDocument, []Rule{
		StripClassToken("o_colored_level"),
		StripClassToken("o_default_snippet_text"),
		StripAttribute("data-snippet"),
		StripAttribute("data-name"),
		StripAttribute("data-vcss"),
		StripClassFamily("o_animate"),
		StripClassFamily("o_anim_"),
		RewritePath("/medical_website/static/src/img/", "img/"),
		StripPath("/web/image/website/1/"),
	})
}

// FooterRules is the narrower set applied to an independently sourced footer.
func FooterRules() *RuleSet {
	return MustCompile(PresetFooter, []Rule{
		StripClassToken("o_colored_level"),
		StripClassToken("o_default_snippet_text"),
	})
}

var presets = map[string]func() *RuleSet{
	PresetCleanup:  CleanupRules,
	PresetDocument: DocumentRules,
	PresetFooter:   FooterRules,
}

// Preset returns a built-in rule set by name.
func Preset(name string) (*RuleSet, error) {
	fn, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (available: %v)", name, PresetNames())
	}
	return fn(), nil
}

// PresetNames lists the built-in presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
