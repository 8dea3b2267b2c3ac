package sanitizer

import (
	"strings"
	"testing"
)

const cleanupInput = `<div class="container oe_structure oe_empty">` +
	`<section class="pt32 o_animate o_anim_fade_in" data-snippet="s_text" data-name="Text">` +
	`<p class="o_default_snippet_text">Hello  world</p><span class=" o_animate">x</span>` +
	`</section></div>`

const cleanupWant = `<div class="container"><section class="pt32"><p >Hello world</p><span >x</span></section></div>`

func TestSanitize_CleanupRules(t *testing.T) {
	got := Sanitize(cleanupInput, CleanupRules())
	if got != cleanupWant {
		t.Errorf("Sanitize() =\n%s\nwant\n%s", got, cleanupWant)
	}
}

func TestSanitize_DocumentRules(t *testing.T) {
	input := `<section class="s_banner o_colored_level" data-snippet="s_banner" data-name="Banner">` +
		`<img src="/medical_website/static/src/img/hero.jpg"/>` +
		`<div style="background-image: url('/web/image/website/1/abc.jpg')"></div></section>`
	want := `<section class="s_banner"><img src="img/hero.jpg"/>` +
		`<div style="background-image: url('')"></div></section>`

	if got := Sanitize(input, DocumentRules()); got != want {
		t.Errorf("Sanitize() =\n%s\nwant\n%s", got, want)
	}
}

func TestSanitize_FooterRules(t *testing.T) {
	input := `<footer id="footer" class="bg o_colored_level"><p class="x o_default_snippet_text" data-name="keep">A</p></footer>`
	want := `<footer id="footer" class="bg"><p class="x" data-name="keep">A</p></footer>`

	if got := Sanitize(input, FooterRules()); got != want {
		t.Errorf("Sanitize() = %q, want %q", got, want)
	}
}

func TestSanitize_ClassMarkerPrefix(t *testing.T) {
	rs := MustCompile("marker", StripClassMarker("o_default_snippet_text"))
	got := Sanitize(`<p class="o_default_snippet_text  lead">x</p>`, rs)
	if got != `<p lead">x</p>` {
		t.Errorf("Sanitize() = %q", got)
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		cleanupInput,
		"",
		"plain text with   spaces",
		`<p class="" id="x" data-vcss="001">Hi</p>`,
	}
	for _, rs := range []*RuleSet{CleanupRules(), DocumentRules(), FooterRules()} {
		for _, in := range inputs {
			once := Sanitize(in, rs)
			twice := Sanitize(once, rs)
			if once != twice {
				t.Errorf("%s: not idempotent for %q:\nonce  %q\ntwice %q", rs.Name, in, once, twice)
			}
		}
	}
}

func TestSanitize_Deterministic(t *testing.T) {
	rs := CleanupRules()
	first := Sanitize(cleanupInput, rs)
	for i := 0; i < 10; i++ {
		if got := Sanitize(cleanupInput, rs); got != first {
			t.Fatalf("run %d differs: %q vs %q", i, got, first)
		}
	}
}

func TestSanitize_OrderSensitivity(t *testing.T) {
	input := `<p class="" id="x">Hi</p>`

	var rules []Rule
	rules = append(rules, StripEmptyClass()...)
	collapseLast := MustCompile("last", append(rules, CollapseSpaces()))
	collapseFirst := MustCompile("first", append([]Rule{CollapseSpaces()}, StripEmptyClass()...))

	last := Sanitize(input, collapseLast)
	first := Sanitize(input, collapseFirst)

	if last != `<p id="x">Hi</p>` {
		t.Errorf("collapse last = %q", last)
	}
	if first != `<p  id="x">Hi</p>` {
		t.Errorf("collapse first = %q", first)
	}
	if first == last {
		t.Error("expected rule order to change the result")
	}
}

func TestSanitize_NoopRule(t *testing.T) {
	input := "<div class=\"a\">\n\tunchanged  \u00e9</div>"
	rs := MustCompile("noop", []Rule{StripAttribute("data-missing"), StripClassToken("absent")})
	if got := Sanitize(input, rs); got != input {
		t.Errorf("Sanitize() = %q, want input unchanged", got)
	}
}

func TestSanitize_NilRuleSet(t *testing.T) {
	if got := Sanitize("x  y", nil); got != "x  y" {
		t.Errorf("Sanitize(nil) = %q", got)
	}
}

func TestSanitize_LiteralReplacement(t *testing.T) {
	rs := MustCompile("lit", []Rule{Custom("dollar", `(a)`, "$1")})
	if got := Sanitize("abc", rs); got != "$1bc" {
		t.Errorf("Sanitize() = %q, want replacement taken literally", got)
	}
}

func TestSanitize_UncompiledRule(t *testing.T) {
	rs := &RuleSet{Name: "raw", Rules: []Rule{
		{Name: "bad", Pattern: "("},
		{Name: "good", Pattern: "b", Replacement: "B"},
	}}
	if got := Sanitize("abc", rs); got != "aBc" {
		t.Errorf("Sanitize() = %q", got)
	}
}

func TestSanitizer_CleanAndName(t *testing.T) {
	s := New(CleanupRules())
	if got := s.Name(); got != "sanitize(cleanup)" {
		t.Errorf("Name() = %q", got)
	}

	got, err := s.Clean(cleanupInput)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if got != cleanupWant {
		t.Errorf("Clean() = %q", got)
	}
}

func TestNew_NilUsesDocumentRules(t *testing.T) {
	s := New(nil)
	if s.Rules().Name != PresetDocument {
		t.Errorf("expected document preset, got %q", s.Rules().Name)
	}
}

func TestSanitizeWithStats(t *testing.T) {
	s := New(CleanupRules())
	result := s.SanitizeWithStats(cleanupInput)

	if result.Content != cleanupWant {
		t.Errorf("Content = %q", result.Content)
	}
	if result.Stats.InputBytes != len(cleanupInput) {
		t.Errorf("InputBytes = %d", result.Stats.InputBytes)
	}
	if result.Stats.OutputBytes != len(cleanupWant) {
		t.Errorf("OutputBytes = %d", result.Stats.OutputBytes)
	}
	if len(result.Stats.RuleMatches) != s.Rules().Len() {
		t.Fatalf("expected %d rule matches, got %d", s.Rules().Len(), len(result.Stats.RuleMatches))
	}

	counts := make(map[string]int)
	for _, m := range result.Stats.RuleMatches {
		counts[m.Rule] = m.Count
	}
	tests := map[string]int{
		"strip-class-o_default_snippet_text": 1,
		"strip-family-o_animate":             2,
		"strip-family-o_anim_":               1,
		"strip-attr-data-snippet":            1,
		"strip-attr-data-vcss":               0,
		"strip-empty-class-dq":               1,
		"collapse-spaces":                    1,
	}
	for rule, want := range tests {
		if counts[rule] != want {
			t.Errorf("%s: count = %d, want %d", rule, counts[rule], want)
		}
	}

	if result.HasWarnings() {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
	if s.LastResult() != result {
		t.Error("LastResult() should return the last pass")
	}
	if s.Stats() != result.Stats {
		t.Error("Stats() should return the last pass")
	}
	if !strings.Contains(result.Stats.String(), "By rule:") {
		t.Errorf("String() missing rule breakdown: %s", result.Stats.String())
	}
}

func TestSanitizeWithStats_LintWarning(t *testing.T) {
	rs := MustCompile("misordered", []Rule{CollapseSpaces(), StripAttribute("data-name")})
	result := New(rs).SanitizeWithStats("x")
	if !result.HasWarnings() {
		t.Fatal("expected an ordering warning")
	}
	if result.Warnings[0].Phase != "lint" {
		t.Errorf("Phase = %q", result.Warnings[0].Phase)
	}
}
