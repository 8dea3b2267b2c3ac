package sanitizer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPresets_Lint(t *testing.T) {
	for _, name := range PresetNames() {
		rs, err := Preset(name)
		if err != nil {
			t.Fatalf("Preset(%q) error = %v", name, err)
		}
		if w := rs.Lint(); len(w) > 0 {
			t.Errorf("%s: unexpected lint warnings: %v", name, w)
		}
	}
}

func TestPreset_Unknown(t *testing.T) {
	_, err := Preset("nope")
	if err == nil {
		t.Fatal("expected error for unknown preset")
	}
	if !strings.Contains(err.Error(), "cleanup") {
		t.Errorf("error should list available presets: %v", err)
	}
}

func TestPresetNames(t *testing.T) {
	got := strings.Join(PresetNames(), ",")
	if got != "cleanup,document,footer" {
		t.Errorf("PresetNames() = %s", got)
	}
}

func TestFooterRules_TwoKindsOnly(t *testing.T) {
	rs := FooterRules()
	if rs.Len() != 2 {
		t.Fatalf("expected 2 footer rules, got %d", rs.Len())
	}
	for _, r := range rs.Rules {
		if r.Kind != KindClassToken {
			t.Errorf("unexpected kind %q in footer rules", r.Kind)
		}
	}
}

func TestCompile_InvalidPattern(t *testing.T) {
	_, err := Compile("bad", []Rule{Custom("broken", "[", "")})
	if err == nil {
		t.Fatal("expected compile error")
	}
	if !strings.Contains(err.Error(), `"broken"`) {
		t.Errorf("error should name the rule: %v", err)
	}
}

func TestCompile_CopiesRules(t *testing.T) {
	rules := []Rule{StripClassToken("a")}
	rs, err := Compile("copy", rules)
	if err != nil {
		t.Fatal(err)
	}
	rules[0].Pattern = "changed"
	if rs.Rules[0].Pattern == "changed" {
		t.Error("Compile should not alias the caller's slice")
	}
}

func TestMerge(t *testing.T) {
	extra := MustCompile("extra", []Rule{
		StripClassToken("oe_empty"), // same name, replaces the preset rule
		StripAttribute("data-oe-id"),
	})

	merged := CleanupRules().Merge(extra)

	if merged.Name != "cleanup+extra" {
		t.Errorf("Name = %q", merged.Name)
	}
	if merged.Len() != CleanupRules().Len()+1 {
		t.Errorf("Len = %d, want %d", merged.Len(), CleanupRules().Len()+1)
	}
	last := merged.Rules[merged.Len()-1]
	if last.Kind != KindCollapseSpaces {
		t.Errorf("last rule = %q, want collapse-spaces", last.Name)
	}
	if w := merged.Lint(); len(w) > 0 {
		t.Errorf("merged set should lint clean: %v", w)
	}

	got := Sanitize(`<p data-oe-id="7" class="" >x</p>`, merged)
	if got != `<p >x</p>` {
		t.Errorf("Sanitize(merged) = %q", got)
	}
}

func TestMerge_OverridesByName(t *testing.T) {
	override := MustCompile("site", []Rule{
		Custom("strip-token-o_colored_level", `\s+o_colored_level\w*`, ""),
	})

	merged := CleanupRules().Merge(FooterRules()).Merge(override)

	var colored []Rule
	for _, r := range merged.Rules {
		if r.Name == "strip-token-o_colored_level" {
			colored = append(colored, r)
		}
	}
	if len(colored) != 1 || colored[0].Pattern != `\s+o_colored_level\w*` {
		t.Errorf("override should replace the preset rule, got %+v", colored)
	}
	if got := Sanitize(`<p class="a o_colored_level_dark">x</p>`, merged); got != `<p class="a">x</p>` {
		t.Errorf("Sanitize(merged) = %q", got)
	}
}

func TestMerge_Nil(t *testing.T) {
	rs := FooterRules()
	if rs.Merge(nil) != rs {
		t.Error("Merge(nil) should return the receiver")
	}
}

func TestLint_ReportsEachLateRule(t *testing.T) {
	rs := MustCompile("bad", []Rule{
		StripClassToken("a"),
		CollapseSpaces(),
		StripClassToken("b"),
		StripAttribute("c"),
	})
	if got := len(rs.Lint()); got != 2 {
		t.Errorf("Lint() returned %d warnings, want 2", got)
	}
}

func TestFromYAML(t *testing.T) {
	data := []byte(`
name: site
extends: footer
rules:
  - name: strip-oe-id
    kind: attribute
    pattern: '\s+data-oe-id="[^"]*"'
  - name: tidy
    pattern: '  +'
    replacement: ' '
`)
	rs, err := FromYAML(data)
	if err != nil {
		t.Fatalf("FromYAML() error = %v", err)
	}
	if rs.Name != "site" {
		t.Errorf("Name = %q", rs.Name)
	}
	if rs.Len() != 4 {
		t.Fatalf("Len = %d, want 4 (2 footer + 2 file)", rs.Len())
	}
	if rs.Rules[0].Name != "strip-token-o_colored_level" {
		t.Errorf("preset rules should run first, got %q", rs.Rules[0].Name)
	}
	if rs.Rules[3].Kind != KindCustom {
		t.Errorf("missing kind should default to custom, got %q", rs.Rules[3].Kind)
	}

	got := Sanitize(`<p class="a o_colored_level" data-oe-id="1">x  y</p>`, rs)
	if got != `<p class="a">x y</p>` {
		t.Errorf("Sanitize() = %q", got)
	}
}

func TestFromYAML_ExtendsOverride(t *testing.T) {
	data := []byte(`
name: site
extends: footer
rules:
  - name: strip-token-o_colored_level
    kind: class-token
    pattern: '\s+o_colored_level\w*'
  - name: fix-class
    pattern: 'clss='
    replacement: 'class='
`)
	rs, err := FromYAML(data)
	if err != nil {
		t.Fatalf("FromYAML() error = %v", err)
	}
	if rs.Len() != 3 {
		t.Fatalf("Len = %d, want 3 (override replaces a footer rule)", rs.Len())
	}
	if rs.Rules[0].Pattern != `\s+o_colored_level\w*` {
		t.Errorf("file rule should replace the preset rule in place, got %q", rs.Rules[0].Pattern)
	}

	got := Sanitize(`<p clss="x o_colored_level_dark">b</p>`, rs)
	if got != `<p class="x">b</p>` {
		t.Errorf("Sanitize() = %q", got)
	}
}

func TestFromYAML_DuplicateNames(t *testing.T) {
	for _, extends := range []string{"", "extends: footer\n"} {
		data := "name: site\n" + extends + `rules:
  - name: dup
    pattern: a
  - name: dup
    pattern: b
`
		_, err := FromYAML([]byte(data))
		if err == nil {
			t.Fatalf("expected duplicate rule names to be rejected (%q)", extends)
		}
		if !strings.Contains(err.Error(), "unique") {
			t.Errorf("error %q should mention unique", err)
		}
	}
}

func TestFromJSON(t *testing.T) {
	rs, err := FromJSON([]byte(`{"name":"j","rules":[{"name":"x","pattern":"x","replacement":"y"}]}`))
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	if got := Sanitize("xox", rs); got != "yoy" {
		t.Errorf("Sanitize() = %q", got)
	}
}

func TestFromYAML_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"missing name", "rules: []\n", "Name"},
		{"missing pattern", "name: a\nrules:\n  - name: r\n", "Pattern"},
		{"unknown kind", "name: a\nrules:\n  - name: r\n    kind: magic\n    pattern: x\n", "Kind"},
		{"unknown extends", "name: a\nextends: nope\nrules: []\n", "Extends"},
		{"bad regexp", "name: a\nrules:\n  - name: r\n    pattern: '('\n", "invalid pattern"},
		{"bad yaml", "name: [", "failed to parse YAML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromYAML([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(yamlPath, []byte("name: y\nrules:\n  - name: r\n    pattern: a\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := FromFile(yamlPath); err != nil {
		t.Errorf("FromFile(yaml) error = %v", err)
	}

	txtPath := filepath.Join(dir, "rules.txt")
	if err := os.WriteFile(txtPath, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := FromFile(txtPath); err == nil {
		t.Error("expected error for unsupported extension")
	}

	if _, err := FromFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
