package composer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Placeholders written into the site template.
const (
	SectionsPlaceholder = "<!-- Sections will be inserted here -->"
	FooterPlaceholder   = "<!-- Footer will be inserted here -->"
)

// ErrTargetNotFound is returned by ComposeStrict when the template holds
// neither the placeholder nor the structural region.
var ErrTargetNotFound = errors.New("injection point not found in template")

// Method reports how Compose located its injection point.
type Method string

const (
	MethodPlaceholder Method = "placeholder"
	MethodRegion      Method = "region"
	MethodNone        Method = "none"
)

// Region identifies a structural injection point: an element named Tag
// whose Attr attribute equals Value, e.g. <footer id="footer" ...>.
type Region struct {
	Tag   string `json:"tag" yaml:"tag" mapstructure:"tag" validate:"required"`
	Attr  string `json:"attr" yaml:"attr" mapstructure:"attr" validate:"required"`
	Value string `json:"value" yaml:"value" mapstructure:"value"`
}

// FooterRegion is the <footer id="footer"> element of the site template.
func FooterRegion() *Region {
	return &Region{Tag: "footer", Attr: "id", Value: "footer"}
}

// String renders the region as an opening-tag pattern for logs.
func (r *Region) String() string {
	return fmt.Sprintf(`<%s %s="%s">`, r.Tag, r.Attr, r.Value)
}

// pattern matches the region's opening tag through the first closing tag
// of the same name. A nested element of the same name truncates the match.
func (r *Region) pattern() *regexp.Regexp {
	tag := regexp.QuoteMeta(r.Tag)
	return regexp.MustCompile(`(?s)<` + tag + `\b[^>]*\s` + regexp.QuoteMeta(r.Attr) +
		`="` + regexp.QuoteMeta(r.Value) + `"[^>]*>.*?</` + tag + `\s*>`)
}

// Target describes where Compose injects content. The placeholder is
// tried first; Region is the fallback and may be nil.
type Target struct {
	Placeholder string
	Region      *Region
}

// String describes the target for logs and errors.
func (t Target) String() string {
	switch {
	case t.Placeholder != "" && t.Region != nil:
		return fmt.Sprintf("%q or %s", t.Placeholder, t.Region)
	case t.Region != nil:
		return t.Region.String()
	default:
		return fmt.Sprintf("%q", t.Placeholder)
	}
}

// Compose injects replacement into template.
//
// If the placeholder occurs, every occurrence is replaced. Otherwise every
// element matching the region, tags included, is replaced. If neither is
// present the template is returned unchanged with MethodNone.
func Compose(template string, target Target, replacement string) (string, Method) {
	if target.Placeholder != "" && strings.Contains(template, target.Placeholder) {
		return strings.ReplaceAll(template, target.Placeholder, replacement), MethodPlaceholder
	}
	if target.Region != nil {
		re := target.Region.pattern()
		if re.MatchString(template) {
			return re.ReplaceAllLiteralString(template, replacement), MethodRegion
		}
	}
	return template, MethodNone
}

// ComposeStrict is Compose, but a missing injection point is an error.
func ComposeStrict(template string, target Target, replacement string) (string, Method, error) {
	out, method := Compose(template, target, replacement)
	if method == MethodNone {
		return template, method, fmt.Errorf("%w: %s", ErrTargetNotFound, target)
	}
	return out, method, nil
}

// RegionNested reports whether the first region match in template contains
// another opening tag of the region's element name, in which case the
// lazy match ends early and Compose leaves the tail of the region behind.
func RegionNested(template string, region *Region) bool {
	if region == nil {
		return false
	}
	m := region.pattern().FindString(template)
	if m == "" {
		return false
	}
	inner := m[1:]
	open := regexp.MustCompile(`(?i)<` + regexp.QuoteMeta(region.Tag) + `[\s>]`)
	return open.MatchString(inner)
}
