// Package pipeline assembles a site page from a raw website-builder export:
// it sanitizes the export, extracts its sections into a template and
// splices in a separately sanitized footer.
//
// The transform functions are pure; ReadDocument, WriteDocument and the
// Run* helpers perform file I/O once at each boundary.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jmylchreest/sitesplice/pkg/composer"
	"github.com/jmylchreest/sitesplice/pkg/sanitizer"
)

var (
	// ErrTooFewBlocks is returned when fewer blocks than Options.MinBlocks
	// were extracted from the source.
	ErrTooFewBlocks = errors.New("too few blocks extracted")

	// ErrInvalidOptions wraps option validation failures.
	ErrInvalidOptions = errors.New("invalid pipeline options")
)

var validate = validator.New()

// Options configures the assembly.
type Options struct {
	// DocumentRules sanitize the raw export before extraction.
	DocumentRules *sanitizer.RuleSet `validate:"required"`

	// FooterRules sanitize the footer fragment.
	FooterRules *sanitizer.RuleSet `validate:"required"`

	// Tag is the element name of extracted blocks.
	Tag string `validate:"required,excludesall=<>/"`

	// SectionsPlaceholder marks where joined blocks go.
	SectionsPlaceholder string `validate:"required"`

	// FooterPlaceholder marks where the footer goes. FooterRegion is used
	// when the placeholder is absent. At least one must be set.
	FooterPlaceholder string
	FooterRegion      *composer.Region

	// Nested switches extraction to the depth-tracking extractor.
	Nested bool

	// Strict turns a missing injection point into ErrTargetNotFound
	// instead of a warning.
	Strict bool

	// MinBlocks fails the run with ErrTooFewBlocks when fewer blocks are
	// extracted. Zero disables the check.
	MinBlocks int `validate:"gte=0"`

	// Minify minifies the final document.
	Minify bool
}

// DefaultOptions reproduces the export workflow: document and
// footer presets, <section> blocks, and the template's comment placeholders
// with <footer id="footer"> as the footer fallback.
func DefaultOptions() Options {
	return Options{
		DocumentRules:       sanitizer.DocumentRules(),
		FooterRules:         sanitizer.FooterRules(),
		Tag:                 composer.DefaultTag,
		SectionsPlaceholder: composer.SectionsPlaceholder,
		FooterPlaceholder:   composer.FooterPlaceholder,
		FooterRegion:        composer.FooterRegion(),
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if o.FooterPlaceholder == "" && o.FooterRegion == nil {
		return fmt.Errorf("%w: footer placeholder or footer region is required", ErrInvalidOptions)
	}
	return nil
}

func (o Options) sectionsTarget() composer.Target {
	return composer.Target{Placeholder: o.SectionsPlaceholder}
}

func (o Options) footerTarget() composer.Target {
	return composer.Target{Placeholder: o.FooterPlaceholder, Region: o.FooterRegion}
}

// Inputs are the documents Build assembles. A nil Footer skips the footer
// stage; an empty one is spliced in like any other fragment.
type Inputs struct {
	Source   string
	Template string
	Footer   *string
}

// Paths name the files Run reads and writes. Footer may be empty.
type Paths struct {
	Source   string `validate:"required"`
	Template string `validate:"required"`
	Footer   string
	Output   string `validate:"required"`
}
