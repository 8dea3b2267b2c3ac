package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/sitesplice/internal/logger"
	"github.com/jmylchreest/sitesplice/pkg/cleaner"
	"github.com/jmylchreest/sitesplice/pkg/composer"
	"github.com/jmylchreest/sitesplice/pkg/sanitizer"
)

// Stage names used in reports.
const (
	StageSections = "sections"
	StageFooter   = "footer"
)

// Clean sanitizes a whole document with rs.
func Clean(doc string, rs *sanitizer.RuleSet) *sanitizer.Result {
	s := sanitizer.New(rs)
	result := s.SanitizeWithStats(doc)
	logRuleMatches(s.Rules().Name, result.Stats)
	return result
}

// AssembleSections sanitizes source with the document rules, extracts its
// blocks and injects them, newline-joined, at the sections placeholder.
func AssembleSections(source, template string, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	report := &Report{Tag: opts.Tag, InputBytes: len(source) + len(template)}

	out, err := assemble(report, source, template, opts)
	if err != nil {
		return nil, err
	}
	if err := finish(report, out, cleaner.NewNoop()); err != nil {
		return nil, err
	}
	report.Duration = time.Since(start)
	return report, nil
}

// SpliceFooter sanitizes footer with the footer rules and injects it into
// page at the footer placeholder, or over the footer region.
func SpliceFooter(page, footer string, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	report := &Report{Tag: opts.Tag, InputBytes: len(page) + len(footer)}

	out, err := splice(report, page, footer, opts)
	if err != nil {
		return nil, err
	}
	if err := finish(report, out, postProcessor(opts)); err != nil {
		return nil, err
	}
	report.Duration = time.Since(start)
	return report, nil
}

// Build runs the whole flow: sections into the template, then the footer
// into the result, then optional post-processing and verification.
func Build(in Inputs, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	report := &Report{
		Tag:        opts.Tag,
		InputBytes: len(in.Source) + len(in.Template),
	}
	if in.Footer != nil {
		report.InputBytes += len(*in.Footer)
	}

	out, err := assemble(report, in.Source, in.Template, opts)
	if err != nil {
		return nil, err
	}

	if in.Footer != nil {
		out, err = splice(report, out, *in.Footer, opts)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Debug("no footer given, skipping footer stage")
	}

	if err := finish(report, out, postProcessor(opts)); err != nil {
		return nil, err
	}
	report.Duration = time.Since(start)
	return report, nil
}

// assemble runs the sections stage and records it in report.
func assemble(report *Report, source, template string, opts Options) (string, error) {
	cleaned := sanitizer.New(opts.DocumentRules).SanitizeWithStats(source)
	logRuleMatches(opts.DocumentRules.Name, cleaned.Stats)

	var blocks []string
	if opts.Nested {
		blocks = composer.ExtractBlocksNested(cleaned.Content, opts.Tag)
	} else {
		blocks = composer.ExtractBlocks(cleaned.Content, opts.Tag)
	}
	report.Blocks = len(blocks)
	logger.Info("extracted blocks", "tag", opts.Tag, "count", len(blocks), "nested", opts.Nested)

	if opts.MinBlocks > 0 && len(blocks) < opts.MinBlocks {
		return "", fmt.Errorf("%w: got %d <%s>, want at least %d", ErrTooFewBlocks, len(blocks), opts.Tag, opts.MinBlocks)
	}

	stage := Stage{
		Name:     StageSections,
		Rules:    opts.DocumentRules.Name,
		Sanitize: cleaned.Stats,
		Warnings: cleaned.Warnings,
	}
	out, err := compose(&stage, template, opts.sectionsTarget(), composer.Join(blocks), opts.Strict)
	report.Stages = append(report.Stages, stage)
	return out, err
}

// splice runs the footer stage and records it in report.
func splice(report *Report, page, footer string, opts Options) (string, error) {
	cleaned := sanitizer.New(opts.FooterRules).SanitizeWithStats(footer)
	logRuleMatches(opts.FooterRules.Name, cleaned.Stats)

	stage := Stage{
		Name:     StageFooter,
		Rules:    opts.FooterRules.Name,
		Sanitize: cleaned.Stats,
		Warnings: cleaned.Warnings,
	}
	target := opts.footerTarget()
	out, err := compose(&stage, page, target, cleaned.Content, opts.Strict)

	if stage.Method == composer.MethodRegion && composer.RegionNested(page, target.Region) {
		msg := "footer region contains a nested element of the same name; trailing markup may remain"
		stage.Warnings = append(stage.Warnings, sanitizer.Warning{Phase: "compose", Message: msg, Context: target.Region.String()})
		logger.Warn(msg, "region", target.Region.String())
	}

	report.Stages = append(report.Stages, stage)
	return out, err
}

// compose injects replacement and records the method used. A missing
// injection point is a warning unless strict is set.
func compose(stage *Stage, template string, target composer.Target, replacement string, strict bool) (string, error) {
	stage.Target = target.String()

	if strict {
		out, method, err := composer.ComposeStrict(template, target, replacement)
		stage.Method = method
		if err != nil {
			return "", fmt.Errorf("%s stage: %w", stage.Name, err)
		}
		return out, nil
	}

	out, method := composer.Compose(template, target, replacement)
	stage.Method = method
	if method == composer.MethodNone {
		msg := "injection point not found, template left unchanged"
		stage.Warnings = append(stage.Warnings, sanitizer.Warning{Phase: "compose", Message: msg, Context: stage.Target})
		logger.Warn(msg, "stage", stage.Name, "target", stage.Target)
	} else {
		logger.Debug("composed", "stage", stage.Name, "method", method)
	}
	return out, nil
}

// finish post-processes the document and counts blocks in the result.
func finish(report *Report, out string, post cleaner.Cleaner) error {
	processed, err := post.Clean(out)
	if err != nil {
		return fmt.Errorf("post-processing with %s: %w", post.Name(), err)
	}
	report.PostProcess = post.Name()
	out = processed

	report.Content = out
	report.OutputBytes = len(out)
	report.DocumentBlocks = CountElements(out, report.Tag)

	if report.DocumentBlocks < report.Blocks {
		report.AddWarning("verify",
			fmt.Sprintf("output has %d <%s> elements but %d were extracted", report.DocumentBlocks, report.Tag, report.Blocks),
			"")
	}
	return nil
}

// postProcessor returns the cleaner applied to the final document.
func postProcessor(opts Options) cleaner.Cleaner {
	if opts.Minify {
		return cleaner.NewMinify()
	}
	return cleaner.NewNoop()
}

// CountElements parses doc and counts elements named tag.
// Unlike the extractors, nested elements are each counted.
func CountElements(doc, tag string) int {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return 0
	}
	return d.Find(tag).Length()
}

func logRuleMatches(set string, stats *sanitizer.Stats) {
	for _, m := range stats.RuleMatches {
		logger.Debug("rule applied", "set", set, "rule", m.Rule, "matches", m.Count)
	}
}
