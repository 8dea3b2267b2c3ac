package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmylchreest/sitesplice/internal/logger"
	"github.com/jmylchreest/sitesplice/pkg/cleaner"
	"github.com/jmylchreest/sitesplice/pkg/sanitizer"
)

// ReadDocument reads a UTF-8 document. kind names the input in errors.
func ReadDocument(kind, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s %s: %w", kind, path, err)
	}
	return string(data), nil
}

// WriteDocument replaces path with content. The data is written to a
// temporary file in the same directory and renamed over path, so readers
// never see a partial document.
func WriteDocument(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// RunClean sanitizes the file at in with rs, minifies it when minify is
// set, and writes the result to out. in and out may be the same path.
// The returned stats describe the sanitize pass.
func RunClean(ctx context.Context, in, out string, rs *sanitizer.RuleSet, minify bool) (*sanitizer.Result, error) {
	doc, err := ReadDocument("document", in)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := sanitizer.New(rs)
	var c cleaner.Cleaner = s
	if minify {
		c = cleaner.NewChain(s, cleaner.NewMinify())
	}
	content, err := c.Clean(doc)
	if err != nil {
		return nil, fmt.Errorf("cleaning %s: %w", in, err)
	}
	result := s.LastResult()
	result.Content = content
	logRuleMatches(s.Rules().Name, result.Stats)

	if err := WriteDocument(out, result.Content); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "cleaned document", "input", in, "output", out,
		"cleaner", c.Name(), "replacements", result.Stats.TotalMatches())
	return result, nil
}

// RunSections assembles sections from source into template and writes out.
func RunSections(ctx context.Context, source, template, out string, opts Options) (*Report, error) {
	src, err := ReadDocument("source", source)
	if err != nil {
		return nil, err
	}
	tmpl, err := ReadDocument("template", template)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report, err := AssembleSections(src, tmpl, opts)
	if err != nil {
		return nil, err
	}
	if err := WriteDocument(out, report.Content); err != nil {
		return nil, err
	}
	return report, nil
}

// RunFooter splices the footer file into page and writes out.
// page and out may be the same path.
func RunFooter(ctx context.Context, footer, page, out string, opts Options) (*Report, error) {
	f, err := ReadDocument("footer", footer)
	if err != nil {
		return nil, err
	}
	p, err := ReadDocument("page", page)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report, err := SpliceFooter(p, f, opts)
	if err != nil {
		return nil, err
	}
	if err := WriteDocument(out, report.Content); err != nil {
		return nil, err
	}
	return report, nil
}

// Run reads every input named in paths, builds the page and writes it once.
// Nothing is written if any stage fails.
func Run(ctx context.Context, paths Paths, opts Options) (*Report, error) {
	if err := validate.Struct(paths); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	var in Inputs
	var err error
	if in.Source, err = ReadDocument("source", paths.Source); err != nil {
		return nil, err
	}
	if in.Template, err = ReadDocument("template", paths.Template); err != nil {
		return nil, err
	}
	if paths.Footer != "" {
		footer, err := ReadDocument("footer", paths.Footer)
		if err != nil {
			return nil, err
		}
		in.Footer = &footer
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report, err := Build(in, opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := WriteDocument(paths.Output, report.Content); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "wrote document", "output", paths.Output, "blocks", report.Blocks)
	return report, nil
}
