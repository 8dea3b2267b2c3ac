package cleaner

import (
	"fmt"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
)

// MinifyCleaner minifies HTML and inline CSS.
// Document, end tags and attribute quotes are kept so that the output
// still matches the patterns the composer looks for.
type MinifyCleaner struct {
	m *minify.M
}

// NewMinify creates a minifying cleaner.
func NewMinify() *MinifyCleaner {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	return &MinifyCleaner{m: m}
}

// Clean minifies html.
func (c *MinifyCleaner) Clean(content string) (string, error) {
	out, err := c.m.String("text/html", content)
	if err != nil {
		return "", fmt.Errorf("minify: %w", err)
	}
	return out, nil
}

// Name returns the cleaner type.
func (c *MinifyCleaner) Name() string {
	return "minify"
}
