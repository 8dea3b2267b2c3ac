// Package composer extracts tagged blocks from HTML text and splices
// content into a template at placeholder comments or structural regions.
//
// Matching is pattern-based. ExtractBlocks ends a block at the first
// closing tag of the same name, so nested same-name blocks come back as
// several truncated spans. ExtractBlocksNested tracks tag depth instead.
package composer

import (
	"bytes"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// DefaultTag is the block tag used when none is given.
const DefaultTag = "section"

var (
	blockPatterns   = make(map[string]*regexp.Regexp)
	blockPatternsMu sync.Mutex
)

// blockPattern returns the cached lazy span pattern for tag.
func blockPattern(tag string) *regexp.Regexp {
	blockPatternsMu.Lock()
	defer blockPatternsMu.Unlock()

	if re, ok := blockPatterns[tag]; ok {
		return re
	}
	q := regexp.QuoteMeta(tag)
	re := regexp.MustCompile(`(?is)<` + q + `(?:\s[^>]*)?>.*?</` + q + `\s*>`)
	blockPatterns[tag] = re
	return re
}

// ExtractBlocks returns every span from an opening <tag ...> through the
// first following </tag>, in document order. Spans never overlap.
// It returns nil when the text holds no complete block.
func ExtractBlocks(text, tag string) []string {
	if tag == "" {
		tag = DefaultTag
	}
	return blockPattern(tag).FindAllString(text, -1)
}

// ExtractBlocksNested returns the outermost balanced <tag>...</tag> spans,
// counting nested opening and closing tags of the same name. An opening
// tag that is never closed is dropped along with everything after it.
// Tags inside comments, scripts and attribute values are not counted.
func ExtractBlocksNested(text, tag string) []string {
	if tag == "" {
		tag = DefaultTag
	}
	name := []byte(strings.ToLower(tag))

	var (
		blocks []string
		offset int
		start  = -1
		depth  int
	)

	z := html.NewTokenizer(strings.NewReader(text))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return blocks
		}
		raw := len(z.Raw())

		switch tt {
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			tn, _ := z.TagName()
			if !bytes.Equal(tn, name) {
				break
			}
			switch tt {
			case html.StartTagToken:
				if depth == 0 {
					start = offset
				}
				depth++
			case html.EndTagToken:
				if depth == 0 {
					break
				}
				depth--
				if depth == 0 {
					blocks = append(blocks, text[start:offset+raw])
					start = -1
				}
			}
		}
		offset += raw
	}
}

// Join concatenates blocks with a single newline, preserving order.
func Join(blocks []string) string {
	return strings.Join(blocks, "\n")
}
