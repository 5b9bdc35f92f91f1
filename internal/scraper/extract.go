package scraper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	quoteBlockSel  = "div.quote"
	quoteTextSel   = "span.text"
	quoteAuthorSel = "small.author"
	quoteTagsSel   = "meta.keywords"

	// noQuotesSentinel is what the site renders past the last page.
	noQuotesSentinel = "No quotes found!"
)

// ErrNotFound is returned when a quote block lacks one of its parts.
var ErrNotFound = errors.New("element not found")

// Only the curly glyphs are stripped; straight quotes stay in the text.
var curlyQuotes = strings.NewReplacer("”", "", "“", "")

// IsTerminal reports whether doc is the page shown after the last page of
// quotes, i.e. whether any element's trimmed text contains the
// "No quotes found!" sentinel.
func IsTerminal(doc *goquery.Document) bool {
	terminal := false
	doc.Find("*").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if strings.Contains(strings.TrimSpace(sel.Text()), noQuotesSentinel) {
			terminal = true
			return false
		}
		return true
	})
	return terminal
}

// ExtractQuotes returns one Record per quote block in document order.
//
// For every block:
//  1. the text comes from a direct child span.text, minus the “ ” glyphs;
//  2. the author is the content of the first small.author below the block;
//  3. the tags are the comma-separated content attribute of meta.keywords,
//     split without trimming.
//
// A block missing any of those fails the whole page with ErrNotFound.
func ExtractQuotes(doc *goquery.Document) ([]Record, error) {
	blocks := doc.Find(quoteBlockSel)
	out := make([]Record, 0, blocks.Length())

	for i := 0; i < blocks.Length(); i++ {
		blk := blocks.Eq(i)

		textSel := blk.ChildrenFiltered(quoteTextSel).First()
		if textSel.Length() == 0 {
			return nil, missing(i, quoteTextSel)
		}

		authorSel := blk.Find(quoteAuthorSel).First()
		if authorSel.Length() == 0 {
			return nil, missing(i, quoteAuthorSel)
		}

		keywords, ok := blk.Find(quoteTagsSel).First().Attr("content")
		if !ok {
			return nil, missing(i, quoteTagsSel+"[content]")
		}

		out = append(out, Record{
			Text:   curlyQuotes.Replace(textSel.Text()),
			Author: authorSel.Text(),
			Tags:   strings.Split(keywords, ","),
		})
	}

	return out, nil
}

func missing(block int, selector string) error {
	return fmt.Errorf("quote block %d: %s: %w", block, selector, ErrNotFound)
}
