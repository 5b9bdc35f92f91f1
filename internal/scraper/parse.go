package scraper

import (
	"bytes"
	"mime"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// ParsePage builds a queryable document tree from raw HTML, decoding it to
// UTF-8 first. The charset comes from contentType, then a BOM or <meta>
// declaration, and falls back to windows-1252 for bodies that are not
// valid UTF-8.
func ParsePage(body []byte, contentType string) (*goquery.Document, error) {
	// Without a declared charset, the sniffer only looks at the first 1024
	// bytes and would take an ASCII-only prefix for windows-1252.
	if _, params, err := mime.ParseMediaType(contentType); (err != nil || params["charset"] == "") && utf8.Valid(body) {
		contentType = "text/html; charset=utf-8"
	}

	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(r)
}
