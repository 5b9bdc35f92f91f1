package driver

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/GeorgiosLymperis/quotes-cache/internal/config"
	"github.com/GeorgiosLymperis/quotes-cache/internal/scraper"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Print writes records to w in the given format (config.FormatBlock or
// config.FormatTable). Nothing is written for zero records.
func Print(w io.Writer, records []scraper.Record, format string) error {
	if len(records) == 0 {
		return nil
	}
	switch format {
	case config.FormatTable:
		return printTable(w, records)
	case config.FormatBlock, "":
		return printBlocks(w, records)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func printBlocks(w io.Writer, records []scraper.Record) error {
	for _, r := range records {
		if _, err := fmt.Fprintf(w, "%s\n by: %s\n tags: %s\n", r.Text, r.Author, formatTags(r.Tags)); err != nil {
			return err
		}
	}
	return nil
}

func printTable(w io.Writer, records []scraper.Record) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Quote", "Author", "Tags"})
	for i, r := range records {
		t.AppendRow(table.Row{i + 1, r.Text, r.Author, strings.Join(r.Tags, ", ")})
	}
	t.Render()
	return nil
}

// formatTags renders tags the way Python prints a list of strings:
// ['a', 'b'], switching to double quotes for a tag that holds a single
// quote and no double quote.
func formatTags(tags []string) string {
	quoted := make([]string, len(tags))
	for i, t := range tags {
		quoted[i] = pyQuote(t)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func pyQuote(s string) string {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var b strings.Builder
	b.WriteRune(quote)
	for _, r := range s {
		switch {
		case r == quote || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case unicode.IsPrint(r):
			b.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r < 0x10000:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			fmt.Fprintf(&b, `\U%08x`, r)
		}
	}
	b.WriteRune(quote)
	return b.String()
}
