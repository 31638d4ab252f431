// Package csvtok splits switch CSV exports into rows of string fields.
//
// It is deliberately more forgiving than encoding/csv: quotes may open and
// close anywhere in a field, rows may be ragged, and CRLF, LF and bare CR line
// endings may be mixed in one file. It never returns an error.
package csvtok

import (
	"strings"
	"unicode/utf8"
)

const (
	sep   = ','
	quote = '"'
	bom   = "\ufeff"
)

/* ──────────── table ──────────── */

// Table is a tokenized export: the first non-blank line and everything after it.
type Table struct {
	Header []string
	Rows   [][]string
}

// Empty reports whether the export had no data rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// Split tokenizes text and separates the header row from the data rows.
func Split(text string) Table {
	rows := Tokenize(text)
	if len(rows) == 0 {
		return Table{}
	}
	return Table{Header: rows[0], Rows: rows[1:]}
}

// SplitBytes is Split for raw uploads; input that is not valid UTF-8 yields an empty table.
func SplitBytes(b []byte) Table {
	if !utf8.Valid(b) {
		return Table{}
	}
	return Split(string(b))
}

/* ──────────── tokenizer ──────────── */

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Tokenize returns every non-blank line of text as a slice of fields.
func Tokenize(text string) [][]string {
	text = strings.TrimPrefix(text, bom)
	lines := strings.Split(lineEndings.Replace(text), "\n")

	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, SplitLine(line))
	}
	return rows
}

// SplitLine scans one line. A quote toggles quoting unless it is a doubled
// quote inside a quoted section, which yields a literal quote. An unterminated
// quote runs to the end of the line.
func SplitLine(line string) []string {
	var (
		fields   []string
		cur      strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == quote && inQuotes && i+1 < len(line) && line[i+1] == quote:
			cur.WriteByte(quote)
			i++
		case c == quote:
			inQuotes = !inQuotes
		case c == sep && !inQuotes:
			fields = append(fields, clean(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, clean(cur.String()))
}

// clean trims the field boundary; any quote still in s came from a "" escape.
func clean(s string) string { return strings.TrimSpace(s) }
