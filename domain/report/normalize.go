// Package report holds the pure row model shared by every report view:
// header canonicalization, row normalization, filtering, display
// formatters and the view load state machine. Nothing here performs I/O.
package report

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Cell is one column of a parsed record, keyed by the header as authored.
type Cell struct {
	Header string `json:"header"`
	Value  string `json:"value"`
}

// RawRow is one parsed record in column order.
type RawRow []Cell

// Get returns the value of the last cell whose header equals header exactly.
func (r RawRow) Get(header string) (string, bool) {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i].Header == header {
			return r[i].Value, true
		}
	}
	return "", false
}

// NormalizedRow maps canonical keys to cell values.
type NormalizedRow map[string]string

// Collision records two headers of the same table that share a canonical key.
type Collision struct {
	Key      string `json:"key"`
	Kept     string `json:"kept"`
	Replaced string `json:"replaced"`
}

// NFD, drop nonspacing marks, NFC.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// U+FEFF counts as whitespace so a BOM glued to the first header disappears.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// NormalizeHeader canonicalizes a column name: lowercase, diacritics
// removed, surrounding whitespace trimmed and inner runs collapsed to a
// single space. Total and idempotent.
func NormalizeHeader(s string) string {
	if s == "" {
		return ""
	}
	lowered := strings.ToLower(s)
	stripped, _, err := transform.String(stripMarks(), lowered)
	if err != nil {
		stripped = lowered
	}
	return strings.Join(strings.FieldsFunc(stripped, isSpace), " ")
}

// NormalizeRow canonicalizes every header of row. When two headers share a
// canonical key the later cell wins.
func NormalizeRow(row RawRow) NormalizedRow {
	out := make(NormalizedRow, len(row))
	for _, cell := range row {
		out[NormalizeHeader(cell.Header)] = cell.Value
	}
	return out
}

// NormalizeTable normalizes every row and reports header collisions found in
// headers, in column order.
func NormalizeTable(headers []string, rows []RawRow) ([]NormalizedRow, []Collision) {
	seen := make(map[string]string, len(headers))
	var collisions []Collision
	for _, h := range headers {
		key := NormalizeHeader(h)
		if prev, ok := seen[key]; ok {
			collisions = append(collisions, Collision{Key: key, Kept: h, Replaced: prev})
		}
		seen[key] = h
	}

	out := make([]NormalizedRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, NormalizeRow(row))
	}
	return out, collisions
}
