package report

import "time"

// Table is one fetched spreadsheet export: the header row as authored and
// the data rows in source order, header row excluded.
type Table struct {
	SourceURL string
	Format    string
	Headers   []string
	Rows      []RawRow
	FetchedAt time.Time
}

// Normalize canonicalizes every row of the table.
func (t *Table) Normalize() ([]NormalizedRow, []Collision) {
	return NormalizeTable(t.Headers, t.Rows)
}
