package report

import (
	"fmt"
	"sort"
	"strings"

	"coordash/internal/errors"
)

// FieldKeyMap maps logical field names to the canonical key expected in a
// NormalizedRow. Build it with NewFieldKeyMap; it is never mutated.
type FieldKeyMap struct {
	keys    map[string]string
	headers map[string]string
}

// NewFieldKeyMap canonicalizes the authored header of each logical field.
// It fails when a header canonicalizes to the empty key or when two logical
// fields end up on the same key, since rows could not tell them apart.
func NewFieldKeyMap(fields map[string]string) (FieldKeyMap, error) {
	m := FieldKeyMap{
		keys:    make(map[string]string, len(fields)),
		headers: make(map[string]string, len(fields)),
	}
	owners := make(map[string]string, len(fields))

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		header := fields[name]
		key := NormalizeHeader(header)
		if key == "" {
			return FieldKeyMap{}, errors.ConfigInvalid(fmt.Sprintf("field %q has an empty header", name))
		}
		if other, ok := owners[key]; ok {
			return FieldKeyMap{}, errors.ConfigInvalid(fmt.Sprintf("fields %q and %q both normalize to %q", other, name, key))
		}
		owners[key] = name
		m.keys[name] = key
		m.headers[name] = header
	}
	return m, nil
}

// MustFieldKeyMap is NewFieldKeyMap for package-level definitions.
func MustFieldKeyMap(fields map[string]string) FieldKeyMap {
	m, err := NewFieldKeyMap(fields)
	if err != nil {
		panic(err)
	}
	return m
}

// Key returns the canonical key of a logical field, or "" when unknown.
func (m FieldKeyMap) Key(name string) string {
	return m.keys[name]
}

// Header returns the header as authored for a logical field.
func (m FieldKeyMap) Header(name string) string {
	return m.headers[name]
}

// Has reports whether name is a logical field of the map.
func (m FieldKeyMap) Has(name string) bool {
	_, ok := m.keys[name]
	return ok
}

// Names lists the logical fields in sorted order.
func (m FieldKeyMap) Names() []string {
	names := make([]string, 0, len(m.keys))
	for name := range m.keys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value reads a logical field from row; missing fields read as "".
func (m FieldKeyMap) Value(row NormalizedRow, name string) string {
	key, ok := m.keys[name]
	if !ok {
		return ""
	}
	return row[key]
}

// Missing lists the logical fields whose key does not appear in headers.
// Useful to warn about a renamed spreadsheet column.
func (m FieldKeyMap) Missing(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[NormalizeHeader(h)] = true
	}
	var missing []string
	for _, name := range m.Names() {
		if !present[m.keys[name]] {
			missing = append(missing, name)
		}
	}
	return missing
}

func (m FieldKeyMap) String() string {
	parts := make([]string, 0, len(m.keys))
	for _, name := range m.Names() {
		parts = append(parts, name+"="+m.keys[name])
	}
	return strings.Join(parts, ", ")
}
