package report

import (
	"sort"
	"strings"
)

// FilterExact keeps the rows whose key field, trimmed, equals selector.
// Comparison is case-sensitive. An empty selector matches nothing.
func FilterExact(rows []NormalizedRow, key, selector string) []NormalizedRow {
	out := []NormalizedRow{}
	if selector == "" {
		return out
	}
	for _, row := range rows {
		if strings.TrimSpace(row[key]) == selector {
			out = append(out, row)
		}
	}
	return out
}

// FilterSubstring keeps the rows where the lowercased, trimmed query occurs
// in the lowercased value of any of keys. A blank query matches nothing.
func FilterSubstring(rows []NormalizedRow, keys []string, query string) []NormalizedRow {
	out := []NormalizedRow{}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return out
	}
	for _, row := range rows {
		for _, key := range keys {
			if strings.Contains(strings.ToLower(row[key]), q) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// DistinctSorted collects the trimmed, non-empty values of key across rows,
// deduplicated and sorted.
func DistinctSorted(rows []NormalizedRow, key string) []string {
	seen := make(map[string]struct{})
	values := []string{}
	for _, row := range rows {
		v := strings.TrimSpace(row[key])
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
