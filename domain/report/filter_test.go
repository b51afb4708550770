package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterExact(t *testing.T) {
	rows := []NormalizedRow{
		{"email": "a@x.com"},
		{"email": "b@x.com"},
		{"email": "  a@x.com "},
		{"email": "A@x.com"},
	}

	tests := []struct {
		name     string
		selector string
		expected []NormalizedRow
	}{
		{"matches trimmed field", "a@x.com", []NormalizedRow{rows[0], rows[2]}},
		{"case sensitive", "A@x.com", []NormalizedRow{rows[3]}},
		{"empty selector yields nothing", "", []NormalizedRow{}},
		{"no match", "c@x.com", []NormalizedRow{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FilterExact(rows, "email", tt.selector))
		})
	}
}

func TestFilterExactTwoRows(t *testing.T) {
	rows := []NormalizedRow{{"email": "a@x.com"}, {"email": "b@x.com"}}
	assert.Equal(t, []NormalizedRow{rows[0]}, FilterExact(rows, "email", "a@x.com"))
	assert.Empty(t, FilterExact(rows, "email", ""))
}

func TestFilterSubstring(t *testing.T) {
	rows := []NormalizedRow{
		{"nombre": "Ana Gómez", "correo": "ana@x.com", "ficha": "2675812"},
		{"nombre": "Luis Pérez", "correo": "lperez@x.com", "ficha": "2675900"},
	}
	keys := []string{"nombre", "correo", "ficha"}

	tests := []struct {
		name     string
		query    string
		expected []NormalizedRow
	}{
		{"name match", "ana", []NormalizedRow{rows[0]}},
		{"case folded", "  LUIS ", []NormalizedRow{rows[1]}},
		{"accented query", "pérez", []NormalizedRow{rows[1]}},
		{"ficha prefix hits both", "2675", rows},
		{"email field", "lperez@", []NormalizedRow{rows[1]}},
		{"empty", "", []NormalizedRow{}},
		{"whitespace only", "   ", []NormalizedRow{}},
		{"no match", "zzz", []NormalizedRow{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FilterSubstring(rows, keys, tt.query))
		})
	}
}

func TestFilterSubstringRowCountedOnce(t *testing.T) {
	rows := []NormalizedRow{{"nombre": "ana", "correo": "ana@x.com"}}
	assert.Len(t, FilterSubstring(rows, []string{"nombre", "correo"}, "ana"), 1)
}

func TestDistinctSorted(t *testing.T) {
	rows := []NormalizedRow{
		{"email": "b@x.com"},
		{"email": " a@x.com"},
		{"email": ""},
		{"email": "   "},
		{"other": "ignored"},
		{"email": "b@x.com "},
	}
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, DistinctSorted(rows, "email"))
	assert.Equal(t, []string{}, DistinctSorted(nil, "email"))
}
