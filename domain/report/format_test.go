package report

import "testing"

func TestDateOnly(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2024-05-01T10:00:00", "2024-05-01"},
		{"2024-05-01 10:00", "2024-05-01"},
		{"1/5/2024 10:32:11", "1/5/2024"},
		{"  2024-05-01  ", "2024-05-01"},
		{"2024-05-01", "2024-05-01"},
		{"", ""},
		{"   ", ""},
	}

	for _, test := range tests {
		if got := DateOnly(test.input); got != test.expected {
			t.Errorf("DateOnly(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}

func TestLeftOfDoubleDash(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Curso X -- Detalle", "Curso X"},
		{"Curso Y", "Curso Y"},
		{"  Curso Z  ", "Curso Z"},
		{"A--B--C", "A"},
		{"-- solo detalle", ""},
		{"", ""},
	}

	for _, test := range tests {
		if got := LeftOfDoubleDash(test.input); got != test.expected {
			t.Errorf("LeftOfDoubleDash(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}

func TestIsYes(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"Sí", true},
		{"SI", true},
		{"si", true},
		{" yes ", true},
		{"TRUE", true},
		{"1", true},
		{"Si\u0301", true},
		{"no", false},
		{"", false},
		{"Pendiente", false},
		{"0", false},
	}

	for _, test := range tests {
		if got := IsYes(test.input); got != test.expected {
			t.Errorf("IsYes(%q) = %v, expected %v", test.input, got, test.expected)
		}
	}
}
