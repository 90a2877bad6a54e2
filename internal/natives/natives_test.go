package natives

import "testing"

func TestNumericPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"42", 42},
		{"3.14", 3.14},
		{"-7", -7},
		{"12abc", 12},
		{"abc", 0},
		{"", 0},
		{"1e3", 1000},
		{".5", 0.5},
	}
	for _, tt := range tests {
		if got := numericPrefix(tt.in); got != tt.want {
			t.Errorf("numericPrefix(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
