package receipt

import "testing"

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"48.000,00", "48000"},
		{"10,000.00", "10000"},
		{"1.000.000", "1000000"},
		{"10000.00", "10000"},
		{"10000", "10000"},
		{"Rp 48.000,00", "48000"},
		{"Rp1.500", "1500"},
		{"IDR 25,000", "25000"},
		{"1,5", "15"},     // lone comma without a two-digit tail is grouping
		{"2.500", "2500"}, // lone dot with a three-digit tail is thousands
		{"2.50", "2"},     // lone dot with a two-digit tail is decimal
		{"0", "0"},
		{"000", "0"},
		{"007", "7"},
		{"", "0"},
		{"abc", "0"},
		{"Rp.", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeAmount(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeAmount(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeAmount_Idempotent(t *testing.T) {
	inputs := []string{"48.000,00", "10,000.00", "1.000.000", "10000", "", "0", "Rp 191.475"}
	for _, in := range inputs {
		once := NormalizeAmount(in)
		twice := NormalizeAmount(once)
		if once != twice {
			t.Errorf("NormalizeAmount not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
