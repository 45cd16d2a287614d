package services

import (
	"errors"
	"testing"
)

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"zero", 0, "R$ 0,00"},
		{"small integer", 5, "R$ 5,00"},
		{"with decimals", 42.5, "R$ 42,50"},
		{"hundreds", 999.99, "R$ 999,99"},
		{"thousands", 1234.56, "R$ 1.234,56"},
		{"millions", 1234567.89, "R$ 1.234.567,89"},
		{"negative", -100, "-R$ 100,00"},
		{"negative thousands", -2500.5, "-R$ 2.500,50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatBRL(tt.input); got != tt.expect {
				t.Errorf("FormatBRL(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestFormatNumberBR(t *testing.T) {
	tests := []struct {
		v        float64
		decimals int
		expect   string
	}{
		{40, 0, "40"},
		{1234, 0, "1.234"},
		{40, 1, "40,0"},
		{12.34, 2, "12,34"},
	}
	for _, tt := range tests {
		if got := FormatNumberBR(tt.v, tt.decimals); got != tt.expect {
			t.Errorf("FormatNumberBR(%v, %d) = %q, want %q", tt.v, tt.decimals, got, tt.expect)
		}
	}
}

func TestFormatPercentAndHours(t *testing.T) {
	if got := FormatPercent(40); got != "40,0%" {
		t.Errorf("FormatPercent(40) = %q", got)
	}
	if got := FormatPercent(33.333); got != "33,3%" {
		t.Errorf("FormatPercent(33.333) = %q", got)
	}
	if got := FormatHours(119.6); got != "120h" {
		t.Errorf("FormatHours(119.6) = %q", got)
	}
}

func TestFormatRate(t *testing.T) {
	tests := map[float64]string{
		166.666: "166.67",
		100:     "100",
		12.5:    "12.5",
		0:       "0",
	}
	for in, want := range tests {
		if got := FormatRate(in); got != want {
			t.Errorf("FormatRate(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"", 0, false},
		{"120", 120, false},
		{"120.5", 120.5, false},
		{"120,5", 120.5, false},
		{"1.234,56", 1234.56, false},
		{"R$ 1.000,00", 1000, false},
		{" -3,5 ", -3.5, false},
		{"abc", 0, true},
		{"NaN", 0, true},
		{"nan", 0, true},
		{"Inf", 0, true},
		{"-Infinity", 0, true},
		{"1e400", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDecimal(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalid) {
					t.Fatalf("ParseDecimal(%q) error = %v, want ErrInvalid", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseDecimal(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
		})
	}
}
