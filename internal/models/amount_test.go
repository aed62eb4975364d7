package models

import (
	"errors"
	"testing"
)

func TestFormatNEAR(t *testing.T) {
	cases := []struct {
		name  string
		yocto string
		want  string
	}{
		{"one NEAR", "1000000000000000000000000", "1.00"},
		{"hundred NEAR", "100000000000000000000000000", "100.00"},
		{"truncates not rounds", "1999999999999999999999999", "1.99"},
		{"quarter NEAR", "250000000000000000000000", "0.25"},
		{"below display precision", "1000000000000000000000", "0.00"},
		{"zero", "0", "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FormatNEAR(tc.yocto)
			if err != nil {
				t.Fatalf("FormatNEAR(%q): %v", tc.yocto, err)
			}
			if got != tc.want {
				t.Errorf("FormatNEAR(%q) = %q, want %q", tc.yocto, got, tc.want)
			}
		})
	}
}

func TestFormatNEARRejectsGarbage(t *testing.T) {
	for _, yocto := range []string{"", "12a", "-5", "1.5"} {
		if _, err := FormatNEAR(yocto); !errors.Is(err, ErrBadAmount) {
			t.Errorf("FormatNEAR(%q): expected ErrBadAmount, got %v", yocto, err)
		}
	}
}

func TestParseNEAR(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		want   string
	}{
		{"whole", "12", "12000000000000000000000000"},
		{"fractional", "0.25", "250000000000000000000000"},
		{"leading dot", ".5", "500000000000000000000000"},
		{"trailing dot", "3.", "3000000000000000000000000"},
		{"zero", "0", "0"},
		{"full precision", "0.000000000000000000000001", "1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseNEAR(tc.amount)
			if err != nil {
				t.Fatalf("ParseNEAR(%q): %v", tc.amount, err)
			}
			if got != tc.want {
				t.Errorf("ParseNEAR(%q) = %q, want %q", tc.amount, got, tc.want)
			}
		})
	}
}

func TestParseNEARRejectsGarbage(t *testing.T) {
	for _, amount := range []string{"", ".", "1,5", "-1", "1e3", "0.0000000000000000000000001"} {
		if _, err := ParseNEAR(amount); !errors.Is(err, ErrBadAmount) {
			t.Errorf("ParseNEAR(%q): expected ErrBadAmount, got %v", amount, err)
		}
	}
}

// Parse and format agree on the display path.
func TestParseFormatRoundTrip(t *testing.T) {
	yocto, err := ParseNEAR("7.50")
	if err != nil {
		t.Fatal(err)
	}
	display, err := FormatNEAR(yocto)
	if err != nil {
		t.Fatal(err)
	}
	if display != "7.50" {
		t.Errorf("round trip: got %q, want 7.50", display)
	}
}
