package balance

import (
	"math"
	"strings"
	"testing"
)

func TestCommaInt(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{5000000000, "5,000,000,000"},
	}

	for _, tt := range tests {
		if got := commaInt(tt.in); got != tt.want {
			t.Errorf("commaInt(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCommaFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{50, "50.0"},
		{1234.56, "1,234.6"},
		{200180, "200,180.0"},
	}

	for _, tt := range tests {
		if got := commaFloat(tt.in); got != tt.want {
			t.Errorf("commaFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCommaHugeValues(t *testing.T) {
	if got := commaInt(math.Inf(1)); got == "" {
		t.Error("expected a rendering for +Inf")
	}
	if got := commaInt(1e21); got != "1,000,000,000,000,000,000,000" {
		t.Errorf("commaInt(1e21) = %q", got)
	}
	if got := commaFloat(-1e20); got != "-100,000,000,000,000,000,000.0" {
		t.Errorf("commaFloat(-1e20) = %q", got)
	}
}

func TestRule(t *testing.T) {
	if got := rule("="); len(got) != 80 || strings.Trim(got, "=") != "" {
		t.Errorf("unexpected rule %q", got)
	}
}
