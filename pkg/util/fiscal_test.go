package util

import "testing"

func TestNormalizeFiscalPeriod(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"FY", "FY", true},
		{"fy", "FY", true},
		{"annual", "FY", true},
		{" q2 ", "Q2", true},
		{"Q4", "Q4", true},
		{"H1", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := NormalizeFiscalPeriod(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("NormalizeFiscalPeriod(%q) = %q,%v want %q,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestQuarterIndex(t *testing.T) {
	if got := QuarterIndex("q3"); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := QuarterIndex("FY"); got != 0 {
		t.Fatalf("expected 0 for FY, got %d", got)
	}
}

func TestIsAnnualPeriod(t *testing.T) {
	if !IsAnnualPeriod("Annual") {
		t.Fatalf("expected annual")
	}
	if IsAnnualPeriod("Q1") {
		t.Fatalf("Q1 is not annual")
	}
}
