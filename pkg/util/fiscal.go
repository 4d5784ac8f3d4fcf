package util

import "strings"

// NormalizeFiscalPeriod maps common filing-period spellings to the canonical
// "FY" / "Q1".."Q4" labels. Returns ("", false) for anything else.
func NormalizeFiscalPeriod(s string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FY", "ANNUAL", "A":
		return "FY", true
	case "Q1":
		return "Q1", true
	case "Q2":
		return "Q2", true
	case "Q3":
		return "Q3", true
	case "Q4":
		return "Q4", true
	}
	return "", false
}

// IsAnnualPeriod reports whether the label denotes a full fiscal year.
func IsAnnualPeriod(s string) bool {
	p, ok := NormalizeFiscalPeriod(s)
	return ok && p == "FY"
}

// QuarterIndex returns 1..4 for quarterly labels and 0 otherwise.
func QuarterIndex(s string) int {
	p, ok := NormalizeFiscalPeriod(s)
	if !ok || len(p) != 2 || p[0] != 'Q' {
		return 0
	}
	return int(p[1] - '0')
}
