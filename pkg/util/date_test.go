package util

import (
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)

	cases := []struct {
		name string
		in   string
		ok   bool
	}{
		{"rfc3339", "2024-10-10T10:10:10Z", true},
		{"unix seconds", "1728555010", true},
		{"empty", "", false},
		{"garbage", "not-a-time", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseTime(tc.in)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if tc.ok && !got.Equal(want) {
				t.Fatalf("got %v, want %v", got, want)
			}
		})
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := ParseTimeDefault("", def); !got.Equal(def) {
		t.Fatalf("empty input should fall back to default, got %v", got)
	}
	if got := ParseTimeDefault("2024-10-10T10:10:10Z", def); got.Equal(def) {
		t.Fatalf("valid input should not fall back to default")
	}
}

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("42", 7); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
	if got := ParseIntDefault("x", 7); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}
