package config

import (
	"testing"
	"time"
)

func TestParseDurationExtended(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want time.Duration
	}{
		{"30s", 30 * time.Second},
		{"1.5h", 90 * time.Minute},
		{"1d", 24 * time.Hour},
		{"1.5d", 36 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
		{"1w2d", 9 * 24 * time.Hour},
		{"-2d", -48 * time.Hour},
	}
	for _, tc := range cases {
		got, err := parseDurationExtended(tc.in)
		if err != nil {
			t.Fatalf("parseDurationExtended(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("parseDurationExtended(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "abc", "12", "d"} {
		if _, err := parseDurationExtended(bad); err == nil {
			t.Errorf("parseDurationExtended(%q) expected error", bad)
		}
	}
}
