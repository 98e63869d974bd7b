package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var dayWeekPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)([dw])`)

// parseDurationExtended parses Go-style duration strings and additionally
// accepts "d" (1d = 24h) and "w" (1w = 7d) units, e.g. "7d", "1w2d", "1.5d".
func parseDurationExtended(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("duration is required")
	}
	// Go's own units never contain 'd' or 'w'.
	if !strings.ContainsAny(raw, "dw") {
		return time.ParseDuration(raw)
	}
	expanded := dayWeekPattern.ReplaceAllStringFunc(raw, func(m string) string {
		sub := dayWeekPattern.FindStringSubmatch(m)
		n, err := strconv.ParseFloat(sub[1], 64)
		if err != nil {
			return m
		}
		hours := n * 24
		if sub[2] == "w" {
			hours *= 7
		}
		return strconv.FormatFloat(hours, 'f', -1, 64) + "h"
	})
	return time.ParseDuration(expanded)
}
