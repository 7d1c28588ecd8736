// Package extract turns rendered HTML snapshots into typed entities.
// Extractors are pure functions over parsed documents; no render session
// is needed to exercise them.
package extract

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrAnchorMissing indicates the structural anchor for an entity (about
// panel, archive list, heroes panel) is absent from the snapshot. Callers
// treat this as a hard extraction failure for that entity; missing
// individual fields never produce it.
var ErrAnchorMissing = errors.New("extract: structural anchor missing")

const notAvailable = "not available"

// siteDateLayout is the textual date format the site renders.
const siteDateLayout = "02.01.2006"

// ParseDate converts a DD.MM.YYYY site date to a UTC calendar date.
// The "Not available" sentinel, empty input, and unparseable text all map
// to nil, never to a zero time.
func ParseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, notAvailable) {
		return nil
	}
	t, err := time.ParseInLocation(siteDateLayout, raw, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// ParseCount extracts an integer from text that may carry grouping or
// decoration ("1,234 matches"). Parse failure yields 0, never an error;
// counts must stay numeric.
func ParseCount(raw string) int {
	cleaned := stripNonNumeric(raw, false)
	if cleaned == "" || cleaned == "-" {
		return 0
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0
	}
	return n
}

// ParseAmount extracts a decimal from text with currency symbols or
// grouping ("$1,234,567.50"). Parse failure yields 0.
func ParseAmount(raw string) float64 {
	cleaned := stripNonNumeric(raw, true)
	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return f
}

// stripNonNumeric keeps digits, a leading minus, and optionally one
// decimal point.
func stripNonNumeric(raw string, decimal bool) string {
	var b strings.Builder
	sawPoint := false
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' && i == 0:
			b.WriteRune(r)
		case r == '.' && decimal && !sawPoint:
			sawPoint = true
			b.WriteRune(r)
		}
	}
	return b.String()
}

// roleRule maps role-text substrings to lane positions. Order matters:
// "soft support" must match before the bare "support" fallback.
var roleRules = []struct {
	needles  []string
	position int
}{
	{[]string{"carry", "pos1"}, 1},
	{[]string{"mid", "pos2"}, 2},
	{[]string{"offlane", "pos3"}, 3},
	{[]string{"soft support", "pos4"}, 4},
	{[]string{"hard support", "pos5"}, 5},
}

// RoleToPosition maps free-text role strings to a position 1-5.
// Coach-like and unknown roles map to 0. The match is case-insensitive
// and the first rule that hits wins.
func RoleToPosition(role string) int {
	lowered := strings.ToLower(strings.TrimSpace(role))
	for _, rule := range roleRules {
		for _, needle := range rule.needles {
			if strings.Contains(lowered, needle) {
				return rule.position
			}
		}
	}
	if lowered == "support" {
		return 5
	}
	return 0
}

// HeroWins derives absolute wins from a reported winrate percentage and
// match count.
func HeroWins(winratePercent float64, matches int) int {
	return int(math.Round(winratePercent / 100 * float64(matches)))
}
