package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Amount is a money value in minor units (cents). Quotes travel over the wire
// as decimal strings; keeping the arithmetic in int64 avoids float drift.
type Amount int64

// ParseAmount parses a decimal string like "50", "50.5" or "50.00" into cents.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	// ParseInt tolerates a sign, so both parts must be digits-only here
	if !isDigits(whole) || !isDigits(frac) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	cents := w*100 + f
	if neg {
		cents = -cents
	}
	return Amount(cents), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String renders the amount as a two-decimal string ("150.00").
func (a Amount) String() string {
	cents := int64(a)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Times multiplies by a unit count (days, items).
func (a Amount) Times(n int) Amount {
	return Amount(int64(a) * int64(n))
}

// ApplyRate applies a basis-point rate (1500 = 15%) with half-up rounding.
func ApplyRate(base Amount, rateBP int64) Amount {
	v := int64(base) * rateBP
	neg := v < 0
	if neg {
		v = -v
	}
	out := (v + 5000) / 10000
	if neg {
		out = -out
	}
	return Amount(out)
}

// RateBPFromPercent converts a percent string ("15", "7.5") into basis points.
func RateBPFromPercent(s string) (int64, error) {
	a, err := ParseAmount(s)
	if err != nil {
		return 0, err
	}
	// percent with two decimals is already basis points
	return int64(a), nil
}
