package validation

import "strings"

// Digits keeps only the ASCII digits of raw.
func Digits(raw string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
}

func allSame(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

// mask writes digits over the '#' slots of pattern, stopping when digits run out.
func mask(digits, pattern string) string {
	var out strings.Builder
	next := 0
	for i := 0; i < len(pattern) && next < len(digits); i++ {
		if pattern[i] == '#' {
			out.WriteByte(digits[next])
			next++
			continue
		}
		out.WriteByte(pattern[i])
	}
	return out.String()
}
