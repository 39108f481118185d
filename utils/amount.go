package utils

import (
	"strings"
)

// ToRawAmount converts a human-readable decimal amount into the token's
// smallest-unit integer representation given its decimal precision.
//
// Parsing is deliberately lenient: any string that is not a non-negative
// decimal number yields "0". Callers must independently guard against
// zero-amount transfers. Fractional digits beyond the token's precision are
// truncated toward zero, never rounded up.
func ToRawAmount(amount string, decimals int) string {
	if decimals < 0 {
		return "0"
	}

	s := strings.TrimSpace(amount)
	if s == "" {
		return "0"
	}

	intPart := s
	fracPart := ""
	if idx := strings.Index(s, "."); idx >= 0 {
		intPart = s[:idx]
		fracPart = s[idx+1:]
		if strings.Contains(fracPart, ".") {
			return "0"
		}
	}

	if intPart == "" && fracPart == "" {
		return "0"
	}
	if !isDigits(intPart) || !isDigits(fracPart) {
		return "0"
	}

	// Truncate excess fractional digits, pad the rest to the full precision.
	if len(fracPart) > decimals {
		fracPart = fracPart[:decimals]
	}
	fracPart += strings.Repeat("0", decimals-len(fracPart))

	raw := strings.TrimLeft(intPart+fracPart, "0")
	if raw == "" {
		return "0"
	}
	return raw
}

// ToDisplayAmount is the inverse of ToRawAmount: it divides a raw
// smallest-unit integer string by 10^decimals and formats the result with
// trailing zeros stripped. Invalid input yields "0".
func ToDisplayAmount(raw string, decimals int) string {
	if decimals < 0 {
		return "0"
	}

	s := strings.TrimSpace(raw)
	if s == "" || !isDigits(s) {
		return "0"
	}
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}

	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}

	intPart := s[:len(s)-decimals]
	fracPart := strings.TrimRight(s[len(s)-decimals:], "0")
	if fracPart == "" {
		return intPart
	}
	return intPart + "." + fracPart
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
