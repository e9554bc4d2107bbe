// Package natsort orders strings the way people read them: digit runs compare
// by numeric value, everything else compares case-insensitively.
package natsort

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Compare returns -1, 0 or +1. Digit runs sort before non-digit runs at the
// same position, so "12" < "12A" < "B1" and "2" < "10". Strings that are
// equal ignoring case and leading zeros are ordered by their raw bytes so the
// result is total.
func Compare(a, b string) int {
	ra, rb := a, b
	for ra != "" && rb != "" {
		ca, restA := nextChunk(ra)
		cb, restB := nextChunk(rb)
		if c := compareChunks(ca, cb); c != 0 {
			return c
		}
		ra, rb = restA, restB
	}
	switch {
	case ra == "" && rb != "":
		return -1
	case ra != "" && rb == "":
		return 1
	}
	return strings.Compare(a, b)
}

// Less reports whether a sorts before b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

func nextChunk(s string) (chunk string, rest string) {
	r, _ := utf8.DecodeRuneInString(s)
	digits := unicode.IsDigit(r)
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsDigit(r) != digits {
			break
		}
		i += size
	}
	return s[:i], s[i:]
}

func isDigitChunk(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsDigit(r)
}

func compareChunks(a, b string) int {
	da, db := isDigitChunk(a), isDigitChunk(b)
	switch {
	case da && db:
		return compareNumeric(a, b)
	case da:
		return -1
	case db:
		return 1
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// compareNumeric compares two digit runs of arbitrary length without parsing.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
