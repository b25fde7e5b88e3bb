// Package core provides number parsing and display helpers.
//
// Form values arrive as free text. Parsing never fails: anything that is not
// a finite, non-negative number becomes 0 so a bad field cannot break the
// derived ledger.
package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseAmountOrZero converts a decimal string to a float64.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. When
// both appear, the last one is the decimal separator: "1.234,56" is pt-BR
// grouping and "1,234.56" is en grouping. Empty, malformed, negative or
// non-finite input yields 0.
//
// Examples:
//
//	ParseAmountOrZero("12.34")    -> 12.34
//	ParseAmountOrZero("12,34")    -> 12.34
//	ParseAmountOrZero("1.234,56") -> 1234.56
//	ParseAmountOrZero("1,234.56") -> 1234.56
//	ParseAmountOrZero("abc")      -> 0
func ParseAmountOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot > comma:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return SanitizeAmount(v)
}

// ParseIntOrZero reads the leading integer of s the way a lenient form
// field would: "12345", "12345.7" and "12345 km" all give 12345. Anything
// without leading digits, or negative, gives 0.
func ParseIntOrZero(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// SanitizeAmount maps NaN, infinities and negatives to 0.
func SanitizeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// SafeDiv returns num/den, or 0 when the quotient would not be finite.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}
