// Package numbering formats and parses quotation numbers of the form
// WI0001, WI0002, ... The numeric part is zero-padded to four digits and
// grows past the padding without truncation (WI9999 -> WI10000).
package numbering

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// Prefix is fixed for every quotation number.
	Prefix = "WI"
	// PadWidth is the minimum digit count of the numeric part.
	PadWidth = 4
)

// ErrMalformedNumber reports a stored number that does not match the
// expected shape. Callers must surface it rather than reseed, so a
// corrupted row cannot silently restart the sequence.
var ErrMalformedNumber = errors.New("malformed_quotation_number")

// Seed is the first number in an empty ledger.
func Seed() string { return Format(1) }

// Format renders a sequence value as a quotation number.
func Format(n uint64) string {
	return fmt.Sprintf("%s%0*d", Prefix, PadWidth, n)
}

// Parse extracts the sequence value from a quotation number.
func Parse(s string) (uint64, error) {
	if !strings.HasPrefix(s, Prefix) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}
	digits := s[len(Prefix):]
	if digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}
	return n, nil
}

// Next returns the number following the given one.
func Next(s string) (string, error) {
	n, err := Parse(s)
	if err != nil {
		return "", err
	}
	return Format(n + 1), nil
}
