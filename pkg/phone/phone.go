// Package phone holds the shared phone-number helpers. Audit entries and log
// lines must never carry an unmasked number; everything that records a phone
// goes through Mask.
package phone

import "strings"

const maskRune = '*'

// Mask replaces all but the last four digits of a phone number. Formatting
// characters are preserved so the masked value stays recognisable.
func Mask(number string) string {
	digits := 0
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits <= 4 {
		return number
	}

	toMask := digits - 4
	var b strings.Builder
	b.Grow(len(number))
	for _, r := range number {
		if r >= '0' && r <= '9' && toMask > 0 {
			b.WriteRune(maskRune)
			toMask--
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Valid reports whether a number looks dialable: at least seven digits,
// optionally prefixed with +, with common separators tolerated.
func Valid(number string) bool {
	digits := 0
	for i, r := range number {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}
