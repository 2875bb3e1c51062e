package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reMultiSpace        = regexp.MustCompile(`\s+`)
	reRegistrationChars = regexp.MustCompile(`[^A-Z0-9]+`)
)

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

func collapseSpaces(s string) string {
	return reMultiSpace.ReplaceAllString(s, " ")
}

// SanitizeText trims free text, replaces control characters and collapses
// runs of whitespace. Case is preserved.
func SanitizeText(input string) string {
	p := Pipeline{
		stripControl,
		collapseSpaces,
		strings.TrimSpace,
	}
	return p.Apply(input)
}

// SanitizeIdentifier upper-cases license and registration numbers and drops
// separators, so "ka-01 ab 1234" and "KA01AB1234" compare equal.
func SanitizeIdentifier(input string) string {
	p := Pipeline{
		strings.TrimSpace,
		strings.ToUpper,
		func(s string) string { return reRegistrationChars.ReplaceAllString(s, "") },
	}
	return p.Apply(input)
}

func SanitizeEmail(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// SanitizeSlice applies strategy to every value, dropping empties and
// duplicates while keeping first-seen order.
func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
