package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)
var separatorRegex = regexp.MustCompile(`[\s._/-]+`)
var bracketRegex = regexp.MustCompile(`\[[^\]]*\]`)

// CollapseWhitespace trims a string and squashes internal whitespace
// runs into single spaces.
func CollapseWhitespace(s string) string {
	s = strings.Trim(s, " \n\t")
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// CollapseSeparators lowercases a string and squashes separator
// punctuation (whitespace, dots, underscores, slashes, hyphens) into
// single spaces. Used to compare brand spellings.
func CollapseSeparators(s string) string {
	s = strings.ToLower(s)
	s = separatorRegex.ReplaceAllString(s, " ")
	return strings.Trim(s, " ")
}

// StripBrackets removes bracketed annotation runs, e.g. "[무료배송]" or
// internal SKU tags, from product names.
func StripBrackets(s string) string {
	return bracketRegex.ReplaceAllString(s, " ")
}

// HasHangul reports whether the string contains at least one Hangul
// syllable.
func HasHangul(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Hangul, r) {
			return true
		}
	}
	return false
}
