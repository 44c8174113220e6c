// Package strcase implements the field-name case transforms applied at the
// wire boundary: camelize, dasherize, and underscore.
//
// A name is treated as segments separated by '_' or '-'. A separator only
// counts when it sits between two alphanumeric characters; leading,
// trailing, and doubled separators are preserved literally. All three
// transforms are idempotent.
package strcase

import (
	"strings"
	"unicode"
)

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// bounded reports whether the separator at index i sits between two
// alphanumeric runes.
func bounded(runes []rune, i int) bool {
	if i == 0 || i == len(runes)-1 {
		return false
	}
	return isAlnum(runes[i-1]) && isAlnum(runes[i+1])
}

// Camelize joins separator-bounded segments, lowercasing the first letter
// and capitalizing the letter that starts each subsequent segment.
//
//	Camelize("first_name") == "firstName"
//	Camelize("_private_key") == "_privateKey"
func Camelize(s string) string {
	var result strings.Builder
	runes := []rune(s)

	capitalizeNext := false
	firstLetter := true
	for i, r := range runes {
		if (r == '_' || r == '-') && bounded(runes, i) {
			capitalizeNext = true
			continue
		}
		switch {
		case capitalizeNext:
			result.WriteRune(unicode.ToUpper(r))
			capitalizeNext = false
		case firstLetter && isAlnum(r):
			result.WriteRune(unicode.ToLower(r))
			firstLetter = false
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Dasherize replaces each alphanumeric-bounded underscore with a dash.
//
//	Dasherize("first_name") == "first-name"
func Dasherize(s string) string {
	runes := []rune(s)
	var result strings.Builder
	for i, r := range runes {
		if r == '_' && bounded(runes, i) {
			result.WriteRune('-')
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}

// Underscore replaces each alphanumeric-bounded dash with an underscore,
// inserts an underscore before an uppercase letter that follows a lowercase
// letter, and lowercases the result.
//
//	Underscore("firstName") == "first_name"
//	Underscore("first-name") == "first_name"
func Underscore(s string) string {
	runes := []rune(s)
	var result strings.Builder
	for i, r := range runes {
		if r == '-' && bounded(runes, i) {
			result.WriteRune('_')
			continue
		}
		if unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]) {
			result.WriteRune('_')
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}
