package ir

import (
	"unicode"
	"unicode/utf8"
)

// Decapitalize lower-cases the first character of s, following the
// JavaBeans convention: when the first two characters are both upper case
// the string is returned unchanged ("URL" stays "URL").
func Decapitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	if size < len(s) {
		second, _ := utf8.DecodeRuneInString(s[size:])
		if unicode.IsUpper(first) && unicode.IsUpper(second) {
			return s
		}
	}
	return string(unicode.ToLower(first)) + s[size:]
}

// Capitalize upper-cases the first character of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + s[size:]
}
