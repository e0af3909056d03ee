// Package htmlentity converts between literal characters and HTML 4 named
// character references (é ↔ &eacute;).
//
// Encode leaves existing references alone, so it is idempotent, and it never
// touches text containing a URL.
package htmlentity

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var urlPattern = regexp.MustCompile(`http[s]?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\\(\\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)

// ContainsURL reports whether text contains an http or https URL.
func ContainsURL(text string) bool {
	return urlPattern.MatchString(text)
}

// Encode replaces every character that has a named entity with that entity.
// Text containing a URL is returned unchanged.
func Encode(text string) string {
	if text == "" || ContainsURL(text) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		if text[i] == '&' {
			if n := referenceLen(text[i:]); n > 0 {
				b.WriteString(text[i : i+n])
				i += n
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		if r != utf8.RuneError || size > 1 {
			if name, ok := codepoints[r]; ok {
				b.WriteByte('&')
				b.WriteString(name)
				b.WriteByte(';')
				i += size
				continue
			}
		}
		b.WriteString(text[i : i+size])
		i += size
	}
	return b.String()
}

// Decode replaces every known named reference with its character. Unknown or
// unterminated references are kept verbatim.
func Decode(text string) string {
	if !strings.Contains(text, "&") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		if text[i] == '&' {
			if n := referenceLen(text[i:]); n > 0 {
				b.WriteRune(names[text[i+1:i+n-1]])
				i += n
				continue
			}
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}

// referenceLen returns the byte length of the named reference at the start of s
// ("&name;"), or 0 when s does not start with one from the table.
func referenceLen(s string) int {
	end := 1
	for end < len(s) && isNameByte(s[end]) {
		end++
	}
	if end == 1 || end >= len(s) || s[end] != ';' {
		return 0
	}
	if _, ok := names[s[1:end]]; !ok {
		return 0
	}
	return end + 1
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
