// Package htmltext lists the human-readable text of an HTML document.
package htmltext

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Segments returns the whitespace-normalized text nodes of doc that contain at
// least one letter, in document order. Script and style bodies are ignored.
// Entity references are decoded.
func Segments(doc string) []string {
	z := html.NewTokenizer(strings.NewReader(doc))
	var out []string
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return out
		case html.StartTagToken:
			if isRawText(z) {
				skip++
			}
		case html.EndTagToken:
			if isRawText(z) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			text := strings.Join(strings.Fields(string(z.Text())), " ")
			if hasLetter(text) {
				out = append(out, text)
			}
		}
	}
}

func isRawText(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch atom.Lookup(name) {
	case atom.Script, atom.Style, atom.Noscript, atom.Template:
		return true
	}
	return false
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// Untranslated returns the distinct text segments of page that also occur
// unchanged in template, in page order.
func Untranslated(template, page string) []string {
	source := make(map[string]struct{})
	for _, s := range Segments(template) {
		source[s] = struct{}{}
	}
	seen := make(map[string]struct{})
	var out []string
	for _, s := range Segments(page) {
		if _, ok := source[s]; !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
