// Package substitute replaces dictionary keys found in an HTML document with
// their translations. Matching is textual: case-insensitive, and a space in a
// key matches any run of whitespace, no whitespace at all, or &nbsp;.
//
// The document is treated as plain text, not parsed. A key may therefore match
// inside attributes or across inline markup boundaries that happen to be
// whitespace only.
package substitute

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"weblocalizer/internal/domain/entities"
)

// Mode selects how keys are applied.
type Mode int

const (
	// SinglePass matches every key against the original document, longest
	// first; where matches overlap the longer key keeps its span. Inserted
	// values are never scanned again.
	SinglePass Mode = iota
	// Sequential applies one global replacement per key, longest first, each
	// over the output of the previous one. A value inserted for one key can be
	// rewritten by a later, shorter key.
	Sequential
)

func (m Mode) String() string {
	switch m {
	case SinglePass:
		return "single-pass"
	case Sequential:
		return "sequential"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps "single-pass" and "sequential" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single-pass", "singlepass":
		return SinglePass, nil
	case "sequential", "legacy":
		return Sequential, nil
	default:
		return SinglePass, fmt.Errorf("substitute: unknown mode %q", s)
	}
}

const (
	nbsp = "&nbsp;"
	// whitespace mirrors Unicode whitespace: ASCII \s plus \v, the information
	// separators, NEL and every space separator.
	whitespace = `[\s\x{0b}\x{1c}-\x{1f}\x{85}\p{Z}]`
	gap        = `(?:` + whitespace + `*|&nbsp;)`
)

// Result is the substituted document and how often each key matched.
type Result struct {
	Document string
	Matches  map[string]int
}

// Unmatched returns the keys of dict that never matched, in dictionary order.
func (r Result) Unmatched(dict *entities.Dictionary) []string {
	var out []string
	for _, e := range dict.Entries() {
		if strings.TrimSpace(e.Key) == "" {
			continue
		}
		if r.Matches[e.Key] == 0 {
			out = append(out, e.Key)
		}
	}
	return out
}

// Engine applies dictionaries to documents.
type Engine struct {
	mode Mode
}

// New returns an Engine using mode.
func New(mode Mode) *Engine {
	return &Engine{mode: mode}
}

// Mode returns the engine's replacement mode.
func (e *Engine) Mode() Mode { return e.mode }

// Pattern returns the regular expression source matching key.
func Pattern(key string) string {
	parts := strings.Split(key, " ")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return strings.Join(parts, gap)
}

// Apply returns doc with every key of dict replaced by its value. Values are
// inserted literally.
func (e *Engine) Apply(doc string, dict *entities.Dictionary) (Result, error) {
	var entries []entities.TranslationEntry
	for _, entry := range dict.ByLengthDesc() {
		if strings.TrimSpace(entry.Key) != "" {
			entries = append(entries, entry)
		}
	}
	res := Result{Document: doc, Matches: make(map[string]int, len(entries))}
	if len(entries) == 0 {
		return res, nil
	}
	if e.mode == Sequential {
		return e.applySequential(res, entries)
	}
	return e.applySinglePass(res, entries)
}

func (e *Engine) applySequential(res Result, entries []entities.TranslationEntry) (Result, error) {
	content := res.Document
	for _, entry := range entries {
		re, err := regexp.Compile(`(?i)` + Pattern(entry.Key))
		if err != nil {
			return Result{}, fmt.Errorf("substitute: compile %q: %w", entry.Key, err)
		}
		content = strings.ReplaceAll(content, nbsp, " ")
		n := len(re.FindAllStringIndex(content, -1))
		if n == 0 {
			continue
		}
		res.Matches[entry.Key] += n
		content = re.ReplaceAllLiteralString(content, entry.Value)
	}
	res.Document = content
	return res, nil
}

// applySinglePass claims spans key by key, longest first. A span that
// overlaps one already claimed is dropped, so a longer key beats a shorter one
// wherever they overlap. Values are spliced in by position afterwards and never
// scanned.
func (e *Engine) applySinglePass(res Result, entries []entities.TranslationEntry) (Result, error) {
	content := strings.ReplaceAll(res.Document, nbsp, " ")
	folded := foldCase(content)

	var claimed []span
	for i, entry := range entries {
		if !mayMatch(folded, entry.Key) {
			continue
		}
		re, err := regexp.Compile(`(?i)` + Pattern(entry.Key))
		if err != nil {
			return Result{}, fmt.Errorf("substitute: compile %q: %w", entry.Key, err)
		}
		for _, m := range re.FindAllStringIndex(content, -1) {
			if m[0] == m[1] {
				continue
			}
			var ok bool
			if claimed, ok = claim(claimed, span{start: m[0], end: m[1], entry: i}); ok {
				res.Matches[entry.Key]++
			}
		}
	}
	if len(claimed) == 0 {
		res.Document = content
		return res, nil
	}

	var b strings.Builder
	b.Grow(len(content))
	last := 0
	for _, sp := range claimed {
		b.WriteString(content[last:sp.start])
		b.WriteString(entries[sp.entry].Value)
		last = sp.end
	}
	b.WriteString(content[last:])
	res.Document = b.String()
	return res, nil
}

type span struct {
	start, end int
	entry      int
}

// claim inserts sp into the sorted, disjoint spans unless it overlaps one of
// them.
func claim(spans []span, sp span) ([]span, bool) {
	i := sort.Search(len(spans), func(i int) bool { return spans[i].end > sp.start })
	if i < len(spans) && spans[i].start < sp.end {
		return spans, false
	}
	spans = append(spans, span{})
	copy(spans[i+1:], spans[i:])
	spans[i] = sp
	return spans, true
}

// mayMatch reports whether the longest word of key occurs in folded. Every
// match of key contains each of its words, so false means no match.
func mayMatch(folded, key string) bool {
	longest := ""
	for _, w := range strings.Split(key, " ") {
		if len(w) > len(longest) {
			longest = w
		}
	}
	return strings.Contains(folded, foldCase(longest))
}

// foldCase maps every rune to the smallest rune of its simple case folding
// orbit, the equivalence (?i) matches with.
func foldCase(s string) string {
	return strings.Map(func(r rune) rune {
		low := r
		for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
			if f < low {
				low = f
			}
		}
		return low
	}, s)
}
