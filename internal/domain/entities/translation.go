package entities

import (
	"sort"
	"unicode/utf8"
)

// TranslationEntry is one key → translated value pair. Keys are the
// whitespace-normalized base-language text of a row.
type TranslationEntry struct {
	Key   string
	Value string
}

// Dictionary is an insertion-ordered key → value mapping. Setting an existing key
// overwrites its value and keeps its original position.
type Dictionary struct {
	keys   []string
	values map[string]string
}

// NewDictionary returns an empty Dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{values: map[string]string{}}
}

// Set stores value under key; the last write wins.
func (d *Dictionary) Set(key, value string) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Get returns the value stored under key.
func (d *Dictionary) Get(key string) (string, bool) {
	if d == nil {
		return "", false
	}
	v, ok := d.values[key]
	return v, ok
}

// Len returns the number of distinct keys.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Entries returns the entries in insertion order.
func (d *Dictionary) Entries() []TranslationEntry {
	if d == nil {
		return nil
	}
	out := make([]TranslationEntry, 0, len(d.keys))
	for _, k := range d.keys {
		out = append(out, TranslationEntry{Key: k, Value: d.values[k]})
	}
	return out
}

// ByLengthDesc returns the entries ordered by descending key length in runes.
// Keys of equal length keep their insertion order.
func (d *Dictionary) ByLengthDesc() []TranslationEntry {
	entries := d.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return utf8.RuneCountInString(entries[i].Key) > utf8.RuneCountInString(entries[j].Key)
	})
	return entries
}

// Map returns a copy of the dictionary as a plain map.
func (d *Dictionary) Map() map[string]string {
	out := make(map[string]string, d.Len())
	if d == nil {
		return out
	}
	for k, v := range d.values {
		out[k] = v
	}
	return out
}
