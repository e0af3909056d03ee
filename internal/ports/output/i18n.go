package output

// T exposes a minimal i18n contract for the tool's own messages (CLI output,
// report headings, HTTP errors).
type T interface {
	// T renders the message identified by key for the given locale.
	// data is an optional map used for template placeholders (may be nil).
	T(locale, key string, data map[string]any) string
}
