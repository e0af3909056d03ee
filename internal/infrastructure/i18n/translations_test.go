package i18n

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestTranslatorLocales(t *testing.T) {
	t.Parallel()

	tr := NewTranslator("en", nil)
	require.ElementsMatch(t, []language.Tag{language.English, language.French}, tr.Languages())

	require.Equal(t, "Localization report", tr.T("", "report.title", nil))
	require.Equal(t, "Rapport de localisation", tr.T("fr", "report.title", nil))
	require.Equal(t, "Rapport de localisation", tr.T("fr-CA", "report.title", nil))
}

func TestTranslatorFallbacks(t *testing.T) {
	t.Parallel()

	tr := NewTranslator("not a locale", nil)
	require.Equal(t, "Localization report", tr.T("de", "report.title", nil))
	require.Equal(t, "missing.key", tr.T("fr", "missing.key", nil))
	require.Empty(t, tr.T("fr", "", nil))
}

func TestTranslatorTemplateData(t *testing.T) {
	t.Parallel()

	tr := NewTranslator("fr", nil)
	require.Equal(t, "Échec de l'exécution : boom", tr.T("", "cli.run.failed", map[string]any{"Reason": "boom"}))
	require.Equal(t, "Run failed: boom", tr.T("en", "cli.run.failed", map[string]any{"Reason": "boom"}))
}

func TestEveryErrorCodeHasAMessage(t *testing.T) {
	t.Parallel()

	tr := NewTranslator("en", nil)
	for _, code := range []string{
		"missing_input", "no_languages", "base_language_missing", "no_header_row", "no_images",
		"destination_exists", "invalid_archive_path", "no_pages_produced", "publisher_disabled", "internal",
	} {
		key := "error." + code
		require.NotEqual(t, key, tr.T("en", key, nil))
		require.NotEqual(t, key, tr.T("fr", key, nil))
	}
}
