package i18n

import (
	"embed"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"weblocalizer/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

var catalogs = []string{"active.en.toml", "active.fr.toml"}

var _ output.T = (*Translator)(nil)

// Translator renders the tool's own messages from the embedded catalogs.
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
	logger          *zap.Logger
}

// NewTranslator builds a Translator whose fallback locale is defaultLocale
// (English when it does not parse).
func NewTranslator(defaultLocale string, logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("i18n")

	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range catalogs {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			logger.Error("failed to load message file", zap.String("file", file), zap.Error(err))
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
		logger:          logger,
	}
}

// Languages lists the locales with a loaded catalog.
func (t *Translator) Languages() []language.Tag {
	return t.bundle.LanguageTags()
}

// T renders the message identified by key for locale, falling back to the
// default locale and then to the key itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	languages := []string{}
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, t.defaultLanguage.String())

	localizer := i18n.NewLocalizer(t.bundle, languages...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		t.logger.Warn("localize failed",
			zap.String("key", key),
			zap.Strings("locales", languages),
			zap.Error(err),
		)
		return key
	}
	return msg
}
