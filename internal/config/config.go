package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"weblocalizer/internal/domain/entities"
	"weblocalizer/pkg/substitute"
	"weblocalizer/pkg/tz"
)

type DiscordConfig struct {
	Token     string `env:"TOKEN" toml:"token" yaml:"token"`
	ChannelID string `env:"CHANNEL_ID" toml:"channel_id" yaml:"channel_id"`
}

// Enabled reports whether archives should be sent to Discord.
func (d DiscordConfig) Enabled() bool {
	return strings.TrimSpace(d.Token) != "" && strings.TrimSpace(d.ChannelID) != ""
}

type Config struct {
	File string `env:"LOCALIZER_CONFIG" toml:"-" yaml:"-"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info" toml:"log_level" yaml:"log_level"`
	Locale   string `env:"LOCALIZER_LOCALE" envDefault:"en" toml:"locale" yaml:"locale"`
	Timezone string `env:"LOCALIZER_TIMEZONE" envDefault:"Europe/Paris" toml:"timezone" yaml:"timezone"`

	WorkDir       string   `env:"LOCALIZER_WORKDIR" envDefault:"." toml:"workdir" yaml:"workdir"`
	Workbook      string   `env:"LOCALIZER_WORKBOOK" toml:"workbook" yaml:"workbook"`
	Template      string   `env:"LOCALIZER_TEMPLATE" toml:"template" yaml:"template"`
	Fragments     string   `env:"LOCALIZER_FRAGMENTS" toml:"fragments" yaml:"fragments"`
	Images        string   `env:"LOCALIZER_IMAGES" toml:"images" yaml:"images"`
	LanguagesFile string   `env:"LOCALIZER_LANGUAGES_FILE" toml:"languages_file" yaml:"languages_file"`
	Languages     []string `env:"LOCALIZER_LANGUAGES" envSeparator:"," toml:"languages" yaml:"languages"`
	BaseLanguage  string   `env:"LOCALIZER_BASE_LANGUAGE" toml:"base_language" yaml:"base_language"`

	ExcludeSheet     string `env:"LOCALIZER_EXCLUDE_SHEET" envDefault:"BALISES" toml:"exclude_sheet" yaml:"exclude_sheet"`
	HeaderSearchRows int    `env:"LOCALIZER_HEADER_SEARCH_ROWS" envDefault:"10" toml:"header_search_rows" yaml:"header_search_rows"`
	Mode             string `env:"LOCALIZER_MODE" envDefault:"single-pass" toml:"mode" yaml:"mode"`

	HTTPAddr     string `env:"LOCALIZER_HTTP_ADDR" envDefault:":8080" toml:"http_addr" yaml:"http_addr"`
	MaxUploadMiB int64  `env:"LOCALIZER_MAX_UPLOAD_MIB" envDefault:"64" toml:"max_upload_mib" yaml:"max_upload_mib"`

	Discord DiscordConfig `envPrefix:"LOCALIZER_DISCORD_" toml:"discord" yaml:"discord"`
}

// Load reads .env, then the environment, then the LOCALIZER_CONFIG file when
// set, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	if cfg.File != "" {
		if err := cfg.LoadFile(cfg.File); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays a TOML or YAML file. Keys absent from the file keep their
// current value.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		return fmt.Errorf("config: %s: unsupported file type %q", path, ext)
	}
	if err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	return nil
}

// Validate checks the settings shared by every command.
func (c *Config) Validate() error {
	if _, err := substitute.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("config: LOCALIZER_MODE: %w", err)
	}
	if _, err := tz.Load(c.Timezone); err != nil {
		return fmt.Errorf("config: LOCALIZER_TIMEZONE: %w", err)
	}
	if c.HeaderSearchRows <= 0 {
		return fmt.Errorf("config: LOCALIZER_HEADER_SEARCH_ROWS must be positive (%d)", c.HeaderSearchRows)
	}
	if c.MaxUploadMiB <= 0 {
		return fmt.Errorf("config: LOCALIZER_MAX_UPLOAD_MIB must be positive (%d)", c.MaxUploadMiB)
	}
	if strings.TrimSpace(c.WorkDir) == "" {
		c.WorkDir = "."
	}
	if id := strings.TrimSpace(c.Discord.ChannelID); id != "" {
		for _, r := range id {
			if r < '0' || r > '9' {
				return errors.New("config: LOCALIZER_DISCORD_CHANNEL_ID must be a numeric Discord channel ID")
			}
		}
	}
	if (strings.TrimSpace(c.Discord.Token) == "") != (strings.TrimSpace(c.Discord.ChannelID) == "") {
		return errors.New("config: LOCALIZER_DISCORD_TOKEN and LOCALIZER_DISCORD_CHANNEL_ID must be set together")
	}
	return nil
}

// RunConfig builds the run description for languages, which the caller has
// already resolved from Languages or LanguagesFile.
func (c *Config) RunConfig(languages []string) (entities.RunConfig, error) {
	required := map[string]string{
		"workbook":  c.Workbook,
		"template":  c.Template,
		"fragments": c.Fragments,
		"images":    c.Images,
		"base":      c.BaseLanguage,
	}
	var missing []string
	for _, name := range []string{"workbook", "template", "fragments", "images", "base"} {
		if strings.TrimSpace(required[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return entities.RunConfig{}, fmt.Errorf("config: missing %s", strings.Join(missing, ", "))
	}

	rc, err := c.RunDefaults()
	if err != nil {
		return entities.RunConfig{}, err
	}
	rc.Layout = entities.NewLayout(c.WorkDir)
	rc.ArchivePath = rc.Layout.ArchivePath()
	rc.WorkbookPath = c.Workbook
	rc.TemplatePath = c.Template
	rc.FragmentsPath = c.Fragments
	rc.ImagesPath = c.Images
	rc.Languages = languages
	return rc, nil
}

// RunDefaults returns the settings shared by every run: markers, sheet
// handling, mode, report locale and zone. Inputs and layout are left empty.
func (c *Config) RunDefaults() (entities.RunConfig, error) {
	mode, err := substitute.ParseMode(c.Mode)
	if err != nil {
		return entities.RunConfig{}, err
	}
	loc, err := tz.Load(c.Timezone)
	if err != nil {
		return entities.RunConfig{}, err
	}
	return entities.RunConfig{
		Languages:        c.Languages,
		BaseLanguage:     strings.TrimSpace(c.BaseLanguage),
		HeaderMarker:     entities.HeaderMarker,
		FooterMarker:     entities.FooterMarker,
		ExcludeSheet:     c.ExcludeSheet,
		HeaderSearchRows: c.HeaderSearchRows,
		Sequential:       mode == substitute.Sequential,
		ReportLocale:     c.Locale,
		ReportLocation:   loc,
	}, nil
}
