// Package cli parses the localizer commands and wires the adapters.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"weblocalizer/internal/adapters/discord"
	"weblocalizer/internal/adapters/httpapi"
	"weblocalizer/internal/application"
	"weblocalizer/internal/config"
	"weblocalizer/internal/domain"
	"weblocalizer/internal/infrastructure/archive"
	"weblocalizer/internal/infrastructure/assets"
	"weblocalizer/internal/infrastructure/i18n"
	"weblocalizer/internal/infrastructure/logging"
	"weblocalizer/internal/infrastructure/report"
	"weblocalizer/internal/infrastructure/spreadsheet"
	"weblocalizer/internal/infrastructure/workspace"
	"weblocalizer/pkg/tz"
)

const shutdownTimeout = 10 * time.Second

const usage = `usage: localizer <command> [flags]

commands:
  run    localize the workbook once and write the archive
  serve  accept runs over HTTP`

// Main dispatches args (without the program name) and returns the exit code.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, usage)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	switch args[0] {
	case "run":
		bindRunFlags(fs, cfg)
	case "serve":
		bindServeFlags(fs, cfg)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s\n", args[0], usage)
		return 2
	}
	if err := ParseArgs(fs, args[1:], cfg); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	ctx = logging.WithLogger(ctx, logger)

	translator := i18n.NewTranslator(cfg.Locale, logger)
	service, err := newService(cfg, translator, logger)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if args[0] == "serve" {
		err = serve(ctx, cfg, service, translator, logger, stdout)
	} else {
		err = runOnce(ctx, cfg, service, translator, stdout)
	}
	if err != nil {
		fmt.Fprintln(stderr, translator.T(cfg.Locale, "cli.run.failed", map[string]any{"Reason": describe(translator, cfg.Locale, err)}))
		return 1
	}
	return 0
}

func bindCommonFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.WorkDir, "workdir", cfg.WorkDir, "directory holding the run's working trees")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "language of messages and reports")
	fs.StringVar(&cfg.Timezone, "timezone", cfg.Timezone, "IANA zone for report timestamps")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "substitution mode: single-pass or legacy")
	fs.StringVar(&cfg.ExcludeSheet, "exclude-sheet", cfg.ExcludeSheet, "worksheet ignored during column extraction")
	fs.IntVar(&cfg.HeaderSearchRows, "header-rows", cfg.HeaderSearchRows, "rows scanned for the language header")
	fs.StringVar(&cfg.BaseLanguage, "base", cfg.BaseLanguage, "base language column")
	fs.Func("languages", "comma separated language codes", func(v string) error {
		cfg.Languages = splitList(v)
		return nil
	})
}

func bindRunFlags(fs *flag.FlagSet, cfg *config.Config) {
	bindCommonFlags(fs, cfg)
	fs.StringVar(&cfg.Workbook, "workbook", cfg.Workbook, "master translation workbook (.xlsx)")
	fs.StringVar(&cfg.Template, "template", cfg.Template, "HTML template in the base language")
	fs.StringVar(&cfg.Fragments, "fragments", cfg.Fragments, "header/footer directory or .zip")
	fs.StringVar(&cfg.Images, "images", cfg.Images, "image directory or .zip")
	fs.StringVar(&cfg.LanguagesFile, "languages-file", cfg.LanguagesFile, "file listing one language per line")
}

func bindServeFlags(fs *flag.FlagSet, cfg *config.Config) {
	bindCommonFlags(fs, cfg)
	fs.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "listen address")
	fs.Int64Var(&cfg.MaxUploadMiB, "max-upload-mib", cfg.MaxUploadMiB, "request body limit in MiB")
}

// ParseArgs parses flags over the loaded configuration and validates the
// result.
func ParseArgs(fs *flag.FlagSet, args []string, cfg *config.Config) error {
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return cfg.Validate()
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func newService(cfg *config.Config, translator *i18n.Translator, logger *zap.Logger) (*application.LocalizeService, error) {
	ports := application.LocalizePorts{
		Spreadsheets: spreadsheet.NewStore(logger),
		Workspace:    workspace.New(logger),
		Archiver:     archive.NewZip(logger),
		Assets:       assets.NewOrganizer(logger),
		Reports:      report.NewWriter(translator, logger),
		Translator:   translator,
	}
	if cfg.Discord.Enabled() {
		loc, err := tz.Load(cfg.Timezone)
		if err != nil {
			return nil, err
		}
		publisher, err := discord.NewPublisher(cfg.Discord, loc, logger)
		if err != nil {
			return nil, err
		}
		ports.Publisher = publisher
	} else {
		logger.Debug("discord publishing disabled")
	}
	return application.NewLocalizeService(ports, logger), nil
}

// resolveLanguages prefers the languages file over the inline list.
func resolveLanguages(cfg *config.Config) ([]string, error) {
	if cfg.LanguagesFile != "" {
		return application.ReadLanguageFile(cfg.LanguagesFile)
	}
	return cfg.Languages, nil
}

func runOnce(ctx context.Context, cfg *config.Config, service *application.LocalizeService, translator *i18n.Translator, stdout io.Writer) error {
	languages, err := resolveLanguages(cfg)
	if err != nil {
		return err
	}
	runCfg, err := cfg.RunConfig(languages)
	if err != nil {
		return err
	}
	result, err := service.Run(ctx, runCfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, translator.T(cfg.Locale, "cli.run.done", map[string]any{
		"Pages":   len(result.Placements),
		"Archive": result.ArchivePath,
	}))
	if result.ReportPath != "" {
		fmt.Fprintln(stdout, translator.T(cfg.Locale, "cli.run.report", map[string]any{"Report": result.ReportPath}))
	}
	if result.Published {
		fmt.Fprintln(stdout, translator.T(cfg.Locale, "cli.run.published", nil))
	}
	return nil
}

func serve(ctx context.Context, cfg *config.Config, service *application.LocalizeService, translator *i18n.Translator, logger *zap.Logger, stdout io.Writer) error {
	defaults, err := cfg.RunDefaults()
	if err != nil {
		return err
	}
	api := httpapi.NewServer(service, translator, logger, httpapi.Options{
		WorkRoot:  filepath.Join(cfg.WorkDir, "runs"),
		MaxUpload: cfg.MaxUploadMiB << 20,
		Defaults:  defaults,
	})
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Fprintln(stdout, translator.T(cfg.Locale, "cli.serve.listening", map[string]any{"Addr": cfg.HTTPAddr}))
	logger.Info("http server started", zap.String("addr", cfg.HTTPAddr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("http server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// describe renders err through the message catalog when it carries a domain
// code.
func describe(translator *i18n.Translator, locale string, err error) string {
	if code := domain.Code(err); code != "" {
		return translator.T(locale, "error."+code, nil) + " (" + err.Error() + ")"
	}
	return err.Error()
}
