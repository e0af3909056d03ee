package application

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"weblocalizer/internal/domain"
	"weblocalizer/internal/domain/entities"
	"weblocalizer/internal/ports/input"
	"weblocalizer/internal/ports/output"
	"weblocalizer/pkg/htmltext"
	"weblocalizer/pkg/sheettext"
	"weblocalizer/pkg/substitute"
)

var _ input.LocalizeUseCase = (*LocalizeService)(nil)

// LocalizePorts groups the adapters a run drives. Publisher and Translator
// are optional.
type LocalizePorts struct {
	Spreadsheets output.Spreadsheets
	Workspace    output.Workspace
	Archiver     output.Archiver
	Assets       output.AssetOrganizer
	Reports      output.ReportWriter
	Publisher    output.Publisher
	Translator   output.T
}

type LocalizeService struct {
	ports  LocalizePorts
	logger *zap.Logger
	now    func() time.Time
}

func NewLocalizeService(ports LocalizePorts, logger *zap.Logger) *LocalizeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalizeService{
		ports:  ports,
		logger: logger.Named("localize"),
		now:    time.Now,
	}
}

// ParseLanguageList reads newline-delimited language codes. Lines are trimmed
// and blank lines dropped.
func ParseLanguageList(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if code := strings.TrimSpace(sc.Text()); code != "" {
			out = append(out, code)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read language list: %w", err)
	}
	return out, nil
}

// ReadLanguageFile is ParseLanguageList over the file at path.
func ReadLanguageFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("language list %s: %w", path, domain.ErrMissingInput)
	}
	defer f.Close()
	return ParseLanguageList(f)
}

// Run executes one localization pass: pair workbooks, encoding, substitution,
// fragment merge, asset organizing, report and archive.
func (s *LocalizeService) Run(ctx context.Context, cfg entities.RunConfig) (*entities.RunResult, error) {
	result := &entities.RunResult{StartedAt: s.now()}
	logger := s.logger.With(zap.String("base", cfg.BaseLanguage), zap.Strings("languages", cfg.Languages))

	if err := s.checkInputs(cfg); err != nil {
		return nil, err
	}
	warn := func(msg string) {
		logger.Warn(msg)
		result.Warnings = append(result.Warnings, msg)
	}

	// Working directories.
	layout := cfg.Layout
	if err := s.ports.Workspace.Recreate(layout.ProcessedDir, layout.HTMLDir, layout.OutputDir); err != nil {
		return nil, fmt.Errorf("prepare workspace: %w", err)
	}
	fragmentsRoot, err := s.resolveInput(cfg.FragmentsPath, layout.FragmentsDir)
	if err != nil {
		return nil, fmt.Errorf("fragments: %w", err)
	}
	imagesRoot, err := s.resolveInput(cfg.ImagesPath, layout.ImagesDir)
	if err != nil {
		return nil, fmt.Errorf("images: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Pair workbooks.
	table, err := s.ports.Spreadsheets.ExtractColumns(cfg.WorkbookPath, cfg.Languages, output.ExtractOptions{
		ExcludeSheet:     cfg.ExcludeSheet,
		HeaderSearchRows: cfg.HeaderSearchRows,
	})
	if err != nil {
		return nil, fmt.Errorf("extract columns: %w", err)
	}
	if !table.Has(cfg.BaseLanguage) {
		return nil, fmt.Errorf("%s: %w", cfg.BaseLanguage, domain.ErrBaseLanguageMissing)
	}
	for _, target := range cfg.Targets() {
		if !table.Has(target) {
			warn(fmt.Sprintf("language %s has no column in the workbook", target))
		}
	}
	for _, pair := range entities.BuildLanguagePairs(table, cfg.BaseLanguage, cfg.Targets()) {
		path, err := s.ports.Spreadsheets.WritePair(layout.ProcessedDir, pair)
		if err != nil {
			return nil, fmt.Errorf("write %s workbook: %w", pair.Target, err)
		}
		result.Languages = append(result.Languages, entities.LanguageResult{
			Language:     pair.Target,
			WorkbookPath: path,
		})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Entity encoding.
	for i := range result.Languages {
		lang := &result.Languages[i]
		stats, err := s.ports.Spreadsheets.EncodeWorkbook(lang.WorkbookPath)
		if err != nil {
			warn(fmt.Sprintf("encoding %s failed: %v", lang.Language, err))
			continue
		}
		lang.EncodedCells = stats.Encoded
		lang.FailedCells = stats.Failed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Substitution.
	template, err := os.ReadFile(cfg.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	mode := substitute.SinglePass
	if cfg.Sequential {
		mode = substitute.Sequential
	}
	engine := substitute.New(mode)
	for i := range result.Languages {
		if err := s.translate(engine, string(template), layout.HTMLDir, &result.Languages[i]); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	// Fragments.
	merged, err := MergeFragments(fragmentsRoot, layout.HTMLDir, layout.OutputDir, cfg.HeaderMarker, cfg.FooterMarker, s.logger)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, merged.Warnings...)
	for i := range result.Languages {
		lang := &result.Languages[i]
		_, lang.FragmentMerged = merged.Pages[filepath.Base(lang.PagePath)]
	}
	if len(merged.Pages) == 0 {
		return nil, domain.ErrNoPagesProduced
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Assets.
	imageDir, err := s.ports.Assets.FindImageDir(imagesRoot)
	if err != nil {
		return nil, err
	}
	placements, err := s.ports.Assets.Organize(layout.OutputDir, imageDir)
	if err != nil {
		return nil, fmt.Errorf("organize assets: %w", err)
	}
	result.Placements = placements
	for i := range result.Languages {
		lang := &result.Languages[i]
		for _, p := range placements {
			if filepath.Base(p.Page) == filepath.Base(lang.PagePath) {
				lang.PagePath = p.Page
			}
		}
	}

	// Report and archive.
	result.FinishedAt = s.now()
	if s.ports.Reports != nil {
		path, err := s.ports.Reports.Write(layout.OutputDir, cfg, result)
		if err != nil {
			warn(fmt.Sprintf("report not written: %v", err))
		} else {
			result.ReportPath = path
		}
	}
	archivePath := cfg.ArchivePath
	if archivePath == "" {
		archivePath = layout.ArchivePath()
	}
	if err := s.ports.Archiver.Pack(layout.OutputDir, archivePath); err != nil {
		return nil, fmt.Errorf("pack archive: %w", err)
	}
	result.ArchivePath = archivePath

	if s.ports.Publisher != nil {
		if err := s.ports.Publisher.Publish(ctx, archivePath, s.publishMessage(cfg, result)); err != nil {
			warn(fmt.Sprintf("archive not published: %v", err))
		} else {
			result.Published = true
		}
	}

	logger.Info("run finished",
		zap.Int("pages", len(result.Placements)),
		zap.Int("warnings", len(result.Warnings)),
		zap.String("archive", archivePath),
		zap.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)),
	)
	return result, nil
}

func (s *LocalizeService) checkInputs(cfg entities.RunConfig) error {
	if len(cfg.Languages) == 0 {
		return domain.ErrNoLanguages
	}
	if strings.TrimSpace(cfg.BaseLanguage) == "" {
		return fmt.Errorf("no base language: %w", domain.ErrBaseLanguageMissing)
	}
	for _, p := range []string{cfg.WorkbookPath, cfg.TemplatePath, cfg.FragmentsPath, cfg.ImagesPath} {
		if p == "" {
			return domain.ErrMissingInput
		}
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("%s: %w", p, domain.ErrMissingInput)
		}
	}
	return nil
}

// resolveInput returns path when it is a directory, or extracts it into dest
// when it is a zip archive.
func (s *LocalizeService) resolveInput(path, dest string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, domain.ErrMissingInput)
	}
	if info.IsDir() {
		return path, nil
	}
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return "", fmt.Errorf("%s is neither a directory nor a zip archive: %w", path, domain.ErrMissingInput)
	}
	if err := s.ports.Workspace.Recreate(dest); err != nil {
		return "", err
	}
	if err := s.ports.Archiver.Extract(path, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func (s *LocalizeService) translate(engine *substitute.Engine, template, htmlDir string, lang *entities.LanguageResult) error {
	text, err := s.ports.Spreadsheets.RenderRows(lang.WorkbookPath)
	if err != nil {
		return fmt.Errorf("render %s rows: %w", lang.Language, err)
	}
	dict := sheettext.Parse(text)
	res, err := engine.Apply(template, dict)
	if err != nil {
		return fmt.Errorf("substitute %s: %w", lang.Language, err)
	}

	page := filepath.Join(htmlDir, lang.Language+".html")
	if err := os.WriteFile(page, []byte(res.Document), 0o644); err != nil {
		return fmt.Errorf("write %s page: %w", lang.Language, err)
	}
	lang.PagePath = page
	lang.Entries = dict.Len()
	for _, n := range res.Matches {
		if n > 0 {
			lang.MatchedKeys++
		}
	}
	lang.UnmatchedKeys = res.Unmatched(dict)
	lang.Untranslated = htmltext.Untranslated(template, res.Document)

	s.logger.Info("page substituted",
		zap.String("language", lang.Language),
		zap.String("mode", engine.Mode().String()),
		zap.Int("entries", lang.Entries),
		zap.Int("matched", lang.MatchedKeys),
		zap.Int("untranslated", len(lang.Untranslated)),
	)
	return nil
}

func (s *LocalizeService) publishMessage(cfg entities.RunConfig, result *entities.RunResult) string {
	langs := make([]string, 0, len(result.Languages))
	for _, l := range result.Languages {
		if l.FragmentMerged {
			langs = append(langs, l.Language)
		}
	}
	data := map[string]any{
		"Pages":     len(result.Placements),
		"Languages": strings.Join(langs, ", "),
		"Archive":   filepath.Base(result.ArchivePath),
	}
	if s.ports.Translator == nil {
		return fmt.Sprintf("%d page(s): %s", data["Pages"], data["Languages"])
	}
	return s.ports.Translator.T(cfg.ReportLocale, "publish.message", data)
}
