package report

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"go.uber.org/zap"

	"weblocalizer/internal/domain/entities"
	"weblocalizer/internal/ports/output"
	"weblocalizer/pkg/substitute"
	"weblocalizer/pkg/tz"
)

const (
	MarkdownName = "REPORT.md"
	HTMLName     = "report.html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

func newPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3")
	policy.AllowAttrs("align").OnElements("th", "td")
	return policy
}

var _ output.ReportWriter = (*Writer)(nil)

// Writer renders the run summary as Markdown and as sanitized HTML.
type Writer struct {
	translator output.T
	policy     *bluemonday.Policy
	logger     *zap.Logger
}

func NewWriter(translator output.T, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{
		translator: translator,
		policy:     newPolicy(),
		logger:     logger.Named("report"),
	}
}

// Write stores REPORT.md and report.html in dir and returns the Markdown path.
func (w *Writer) Write(dir string, cfg entities.RunConfig, result *entities.RunResult) (string, error) {
	if result == nil {
		return "", fmt.Errorf("write report: nil result")
	}
	md := w.Markdown(cfg, result)

	var rendered bytes.Buffer
	if err := markdown.Convert([]byte(md), &rendered); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	body := w.policy.SanitizeBytes(rendered.Bytes())

	mdPath := filepath.Join(dir, MarkdownName)
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", mdPath, err)
	}
	htmlPath := filepath.Join(dir, HTMLName)
	page := fmt.Sprintf("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(w.t(cfg, "report.title", nil)), body)
	if err := os.WriteFile(htmlPath, []byte(page), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", htmlPath, err)
	}

	w.logger.Info("report written", zap.String("markdown", mdPath), zap.String("html", htmlPath))
	return mdPath, nil
}

func (w *Writer) t(cfg entities.RunConfig, key string, data map[string]any) string {
	if w.translator == nil {
		return key
	}
	return w.translator.T(cfg.ReportLocale, key, data)
}

// Markdown renders the report body.
func (w *Writer) Markdown(cfg entities.RunConfig, result *entities.RunResult) string {
	mode := substitute.SinglePass
	if cfg.Sequential {
		mode = substitute.Sequential
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", w.t(cfg, "report.title", nil))
	fmt.Fprintf(&b, "%s\n\n", w.t(cfg, "report.run", map[string]any{
		"Started":  tz.Stamp(result.StartedAt, cfg.ReportLocation),
		"Finished": tz.Stamp(result.FinishedAt, cfg.ReportLocation),
	}))
	fmt.Fprintf(&b, "%s\n\n", w.t(cfg, "report.base", map[string]any{
		"Base": escape(cfg.BaseLanguage),
		"Mode": mode.String(),
	}))

	fmt.Fprintf(&b, "## %s\n\n", w.t(cfg, "report.summary", nil))
	cols := []string{
		w.t(cfg, "report.col.language", nil),
		w.t(cfg, "report.col.entries", nil),
		w.t(cfg, "report.col.matched", nil),
		w.t(cfg, "report.col.unmatched", nil),
		w.t(cfg, "report.col.untranslated", nil),
		w.t(cfg, "report.col.encoded", nil),
		w.t(cfg, "report.col.failed", nil),
		w.t(cfg, "report.col.fragments", nil),
	}
	b.WriteString("| " + strings.Join(cols, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(cols)) + "\n")
	for _, lang := range result.Languages {
		merged := w.t(cfg, "report.no", nil)
		if lang.FragmentMerged {
			merged = w.t(cfg, "report.yes", nil)
		}
		cells := []string{
			escape(lang.Language),
			strconv.Itoa(lang.Entries),
			strconv.Itoa(lang.MatchedKeys),
			strconv.Itoa(len(lang.UnmatchedKeys)),
			strconv.Itoa(len(lang.Untranslated)),
			strconv.Itoa(lang.EncodedCells),
			strconv.Itoa(lang.FailedCells),
			merged,
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	b.WriteString("\n")

	for _, lang := range result.Languages {
		fmt.Fprintf(&b, "## %s\n\n", escape(lang.Language))
		fmt.Fprintf(&b, "### %s\n\n", w.t(cfg, "report.unmatched", nil))
		w.list(&b, cfg, lang.UnmatchedKeys)
		fmt.Fprintf(&b, "### %s\n\n", w.t(cfg, "report.untranslated", nil))
		w.list(&b, cfg, lang.Untranslated)
	}

	fmt.Fprintf(&b, "## %s\n\n", w.t(cfg, "report.placements", nil))
	pages := make([]string, 0, len(result.Placements))
	for _, p := range result.Placements {
		rel, err := filepath.Rel(cfg.Layout.OutputDir, p.Page)
		if err != nil {
			rel = p.Page
		}
		pages = append(pages, filepath.ToSlash(rel))
	}
	w.list(&b, cfg, pages)

	fmt.Fprintf(&b, "## %s\n\n", w.t(cfg, "report.warnings", nil))
	w.list(&b, cfg, result.Warnings)
	return b.String()
}

func (w *Writer) list(b *strings.Builder, cfg entities.RunConfig, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(b, "%s\n\n", w.t(cfg, "report.none", nil))
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", escape(item))
	}
	b.WriteString("\n")
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"|", `\|`,
	"#", `\#`,
	"~", `\~`,
	"\n", " ",
)

func escape(s string) string {
	return mdEscaper.Replace(s)
}
