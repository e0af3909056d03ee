package entities

import (
	"path/filepath"
	"time"
)

// FragmentMarker is a pair of literal delimiters bounding a region of a page.
type FragmentMarker struct {
	Start string
	End   string
}

// Default header and footer markers used by the per-language fragment pages.
var (
	HeaderMarker = FragmentMarker{Start: "<!--Header Code Start-->", End: "<!--Header Code End-->"}
	FooterMarker = FragmentMarker{Start: "<!--Footer Code Start-->", End: "<!--Footer Code End-->"}
)

// Layout names the working directories owned by a run. All of them are wiped
// when the run starts.
type Layout struct {
	ProcessedDir string // per-language pair workbooks
	HTMLDir      string // substituted pages before fragment merge
	OutputDir    string // final organized tree
	FragmentsDir string // unpacked header/footer archive
	ImagesDir    string // unpacked image archive
}

// NewLayout returns the conventional directory names under root.
func NewLayout(root string) Layout {
	return Layout{
		ProcessedDir: filepath.Join(root, "processed_excel_files"),
		HTMLDir:      filepath.Join(root, "html"),
		OutputDir:    filepath.Join(root, "Translated_Files"),
		FragmentsDir: filepath.Join(root, "Header_and_Footer"),
		ImagesDir:    filepath.Join(root, "images"),
	}
}

// ArchivePath is the zip written next to the output directory.
func (l Layout) ArchivePath() string {
	return filepath.Clean(l.OutputDir) + ".zip"
}

// RunConfig carries everything a run needs. Components receive it explicitly.
type RunConfig struct {
	WorkbookPath  string
	TemplatePath  string
	FragmentsPath string // directory or .zip
	ImagesPath    string // directory or .zip
	ArchivePath   string

	Languages    []string
	BaseLanguage string

	Layout Layout

	HeaderMarker FragmentMarker
	FooterMarker FragmentMarker

	ExcludeSheet     string
	HeaderSearchRows int
	Sequential       bool // legacy key-by-key replacement

	ReportLocale   string
	ReportLocation *time.Location
}

// Targets returns the languages other than the base language, in order.
func (c RunConfig) Targets() []string {
	out := make([]string, 0, len(c.Languages))
	for _, l := range c.Languages {
		if l != c.BaseLanguage {
			out = append(out, l)
		}
	}
	return out
}

// Placement records where an organized page ended up.
type Placement struct {
	Page      string
	Dir       string
	ImagesDir string
}

// LanguageResult summarizes the substitution of one target language.
type LanguageResult struct {
	Language       string
	WorkbookPath   string
	PagePath       string
	Entries        int
	MatchedKeys    int
	UnmatchedKeys  []string
	Untranslated   []string
	EncodedCells   int
	FailedCells    int
	FragmentMerged bool
}

// RunResult is returned by a completed run.
type RunResult struct {
	StartedAt   time.Time
	FinishedAt  time.Time
	Languages   []LanguageResult
	Placements  []Placement
	Warnings    []string
	ReportPath  string
	ArchivePath string
	Published   bool
}

// Language returns the result for lang, if any.
func (r *RunResult) Language(lang string) *LanguageResult {
	for i := range r.Languages {
		if r.Languages[i].Language == lang {
			return &r.Languages[i]
		}
	}
	return nil
}
