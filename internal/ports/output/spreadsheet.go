package output

import "weblocalizer/internal/domain/entities"

// ExtractOptions controls header detection when collecting language columns.
type ExtractOptions struct {
	ExcludeSheet     string
	HeaderSearchRows int
}

// EncodeStats counts the text cells visited by an entity-encoding pass.
type EncodeStats struct {
	TextCells int
	Encoded   int
	Failed    int
}

// Spreadsheets reads and writes the translation workbooks.
type Spreadsheets interface {
	// ExtractColumns collects every column whose header starts with one of
	// keywords, across all sheets but the excluded one.
	ExtractColumns(path string, keywords []string, opts ExtractOptions) (*entities.ColumnTable, error)
	// WritePair writes pair as <dir>/<target>.xlsx and returns the path.
	WritePair(dir string, pair entities.LanguagePair) (string, error)
	// EncodeWorkbook entity-encodes every text cell in place.
	EncodeWorkbook(path string) (EncodeStats, error)
	// RenderRows renders every data row as "cell : cell" text.
	RenderRows(path string) (string, error)
}
