package spreadsheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"weblocalizer/internal/domain"
	"weblocalizer/internal/domain/entities"
	"weblocalizer/internal/ports/output"
	"weblocalizer/pkg/htmlentity"
	"weblocalizer/pkg/sheettext"
)

const (
	// DefaultExcludeSheet is the tag sheet skipped during column extraction.
	DefaultExcludeSheet = "BALISES"
	// DefaultHeaderSearchRows is how many leading rows are scanned for headers.
	DefaultHeaderSearchRows = 10
)

var _ output.Spreadsheets = (*Store)(nil)

// Store is the excelize-backed workbook adapter.
type Store struct {
	logger *zap.Logger
}

// NewStore returns a Store logging under the "spreadsheet" name.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{logger: logger.Named("spreadsheet")}
}

func (s *Store) readSheets(path string) ([]sheettext.Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	var sheets []sheettext.Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		sheets = append(sheets, sheettext.Sheet{Name: name, Rows: rows})
	}
	return sheets, nil
}

// RenderRows renders every sheet of the workbook at path as key : value text.
func (s *Store) RenderRows(path string) (string, error) {
	sheets, err := s.readSheets(path)
	if err != nil {
		return "", err
	}
	s.logger.Debug("rendered workbook rows", zap.String("path", path), zap.Int("sheets", len(sheets)))
	return sheettext.Render(sheets), nil
}

// ExtractColumns collects the columns whose header starts with one of
// keywords, across every sheet except opts.ExcludeSheet.
func (s *Store) ExtractColumns(path string, keywords []string, opts output.ExtractOptions) (*entities.ColumnTable, error) {
	if len(keywords) == 0 {
		return nil, domain.ErrNoLanguages
	}
	if opts.HeaderSearchRows <= 0 {
		opts.HeaderSearchRows = DefaultHeaderSearchRows
	}
	sheets, err := s.readSheets(path)
	if err != nil {
		return nil, err
	}

	table := entities.NewColumnTable()
	for _, sheet := range sheets {
		if opts.ExcludeSheet != "" && sheet.Name == opts.ExcludeSheet {
			s.logger.Info("skipping excluded sheet", zap.String("sheet", sheet.Name))
			continue
		}
		headerRow := findHeaderRow(sheet.Rows, keywords, opts.HeaderSearchRows)
		if headerRow < 0 {
			s.logger.Warn("no header row found, skipping sheet",
				zap.String("sheet", sheet.Name),
				zap.Int("search_rows", opts.HeaderSearchRows),
			)
			continue
		}

		rowIndex := make([]int, 0, len(sheet.Rows)-headerRow-1)
		for r := headerRow + 1; r < len(sheet.Rows); r++ {
			rowIndex = append(rowIndex, r)
		}
		for c, raw := range sheet.Rows[headerRow] {
			header := strings.TrimSpace(raw)
			if header == "" || !hasKeywordPrefix(header, keywords) {
				continue
			}
			values := make(map[int]string, len(rowIndex))
			for _, r := range rowIndex {
				if row := sheet.Rows[r]; c < len(row) && row[c] != "" {
					values[r] = row[c]
				}
			}
			if table.Add(header, rowIndex, values) {
				s.logger.Info("matched column",
					zap.String("sheet", sheet.Name),
					zap.String("column", header),
					zap.Int("header_row", headerRow),
				)
			}
		}
	}
	return table, nil
}

// findHeaderRow returns the first row within limit holding a cell that contains
// any keyword, or -1.
func findHeaderRow(rows [][]string, keywords []string, limit int) int {
	for i := 0; i < limit && i < len(rows); i++ {
		for _, cell := range rows[i] {
			for _, kw := range keywords {
				if kw != "" && strings.Contains(cell, kw) {
					return i
				}
			}
		}
	}
	return -1
}

func hasKeywordPrefix(header string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.HasPrefix(header, kw) {
			return true
		}
	}
	return false
}

// WritePair writes pair as a two-column workbook named <target>.xlsx in dir
// and returns its path. Empty values leave their cell blank.
func (s *Store) WritePair(dir string, pair entities.LanguagePair) (string, error) {
	if pair.Target == "" || filepath.Base(pair.Target) != pair.Target {
		return "", fmt.Errorf("write pair: invalid target language %q", pair.Target)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("write pair: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	set := func(col, row int, value string) error {
		if value == "" {
			return nil
		}
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellStr(sheet, cell, value)
	}
	if err := set(1, 1, pair.Base); err != nil {
		return "", fmt.Errorf("write pair header: %w", err)
	}
	if err := set(2, 1, pair.Target); err != nil {
		return "", fmt.Errorf("write pair header: %w", err)
	}
	for i, row := range pair.Rows {
		if err := set(1, i+2, row[0]); err != nil {
			return "", fmt.Errorf("write pair row %d: %w", i+2, err)
		}
		if err := set(2, i+2, row[1]); err != nil {
			return "", fmt.Errorf("write pair row %d: %w", i+2, err)
		}
	}

	path := filepath.Join(dir, pair.Target+".xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	s.logger.Info("created pair workbook", zap.String("path", path), zap.Int("rows", len(pair.Rows)))
	return path, nil
}

// EncodeWorkbook entity-encodes every text cell of the workbook at path and
// saves it in place. A cell that fails is counted and skipped.
func (s *Store) EncodeWorkbook(path string) (output.EncodeStats, error) {
	var stats output.EncodeStats
	f, err := excelize.OpenFile(path)
	if err != nil {
		return stats, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return stats, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		for r, row := range rows {
			for c, value := range row {
				if value == "" {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					stats.Failed++
					s.logger.Warn("invalid cell coordinates", zap.String("sheet", sheet), zap.Error(err))
					continue
				}
				if err := s.encodeCell(f, sheet, cell, value, &stats); err != nil {
					stats.Failed++
					s.logger.Warn("failed to encode cell",
						zap.String("sheet", sheet),
						zap.String("cell", cell),
						zap.Error(err),
					)
				}
			}
		}
	}

	if err := f.Save(); err != nil {
		return stats, fmt.Errorf("save %s: %w", path, err)
	}
	s.logger.Info("encoded workbook",
		zap.String("path", path),
		zap.Int("text_cells", stats.TextCells),
		zap.Int("encoded", stats.Encoded),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

func (s *Store) encodeCell(f *excelize.File, sheet, cell, value string, stats *output.EncodeStats) error {
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return err
	}
	if typ != excelize.CellTypeSharedString && typ != excelize.CellTypeInlineString {
		return nil
	}
	stats.TextCells++
	encoded := htmlentity.Encode(value)
	if encoded == value {
		return nil
	}
	if n := utf8.RuneCountInString(encoded); n > excelize.TotalCellChars {
		return fmt.Errorf("encoded value has %d characters, limit is %d", n, excelize.TotalCellChars)
	}
	if err := f.SetCellStr(sheet, cell, encoded); err != nil {
		return err
	}
	stats.Encoded++
	return nil
}
