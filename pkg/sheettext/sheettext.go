// Package sheettext renders worksheet rows as "key : value" lines and parses
// those lines back into a translation dictionary.
package sheettext

import (
	"strings"

	"weblocalizer/internal/domain/entities"
)

// Separator joins the cells of a rendered row.
const Separator = " : "

// Sheet is the raw cell text of one worksheet, header row first.
type Sheet struct {
	Name string
	Rows [][]string
}

// NormalizeSpace trims s and collapses every run of whitespace to one space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Render writes every sheet as a "### Sheet: name" heading followed by one line
// per data row. The header row is skipped. Rows are padded to the widest row
// of their sheet so empty cells still produce a separator.
func Render(sheets []Sheet) string {
	var b strings.Builder
	for _, sheet := range sheets {
		b.WriteString("### Sheet: ")
		b.WriteString(sheet.Name)
		b.WriteString("\n\n")
		if len(sheet.Rows) > 0 {
			width := 0
			for _, row := range sheet.Rows {
				width = max(width, len(row))
			}
			cells := make([]string, width)
			for _, row := range sheet.Rows[1:] {
				for i := range cells {
					cells[i] = ""
					if i < len(row) {
						cells[i] = NormalizeSpace(row[i])
					}
				}
				b.WriteString(strings.Join(cells, Separator))
				b.WriteString(" \n")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Parse builds a dictionary from rendered text. Each line holding the separator
// is cut at its first occurrence; lines without it are dropped. A repeated key
// overwrites the earlier value.
func Parse(text string) *entities.Dictionary {
	dict := entities.NewDictionary()
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, Separator)
		if !ok {
			continue
		}
		dict.Set(NormalizeSpace(key), NormalizeSpace(value))
	}
	return dict
}
