package entities

// ColumnTable is the combined set of language columns collected across sheets.
// Rows are aligned by the source row numbers of the first collected column;
// later columns contribute only the rows that exist in that index.
type ColumnTable struct {
	index   []int
	headers []string
	values  map[string]map[int]string
}

// NewColumnTable returns an empty ColumnTable.
func NewColumnTable() *ColumnTable {
	return &ColumnTable{values: map[string]map[int]string{}}
}

// Add collects a column. The first column added defines the row index. Adding a
// header that is already present is a no-op and reports false.
func (t *ColumnTable) Add(header string, rows []int, values map[int]string) bool {
	if t.Has(header) {
		return false
	}
	if len(t.headers) == 0 {
		t.index = append([]int(nil), rows...)
	}
	col := make(map[int]string, len(values))
	for row, v := range values {
		col[row] = v
	}
	t.headers = append(t.headers, header)
	t.values[header] = col
	return true
}

// Has reports whether header was collected.
func (t *ColumnTable) Has(header string) bool {
	if t == nil {
		return false
	}
	_, ok := t.values[header]
	return ok
}

// Headers returns the collected headers in collection order.
func (t *ColumnTable) Headers() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.headers...)
}

// Rows returns the number of rows in the table index.
func (t *ColumnTable) Rows() int {
	if t == nil {
		return 0
	}
	return len(t.index)
}

// Column returns the values of header aligned to the row index. Rows missing
// from the column are empty strings.
func (t *ColumnTable) Column(header string) []string {
	col, ok := t.values[header]
	if !ok {
		return nil
	}
	out := make([]string, len(t.index))
	for i, row := range t.index {
		out[i] = col[row]
	}
	return out
}

// LanguagePair is a two-column translation source: the base language column and
// one target language column, row aligned.
type LanguagePair struct {
	Base   string
	Target string
	Rows   [][2]string
}

// BuildLanguagePairs emits one LanguagePair per target present in the table.
// Nothing is emitted when the base column is absent.
func BuildLanguagePairs(table *ColumnTable, base string, targets []string) []LanguagePair {
	if !table.Has(base) {
		return nil
	}
	baseValues := table.Column(base)
	var pairs []LanguagePair
	for _, target := range targets {
		if target == base || !table.Has(target) {
			continue
		}
		targetValues := table.Column(target)
		rows := make([][2]string, len(baseValues))
		for i := range baseValues {
			rows[i] = [2]string{baseValues[i], targetValues[i]}
		}
		pairs = append(pairs, LanguagePair{Base: base, Target: target, Rows: rows})
	}
	return pairs
}
