package export

import "fmt"

// Table is an ordered tabular document rendered by the exporters.
type Table struct {
	Title   string
	Columns []Column
	Rows    [][]string
	Footer  string
}

// Column describes one table column. Width is a relative weight used by the PDF layout.
type Column struct {
	Header string
	Width  float64
}

// Headers returns the column headers in order.
func (t Table) Headers() []string {
	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = col.Header
	}
	return headers
}

func (t Table) validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("table requires at least one column")
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(t.Columns))
		}
	}
	return nil
}
