package ingest

import (
	"fmt"
	"strings"
)

// Row is one data row of an uploaded spreadsheet. Values are kept as the raw
// cell text; typing happens in the validation package.
type Row struct {
	// Index is the 1-based position among data rows (header excluded).
	Index int
	// Line is the physical line (CSV) or sheet row (XLSX) the data came from.
	Line int

	columns []string
	values  map[string]string
}

// NewRow builds a row from a header and the matching cells. Missing trailing
// cells are treated as blank, extra cells are dropped.
func NewRow(index, line int, header []string, cells []string) Row {
	r := Row{
		Index:   index,
		Line:    line,
		columns: make([]string, 0, len(header)),
		values:  make(map[string]string, len(header)),
	}
	for i, name := range header {
		if name == "" {
			continue
		}
		key := normalizeKey(name)
		if _, dup := r.values[key]; dup {
			continue
		}
		value := ""
		if i < len(cells) {
			value = cells[i]
		}
		r.columns = append(r.columns, name)
		r.values[key] = value
	}
	return r
}

// Get returns the raw value of a column. Lookup ignores case and surrounding
// whitespace in the column name.
func (r Row) Get(column string) (string, bool) {
	v, ok := r.values[normalizeKey(column)]
	return v, ok
}

// Columns returns the header names in file order.
func (r Row) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// WithDefaults returns a copy of the row where absent or blank columns are
// filled from defaults.
func (r Row) WithDefaults(defaults map[string]string) Row {
	if len(defaults) == 0 {
		return r
	}
	cp := Row{
		Index:   r.Index,
		Line:    r.Line,
		columns: r.Columns(),
		values:  make(map[string]string, len(r.values)+len(defaults)),
	}
	for k, v := range r.values {
		cp.values[k] = v
	}
	for name, value := range defaults {
		key := normalizeKey(name)
		current, ok := cp.values[key]
		if !ok {
			cp.columns = append(cp.columns, name)
		}
		if strings.TrimSpace(current) == "" {
			cp.values[key] = value
		}
	}
	return cp
}

func normalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ParseError means the upload as a whole could not be read. It is fatal to
// the batch: no row is processed.
type ParseError struct {
	Filename string
	Reason   string
	Err      error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse %s: %s", e.Filename, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }
