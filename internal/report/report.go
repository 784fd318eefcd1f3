package report

import (
	"fmt"
)

// Row is one line of a report, cells are strings or counts.
type Row []any

// Result is a header row followed by data rows of the same arity.
type Result []Row

// New creates a Result holding only the header.
func New(header ...any) Result {
	return Result{Row(header)}
}

// Append adds a data row, it panics if the arity differs from the header.
func (r *Result) Append(cells ...any) {
	if len(*r) > 0 && len((*r)[0]) != len(cells) {
		panic(fmt.Sprintf("report: row has %d cells, header has %d", len(cells), len((*r)[0])))
	}
	*r = append(*r, Row(cells))
}

func (r Result) Header() Row {
	if len(r) == 0 {
		return nil
	}
	return r[0]
}

// Body returns every row after the header.
func (r Result) Body() []Row {
	if len(r) < 2 {
		return nil
	}
	return r[1:]
}

// Strings formats every cell of the row with %v.
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, cell := range r {
		out[i] = fmt.Sprint(cell)
	}
	return out
}
