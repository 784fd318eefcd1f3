package peps

import "slices"

// StatusTable maps the status letter shown in the pep index to the statuses
// a pep page may show for it.
type StatusTable map[string][]string

var defaultStatuses = StatusTable{
	"A": {"Active", "Accepted"},
	"D": {"Deferred"},
	"F": {"Final"},
	"P": {"Provisional"},
	"R": {"Rejected"},
	"S": {"Superseded"},
	"W": {"Withdrawn"},
	// drafts have no status letter, only a type letter
	"": {"Draft", "Active"},
}

// DefaultStatusTable returns a copy of the status table of peps.python.org.
func DefaultStatusTable() StatusTable {
	return defaultStatuses.Clone()
}

func (t StatusTable) Clone() StatusTable {
	out := make(StatusTable, len(t))
	for code, statuses := range t {
		out[code] = slices.Clone(statuses)
	}
	return out
}

// Lookup returns the statuses accepted for `code` and whether the code is known.
func (t StatusTable) Lookup(code string) ([]string, bool) {
	statuses, ok := t[code]
	return statuses, ok
}

// Accepts reports whether `status` is consistent with `code`, unknown codes
// accept nothing.
func (t StatusTable) Accepts(code, status string) bool {
	statuses, _ := t.Lookup(code)
	return slices.Contains(statuses, status)
}
