package launchd

import (
	"fmt"
	"sort"
	"strings"
)

// Column identifies a job record column for sorting. Values match the
// display column order: label, path, state.
type Column int

// Sortable columns
const (
	ColumnLabel Column = iota
	ColumnPath
	ColumnState
)

// Column name string constants
const (
	columnLabelStr = "label"
	columnPathStr  = "path"
	columnStateStr = "state"
)

// String returns the lowercase name of the column
func (c Column) String() string {
	switch c {
	case ColumnLabel:
		return columnLabelStr
	case ColumnPath:
		return columnPathStr
	case ColumnState:
		return columnStateStr
	default:
		return fmt.Sprintf("column(%d)", int(c))
	}
}

// ParseColumn converts a column name to a Column value (case-insensitive)
func ParseColumn(s string) (Column, error) {
	switch strings.ToLower(s) {
	case columnLabelStr:
		return ColumnLabel, nil
	case columnPathStr:
		return ColumnPath, nil
	case columnStateStr:
		return ColumnState, nil
	default:
		return ColumnLabel, fmt.Errorf("%w: %q", ErrUnknownColumn, s)
	}
}

// value returns the record's value for the column.
func (c Column) value(r JobRecord) string {
	switch c {
	case ColumnPath:
		return r.Path
	case ColumnState:
		return r.State
	default:
		return r.Label
	}
}

// View maintains a displayable ordered subset of a snapshot, derived by
// free-text filtering and column sorting. The snapshot is never modified;
// each setting change recomputes the derived records from the snapshot in
// one step, so a caller never observes a partially updated view.
//
// A View is not safe for concurrent use. Shells drive it from the thread
// that owns the display.
type View struct {
	snap *Snapshot

	filter   string
	sortCol  Column
	sortDesc bool
	sorted   bool

	records []JobRecord
}

// NewView creates a view over a snapshot with no filter and no sort applied.
// A nil snapshot yields an empty view.
func NewView(snap *Snapshot) *View {
	v := &View{snap: snap}
	v.recompute()
	return v
}

// SetSnapshot re-points the view at a freshly loaded snapshot. The current
// filter and sort settings carry over and are reapplied; the derived records
// are returned.
func (v *View) SetSnapshot(snap *Snapshot) []JobRecord {
	v.snap = snap
	return v.recompute()
}

// SetFilter replaces the filter text and returns the derived records. The
// empty string selects the whole snapshot. A record matches when its label
// contains the text ignoring case, or its path contains the text exactly;
// the case asymmetry between the two fields is intentional.
func (v *View) SetFilter(text string) []JobRecord {
	v.filter = text
	return v.recompute()
}

// SetSort orders the view by the given column and returns the derived
// records. The sort is stable: records with equal column values keep their
// snapshot order, and repeating the same sort never reorders them.
func (v *View) SetSort(col Column, descending bool) []JobRecord {
	v.sortCol = col
	v.sortDesc = descending
	v.sorted = true
	return v.recompute()
}

// Filter returns the current filter text
func (v *View) Filter() string {
	return v.filter
}

// Records returns the current derived records. The returned slice is a copy.
func (v *View) Records() []JobRecord {
	out := make([]JobRecord, len(v.records))
	copy(out, v.records)
	return out
}

// Len returns the number of records in the derived view
func (v *View) Len() int {
	return len(v.records)
}

// recompute rebuilds the derived records from the snapshot: filter first,
// then sort. The slice swap at the end is the only mutation of view state.
func (v *View) recompute() []JobRecord {
	next := filterRecords(v.snap, v.filter)
	if v.sorted {
		col, desc := v.sortCol, v.sortDesc
		sort.SliceStable(next, func(i, j int) bool {
			a, b := col.value(next[i]), col.value(next[j])
			if desc {
				return a > b
			}
			return a < b
		})
	}
	v.records = next
	return v.Records()
}

// filterRecords selects the snapshot records matching the filter text, in
// snapshot order. Labels match case-insensitively, paths case-sensitively.
func filterRecords(snap *Snapshot, text string) []JobRecord {
	if snap == nil {
		return nil
	}
	if text == "" {
		return snap.Records()
	}

	needle := strings.ToLower(text)
	var out []JobRecord
	for _, r := range snap.records {
		if strings.Contains(strings.ToLower(r.Label), needle) || strings.Contains(r.Path, text) {
			out = append(out, r)
		}
	}
	return out
}
