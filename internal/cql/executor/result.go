package executor

// Result is the outcome of one executed statement. SELECT fills Columns and
// Rows; write statements report RowsAffected. Row cells are native Go values
// detached from engine storage.
type Result struct {
	Columns      []string
	Rows         [][]any
	RowsAffected int64
}

// RowMaps re-keys the result rows by column name. Convenient in assertions
// where column order does not matter.
func (r *Result) RowMaps() []map[string]any {
	out := make([]map[string]any, len(r.Rows))
	for i, row := range r.Rows {
		m := make(map[string]any, len(r.Columns))
		for j, col := range r.Columns {
			m[col] = row[j]
		}
		out[i] = m
	}
	return out
}
