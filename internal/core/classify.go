package core

// NumericColumns returns the names of the Integer and Float columns of t in
// column order. A nil table or a table without numeric columns yields an
// empty set.
func NumericColumns(t *Table) NumericColumnSet {
	set := NumericColumnSet{}
	if t == nil {
		return set
	}
	for _, c := range t.columns {
		if c.Type.IsNumeric() {
			set = append(set, c.Name)
		}
	}
	return set
}
