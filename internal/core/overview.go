package core

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
)

// Stat is a summary statistic. NaN marks an undefined value, which renders
// as a dash and encodes as JSON null.
type Stat float64

// Undefined is the Stat for values that cannot be computed.
var Undefined = Stat(math.NaN())

// Valid reports whether the statistic is defined.
func (s Stat) Valid() bool {
	return isFinite(float64(s))
}

func (s Stat) String() string {
	if !s.Valid() {
		return "—"
	}
	return FormatStat(float64(s))
}

// MarshalJSON encodes undefined values as null.
func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(s), 'g', -1, 64), nil
}

func statOrUndefined(v float64, err error) Stat {
	if err != nil {
		return Undefined
	}
	return Stat(v)
}

// Overview is the model of the Overview tab.
type Overview struct {
	FileName      string           `json:"file_name"`
	Rows          int              `json:"rows"`
	Columns       int              `json:"columns"`
	Preview       Preview          `json:"preview"`
	ColumnInfo    []ColumnInfo     `json:"column_info"`
	TypeCounts    []TypeCount      `json:"type_counts"`
	TotalNulls    int              `json:"total_nulls"`
	DuplicateRows int              `json:"duplicate_rows"`
	Describe      []NumericSummary `json:"describe"`
	TopValues     []TopValues      `json:"top_values"`
}

// Preview holds the first rows of the table.
type Preview struct {
	Columns []string        `json:"columns"`
	Rows    [][]PreviewCell `json:"rows"`
	Shown   int             `json:"shown"`
	Total   int             `json:"total"`
}

// Truncated reports whether the preview omits rows.
func (p Preview) Truncated() bool {
	return p.Shown < p.Total
}

// Note returns the "showing N of M rows" caption, or "" when nothing is omitted.
func (p Preview) Note() string {
	if !p.Truncated() {
		return ""
	}
	return "showing " + strconv.Itoa(p.Shown) + " of " + strconv.Itoa(p.Total) + " rows"
}

// PreviewCell is one displayed cell.
type PreviewCell struct {
	Value string `json:"value"`
	Null  bool   `json:"null,omitempty"`
}

// ColumnInfo describes the fill and cardinality of one column.
type ColumnInfo struct {
	Name      string     `json:"name"`
	Type      ColumnType `json:"type"`
	NonNull   int        `json:"non_null"`
	Nulls     int        `json:"nulls"`
	NullRatio float64    `json:"null_ratio"`
	Distinct  int        `json:"distinct"`
}

// NullPercent renders the null ratio as a percentage.
func (c ColumnInfo) NullPercent() string {
	return FormatPercent(c.NullRatio)
}

// TypeCount is the number of columns of one type.
type TypeCount struct {
	Type  ColumnType `json:"type"`
	Count int        `json:"count"`
}

// NumericSummary holds the describe statistics for a numeric column.
type NumericSummary struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Mean   Stat   `json:"mean"`
	Std    Stat   `json:"std"`
	Min    Stat   `json:"min"`
	P25    Stat   `json:"p25"`
	P50    Stat   `json:"p50"`
	P75    Stat   `json:"p75"`
	Max    Stat   `json:"max"`
}

// ValueCount is one entry of a frequency table.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TopValues lists the most frequent values of a text or boolean column.
type TopValues struct {
	Column string       `json:"column"`
	Type   ColumnType   `json:"type"`
	Values []ValueCount `json:"values"`
}

// BuildOverview computes the Overview of t. It only reads the table.
func BuildOverview(t *Table, opts RenderOptions) *Overview {
	opts = opts.withDefaults()
	rows := t.NumRows()

	ov := &Overview{
		FileName: t.FileName,
		Rows:     rows,
		Columns:  t.NumCols(),
		Preview:  buildPreview(t, opts.PreviewRows),
	}

	typeCounts := make(map[ColumnType]int)
	for _, col := range t.columns {
		typeCounts[col.Type]++

		info, freq := columnInfo(t, col, rows)
		ov.ColumnInfo = append(ov.ColumnInfo, info)
		ov.TotalNulls += info.Nulls

		switch {
		case col.Type.IsNumeric():
			ov.Describe = append(ov.Describe, describe(col.Name, t.Floats(col.Name)))
		case col.Type == ColumnText || col.Type == ColumnBoolean:
			ov.TopValues = append(ov.TopValues, TopValues{
				Column: col.Name,
				Type:   col.Type,
				Values: topValues(freq, opts.TopValues),
			})
		}
	}

	for _, ct := range ColumnTypes {
		if n := typeCounts[ct]; n > 0 {
			ov.TypeCounts = append(ov.TypeCounts, TypeCount{Type: ct, Count: n})
		}
	}

	ov.DuplicateRows = duplicateRows(t)
	return ov
}

func buildPreview(t *Table, n int) Preview {
	total := t.NumRows()
	shown := min(n, total)

	p := Preview{
		Columns: t.Names(),
		Rows:    make([][]PreviewCell, shown),
		Shown:   shown,
		Total:   total,
	}
	for i := 0; i < shown; i++ {
		row := make([]PreviewCell, len(p.Columns))
		for j, name := range p.Columns {
			v, ok := t.Cell(i, name)
			row[j] = PreviewCell{Value: v, Null: !ok}
		}
		p.Rows[i] = row
	}
	return p
}

// columnInfo counts nulls and distinct values and returns the value
// frequencies for reuse by topValues.
func columnInfo(t *Table, col Column, rows int) (ColumnInfo, map[string]int) {
	freq := make(map[string]int)
	nulls := 0
	for i := 0; i < rows; i++ {
		v, ok := t.Cell(i, col.Name)
		if !ok {
			nulls++
			continue
		}
		freq[v]++
	}

	info := ColumnInfo{
		Name:     col.Name,
		Type:     col.Type,
		NonNull:  rows - nulls,
		Nulls:    nulls,
		Distinct: len(freq),
	}
	if rows > 0 {
		info.NullRatio = float64(nulls) / float64(rows)
	}
	return info, freq
}

// describe computes count, mean, sample std, min, quartiles and max.
func describe(name string, values []float64) NumericSummary {
	s := NumericSummary{
		Column: name,
		Count:  len(values),
		Mean:   Undefined,
		Std:    Undefined,
		Min:    Undefined,
		P25:    Undefined,
		P50:    Undefined,
		P75:    Undefined,
		Max:    Undefined,
	}
	if len(values) == 0 {
		return s
	}

	data := stats.Float64Data(values)
	s.Mean = statOrUndefined(stats.Mean(data))
	s.Min = statOrUndefined(stats.Min(data))
	s.Max = statOrUndefined(stats.Max(data))
	if len(values) > 1 {
		s.Std = statOrUndefined(stats.StandardDeviationSample(data))
	}

	if len(values) == 1 {
		s.P25, s.P50, s.P75 = Stat(values[0]), Stat(values[0]), Stat(values[0])
		return s
	}
	if q, err := stats.Quartile(data); err == nil {
		s.P25, s.P50, s.P75 = Stat(q.Q1), Stat(q.Q2), Stat(q.Q3)
	}
	return s
}

// topValues orders values by descending count, then ascending value.
func topValues(freq map[string]int, n int) []ValueCount {
	out := make([]ValueCount, 0, len(freq))
	for v, c := range freq {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// duplicateRows counts rows identical to an earlier row, nulls included.
func duplicateRows(t *Table) int {
	names := t.Names()
	seen := make(map[string]struct{}, t.NumRows())
	dups := 0

	var b strings.Builder
	for i := 0; i < t.NumRows(); i++ {
		b.Reset()
		for _, name := range names {
			if v, ok := t.Cell(i, name); ok {
				b.WriteByte(1)
				b.WriteString(v)
			} else {
				b.WriteByte(0)
			}
			b.WriteByte(0x1f)
		}
		key := b.String()
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}
