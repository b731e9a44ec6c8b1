package core

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/uuid"
)

// ColumnType is the inferred type attached to every column at import time.
// Downstream code switches on this tag only.
type ColumnType int

const (
	ColumnText ColumnType = iota
	ColumnInteger
	ColumnFloat
	ColumnBoolean
	ColumnDateTime
)

// ColumnTypes lists every ColumnType in display order.
var ColumnTypes = []ColumnType{ColumnInteger, ColumnFloat, ColumnText, ColumnBoolean, ColumnDateTime}

func (t ColumnType) String() string {
	switch t {
	case ColumnInteger:
		return "integer"
	case ColumnFloat:
		return "float"
	case ColumnBoolean:
		return "boolean"
	case ColumnDateTime:
		return "datetime"
	default:
		return "text"
	}
}

// MarshalText renders the type by name in JSON responses.
func (t ColumnType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a type name produced by MarshalText.
func (t *ColumnType) UnmarshalText(b []byte) error {
	for _, ct := range ColumnTypes {
		if ct.String() == string(b) {
			*t = ct
			return nil
		}
	}
	return fmt.Errorf("unknown column type %q", b)
}

// IsNumeric reports whether the type is Integer or Float.
func (t ColumnType) IsNumeric() bool {
	return t == ColumnInteger || t == ColumnFloat
}

// columnTypeOf maps a gota series type to a ColumnType.
func columnTypeOf(t series.Type) ColumnType {
	switch t {
	case series.Int:
		return ColumnInteger
	case series.Float:
		return ColumnFloat
	case series.Bool:
		return ColumnBoolean
	default:
		return ColumnText
	}
}

// Format is the declared format of an uploaded file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Column describes one column of a Table.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Table is an imported file: ordered, uniquely named, uniformly typed columns
// sharing one row count. Read-only after import.
type Table struct {
	FileName string
	Format   Format

	frame   dataframe.DataFrame
	columns []Column
	series  []series.Series // cached; DataFrame.Col copies on every call
	index   map[string]int
}

func newTable(fileName string, format Format, frame dataframe.DataFrame, columns []Column) *Table {
	index := make(map[string]int, len(columns))
	cols := make([]series.Series, len(columns))
	for i, c := range columns {
		index[c.Name] = i
		cols[i] = frame.Col(c.Name)
	}
	return &Table{
		FileName: fileName,
		Format:   format,
		frame:    frame,
		columns:  columns,
		series:   cols,
		index:    index,
	}
}

// Columns returns the columns in file order.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Names returns the column names in file order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	if len(t.columns) == 0 {
		return 0
	}
	return t.frame.Nrow()
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.columns)
}

// IsNull reports whether the cell at (row, name) is null. Unknown columns
// count as null.
func (t *Table) IsNull(row int, name string) bool {
	i, ok := t.index[name]
	if !ok {
		return true
	}
	return t.series[i].Elem(row).IsNA()
}

// Cell returns the display text of a cell and whether it holds a value.
func (t *Table) Cell(row int, name string) (string, bool) {
	i, ok := t.index[name]
	if !ok {
		return "", false
	}
	e := t.series[i].Elem(row)
	if e.IsNA() {
		return "", false
	}
	if t.columns[i].Type == ColumnFloat {
		return FormatFloat(e.Float()), true
	}
	return e.String(), true
}

// Floats returns the non-null, finite values of a numeric column in row order.
// Non-numeric or unknown columns yield nil.
func (t *Table) Floats(name string) []float64 {
	i, ok := t.index[name]
	if !ok || !t.columns[i].Type.IsNumeric() {
		return nil
	}
	raw := t.series[i].Float()
	out := make([]float64, 0, len(raw))
	for _, v := range raw {
		if isFinite(v) {
			out = append(out, v)
		}
	}
	return out
}

// FloatsWithNulls returns one entry per row for a numeric column, NaN for
// nulls, so that columns can be aligned row by row.
func (t *Table) FloatsWithNulls(name string) []float64 {
	i, ok := t.index[name]
	if !ok || !t.columns[i].Type.IsNumeric() {
		return nil
	}
	return t.series[i].Float()
}

// NumericColumnSet is the ordered list of Integer and Float column names.
type NumericColumnSet []string

// Contains reports whether name is in the set.
func (s NumericColumnSet) Contains(name string) bool {
	for _, n := range s {
		if n == name {
			return true
		}
	}
	return false
}

// Upload is the handle the browser uses to re-request views of a file.
type Upload struct {
	ID        uuid.UUID `json:"upload_id"`
	FileName  string    `json:"file_name"`
	Format    Format    `json:"format"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Phase is the application shell state.
type Phase string

const (
	PhaseIdle   Phase = "idle"
	PhaseLoaded Phase = "loaded"
)

// State is the shell state. Upload and Table are set only when Loaded; Err
// only when Idle after a failed load.
type State struct {
	Phase   Phase
	Upload  *Upload
	Table   *Table
	Numeric NumericColumnSet
	Err     error
}

// Idle returns an Idle state carrying err, which may be nil.
func Idle(err error) State {
	return State{Phase: PhaseIdle, Err: err}
}

// Loaded reports whether a table is present.
func (s State) Loaded() bool {
	return s.Phase == PhaseLoaded && s.Table != nil
}

// ErrorMessage returns the user-visible error text, or "" when there is none.
func (s State) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return DescribeLoadError(s.Err)
}

// Tab selects which view of a Loaded state is rendered.
type Tab string

const (
	TabOverview Tab = "overview"
	TabAnalysis Tab = "analysis"
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabOverview, TabAnalysis}

// Label returns the tab heading.
func (t Tab) Label() string {
	if t == TabAnalysis {
		return "Analysis"
	}
	return "Overview"
}

// View is the rendered model of one tab. Exactly one of Overview or Analysis
// is set.
type View struct {
	Tab      Tab       `json:"tab"`
	Overview *Overview `json:"overview,omitempty"`
	Analysis *Analysis `json:"analysis,omitempty"`
}

// RenderOptions holds the rendering constants fixed at start-up.
type RenderOptions struct {
	PreviewRows   int
	HistogramBins int
	TopValues     int
	MaxPairs      int
}

// DefaultRenderOptions returns the built-in rendering constants.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		PreviewRows:   10,
		HistogramBins: 20,
		TopValues:     5,
		MaxPairs:      10,
	}
}

// withDefaults fills zero fields from DefaultRenderOptions.
func (o RenderOptions) withDefaults() RenderOptions {
	d := DefaultRenderOptions()
	if o.PreviewRows <= 0 {
		o.PreviewRows = d.PreviewRows
	}
	if o.HistogramBins <= 0 {
		o.HistogramBins = d.HistogramBins
	}
	if o.TopValues <= 0 {
		o.TopValues = d.TopValues
	}
	if o.MaxPairs < 0 {
		o.MaxPairs = d.MaxPairs
	}
	return o
}
