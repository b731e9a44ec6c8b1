package core

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Analysis empty-state and note texts.
const (
	NoNumericColumnsMessage = "No numeric columns found. The Analysis tab needs at least one integer or float column."
	SingleColumnNote        = "Correlation needs at least two numeric columns."
)

// minOutlierValues is the smallest sample for which quartile outliers are reported.
const minOutlierValues = 4

// Analysis is the model of the Analysis tab.
type Analysis struct {
	Columns         []string           `json:"columns"`
	Empty           bool               `json:"empty"`
	Message         string             `json:"message,omitempty"`
	Histograms      []Histogram        `json:"histograms"`
	Outliers        []OutlierSummary   `json:"outliers"`
	Correlation     *CorrelationMatrix `json:"correlation,omitempty"`
	CorrelationNote string             `json:"correlation_note,omitempty"`
	StrongestPairs  []CorrelationPair  `json:"strongest_pairs"`
}

// Histogram is the equal-width binning of one column's non-null values.
type Histogram struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Min    Stat   `json:"min"`
	Max    Stat   `json:"max"`
	Bins   []Bin  `json:"bins"`
}

// MaxCount returns the largest bin count.
func (h Histogram) MaxCount() int {
	m := 0
	for _, b := range h.Bins {
		m = max(m, b.Count)
	}
	return m
}

// Bin is one histogram bar covering [Lo, Hi).
// The last bin also includes Hi.
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// OutlierSummary holds the quartiles and outlier counts of one column.
type OutlierSummary struct {
	Column     string `json:"column"`
	Count      int    `json:"count"`
	Q1         Stat   `json:"q1"`
	Q2         Stat   `json:"q2"`
	Q3         Stat   `json:"q3"`
	IQR        Stat   `json:"iqr"`
	LowerFence Stat   `json:"lower_fence"`
	UpperFence Stat   `json:"upper_fence"`
	Mild       int    `json:"mild"`
	Extreme    int    `json:"extreme"`
}

// CorrelationMatrix holds pairwise Pearson coefficients; Values[i][j] is the
// correlation of Columns[i] and Columns[j].
type CorrelationMatrix struct {
	Columns []string `json:"columns"`
	Values  [][]Stat `json:"values"`
}

// CorrelationPair is one defined off-diagonal coefficient.
type CorrelationPair struct {
	A string `json:"a"`
	B string `json:"b"`
	R Stat   `json:"r"`
	N int    `json:"n"`
}

// BuildAnalysis computes the Analysis of the given columns of t. Names not
// present in t, or not numeric, are ignored.
func BuildAnalysis(t *Table, cols NumericColumnSet, opts RenderOptions) *Analysis {
	opts = opts.withDefaults()

	var names []string
	for _, name := range cols {
		if c, ok := t.Column(name); ok && c.Type.IsNumeric() {
			names = append(names, name)
		}
	}

	a := &Analysis{Columns: names}
	if len(names) == 0 {
		a.Empty = true
		a.Message = NoNumericColumnsMessage
		return a
	}

	for _, name := range names {
		values := t.Floats(name)
		a.Histograms = append(a.Histograms, histogram(name, values, opts.HistogramBins))
		if len(values) >= minOutlierValues {
			a.Outliers = append(a.Outliers, outliers(name, values))
		}
	}

	if len(names) < 2 {
		a.CorrelationNote = SingleColumnNote
		return a
	}

	a.Correlation, a.StrongestPairs = correlate(t, names)
	if len(a.StrongestPairs) > opts.MaxPairs {
		a.StrongestPairs = a.StrongestPairs[:opts.MaxPairs]
	}
	return a
}

// histogram bins values into n equal-width bins over [min, max]. A constant
// column gets a single bin holding every value.
func histogram(name string, values []float64, n int) Histogram {
	h := Histogram{Column: name, Count: len(values), Min: Undefined, Max: Undefined}
	if len(values) == 0 {
		return h
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	h.Min, h.Max = Stat(lo), Stat(hi)

	if lo == hi {
		h.Bins = []Bin{{Lo: lo, Hi: hi, Count: len(values)}}
		return h
	}

	dividers := make([]float64, n+1)
	if math.IsInf(hi-lo, 0) {
		// The range overflows float64; step from lo in scaled increments.
		step := hi/float64(n) - lo/float64(n)
		for i := range dividers {
			dividers[i] = lo + step*float64(i)
		}
	} else {
		floats.Span(dividers, lo, hi)
	}
	// stat.Histogram bins are half-open, so the top divider must exceed max.
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)

	h.Bins = make([]Bin, n)
	for i, c := range counts {
		h.Bins[i] = Bin{Lo: dividers[i], Hi: dividers[i+1], Count: int(c)}
	}
	h.Bins[n-1].Hi = hi
	return h
}

// outliers classifies values beyond 1.5 IQR (mild) and 3 IQR (extreme)
// from the quartiles.
func outliers(name string, values []float64) OutlierSummary {
	data := stats.Float64Data(values)
	s := OutlierSummary{
		Column:     name,
		Count:      len(values),
		Q1:         Undefined,
		Q2:         Undefined,
		Q3:         Undefined,
		IQR:        Undefined,
		LowerFence: Undefined,
		UpperFence: Undefined,
	}

	q, err := stats.Quartile(data)
	if err != nil {
		return s
	}
	iqr := q.Q3 - q.Q1
	s.Q1, s.Q2, s.Q3 = Stat(q.Q1), Stat(q.Q2), Stat(q.Q3)
	s.IQR = Stat(iqr)
	s.LowerFence = Stat(q.Q1 - 1.5*iqr)
	s.UpperFence = Stat(q.Q3 + 1.5*iqr)

	if o, err := stats.QuartileOutliers(data); err == nil {
		s.Mild = len(o.Mild)
		s.Extreme = len(o.Extreme)
	}
	return s
}

// correlate builds the Pearson matrix over pairwise-complete rows and the
// defined off-diagonal pairs ordered by |r| descending.
func correlate(t *Table, names []string) (*CorrelationMatrix, []CorrelationPair) {
	k := len(names)
	raw := make([][]float64, k)
	for i, name := range names {
		raw[i] = t.FloatsWithNulls(name)
	}

	m := &CorrelationMatrix{Columns: names, Values: make([][]Stat, k)}
	for i := range m.Values {
		m.Values[i] = make([]Stat, k)
	}

	var pairs []CorrelationPair
	for i := 0; i < k; i++ {
		m.Values[i][i] = selfCorrelation(raw[i])
		for j := i + 1; j < k; j++ {
			x, y := complete(raw[i], raw[j])
			r := pearson(x, y)
			m.Values[i][j], m.Values[j][i] = r, r
			if r.Valid() {
				pairs = append(pairs, CorrelationPair{A: names[i], B: names[j], R: r, N: len(x)})
			}
		}
	}

	sort.SliceStable(pairs, func(a, b int) bool {
		return math.Abs(float64(pairs[a].R)) > math.Abs(float64(pairs[b].R))
	})
	return m, pairs
}

// complete keeps the rows where both columns hold a finite value.
func complete(a, b []float64) (x, y []float64) {
	for i := range a {
		if isFinite(a[i]) && isFinite(b[i]) {
			x = append(x, a[i])
			y = append(y, b[i])
		}
	}
	return x, y
}

// pearson is undefined for fewer than two values or zero variance.
func pearson(x, y []float64) Stat {
	if len(x) < 2 {
		return Undefined
	}
	r := stat.Correlation(x, y, nil)
	if !isFinite(r) {
		return Undefined
	}
	return Stat(math.Max(-1, math.Min(1, r)))
}

// selfCorrelation is 1 for a column with variance, undefined otherwise.
func selfCorrelation(col []float64) Stat {
	x, _ := complete(col, col)
	if len(x) < 2 || stat.Variance(x, nil) == 0 {
		return Undefined
	}
	return 1
}
