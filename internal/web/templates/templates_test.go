package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/explorer/internal/core"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestIdlePage(t *testing.T) {
	html := render(t, IdlePage(IdleParams{
		ErrorMessage: `Error loading file: malformed CSV: bare " in non-quoted-field`,
		MaxFileSize:  100 << 20,
	}))

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<title>"+AppTitle+"</title>")
	assert.Contains(t, html, `role="alert"`)
	assert.Contains(t, html, "bare &#34; in non-quoted-field")
	assert.Contains(t, html, "up to 100.0 MiB")
	assert.Contains(t, html, ">Getting started</h2>")
	assert.NotContains(t, html, "Remove file")
}

func TestIdlePage_NoError(t *testing.T) {
	html := render(t, IdlePage(IdleParams{}))

	assert.NotContains(t, html, "alert-error")
	assert.NotContains(t, html, "up to")
}

func TestLoadedPage(t *testing.T) {
	upload := core.Upload{ID: uuid.New(), FileName: "sales & costs.csv", Format: core.FormatCSV, Size: 2048}
	view := &core.View{Tab: core.TabOverview, Overview: &core.Overview{
		FileName: upload.FileName,
		Rows:     1,
		Columns:  1,
		Preview: core.Preview{
			Columns: []string{"a"},
			Rows:    [][]core.PreviewCell{{{Null: true}}},
			Shown:   1,
			Total:   1,
		},
	}}

	html := render(t, LoadedPage(LoadedParams{Upload: upload, View: view}))

	assert.Contains(t, html, "<title>sales &amp; costs.csv · ")
	assert.Contains(t, html, `href="/view/`+upload.ID.String()+`?tab=analysis"`)
	assert.Contains(t, html, `aria-selected="true">Overview</a>`)
	assert.Contains(t, html, `action="/view/`+upload.ID.String()+`/remove"`)
	assert.Contains(t, html, "2.0 KiB")
	assert.Contains(t, html, `<td class="null">null</td>`)
	assert.NotContains(t, html, "showing")
}

func TestAnalysisPanel_Empty(t *testing.T) {
	html := render(t, AnalysisPanel(&core.Analysis{Empty: true, Message: core.NoNumericColumnsMessage}))

	assert.Contains(t, html, core.NoNumericColumnsMessage)
	assert.NotContains(t, html, "<svg")
}

func TestHistogramChart(t *testing.T) {
	h := core.Histogram{
		Column: "price",
		Count:  6,
		Min:    0,
		Max:    3,
		Bins: []core.Bin{
			{Lo: 0, Hi: 1, Count: 1},
			{Lo: 1, Hi: 2, Count: 2},
			{Lo: 2, Hi: 3, Count: 3},
		},
	}

	html := render(t, HistogramChart(h, seriesColor(0)))

	assert.Equal(t, 3, strings.Count(html, "<rect"))
	assert.Contains(t, html, `fill="#4F46E5"`)
	assert.Contains(t, html, "<title>2 to 3: 3</title>")
	assert.Contains(t, html, `aria-label="Histogram of price"`)
}

func TestHistogramChart_NoValues(t *testing.T) {
	html := render(t, HistogramChart(core.Histogram{Column: "x", Min: core.Undefined, Max: core.Undefined}, "#000"))

	assert.Contains(t, html, "No values")
	assert.NotContains(t, html, "<svg")
}

func TestCorrelationHeatmap(t *testing.T) {
	m := &core.CorrelationMatrix{
		Columns: []string{"a", "b"},
		Values: [][]core.Stat{
			{1, -0.5},
			{-0.5, core.Undefined},
		},
	}

	html := render(t, CorrelationHeatmap(m))

	assert.Contains(t, html, `<td class="undefined">—</td>`)
	assert.Contains(t, html, "rgba(239, 68, 68, 0.42)")
	assert.Contains(t, html, "rgba(79, 70, 229, 0.85)")
	assert.Equal(t, 2, strings.Count(html, ">-0.5</td>"))
}

func TestSeriesColorCycles(t *testing.T) {
	assert.Equal(t, seriesColor(0), seriesColor(len(palette)))
	assert.NotEqual(t, seriesColor(0), seriesColor(1))
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{100 << 20, "100.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.in), "%d", tt.in)
	}
}

func TestHelpPanelSkipsRawHTML(t *testing.T) {
	out := renderMarkdown([]byte("hello <script>alert(1)</script> **world**"))

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "<strong>world</strong>")
}
