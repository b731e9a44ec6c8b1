package templates

import (
	"math"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/explorer/internal/core"
)

// palette is the series color cycle for charts.
var palette = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

func seriesColor(i int) string {
	return palette[i%len(palette)]
}

// Histogram chart geometry in SVG user units.
const (
	chartWidth   = 320
	chartHeight  = 160
	chartPadding = 24
)

// HistogramChart renders one histogram as an inline SVG bar chart.
func HistogramChart(h core.Histogram, color string) templ.Component {
	return component(func(p *page) {
		p.raw(`<figure class="chart"><figcaption>`)
		p.text(h.Column)
		p.raw(` <span class="note">n=`)
		p.integer(h.Count)
		p.raw(`</span></figcaption>`)

		if len(h.Bins) == 0 {
			p.raw(`<p class="note">No values</p></figure>`)
			return
		}

		plotW := float64(chartWidth - 2*chartPadding)
		plotH := float64(chartHeight - 2*chartPadding)
		barW := plotW / float64(len(h.Bins))
		peak := float64(max(1, h.MaxCount()))

		p.raw(`<svg role="img" viewBox="0 0 `)
		p.integer(chartWidth)
		p.raw(` `)
		p.integer(chartHeight)
		p.raw(`"`)
		p.attr("aria-label", "Histogram of "+h.Column)
		p.raw(`>`)

		for i, b := range h.Bins {
			barH := plotH * float64(b.Count) / peak
			p.raw(`<rect`)
			p.attr("x", num(float64(chartPadding)+float64(i)*barW))
			p.attr("y", num(float64(chartPadding)+plotH-barH))
			p.attr("width", num(math.Max(barW-1, 1)))
			p.attr("height", num(barH))
			p.attr("fill", color)
			p.raw(`><title>`)
			p.text(core.FormatStat(b.Lo) + " to " + core.FormatStat(b.Hi) + ": " + strconv.Itoa(b.Count))
			p.raw(`</title></rect>`)
		}

		axisY := num(float64(chartHeight - chartPadding))
		p.raw(`<line class="axis"`)
		p.attr("x1", num(chartPadding))
		p.attr("x2", num(chartWidth-chartPadding))
		p.attr("y1", axisY)
		p.attr("y2", axisY)
		p.raw(`/>`)
		label(p, chartPadding, chartHeight-6, "start", h.Min.String())
		label(p, chartWidth-chartPadding, chartHeight-6, "end", h.Max.String())
		label(p, chartPadding, chartPadding-8, "start", strconv.Itoa(h.MaxCount()))
		p.raw(`</svg></figure>`)
	})
}

func label(p *page, x, y int, anchor, text string) {
	p.raw(`<text`)
	p.attr("x", strconv.Itoa(x))
	p.attr("y", strconv.Itoa(y))
	p.attr("text-anchor", anchor)
	p.raw(`>`)
	p.text(text)
	p.raw(`</text>`)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// CorrelationHeatmap renders the correlation matrix as a shaded table.
func CorrelationHeatmap(m *core.CorrelationMatrix) templ.Component {
	return component(func(p *page) {
		p.raw(`<div class="table-wrap"><table class="heatmap"><thead><tr><th></th>`)
		for _, name := range m.Columns {
			p.raw(`<th>`)
			p.text(name)
			p.raw(`</th>`)
		}
		p.raw(`</tr></thead><tbody>`)
		for i, row := range m.Values {
			p.raw(`<tr><th>`)
			p.text(m.Columns[i])
			p.raw(`</th>`)
			for _, r := range row {
				if !r.Valid() {
					p.raw(`<td class="undefined">`)
				} else {
					p.raw(`<td`)
					p.attr("style", "background-color: "+heatColor(float64(r)))
					p.raw(`>`)
				}
				p.text(r.String())
				p.raw(`</td>`)
			}
			p.raw(`</tr>`)
		}
		p.raw(`</tbody></table></div>`)
	})
}

// heatColor shades positive coefficients indigo and negative ones red, with
// opacity proportional to |r|.
func heatColor(r float64) string {
	alpha := strconv.FormatFloat(math.Min(1, math.Abs(r))*0.85, 'f', 2, 64)
	if r < 0 {
		return "rgba(239, 68, 68, " + alpha + ")"
	}
	return "rgba(79, 70, 229, " + alpha + ")"
}
