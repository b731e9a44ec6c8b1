package templates

import (
	"github.com/a-h/templ"

	"github.com/JonMunkholm/explorer/internal/core"
)

// AnalysisPanel renders the Analysis tab.
func AnalysisPanel(a *core.Analysis) templ.Component {
	return component(func(p *page) {
		p.raw(`<h2>Analysis</h2>`)
		if a.Empty {
			p.render(InfoAlert(a.Message))
			return
		}

		p.raw(`<h3>Distributions</h3><div class="charts">`)
		for i, h := range a.Histograms {
			p.render(HistogramChart(h, seriesColor(i)))
		}
		p.raw(`</div>`)

		if len(a.Outliers) > 0 {
			p.render(outlierTable(a.Outliers))
		}

		p.raw(`<h3>Correlation</h3>`)
		if a.CorrelationNote != "" {
			p.render(InfoAlert(a.CorrelationNote))
			return
		}
		if a.Correlation != nil {
			p.render(CorrelationHeatmap(a.Correlation))
		}
		p.render(strongestPairs(a.StrongestPairs))
	})
}

func outlierTable(rows []core.OutlierSummary) templ.Component {
	return component(func(p *page) {
		p.raw(`<h3>Outliers</h3>`)
		p.raw(`<p class="note">Mild outliers lie beyond 1.5 IQR from the quartiles, extreme outliers beyond 3 IQR.</p>`)
		p.raw(`<div class="table-wrap"><table class="data"><thead><tr>`)
		p.raw(`<th>Column</th><th>count</th><th>Q1</th><th>median</th><th>Q3</th><th>IQR</th><th>lower fence</th><th>upper fence</th><th>mild</th><th>extreme</th>`)
		p.raw(`</tr></thead><tbody>`)
		for _, o := range rows {
			p.raw(`<tr><td>`)
			p.text(o.Column)
			p.raw(`</td><td class="num">`)
			p.integer(o.Count)
			p.raw(`</td>`)
			for _, v := range []core.Stat{o.Q1, o.Q2, o.Q3, o.IQR, o.LowerFence, o.UpperFence} {
				statCell(p, v)
			}
			p.raw(`<td class="num">`)
			p.integer(o.Mild)
			p.raw(`</td><td class="num">`)
			p.integer(o.Extreme)
			p.raw(`</td></tr>`)
		}
		p.raw(`</tbody></table></div>`)
	})
}

func strongestPairs(pairs []core.CorrelationPair) templ.Component {
	return component(func(p *page) {
		if len(pairs) == 0 {
			p.raw(`<p class="note">No column pair has a defined correlation.</p>`)
			return
		}
		p.raw(`<h4>Strongest correlations</h4><table class="data compact"><thead><tr>`)
		p.raw(`<th>Column A</th><th>Column B</th><th>r</th><th>rows</th></tr></thead><tbody>`)
		for _, pr := range pairs {
			p.raw(`<tr><td>`)
			p.text(pr.A)
			p.raw(`</td><td>`)
			p.text(pr.B)
			p.raw(`</td>`)
			statCell(p, pr.R)
			p.raw(`<td class="num">`)
			p.integer(pr.N)
			p.raw(`</td></tr>`)
		}
		p.raw(`</tbody></table>`)
	})
}
