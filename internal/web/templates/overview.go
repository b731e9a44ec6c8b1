package templates

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/explorer/internal/core"
)

// OverviewPanel renders the Overview tab.
func OverviewPanel(ov *core.Overview) templ.Component {
	return component(func(p *page) {
		p.raw(`<h2>Data Overview</h2>`)
		p.raw(`<div class="metrics">`)
		metric(p, "Rows", ov.Rows)
		metric(p, "Columns", ov.Columns)
		metric(p, "Missing values", ov.TotalNulls)
		metric(p, "Duplicate rows", ov.DuplicateRows)
		p.raw(`</div>`)

		p.render(previewTable(ov.Preview))
		p.render(columnDetails(ov))

		if len(ov.Describe) > 0 {
			p.render(describeTable(ov.Describe))
		}
		if len(ov.TopValues) > 0 {
			p.render(topValuesList(ov.TopValues))
		}
	})
}

func metric(p *page, label string, value int) {
	p.raw(`<div class="metric"><span class="metric-label">`)
	p.text(label)
	p.raw(`</span><span class="metric-value">`)
	p.integer(value)
	p.raw(`</span></div>`)
}

func previewTable(pv core.Preview) templ.Component {
	return component(func(p *page) {
		p.raw(`<h3>Data preview</h3>`)
		if note := pv.Note(); note != "" {
			p.raw(`<p class="note">`)
			p.text(note)
			p.raw(`</p>`)
		}
		p.raw(`<div class="table-wrap"><table class="data"><thead><tr>`)
		for _, name := range pv.Columns {
			p.raw(`<th>`)
			p.text(name)
			p.raw(`</th>`)
		}
		p.raw(`</tr></thead><tbody>`)
		for _, row := range pv.Rows {
			p.raw(`<tr>`)
			for _, cell := range row {
				if cell.Null {
					p.raw(`<td class="null">null</td>`)
					continue
				}
				p.raw(`<td>`)
				p.text(cell.Value)
				p.raw(`</td>`)
			}
			p.raw(`</tr>`)
		}
		if len(pv.Rows) == 0 {
			p.raw(`<tr><td class="empty"`)
			p.attr("colspan", strconv.Itoa(max(1, len(pv.Columns))))
			p.raw(`>No data rows</td></tr>`)
		}
		p.raw(`</tbody></table></div>`)
	})
}

func columnDetails(ov *core.Overview) templ.Component {
	return component(func(p *page) {
		p.raw(`<h3>Columns</h3>`)
		if len(ov.TypeCounts) > 0 {
			p.raw(`<ul class="type-counts">`)
			for _, tc := range ov.TypeCounts {
				p.raw(`<li><span class="badge">`)
				p.text(tc.Type.String())
				p.raw(`</span> `)
				p.integer(tc.Count)
				p.raw(`</li>`)
			}
			p.raw(`</ul>`)
		}
		p.raw(`<div class="table-wrap"><table class="data"><thead><tr>`)
		p.raw(`<th>Column</th><th>Type</th><th>Non-null</th><th>Missing</th><th>Missing %</th><th>Distinct</th>`)
		p.raw(`</tr></thead><tbody>`)
		for _, ci := range ov.ColumnInfo {
			p.raw(`<tr><td>`)
			p.text(ci.Name)
			p.raw(`</td><td><span class="badge">`)
			p.text(ci.Type.String())
			p.raw(`</span></td><td class="num">`)
			p.integer(ci.NonNull)
			p.raw(`</td><td class="num">`)
			p.integer(ci.Nulls)
			p.raw(`</td><td class="num">`)
			p.text(ci.NullPercent())
			p.raw(`</td><td class="num">`)
			p.integer(ci.Distinct)
			p.raw(`</td></tr>`)
		}
		p.raw(`</tbody></table></div>`)
	})
}

func describeTable(rows []core.NumericSummary) templ.Component {
	return component(func(p *page) {
		p.raw(`<h3>Summary statistics</h3>`)
		p.raw(`<div class="table-wrap"><table class="data"><thead><tr>`)
		p.raw(`<th>Column</th><th>count</th><th>mean</th><th>std</th><th>min</th><th>25%</th><th>50%</th><th>75%</th><th>max</th>`)
		p.raw(`</tr></thead><tbody>`)
		for _, s := range rows {
			p.raw(`<tr><td>`)
			p.text(s.Column)
			p.raw(`</td><td class="num">`)
			p.integer(s.Count)
			p.raw(`</td>`)
			for _, v := range []core.Stat{s.Mean, s.Std, s.Min, s.P25, s.P50, s.P75, s.Max} {
				statCell(p, v)
			}
			p.raw(`</tr>`)
		}
		p.raw(`</tbody></table></div>`)
	})
}

func statCell(p *page, v core.Stat) {
	if !v.Valid() {
		p.raw(`<td class="num undefined">`)
	} else {
		p.raw(`<td class="num">`)
	}
	p.text(v.String())
	p.raw(`</td>`)
}

func topValuesList(tops []core.TopValues) templ.Component {
	return component(func(p *page) {
		p.raw(`<h3>Most frequent values</h3><div class="top-values">`)
		for _, tv := range tops {
			p.raw(`<div class="card"><h4>`)
			p.text(tv.Column)
			p.raw(` <span class="badge">`)
			p.text(tv.Type.String())
			p.raw(`</span></h4>`)
			if len(tv.Values) == 0 {
				p.raw(`<p class="note">All values missing</p></div>`)
				continue
			}
			p.raw(`<table class="data compact"><tbody>`)
			for _, vc := range tv.Values {
				p.raw(`<tr><td>`)
				p.text(vc.Value)
				p.raw(`</td><td class="num">`)
				p.integer(vc.Count)
				p.raw(`</td></tr>`)
			}
			p.raw(`</tbody></table></div>`)
		}
		p.raw(`</div>`)
	})
}
