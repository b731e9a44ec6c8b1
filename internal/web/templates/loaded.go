package templates

import (
	"github.com/a-h/templ"

	"github.com/JonMunkholm/explorer/internal/core"
)

// LoadedParams holds the data for the page shown while a file is loaded.
type LoadedParams struct {
	Upload      core.Upload
	View        *core.View
	MaxFileSize int64
}

// LoadedPage renders the tab selector and the selected tab.
func LoadedPage(params LoadedParams) templ.Component {
	body := component(func(p *page) {
		p.render(TabSelector(params.Upload.ID.String(), params.View.Tab))
		p.raw(`<section class="tab-panel" role="tabpanel">`)
		switch {
		case params.View.Analysis != nil:
			p.render(AnalysisPanel(params.View.Analysis))
		case params.View.Overview != nil:
			p.render(OverviewPanel(params.View.Overview))
		}
		p.raw(`</section>`)
	})
	return Layout(params.Upload.FileName, Sidebar(&params.Upload, params.MaxFileSize), body)
}

// TabSelector renders the Overview/Analysis tab links for an upload.
func TabSelector(uploadID string, active core.Tab) templ.Component {
	return component(func(p *page) {
		p.raw(`<nav class="tabs" role="tablist">`)
		for _, tab := range core.Tabs {
			p.raw(`<a role="tab"`)
			p.attr("href", "/view/"+uploadID+"?tab="+string(tab))
			if tab == active {
				p.raw(` class="tab active" aria-selected="true"`)
			} else {
				p.raw(` class="tab" aria-selected="false"`)
			}
			p.raw(`>`)
			p.text(tab.Label())
			p.raw(`</a>`)
		}
		p.raw(`</nav>`)
	})
}
