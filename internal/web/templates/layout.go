package templates

import (
	"github.com/a-h/templ"
)

// AppTitle is the page title shown in the header and browser tab.
const AppTitle = "Data Analysis Platform"

// Layout wraps body in the full HTML document with the sidebar on the left.
func Layout(title string, sidebar, body templ.Component) templ.Component {
	return component(func(p *page) {
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		p.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.raw(`<title>`)
		if title != "" {
			p.text(title)
			p.raw(` · `)
		}
		p.text(AppTitle)
		p.raw(`</title><link rel="stylesheet" href="/static/app.css"></head>`)
		p.raw(`<body><div class="app">`)
		p.raw(`<aside class="sidebar">`)
		p.render(sidebar)
		p.raw(`</aside><main class="content"><header class="page-header"><h1>`)
		p.text(AppTitle)
		p.raw(`</h1></header>`)
		p.render(body)
		p.raw(`</main></div></body></html>`)
	})
}
