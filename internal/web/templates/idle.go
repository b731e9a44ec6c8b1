package templates

import (
	"github.com/a-h/templ"
)

// IdleParams holds the data for the page shown while no file is loaded.
type IdleParams struct {
	// ErrorMessage is the failure of the last load, if any.
	ErrorMessage string
	MaxFileSize  int64
}

// IdlePage renders the upload prompt, the last error and the help text.
func IdlePage(params IdleParams) templ.Component {
	body := component(func(p *page) {
		if params.ErrorMessage != "" {
			p.render(ErrorAlert(params.ErrorMessage))
		}
		p.render(HelpPanel())
	})
	return Layout("", Sidebar(nil, params.MaxFileSize), body)
}

// ErrorAlert renders an error banner.
func ErrorAlert(message string) templ.Component {
	return component(func(p *page) {
		p.raw(`<div class="alert alert-error" role="alert">`)
		p.text(message)
		p.raw(`</div>`)
	})
}

// InfoAlert renders a neutral notice.
func InfoAlert(message string) templ.Component {
	return component(func(p *page) {
		p.raw(`<div class="alert alert-info" role="status">`)
		p.text(message)
		p.raw(`</div>`)
	})
}
