package templates

import (
	_ "embed"
	"sync"

	"github.com/a-h/templ"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed help.md
var helpMarkdown []byte

var (
	helpOnce sync.Once
	helpHTML string
)

// renderMarkdown converts trusted markdown to HTML. Raw HTML in the source
// is skipped.
func renderMarkdown(md []byte) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.SkipHTML | html.HrefTargetBlank,
	})
	return string(markdown.ToHTML(md, p, r))
}

// HelpPanel renders the getting-started text shown while no file is loaded.
func HelpPanel() templ.Component {
	helpOnce.Do(func() {
		helpHTML = renderMarkdown(helpMarkdown)
	})
	return component(func(p *page) {
		p.raw(`<section class="help">`)
		p.raw(helpHTML)
		p.raw(`</section>`)
	})
}
