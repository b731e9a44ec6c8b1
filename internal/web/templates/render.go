// Package templates holds the HTML components of the explorer UI.
//
// Components are templ.Components assembled with templ.ComponentFunc. All
// user-supplied text (file names, column names, cell values) goes through
// templ.EscapeString.
package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// page accumulates the first write error so components can emit markup
// without checking every call.
type page struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newPage(ctx context.Context, w io.Writer) *page {
	return &page{ctx: ctx, w: w}
}

// raw writes trusted markup.
func (p *page) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

// text writes escaped text.
func (p *page) text(s string) {
	p.raw(templ.EscapeString(s))
}

// attr writes name="value" with the value escaped.
func (p *page) attr(name, value string) {
	p.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (p *page) integer(n int) {
	p.raw(strconv.Itoa(n))
}

func (p *page) render(c templ.Component) {
	if p.err != nil || c == nil {
		return
	}
	p.err = c.Render(p.ctx, p.w)
}

// component wraps a page-writing function as a templ.Component.
func component(fn func(p *page)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := newPage(ctx, w)
		fn(p)
		return p.err
	})
}
