package templates

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/explorer/internal/core"
)

// Sidebar renders the upload form and, when a file is loaded, its details
// and the remove button.
func Sidebar(upload *core.Upload, maxFileSize int64) templ.Component {
	return component(func(p *page) {
		p.raw(`<h2>Data Import</h2>`)
		p.raw(`<form class="upload-form" method="post" action="/upload" enctype="multipart/form-data">`)
		p.raw(`<label for="file">Upload your data</label>`)
		p.raw(`<input id="file" name="file" type="file" accept=".csv,.xlsx" required>`)
		p.raw(`<p class="hint">CSV or XLSX`)
		if maxFileSize > 0 {
			p.raw(`, up to `)
			p.text(FormatBytes(maxFileSize))
		}
		p.raw(`</p><button type="submit">Upload</button></form>`)

		if upload == nil {
			return
		}
		p.raw(`<section class="loaded-file"><h3>Loaded file</h3><dl>`)
		p.raw(`<dt>Name</dt><dd>`)
		p.text(upload.FileName)
		p.raw(`</dd><dt>Type</dt><dd>`)
		p.text(string(upload.Format))
		p.raw(`</dd><dt>Size</dt><dd>`)
		p.text(FormatBytes(int64(upload.Size)))
		p.raw(`</dd></dl>`)
		p.raw(`<form method="post"`)
		p.attr("action", "/view/"+upload.ID.String()+"/remove")
		p.raw(`><button type="submit" class="secondary">Remove file</button></form></section>`)
	})
}

// FormatBytes renders a byte count with a binary unit.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatInt(n, 10) + " B"
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	v := float64(n) / float64(div)
	return strconv.FormatFloat(v, 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
