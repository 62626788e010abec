// Package render turns collection snapshots into HTML.
//
// Fragments are pure functions of the records they are given. Row controls (download
// links, edit links, delete forms) are addressed by the index or id taken from that
// same slice, so a fragment never points at a record it does not show.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"tradedesk/internal/model"
	"tradedesk/internal/tabs"
)

//go:embed templates/*.gohtml
var files embed.FS

var md = goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify))

var tmpl = template.Must(template.New("render").Funcs(template.FuncMap{
	"docLabel": func(t model.DocType) string { return t.Label() },
	"bytes":    FormatBytes,
	"price":    func(p float64) string { return strconv.FormatFloat(p, 'f', 2, 64) },
	"markdown": Markdown,
}).ParseFS(files, "templates/*.gohtml"))

// Notice is a transient status line shown above the panels.
type Notice struct {
	Level   string // success, error or info
	Message string
}

// PageData is everything the full page needs.
type PageData struct {
	Title         string
	Active        string
	Panels        []tabs.Panel
	Notice        *Notice
	DocTypes      []model.DocType
	TemplateKinds []model.DocType
	Documents     template.HTML
	Products      template.HTML
}

// Documents renders the uploaded document list.
func Documents(items []model.Document) template.HTML {
	return fragment("documents", items)
}

// Products renders the catalog.
func Products(items []model.Product) template.HTML {
	return fragment("products", items)
}

// Page writes the complete tabbed page.
func Page(w io.Writer, data PageData) error {
	return tmpl.ExecuteTemplate(w, "page", data)
}

// FormatBytes renders a byte count for display ("0 B", "1.5 KiB").
func FormatBytes(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(n))
}

// Markdown converts a product description to HTML. Raw HTML in the source is
// dropped by goldmark, so the result is safe to embed.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

func fragment(name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return template.HTML(fmt.Sprintf("<p>%s</p>", template.HTMLEscapeString(err.Error())))
	}
	return template.HTML(buf.String())
}
