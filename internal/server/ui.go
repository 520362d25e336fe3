package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed assets/*
var assetsFS embed.FS

var (
	pageTemplatesOnce sync.Once
	pageTemplates     *template.Template

	docsOnce sync.Once
	docsHTML template.HTML
)

func loadPageTemplates() *template.Template {
	pageTemplatesOnce.Do(func() {
		pageTemplates = template.Must(template.ParseFS(assetsFS, "assets/*.html"))
	})
	return pageTemplates
}

func adminPageTemplate() *template.Template {
	return loadPageTemplates().Lookup("admin.html")
}

func docsPageTemplate() *template.Template {
	return loadPageTemplates().Lookup("docs.html")
}

// apiDocs renders the embedded API reference once.
func apiDocs() template.HTML {
	docsOnce.Do(func() {
		source, err := assetsFS.ReadFile("assets/api.md")
		if err != nil {
			return
		}
		docsHTML = template.HTML(renderMarkdown(source))
	})
	return docsHTML
}

func renderMarkdown(content []byte) []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse(content)

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.Render(doc, renderer)
}

func (s *Server) renderHTML(w http.ResponseWriter, r *http.Request, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, internalError(err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
