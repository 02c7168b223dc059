package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
	"github.com/custodia-labs/court-case-fetcher/internal/filename"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names.
const (
	pageIndex    = "index.html"
	pageCase     = "case.html"
	pageRecent   = "recent.html"
	pageNotFound = "404.html"
	pageError    = "500.html"
)

var templateFuncs = template.FuncMap{
	"formatSize": filename.FormatSize,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Local().Format("2006-01-02 15:04")
	},
}

// pageData is the root value handed to every page.
type pageData struct {
	Flash    *Flash
	MaxYear  int
	Case     *domain.Case
	Orders   []orderView
	Searches []domain.SearchRecord
	Detail   string
}

// orderView adds the on-disk size of the order document.
type orderView struct {
	domain.Order
	Size int64
}

func parseTemplates() (map[string]*template.Template, error) {
	pages := []string{pageIndex, pageCase, pageRecent, pageNotFound, pageError}
	set := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New(page).Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", page, err)
		}
		set[page] = t
	}
	return set, nil
}

// render executes page into a buffer so a template failure can still
// produce a clean 500.
func (s *Server) render(w http.ResponseWriter, status int, page string, data pageData) {
	var buf bytes.Buffer
	if err := s.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		s.log.Error("rendering %s: %v", page, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
