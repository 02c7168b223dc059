package web

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
)

// recentLimit is how many searches the history page shows.
const recentLimit = 20

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("POST /search", s.limiter.Middleware(http.HandlerFunc(s.handleSearch)))
	mux.HandleFunc("GET /case/{id}", s.handleCase)
	mux.HandleFunc("GET /download/{filename}", s.handleDownload)
	mux.Handle("GET /api/cases", s.limiter.Middleware(http.HandlerFunc(s.handleAPICases)))
	mux.HandleFunc("GET /recent", s.handleRecent)
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	mux.HandleFunc("/", s.handleNotFound)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, pageIndex, pageData{
		Flash:   s.flash.pop(w, r),
		MaxYear: time.Now().Year() + 1,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	caseNumber := r.PostFormValue("case_number")
	caseType := r.PostFormValue("case_type")
	filingYear := r.PostFormValue("filing_year")

	c, err := s.ports.Cases.Search(r.Context(), caseNumber, caseType, filingYear)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			s.flash.set(w, Flash{Category: FlashError, Message: validationMessage(vErr)})
		} else {
			s.log.Error("search %s/%s/%s: %v", caseType, caseNumber, filingYear, err)
			s.flash.set(w, Flash{Category: FlashError, Message: "Error: " + err.Error()})
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.flash.set(w, Flash{Category: FlashSuccess, Message: "Case found successfully!"})
	http.Redirect(w, r, "/case/"+strconv.FormatInt(c.ID, 10), http.StatusSeeOther)
}

// validationMessage words a validation failure for the search form.
func validationMessage(err *domain.ValidationError) string {
	if err.Value == "" {
		return "All fields are required"
	}
	switch err.Field {
	case "case_number":
		return "Invalid case number format"
	case "case_type":
		return "Invalid case type"
	case "filing_year":
		if _, convErr := strconv.Atoi(err.Value); convErr != nil {
			return "Filing year must be a valid number"
		}
		return "Invalid filing year"
	default:
		return err.Error()
	}
}

func (s *Server) handleCase(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.handleNotFound(w, r)
		return
	}

	c, err := s.ports.Cases.Get(r.Context(), id)
	if err != nil {
		msg := "Error retrieving case details"
		if errors.Is(err, domain.ErrNotFound) {
			msg = "Case not found"
		} else {
			s.log.Error("case %d: %v", id, err)
		}
		s.flash.set(w, Flash{Category: FlashError, Message: msg})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	orders := make([]orderView, 0, len(c.Orders))
	for _, o := range c.Orders {
		view := orderView{Order: o}
		if o.HasDocument() {
			if path, err := s.ports.Ingest.ArtifactPath(o.PDFFilename); err == nil {
				if info, err := os.Stat(path); err == nil {
					view.Size = info.Size()
				}
			}
		}
		orders = append(orders, view)
	}

	s.render(w, http.StatusOK, pageCase, pageData{
		Flash:  s.flash.pop(w, r),
		Case:   c,
		Orders: orders,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")

	path, err := s.ports.Ingest.ArtifactPath(name)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		s.log.Warn("rejected download name %q", name)
		http.Error(w, "Invalid filename", http.StatusBadRequest)
		return
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "File not found", http.StatusNotFound)
		return
	case err != nil:
		s.log.Error("download %q: %v", name, err)
		http.Error(w, "Download failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeFile(w, r, path)
}

func (s *Server) handleAPICases(w http.ResponseWriter, r *http.Request) {
	cases, err := s.ports.Cases.List(r.Context())
	if err != nil {
		s.log.Error("listing cases: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, cases)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	searches, err := s.ports.Cases.Recent(r.Context(), recentLimit)
	if err != nil {
		s.log.Error("recent searches: %v", err)
		s.flash.set(w, Flash{Category: FlashError, Message: "Error retrieving search history"})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, http.StatusOK, pageRecent, pageData{
		Flash:    s.flash.pop(w, r),
		Searches: searches,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.ports.Cases.Health(r.Context())
	status := http.StatusOK
	if !report.Healthy() {
		s.log.Error("health check failed: %s", report.Error)
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, report)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.log.Warn("404: %s", r.URL.Path)
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found"})
		return
	}
	s.render(w, http.StatusNotFound, pageNotFound, pageData{})
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	data := pageData{}
	if s.debug {
		data.Detail = err.Error()
	}
	s.render(w, http.StatusInternalServerError, pageError, data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
