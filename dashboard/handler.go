package dashboard

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ecopulse/domain"
)

//go:embed templates/index.html
var templatesFS embed.FS

const (
	msgMissingInput = "Please provide a URL or upload an image!"
	msgBadFileType  = "Please upload a jpg or png image!"
)

var errUnsupportedFile = errors.New("unsupported file type")

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Analyzer is the backend the dashboard reports on.
type Analyzer interface {
	Analyze(ctx context.Context, productURL string, file *Upload) (domain.AnalysisResult, error)
}

type Handler struct {
	analyzer       Analyzer
	tmpl           *template.Template
	maxUploadBytes int64
	now            func() time.Time
}

func NewHandler(analyzer Analyzer, maxUploadBytes int64) (*Handler, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}
	return &Handler{
		analyzer:       analyzer,
		tmpl:           tmpl,
		maxUploadBytes: maxUploadBytes,
		now:            time.Now,
	}, nil
}

// Routes returns the dashboard's HTTP routes.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", h.Form)
	r.Post("/", h.Submit)
	return r
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.render(w, page{})
}

// Submit validates the form, calls the backend once and renders the outcome.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.render(w, page{Error: fmt.Sprintf("Could not read the form: %v", err)})
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	data := page{URL: strings.TrimSpace(r.FormValue("url"))}

	upload, err := readUpload(r)
	if errors.Is(err, errUnsupportedFile) {
		data.Error = msgBadFileType
		h.render(w, data)
		return
	}
	if err != nil {
		data.Error = fmt.Sprintf("Could not read the uploaded file: %v", err)
		h.render(w, data)
		return
	}

	if data.URL == "" && upload == nil {
		data.Error = msgMissingInput
		h.render(w, data)
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), data.URL, upload)
	if err != nil {
		log.Printf("Error calling backend: %v", err)
		data.Error = describeError(err)
		h.render(w, data)
		return
	}

	data.Report = newReport(result)
	h.render(w, data)
}

// readUpload returns nil when no file was chosen. Browsers send an empty
// part with no filename in that case.
func readUpload(r *http.Request) (*Upload, error) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if header.Filename == "" && header.Size == 0 {
		return nil, nil
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(header.Filename))] {
		return nil, fmt.Errorf("%w: %q", errUnsupportedFile, header.Filename)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &Upload{Name: header.Filename, Data: data}, nil
}

func describeError(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("Error: %d - %s", statusErr.StatusCode, statusErr.Body)
	}
	return fmt.Sprintf("Failed to connect to backend: %v", err)
}

func (h *Handler) render(w http.ResponseWriter, data page) {
	data.Tip = tipAt(h.now().Unix())

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		log.Printf("Error rendering dashboard: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}
