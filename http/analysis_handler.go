package http

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"ecopulse/domain"
	"ecopulse/service"
)

type AnalysisHandler struct {
	service        *service.AnalysisService
	maxUploadBytes int64
}

func NewAnalysisHandler(service *service.AnalysisService, maxUploadBytes int64) *AnalysisHandler {
	return &AnalysisHandler{service: service, maxUploadBytes: maxUploadBytes}
}

type analyzeURLRequest struct {
	URL string `json:"url"`
}

// Analyze answers every request with the EcoScore. Inputs that cannot be
// read are skipped rather than rejected.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	input := h.readInput(w, r)

	result := h.service.Analyze(r.Context(), input)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, result)
}

func (h *AnalysisHandler) readInput(w http.ResponseWriter, r *http.Request) domain.AnalysisInput {
	input := domain.AnalysisInput{URL: r.URL.Query().Get("url")}
	if r.Body == nil || r.Body == http.NoBody {
		return input
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case isRawUpload(mediaType):
		h.readRawBody(r, mediaType, &input)
	case mediaType == "multipart/form-data":
		h.readMultipart(r, &input)
	case mediaType == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			log.Printf("Ignoring unreadable form body: %v", err)
			return input
		}
		if v := r.PostForm.Get("url"); v != "" {
			input.URL = v
		}
	default:
		var body analyzeURLRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			if err != io.EOF {
				log.Printf("Ignoring unreadable JSON body: %v", err)
			}
			return input
		}
		if body.URL != "" {
			input.URL = body.URL
		}
	}
	return input
}

// isRawUpload reports whether the body is the file itself.
func isRawUpload(mediaType string) bool {
	return strings.HasPrefix(mediaType, "image/") || mediaType == "application/octet-stream"
}

func (h *AnalysisHandler) readRawBody(r *http.Request, mediaType string, input *domain.AnalysisInput) {
	hasher := sha256.New()
	size, err := io.Copy(hasher, r.Body)
	if err != nil {
		log.Printf("Ignoring unreadable %s body: %v", mediaType, err)
		return
	}
	if size == 0 {
		return
	}

	input.File = &domain.UploadedFile{
		ContentType: mediaType,
		Size:        size,
		SHA256:      hex.EncodeToString(hasher.Sum(nil)),
	}
}

func (h *AnalysisHandler) readMultipart(r *http.Request, input *domain.AnalysisInput) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		log.Printf("Ignoring unreadable multipart body: %v", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	if v := r.FormValue("url"); v != "" {
		input.URL = v
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return
	}
	defer file.Close()

	hasher := sha256.New()
	size, err := io.Copy(hasher, file)
	if err != nil {
		log.Printf("Ignoring unreadable upload %q: %v", header.Filename, err)
		return
	}

	input.File = &domain.UploadedFile{
		Name:        header.Filename,
		ContentType: strings.TrimSpace(header.Header.Get("Content-Type")),
		Size:        size,
		SHA256:      hex.EncodeToString(hasher.Sum(nil)),
	}
}
