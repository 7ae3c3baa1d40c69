package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/eventus-be/internal/access"
	"github.com/hongminglow/eventus-be/internal/apperr"
	"github.com/hongminglow/eventus-be/internal/http/respond"
	"github.com/hongminglow/eventus-be/internal/models/dto"
	"github.com/hongminglow/eventus-be/internal/upload"
)

const multipartMemory = 4 << 20

type UploadHandler struct {
	store *upload.Store
	errs  *ErrorResponder
}

func NewUploadHandler(store *upload.Store, errs *ErrorResponder) *UploadHandler {
	return &UploadHandler{store: store, errs: errs}
}

// Routes mounts under /api/upload.
func (h *UploadHandler) Routes(r chi.Router, authn *access.Authenticator) {
	r.Use(authn.Required)
	r.Post("/image", h.image)
}

func (h *UploadHandler) image(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.store.MaxBytes()+multipartMemory)
	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errs.Write(w, r, apperr.Validation("File too large"))
			return
		}
		h.errs.Write(w, r, apperr.Validation("No file uploaded"))
		return
	}
	defer file.Close()

	name, err := h.store.Save(header.Filename, file)
	if err != nil {
		if errors.Is(err, upload.ErrTooLarge) {
			h.errs.Write(w, r, apperr.Validation("File too large"))
			return
		}
		h.errs.Write(w, r, apperr.Internal("save upload", err))
		return
	}

	respond.JSON(w, r, http.StatusCreated, "Image uploaded successfully", dto.UploadResponse{
		URL:      baseURL(r) + "/uploads/" + name,
		Filename: name,
	})
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
