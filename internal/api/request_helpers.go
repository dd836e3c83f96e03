package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/patientedu/internal/domain"
	"github.com/phrazzld/patientedu/internal/store"
)

const (
	// MaxUploadBytes bounds multipart uploads of files and banner images.
	MaxUploadBytes = 32 << 20

	// genericMediaType is what most clients declare when they do not know
	// the type; such uploads are sniffed instead.
	genericMediaType = "application/octet-stream"
)

// errNoUpload is returned by readUpload when the form has no such part.
var errNoUpload = errors.New("no upload in form")

// getPathParam returns a required path parameter. chi matches on the raw
// path when the request carries one, so escaped segments such as the "%2F"
// in a section named "A/B" arrive encoded and are decoded here.
func getPathParam(r *http.Request, name string) (string, error) {
	v := chi.URLParam(r, name)
	if r.URL.RawPath != "" {
		decoded, err := url.PathUnescape(v)
		if err != nil {
			return "", domain.NewValidationError(name, "is not a valid path segment", domain.ErrValidation)
		}
		v = decoded
	}
	if v == "" {
		return "", domain.NewValidationError(name, "is required", domain.ErrValidation)
	}
	return v, nil
}

// getPathIndex returns a path parameter parsed as a non-negative integer.
func getPathIndex(r *http.Request, name string) (int, error) {
	raw, err := getPathParam(r, name)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, domain.NewValidationError(name, "must be a non-negative integer", domain.ErrValidation)
	}
	return i, nil
}

// parseMultipart bounds and parses a multipart body.
func parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		return fmt.Errorf("%w: multipart form: %w", domain.ErrValidation, err)
	}
	return nil
}

// readUpload reads the named file part of a parsed multipart form.
// errNoUpload is returned when the part is absent.
func readUpload(r *http.Request, field string) (store.Upload, error) {
	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return store.Upload{}, errNoUpload
	}
	if err != nil {
		return store.Upload{}, fmt.Errorf("%w: %s: %w", domain.ErrValidation, field, err)
	}
	defer func(f multipart.File) { _ = f.Close() }(f)

	data, err := io.ReadAll(f)
	if err != nil {
		return store.Upload{}, fmt.Errorf("read %s: %w", field, err)
	}

	mediaType := hdr.Header.Get("Content-Type")
	if mediaType == genericMediaType {
		mediaType = ""
	}
	return store.Upload{Name: hdr.Filename, MediaType: mediaType, Data: data}, nil
}
