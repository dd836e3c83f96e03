package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/patientedu/internal/api/shared"
	"github.com/phrazzld/patientedu/internal/domain"
	"github.com/phrazzld/patientedu/internal/service"
	"github.com/phrazzld/patientedu/internal/store"
)

// BannerHandler serves the banner carousel and its administration.
type BannerHandler struct {
	banners service.BannerService
	logger  *slog.Logger
}

// NewBannerHandler creates a new BannerHandler.
func NewBannerHandler(banners service.BannerService, logger *slog.Logger) *BannerHandler {
	if banners == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("banner service cannot be nil for BannerHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for BannerHandler")
	}
	return &BannerHandler{
		banners: banners,
		logger:  logger.With(slog.String("component", "banner_handler")),
	}
}

// List handles GET /api/banners.
func (h *BannerHandler) List(w http.ResponseWriter, r *http.Request) {
	banners := h.banners.List(r.Context())
	if banners == nil {
		banners = []*domain.Banner{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, BannersResponse{Banners: banners})
}

// Current handles GET /api/banners/current.
func (h *BannerHandler) Current(w http.ResponseWriter, r *http.Request) {
	h.respondCurrent(w, r, h.banners.Current)
}

// Next handles POST /api/banners/rotation/next.
func (h *BannerHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.respondCurrent(w, r, h.banners.Next)
}

// Previous handles POST /api/banners/rotation/previous.
func (h *BannerHandler) Previous(w http.ResponseWriter, r *http.Request) {
	h.respondCurrent(w, r, h.banners.Previous)
}

// Goto handles POST /api/banners/rotation/goto/{index}.
func (h *BannerHandler) Goto(w http.ResponseWriter, r *http.Request) {
	index, err := getPathIndex(r, "index")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	current, err := h.banners.Goto(r.Context(), index)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to move banner rotation")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, current)
}

// Create handles the multipart upload POST /api/admin/banners with an
// "image" part and "title" and "description" fields.
func (h *BannerHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	up, err := readUpload(r, "image")
	if errors.Is(err, errNoUpload) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid image: required field")
		return
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read upload")
		return
	}

	b, err := h.banners.Add(r.Context(), up, r.FormValue("title"), r.FormValue("description"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create banner")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, b)
}

// Update handles PUT /api/admin/banners/{bannerID}. The "image" part is
// optional; without it the current image is kept.
func (h *BannerHandler) Update(w http.ResponseWriter, r *http.Request) {
	bannerID, err := getPathParam(r, "bannerID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := parseMultipart(w, r); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var image *store.Upload
	up, err := readUpload(r, "image")
	switch {
	case err == nil:
		image = &up
	case !errors.Is(err, errNoUpload):
		HandleAPIError(w, r, err, "Failed to read upload")
		return
	}

	applied, err := h.banners.Update(r.Context(), bannerID, r.FormValue("title"), r.FormValue("description"), image)
	switch {
	case err != nil:
		HandleAPIError(w, r, err, "Failed to update banner")
	case !applied:
		HandleAPIError(w, r, service.ErrNotFound, "")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// Delete handles DELETE /api/admin/banners/{bannerID}.
func (h *BannerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	bannerID, err := getPathParam(r, "bannerID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	applied, err := h.banners.Delete(r.Context(), bannerID)
	switch {
	case err != nil:
		HandleAPIError(w, r, err, "Failed to delete banner")
	case !applied:
		HandleAPIError(w, r, service.ErrNotFound, "")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *BannerHandler) respondCurrent(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context) (*service.CurrentBanner, error),
) {
	current, err := fn(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get banner")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, current)
}
