package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/patientedu/internal/api/shared"
	"github.com/phrazzld/patientedu/internal/platform/logger"
	"github.com/phrazzld/patientedu/internal/redact"
	"github.com/phrazzld/patientedu/internal/service"
)

// CatalogHandler serves the section and disease catalog, its transient
// content, document export and the administrator write path.
type CatalogHandler struct {
	catalog service.CatalogService
	export  service.ExportService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(
	catalog service.CatalogService,
	export service.ExportService,
	logger *slog.Logger,
) *CatalogHandler {
	if catalog == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("catalog service cannot be nil for CatalogHandler")
	}
	if export == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("export service cannot be nil for CatalogHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CatalogHandler")
	}
	return &CatalogHandler{
		catalog: catalog,
		export:  export,
		logger:  logger.With(slog.String("component", "catalog_handler")),
	}
}

// Status handles GET /api/status.
func (h *CatalogHandler) Status(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.catalog.Status(r.Context()))
}

// ListSections handles GET /api/sections.
func (h *CatalogHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, SectionsResponse{
		Loading:  h.catalog.Status(r.Context()).Loading,
		Sections: h.catalog.Sections(r.Context()),
	})
}

// GetSection handles GET /api/sections/{sectionID}.
func (h *CatalogHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	sectionID, err := getPathParam(r, "sectionID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	section, err := h.catalog.Section(r.Context(), sectionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get section")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, section)
}

// GetDisease handles GET /api/sections/{sectionID}/diseases/{diseaseID}.
func (h *CatalogHandler) GetDisease(w http.ResponseWriter, r *http.Request) {
	sectionID, diseaseID, ok := h.diseasePath(w, r)
	if !ok {
		return
	}

	disease, err := h.catalog.Disease(r.Context(), sectionID, diseaseID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get disease")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, disease)
}

// Search handles GET /api/search?q=.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Query parameter q is required")
		return
	}
	hits := h.catalog.Search(r.Context(), q)
	if hits == nil {
		hits = []service.SearchHit{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SearchResponse{Query: q, Hits: hits})
}

// GetBlob handles GET /api/blobs/{blobID}.
func (h *CatalogHandler) GetBlob(w http.ResponseWriter, r *http.Request) {
	blobID, err := getPathParam(r, "blobID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	res, err := h.catalog.Blob(r.Context(), blobID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get content")
		return
	}
	shared.RespondWithContent(w, r, res.MediaType, res.Name, res.Data)
}

// Export handles GET /api/sections/{sectionID}/diseases/{diseaseID}/export.
func (h *CatalogHandler) Export(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sectionID, diseaseID, ok := h.diseasePath(w, r)
	if !ok {
		return
	}

	artifact, err := h.export.Export(r.Context(), sectionID, diseaseID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export document")
		return
	}

	log.Debug("disease exported",
		slog.String("section_id", sectionID),
		slog.String("disease_id", diseaseID),
		slog.Int("bytes", len(artifact.Data)))
	shared.RespondWithAttachment(w, r, artifact.ContentType, artifact.Filename, artifact.Data)
}

// CreateSection handles POST /api/admin/sections.
func (h *CatalogHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	var req SectionRequest
	if !h.decode(w, r, &req) || !h.requireLoaded(w, r) {
		return
	}

	section, err := h.catalog.AddSection(r.Context(), req.Name, req.Icon, req.ColorClass)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create section")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, section)
}

// UpdateSection handles PUT /api/admin/sections/{sectionID}.
func (h *CatalogHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	sectionID, err := getPathParam(r, "sectionID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	var req SectionRequest
	if !h.decode(w, r, &req) || !h.requireLoaded(w, r) {
		return
	}

	applied, err := h.catalog.UpdateSection(r.Context(), sectionID, req.Name, req.Icon, req.ColorClass)
	h.respondApplied(w, r, applied, err, "Failed to update section")
}

// DeleteSection handles DELETE /api/admin/sections/{sectionID}.
func (h *CatalogHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	sectionID, err := getPathParam(r, "sectionID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if !h.requireLoaded(w, r) {
		return
	}

	applied, err := h.catalog.DeleteSection(r.Context(), sectionID)
	h.respondApplied(w, r, applied, err, "Failed to delete section")
}

// CreateDisease handles POST /api/admin/sections/{sectionID}/diseases.
func (h *CatalogHandler) CreateDisease(w http.ResponseWriter, r *http.Request) {
	sectionID, err := getPathParam(r, "sectionID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	var req DiseaseRequest
	if !h.decode(w, r, &req) || !h.requireLoaded(w, r) {
		return
	}

	disease, err := h.catalog.AddDisease(r.Context(), sectionID, req.Name, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create disease")
		return
	}
	if disease == nil {
		HandleAPIError(w, r, service.ErrNotFound, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, disease)
}

// UpdateDisease handles PUT /api/admin/sections/{sectionID}/diseases/{diseaseID}.
func (h *CatalogHandler) UpdateDisease(w http.ResponseWriter, r *http.Request) {
	sectionID, diseaseID, ok := h.diseasePath(w, r)
	if !ok {
		return
	}
	var req DiseaseRequest
	if !h.decode(w, r, &req) || !h.requireLoaded(w, r) {
		return
	}

	applied, err := h.catalog.UpdateDisease(r.Context(), sectionID, diseaseID, req.Name, req.Description)
	h.respondApplied(w, r, applied, err, "Failed to update disease")
}

// DeleteDisease handles DELETE /api/admin/sections/{sectionID}/diseases/{diseaseID}.
func (h *CatalogHandler) DeleteDisease(w http.ResponseWriter, r *http.Request) {
	sectionID, diseaseID, ok := h.diseasePath(w, r)
	if !ok || !h.requireLoaded(w, r) {
		return
	}

	applied, err := h.catalog.DeleteDisease(r.Context(), sectionID, diseaseID)
	h.respondApplied(w, r, applied, err, "Failed to delete disease")
}

// CreateFile handles the multipart upload
// POST /api/admin/sections/{sectionID}/diseases/{diseaseID}/files with a
// "file" part and optional "name" and "description" fields. The name
// defaults to the uploaded file name.
func (h *CatalogHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	sectionID, diseaseID, ok := h.diseasePath(w, r)
	if !ok {
		return
	}
	if err := parseMultipart(w, r); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	up, err := readUpload(r, "file")
	if errors.Is(err, errNoUpload) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid file: required field")
		return
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read upload")
		return
	}
	if !h.requireLoaded(w, r) {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = up.Name
	}

	file, err := h.catalog.AddFile(r.Context(), sectionID, diseaseID, up, name, r.FormValue("description"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add file")
		return
	}
	if file == nil {
		HandleAPIError(w, r, service.ErrNotFound, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, file)
}

// DeleteFile handles DELETE .../diseases/{diseaseID}/files/{fileID}.
func (h *CatalogHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	sectionID, diseaseID, ok := h.diseasePath(w, r)
	if !ok {
		return
	}
	fileID, err := getPathParam(r, "fileID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if !h.requireLoaded(w, r) {
		return
	}

	applied, err := h.catalog.DeleteFile(r.Context(), sectionID, diseaseID, fileID)
	h.respondApplied(w, r, applied, err, "Failed to delete file")
}

func (h *CatalogHandler) diseasePath(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	sectionID, err := getPathParam(r, "sectionID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return "", "", false
	}
	diseaseID, err := getPathParam(r, "diseaseID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return "", "", false
	}
	return sectionID, diseaseID, true
}

// decode reads and validates a JSON body, writing the error response on
// failure.
func (h *CatalogHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if err := shared.DecodeJSON(w, r, v); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// requireLoaded rejects administrator writes until the initial load has
// settled, since installing the loaded catalog replaces the tree.
func (h *CatalogHandler) requireLoaded(w http.ResponseWriter, r *http.Request) bool {
	if h.catalog.Status(r.Context()).Loading {
		HandleAPIError(w, r, service.ErrStillLoading, "")
		return false
	}
	return true
}

// respondApplied writes 204 for an applied mutation and 404 for one whose
// target does not exist.
func (h *CatalogHandler) respondApplied(w http.ResponseWriter, r *http.Request, applied bool, err error, message string) {
	switch {
	case err != nil:
		HandleAPIError(w, r, err, message)
	case !applied:
		HandleAPIError(w, r, service.ErrNotFound, "")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
