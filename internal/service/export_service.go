package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/patientedu/internal/domain"
	"github.com/phrazzld/patientedu/internal/export"
	"github.com/phrazzld/patientedu/internal/platform/docx"
	"github.com/phrazzld/patientedu/internal/platform/logger"
	"github.com/phrazzld/patientedu/internal/platform/metrics"
)

// DocumentEncoder serialises an export document.
type DocumentEncoder interface {
	Encode(doc *export.Document) ([]byte, error)
}

var _ DocumentEncoder = (*docx.Writer)(nil)

// Artifact is a rendered export ready for download.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders disease descriptions as documents.
type ExportService interface {
	// Export renders the disease at the given path. ErrNotFound is returned
	// for an unknown disease and ErrExportFailed when serialisation fails.
	Export(ctx context.Context, sectionID, diseaseID string) (*Artifact, error)
}

type exportServiceImpl struct {
	catalog CatalogService
	encoder DocumentEncoder
	opts    export.Options
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewExportService creates an ExportService.
func NewExportService(
	catalog CatalogService,
	encoder DocumentEncoder,
	opts export.Options,
	m *metrics.Metrics,
	log *slog.Logger,
) (ExportService, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: catalog service cannot be nil", domain.ErrValidation)
	}
	if encoder == nil {
		return nil, fmt.Errorf("%w: encoder cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}
	return &exportServiceImpl{
		catalog: catalog,
		encoder: encoder,
		opts:    opts,
		metrics: m,
		logger:  log.With(slog.String("component", "export_service")),
	}, nil
}

func (s *exportServiceImpl) Export(ctx context.Context, sectionID, diseaseID string) (*Artifact, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	d, err := s.catalog.Disease(ctx, sectionID, diseaseID)
	if err != nil {
		return nil, err
	}

	doc := export.ToDocument(s.opts, d.Name, d.Description)
	data, err := s.encoder.Encode(doc)
	if err != nil {
		s.metrics.RecordExport(false)
		log.Error("document serialisation failed",
			slog.String("section_id", sectionID),
			slog.String("disease_id", diseaseID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	s.metrics.RecordExport(true)
	log.Info("disease exported",
		slog.String("section_id", sectionID),
		slog.String("disease_id", diseaseID),
		slog.Int("bytes", len(data)))

	return &Artifact{
		Filename:    export.SafeFilename(d.Name),
		ContentType: docx.ContentType,
		Data:        data,
	}, nil
}
