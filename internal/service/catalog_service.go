package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/patientedu/internal/catalog"
	"github.com/phrazzld/patientedu/internal/domain"
	"github.com/phrazzld/patientedu/internal/platform/logger"
	"github.com/phrazzld/patientedu/internal/store"
)

// Loader produces a freshly assembled catalog.
type Loader interface {
	Load(ctx context.Context) (*catalog.Catalog, error)
}

// CatalogStore is the part of store.CatalogStore used by the services.
type CatalogStore interface {
	Snapshot() *store.Snapshot
	Resource(ref string) (*store.Resource, bool)
	Install(ctx context.Context, sections []*domain.Section, banners []*domain.Banner) error
	FailLoad(ctx context.Context, cause error) error

	AddSection(ctx context.Context, name, icon, colorClass string) (*domain.Section, error)
	UpdateSection(ctx context.Context, id, name, icon, colorClass string) (bool, error)
	DeleteSection(ctx context.Context, id string) (bool, error)
	AddDisease(ctx context.Context, sectionID, name, description string) (*domain.Disease, error)
	UpdateDisease(ctx context.Context, sectionID, diseaseID, name, description string) (bool, error)
	DeleteDisease(ctx context.Context, sectionID, diseaseID string) (bool, error)
	AddFileToDisease(ctx context.Context, sectionID, diseaseID string, up store.Upload, name, description string) (*domain.FileAttachment, error)
	DeleteFileFromDisease(ctx context.Context, sectionID, diseaseID, fileID string) (bool, error)
	AddBanner(ctx context.Context, up store.Upload, title, description string) (*domain.Banner, error)
	UpdateBanner(ctx context.Context, id, title, description string, up *store.Upload) (bool, error)
	DeleteBanner(ctx context.Context, id string) (bool, error)
}

var _ CatalogStore = (*store.CatalogStore)(nil)

// Status describes the state of the catalog.
type Status struct {
	Loading   bool   `json:"loading"`
	LoadError string `json:"loadError,omitempty"`
	Revision  uint64 `json:"revision"`
	Sections  int    `json:"sections"`
	Banners   int    `json:"banners"`
}

// SearchHit is a disease matching a search query.
type SearchHit struct {
	SectionID   string `json:"sectionId"`
	SectionName string `json:"sectionName"`
	DiseaseID   string `json:"diseaseId"`
	DiseaseName string `json:"diseaseName"`
}

// CatalogService provides read access to and administrator mutations of
// the section tree.
type CatalogService interface {
	// Load runs the assembler and installs its result. A failed load
	// installs an empty catalog and returns the failure.
	Load(ctx context.Context) error

	Status(ctx context.Context) Status
	Sections(ctx context.Context) []*domain.Section
	Section(ctx context.Context, sectionID string) (*domain.Section, error)
	Disease(ctx context.Context, sectionID, diseaseID string) (*domain.Disease, error)
	Blob(ctx context.Context, ref string) (*store.Resource, error)

	// Search returns the diseases whose name or description contains query,
	// case-insensitively, in catalog order.
	Search(ctx context.Context, query string) []SearchHit

	AddSection(ctx context.Context, name, icon, colorClass string) (*domain.Section, error)
	UpdateSection(ctx context.Context, id, name, icon, colorClass string) (bool, error)
	DeleteSection(ctx context.Context, id string) (bool, error)
	AddDisease(ctx context.Context, sectionID, name, description string) (*domain.Disease, error)
	UpdateDisease(ctx context.Context, sectionID, diseaseID, name, description string) (bool, error)
	DeleteDisease(ctx context.Context, sectionID, diseaseID string) (bool, error)
	AddFile(ctx context.Context, sectionID, diseaseID string, up store.Upload, name, description string) (*domain.FileAttachment, error)
	DeleteFile(ctx context.Context, sectionID, diseaseID, fileID string) (bool, error)
}

type catalogServiceImpl struct {
	store  CatalogStore
	loader Loader
	logger *slog.Logger
}

// NewCatalogService creates a CatalogService.
// It returns an error if any of the required dependencies are nil.
func NewCatalogService(s CatalogStore, loader Loader, log *slog.Logger) (CatalogService, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: store cannot be nil", domain.ErrValidation)
	}
	if loader == nil {
		return nil, fmt.Errorf("%w: loader cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}
	return &catalogServiceImpl{
		store:  s,
		loader: loader,
		logger: log.With(slog.String("component", "catalog_service")),
	}, nil
}

func (s *catalogServiceImpl) Load(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cat, loadErr := s.loader.Load(ctx)
	if loadErr != nil {
		if ctx.Err() != nil {
			log.Info("catalog load abandoned", slog.String("error", loadErr.Error()))
			return loadErr
		}
		log.Error("catalog load failed, serving an empty catalog", slog.String("error", loadErr.Error()))
		if err := s.store.FailLoad(ctx, loadErr); err != nil {
			return errors.Join(loadErr, err)
		}
		return loadErr
	}

	if err := s.store.Install(ctx, cat.Sections, cat.Banners); err != nil {
		log.Warn("discarding loaded catalog", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func (s *catalogServiceImpl) Status(ctx context.Context) Status {
	snap := s.store.Snapshot()
	st := Status{
		Loading:  snap.Loading,
		Revision: snap.Revision,
		Sections: len(snap.Sections),
		Banners:  len(snap.Banners),
	}
	if snap.LoadErr != nil {
		st.LoadError = catalog.ErrLoadFailed.Error()
	}
	return st
}

func (s *catalogServiceImpl) Sections(ctx context.Context) []*domain.Section {
	return s.store.Snapshot().Sections
}

func (s *catalogServiceImpl) Section(ctx context.Context, sectionID string) (*domain.Section, error) {
	sec, ok := s.store.Snapshot().Section(sectionID)
	if !ok {
		return nil, fmt.Errorf("section %q: %w", sectionID, ErrNotFound)
	}
	return sec, nil
}

func (s *catalogServiceImpl) Disease(ctx context.Context, sectionID, diseaseID string) (*domain.Disease, error) {
	d, ok := s.store.Snapshot().Disease(sectionID, diseaseID)
	if !ok {
		return nil, fmt.Errorf("disease %q in section %q: %w", diseaseID, sectionID, ErrNotFound)
	}
	return d, nil
}

func (s *catalogServiceImpl) Blob(ctx context.Context, ref string) (*store.Resource, error) {
	if !store.IsBlobRef(ref) {
		ref = store.BlobScheme + ref
	}
	res, ok := s.store.Resource(ref)
	if !ok {
		return nil, fmt.Errorf("blob: %w", ErrNotFound)
	}
	return res, nil
}

func (s *catalogServiceImpl) Search(ctx context.Context, query string) []SearchHit {
	q := strings.ToLower(strings.TrimSpace(query))
	hits := []SearchHit{}
	if q == "" {
		return hits
	}
	for _, sec := range s.store.Snapshot().Sections {
		for _, d := range sec.Diseases {
			if strings.Contains(strings.ToLower(d.Name), q) || strings.Contains(strings.ToLower(d.Description), q) {
				hits = append(hits, SearchHit{
					SectionID:   sec.ID,
					SectionName: sec.Name,
					DiseaseID:   d.ID,
					DiseaseName: d.Name,
				})
			}
		}
	}
	return hits
}

func (s *catalogServiceImpl) AddSection(ctx context.Context, name, icon, colorClass string) (*domain.Section, error) {
	sec, err := s.store.AddSection(ctx, name, icon, colorClass)
	if err != nil {
		return nil, NewServiceError("catalog", "add section", err)
	}
	return sec, nil
}

func (s *catalogServiceImpl) UpdateSection(ctx context.Context, id, name, icon, colorClass string) (bool, error) {
	return s.applied("update section", func() (bool, error) {
		return s.store.UpdateSection(ctx, id, name, icon, colorClass)
	})
}

func (s *catalogServiceImpl) DeleteSection(ctx context.Context, id string) (bool, error) {
	return s.applied("delete section", func() (bool, error) {
		return s.store.DeleteSection(ctx, id)
	})
}

func (s *catalogServiceImpl) AddDisease(ctx context.Context, sectionID, name, description string) (*domain.Disease, error) {
	d, err := s.store.AddDisease(ctx, sectionID, name, description)
	if err != nil {
		return nil, NewServiceError("catalog", "add disease", err)
	}
	return d, nil
}

func (s *catalogServiceImpl) UpdateDisease(ctx context.Context, sectionID, diseaseID, name, description string) (bool, error) {
	return s.applied("update disease", func() (bool, error) {
		return s.store.UpdateDisease(ctx, sectionID, diseaseID, name, description)
	})
}

func (s *catalogServiceImpl) DeleteDisease(ctx context.Context, sectionID, diseaseID string) (bool, error) {
	return s.applied("delete disease", func() (bool, error) {
		return s.store.DeleteDisease(ctx, sectionID, diseaseID)
	})
}

func (s *catalogServiceImpl) AddFile(
	ctx context.Context,
	sectionID, diseaseID string,
	up store.Upload,
	name, description string,
) (*domain.FileAttachment, error) {
	f, err := s.store.AddFileToDisease(ctx, sectionID, diseaseID, up, name, description)
	if err != nil {
		return nil, NewServiceError("catalog", "add file", err)
	}
	return f, nil
}

func (s *catalogServiceImpl) DeleteFile(ctx context.Context, sectionID, diseaseID, fileID string) (bool, error) {
	return s.applied("delete file", func() (bool, error) {
		return s.store.DeleteFileFromDisease(ctx, sectionID, diseaseID, fileID)
	})
}

func (s *catalogServiceImpl) applied(op string, fn func() (bool, error)) (bool, error) {
	ok, err := fn()
	if err != nil {
		return false, NewServiceError("catalog", op, err)
	}
	return ok, nil
}
