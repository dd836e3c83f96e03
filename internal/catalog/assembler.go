// Package catalog assembles the Section -> Disease -> FileAttachment tree
// and the banner list from the fragments published by the content origin.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/patientedu/internal/content"
	"github.com/phrazzld/patientedu/internal/domain"
	"github.com/phrazzld/patientedu/internal/platform/metrics"
)

// ErrLoadFailed is returned when any fetch of the load pipeline fails.
// The cause is wrapped; no partial catalog accompanies it.
var ErrLoadFailed = errors.New("catalog load failed")

// Catalog is the result of one load.
type Catalog struct {
	Sections []*domain.Section
	Banners  []*domain.Banner
}

// Assembler orchestrates the fragment fetches of one load.
type Assembler struct {
	origin     content.Origin
	publicBase string
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewAssembler creates an Assembler. publicBase prefixes the data URLs of
// attachments, e.g. "./data".
func NewAssembler(origin content.Origin, publicBase string, m *metrics.Metrics, logger *slog.Logger) *Assembler {
	if origin == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("origin cannot be nil for Assembler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		origin:     origin,
		publicBase: publicBase,
		metrics:    m,
		logger:     logger.With(slog.String("component", "catalog_assembler")),
	}
}

// Load fetches and assembles the whole catalog. Sections and banners are
// fetched concurrently; within the section tree every level fans out
// concurrently and waits for all of its children before the parent node is
// composed. The first failure cancels the outstanding fetches and the load
// returns ErrLoadFailed.
func (a *Assembler) Load(ctx context.Context) (*Catalog, error) {
	start := time.Now()

	var (
		sections []*domain.Section
		banners  []*domain.Banner
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sections, err = a.loadSections(gctx)
		return err
	})
	g.Go(func() error {
		list, err := a.origin.Banners(gctx)
		if err != nil {
			return err
		}
		banners = make([]*domain.Banner, len(list))
		for i := range list {
			b := list[i]
			banners[i] = &b
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		a.metrics.ObserveLoad(false, time.Since(start))
		a.logger.Error("catalog load failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	a.metrics.ObserveLoad(true, time.Since(start))
	a.logger.Info("catalog loaded",
		slog.Int("sections", len(sections)),
		slog.Int("banners", len(banners)),
		slog.Duration("elapsed", time.Since(start)))

	return &Catalog{Sections: sections, Banners: banners}, nil
}

func (a *Assembler) loadSections(ctx context.Context) ([]*domain.Section, error) {
	metas, err := a.origin.Sections(ctx)
	if err != nil {
		return nil, err
	}

	sections := make([]*domain.Section, len(metas))
	g, gctx := errgroup.WithContext(ctx)
	for i, meta := range metas {
		g.Go(func() error {
			s, err := a.loadSection(gctx, meta)
			if err != nil {
				return err
			}
			sections[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sections, nil
}

func (a *Assembler) loadSection(ctx context.Context, meta content.SectionMeta) (*domain.Section, error) {
	ids, err := a.origin.DiseaseIDs(ctx, meta.ID)
	if err != nil {
		return nil, err
	}

	diseases := make([]*domain.Disease, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			d, err := a.loadDisease(gctx, meta.ID, id)
			if err != nil {
				return err
			}
			diseases[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.Section{
		ID:         meta.ID,
		Name:       meta.Name,
		Icon:       meta.Icon,
		ColorClass: meta.ColorClass,
		Diseases:   diseases,
	}, nil
}

// loadDisease fetches the manifest and the description concurrently.
func (a *Assembler) loadDisease(ctx context.Context, sectionID, diseaseID string) (*domain.Disease, error) {
	var (
		manifest    *content.Manifest
		description string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		manifest, err = a.origin.Manifest(gctx, sectionID, diseaseID)
		return err
	})
	g.Go(func() error {
		var err error
		description, err = a.origin.Description(gctx, sectionID, diseaseID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	files := make([]*domain.FileAttachment, len(manifest.Files))
	for i, f := range manifest.Files {
		files[i] = &domain.FileAttachment{
			ID:          diseaseID + "-" + strconv.Itoa(i),
			Name:        f.Name,
			Description: f.Description,
			Type:        fileType(f.Type),
			DataURL:     content.JoinPath(a.publicBase, sectionID, diseaseID, f.Path),
		}
	}

	return &domain.Disease{
		ID:          diseaseID,
		Name:        manifest.Name,
		Description: description,
		Files:       files,
	}, nil
}

func fileType(t domain.FileType) domain.FileType {
	if t == "" {
		return domain.FileTypeUnknown
	}
	return t
}
