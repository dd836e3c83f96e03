package content

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/patientedu/internal/domain"
	"github.com/phrazzld/patientedu/internal/platform/logger"
	"github.com/phrazzld/patientedu/internal/platform/metrics"
)

// maxFragmentSize bounds a single fragment; larger fragments are malformed.
const maxFragmentSize = 8 << 20

// Origin is the read path of the content origin.
type Origin interface {
	Sections(ctx context.Context) ([]SectionMeta, error)
	DiseaseIDs(ctx context.Context, sectionID string) ([]string, error)
	Manifest(ctx context.Context, sectionID, diseaseID string) (*Manifest, error)
	Description(ctx context.Context, sectionID, diseaseID string) (string, error)
	Banners(ctx context.Context) ([]domain.Banner, error)
}

// Fetcher implements Origin over a Source.
type Fetcher struct {
	source   Source
	validate *validator.Validate
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

var _ Origin = (*Fetcher)(nil)

// NewFetcher creates a Fetcher reading from source.
// If logger is nil, the default logger is used.
func NewFetcher(source Source, m *metrics.Metrics, log *slog.Logger) *Fetcher {
	if source == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("source cannot be nil for Fetcher")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Fetcher{
		source:   source,
		validate: validator.New(),
		metrics:  m,
		logger:   log.With(slog.String("component", "content_fetcher")),
	}
}

// Sections fetches the ordered section index.
func (f *Fetcher) Sections(ctx context.Context) ([]SectionMeta, error) {
	var sections []SectionMeta
	if err := f.fetchJSON(ctx, "sections", &sections, SectionsFile); err != nil {
		return nil, err
	}
	if err := f.validate.Struct(sectionList{Sections: sections}); err != nil {
		return nil, malformed(SectionsFile, err)
	}
	return sections, nil
}

// DiseaseIDs fetches the ordered disease IDs of a section.
func (f *Fetcher) DiseaseIDs(ctx context.Context, sectionID string) ([]string, error) {
	var ids []string
	if err := f.fetchJSON(ctx, "diseases", &ids, sectionID, DiseasesFile); err != nil {
		return nil, err
	}
	if err := f.validate.Var(ids, "dive,required"); err != nil {
		return nil, malformed(path.Join(sectionID, DiseasesFile), err)
	}
	return ids, nil
}

// Manifest fetches a disease's manifest. A missing files list is treated
// as an empty one.
func (f *Fetcher) Manifest(ctx context.Context, sectionID, diseaseID string) (*Manifest, error) {
	var m Manifest
	if err := f.fetchJSON(ctx, "manifest", &m, sectionID, diseaseID, ManifestFileName); err != nil {
		return nil, err
	}
	if err := f.validate.Struct(&m); err != nil {
		return nil, malformed(path.Join(sectionID, diseaseID, ManifestFileName), err)
	}
	if m.Files == nil {
		m.Files = []ManifestFile{}
	}
	return &m, nil
}

// Description fetches a disease's raw description text.
func (f *Fetcher) Description(ctx context.Context, sectionID, diseaseID string) (string, error) {
	body, err := f.fetch(ctx, "description", sectionID, diseaseID, DescriptionFile)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Banners fetches the ordered banner list.
func (f *Fetcher) Banners(ctx context.Context) ([]domain.Banner, error) {
	var banners []domain.Banner
	if err := f.fetchJSON(ctx, "banners", &banners, BannersFile); err != nil {
		return nil, err
	}
	if err := f.validate.Struct(bannerList{Banners: banners}); err != nil {
		return nil, malformed(BannersFile, err)
	}
	return banners, nil
}

func (f *Fetcher) fetchJSON(ctx context.Context, kind string, v any, elems ...string) error {
	body, err := f.fetch(ctx, kind, elems...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		f.metrics.ObserveFetch(kind, "malformed", 0)
		return malformed(path.Join(elems...), err)
	}
	return nil
}

func (f *Fetcher) fetch(ctx context.Context, kind string, elems ...string) ([]byte, error) {
	log := logger.FromContextOrDefault(ctx, f.logger)
	p := path.Join(elems...)
	start := time.Now()

	rc, err := f.source.Open(ctx, elems...)
	if err != nil {
		f.metrics.ObserveFetch(kind, "error", time.Since(start))
		log.Warn("fragment fetch failed", slog.String("path", p), slog.String("error", err.Error()))
		return nil, fetchFailed(p, err)
	}
	defer rc.Close()

	body, err := io.ReadAll(io.LimitReader(rc, maxFragmentSize+1))
	if err != nil {
		f.metrics.ObserveFetch(kind, "error", time.Since(start))
		log.Warn("fragment read failed", slog.String("path", p), slog.String("error", err.Error()))
		return nil, fetchFailed(p, err)
	}
	if len(body) > maxFragmentSize {
		f.metrics.ObserveFetch(kind, "malformed", time.Since(start))
		log.Warn("fragment too large", slog.String("path", p), slog.Int("limit", maxFragmentSize))
		return nil, malformed(p, errFragmentTooLarge)
	}

	f.metrics.ObserveFetch(kind, "ok", time.Since(start))
	log.Debug("fragment fetched", slog.String("path", p), slog.Int("bytes", len(body)))
	return body, nil
}
