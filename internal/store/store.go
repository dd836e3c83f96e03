package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/patientedu/internal/domain"
	"github.com/phrazzld/patientedu/internal/events"
	"github.com/phrazzld/patientedu/internal/platform/logger"
	"github.com/phrazzld/patientedu/internal/platform/metrics"
)

// Snapshot is a read-only view of the catalog at one revision. The slices
// and every node reachable from them must not be modified.
type Snapshot struct {
	Sections []*domain.Section
	Banners  []*domain.Banner
	Revision uint64

	// Loading is true until the initial load has settled.
	Loading bool

	// LoadErr is the failure of the initial load, if any.
	LoadErr error
}

// Section returns the section with the given ID.
func (s *Snapshot) Section(id string) (*domain.Section, bool) {
	sec, _ := domain.FindSection(s.Sections, id)
	return sec, sec != nil
}

// Disease returns a disease by its path.
func (s *Snapshot) Disease(sectionID, diseaseID string) (*domain.Disease, bool) {
	sec, ok := s.Section(sectionID)
	if !ok {
		return nil, false
	}
	d, _ := sec.FindDisease(diseaseID)
	return d, d != nil
}

// Option configures a CatalogStore.
type Option func(*CatalogStore)

// WithClock sets the time source used for upload IDs and events.
func WithClock(now func() time.Time) Option {
	return func(s *CatalogStore) { s.now = now }
}

// WithEmitter sets the emitter that receives change events.
func WithEmitter(e events.EventEmitter) Option {
	return func(s *CatalogStore) { s.emitter = e }
}

// WithMetrics sets the collectors updated by the store.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *CatalogStore) { s.metrics = m }
}

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *CatalogStore) { s.logger = l }
}

// CatalogStore owns the live catalog.
type CatalogStore struct {
	mu       sync.RWMutex
	sections []*domain.Section
	banners  []*domain.Banner
	revision uint64
	loading  bool
	loadErr  error
	closed   bool

	resources *Resources
	now       func() time.Time
	emitter   events.EventEmitter
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewCatalogStore creates an empty store in the loading state.
func NewCatalogStore(opts ...Option) *CatalogStore {
	s := &CatalogStore{
		sections: []*domain.Section{},
		banners:  []*domain.Banner{},
		loading:  true,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With(slog.String("component", "catalog_store"))
	s.resources = NewResources(s.metrics)
	return s
}

// Snapshot returns the current view.
func (s *CatalogStore) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Snapshot{
		Sections: s.sections,
		Banners:  s.banners,
		Revision: s.revision,
		Loading:  s.loading,
		LoadErr:  s.loadErr,
	}
}

// Resource returns the content behind a transient reference.
func (s *CatalogStore) Resource(ref string) (*Resource, bool) {
	return s.resources.Get(ref)
}

// Install replaces the whole catalog with a freshly loaded one and clears
// the loading flag. Every transient reference of the replaced catalog is
// released.
func (s *CatalogStore) Install(ctx context.Context, sections []*domain.Section, banners []*domain.Banner) error {
	return s.install(ctx, sections, banners, nil)
}

// FailLoad installs an empty catalog and records the load failure.
func (s *CatalogStore) FailLoad(ctx context.Context, cause error) error {
	return s.install(ctx, nil, nil, cause)
}

func (s *CatalogStore) install(ctx context.Context, sections []*domain.Section, banners []*domain.Banner, cause error) error {
	if sections == nil {
		sections = []*domain.Section{}
	}
	if banners == nil {
		banners = []*domain.Banner{}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}
	released := s.resources.ReleaseAll()
	s.sections = sections
	s.banners = banners
	s.loading = false
	s.loadErr = cause
	rev := s.publishLocked()
	s.mu.Unlock()

	logger.FromContextOrDefault(ctx, s.logger).Info("catalog installed",
		slog.Int("sections", len(sections)),
		slog.Int("banners", len(banners)),
		slog.Int("released_resources", released),
		slog.Bool("load_failed", cause != nil),
		slog.Uint64("revision", rev))
	s.emit(ctx, events.TypeCatalogInstalled, rev, events.Target{})
	return nil
}

// Close releases every transient reference. Later writes fail with
// ErrStoreClosed; reads keep returning the last snapshot.
func (s *CatalogStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.resources.ReleaseAll()
}

// AddSection creates an empty section whose ID is derived from name.
func (s *CatalogStore) AddSection(ctx context.Context, name, icon, colorClass string) (*domain.Section, error) {
	sec := domain.NewSection(name, icon, colorClass)
	if err := sec.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	rev, err := s.write(ctx, "add_section", func() bool {
		s.sections = AddSection(s.sections, sec)
		return true
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.TypeSectionAdded, rev, events.Target{SectionID: sec.ID})
	return sec, nil
}

// UpdateSection replaces a section's display fields.
func (s *CatalogStore) UpdateSection(ctx context.Context, id, name, icon, colorClass string) (bool, error) {
	rev, err := s.write(ctx, "update_section", func() bool {
		next, ok := UpdateSection(s.sections, id, name, icon, colorClass)
		s.sections = next
		return ok
	})
	return s.applied(ctx, rev, err, events.TypeSectionUpdated, events.Target{SectionID: id})
}

// DeleteSection removes a section with everything below it.
func (s *CatalogStore) DeleteSection(ctx context.Context, id string) (bool, error) {
	rev, err := s.write(ctx, "delete_section", func() bool {
		next, removed := DeleteSection(s.sections, id)
		if len(removed) == 0 {
			return false
		}
		s.sections = next
		s.release(sectionRefs(removed))
		return true
	})
	return s.applied(ctx, rev, err, events.TypeSectionDeleted, events.Target{SectionID: id})
}

// AddDisease creates a disease without attachments in a section. It returns
// nil when the section does not exist.
func (s *CatalogStore) AddDisease(ctx context.Context, sectionID, name, description string) (*domain.Disease, error) {
	d := domain.NewDisease(name, description)
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	rev, err := s.write(ctx, "add_disease", func() bool {
		next, ok := AddDisease(s.sections, sectionID, d)
		s.sections = next
		return ok
	})
	if err != nil || rev == 0 {
		return nil, err
	}
	s.emit(ctx, events.TypeDiseaseAdded, rev, events.Target{SectionID: sectionID, DiseaseID: d.ID})
	return d, nil
}

// UpdateDisease replaces a disease's name and description.
func (s *CatalogStore) UpdateDisease(ctx context.Context, sectionID, diseaseID, name, description string) (bool, error) {
	rev, err := s.write(ctx, "update_disease", func() bool {
		next, ok := UpdateDisease(s.sections, sectionID, diseaseID, name, description)
		s.sections = next
		return ok
	})
	return s.applied(ctx, rev, err, events.TypeDiseaseUpdated,
		events.Target{SectionID: sectionID, DiseaseID: diseaseID})
}

// DeleteDisease removes a disease with its files.
func (s *CatalogStore) DeleteDisease(ctx context.Context, sectionID, diseaseID string) (bool, error) {
	rev, err := s.write(ctx, "delete_disease", func() bool {
		next, removed := DeleteDisease(s.sections, sectionID, diseaseID)
		if len(removed) == 0 {
			return false
		}
		s.sections = next
		s.release(diseaseRefs(removed))
		return true
	})
	return s.applied(ctx, rev, err, events.TypeDiseaseDeleted,
		events.Target{SectionID: sectionID, DiseaseID: diseaseID})
}

// AddFileToDisease attaches uploaded content to a disease. The type is
// derived from the upload's media type. It returns nil when the disease
// does not exist; no reference is acquired in that case.
func (s *CatalogStore) AddFileToDisease(
	ctx context.Context,
	sectionID, diseaseID string,
	up Upload,
	name, description string,
) (*domain.FileAttachment, error) {
	var file *domain.FileAttachment

	rev, err := s.write(ctx, "add_file", func() bool {
		if !s.hasDisease(sectionID, diseaseID) {
			return false
		}
		mediaType := up.DetectedMediaType()
		file = &domain.FileAttachment{
			ID:          domain.TimestampID(s.now(), up.Name),
			Name:        name,
			Description: description,
			Type:        domain.ClassifyMediaType(mediaType),
			DataURL:     s.resources.Acquire(up.Name, mediaType, up.Data),
		}
		s.sections, _ = AddFile(s.sections, sectionID, diseaseID, file)
		return true
	})
	if err != nil || rev == 0 {
		return nil, err
	}
	s.emit(ctx, events.TypeFileAdded, rev,
		events.Target{SectionID: sectionID, DiseaseID: diseaseID, FileID: file.ID})
	return file, nil
}

// DeleteFileFromDisease removes an attachment and releases its content.
func (s *CatalogStore) DeleteFileFromDisease(ctx context.Context, sectionID, diseaseID, fileID string) (bool, error) {
	rev, err := s.write(ctx, "delete_file", func() bool {
		next, removed := DeleteFile(s.sections, sectionID, diseaseID, fileID)
		if len(removed) == 0 {
			return false
		}
		s.sections = next
		s.release(fileRefs(removed))
		return true
	})
	return s.applied(ctx, rev, err, events.TypeFileDeleted,
		events.Target{SectionID: sectionID, DiseaseID: diseaseID, FileID: fileID})
}

// AddBanner creates a banner showing the uploaded image.
func (s *CatalogStore) AddBanner(ctx context.Context, up Upload, title, description string) (*domain.Banner, error) {
	var banner *domain.Banner

	rev, err := s.write(ctx, "add_banner", func() bool {
		banner = &domain.Banner{
			ID:          domain.TimestampID(s.now(), up.Name),
			Title:       title,
			Description: description,
			ImageURL:    s.resources.Acquire(up.Name, up.DetectedMediaType(), up.Data),
		}
		s.banners = AddBanner(s.banners, banner)
		return true
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.TypeBannerAdded, rev, events.Target{BannerID: banner.ID})
	return banner, nil
}

// UpdateBanner replaces a banner's title and description. When up is not
// nil the image is replaced too and the previous transient image released.
func (s *CatalogStore) UpdateBanner(ctx context.Context, id, title, description string, up *Upload) (bool, error) {
	rev, err := s.write(ctx, "update_banner", func() bool {
		if b, _ := FindBanner(s.banners, id); b == nil {
			return false
		}
		imageURL := ""
		if up != nil {
			imageURL = s.resources.Acquire(up.Name, up.DetectedMediaType(), up.Data)
		}
		next, old := UpdateBanner(s.banners, id, title, description, imageURL)
		s.banners = next
		if up != nil {
			s.release(bannerRefs(old))
		}
		return true
	})
	return s.applied(ctx, rev, err, events.TypeBannerUpdated, events.Target{BannerID: id})
}

// DeleteBanner removes a banner and releases its transient image.
func (s *CatalogStore) DeleteBanner(ctx context.Context, id string) (bool, error) {
	rev, err := s.write(ctx, "delete_banner", func() bool {
		next, removed := DeleteBanner(s.banners, id)
		if len(removed) == 0 {
			return false
		}
		s.banners = next
		s.release(bannerRefs(removed))
		return true
	})
	return s.applied(ctx, rev, err, events.TypeBannerDeleted, events.Target{BannerID: id})
}

// write runs fn under the write lock. fn mutates the store's root fields
// and reports whether anything changed. The published revision is
// returned, or 0 for a no-op.
func (s *CatalogStore) write(ctx context.Context, op string, fn func() bool) (uint64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		log.Warn("write rejected on closed store", slog.String("operation", op))
		return 0, ErrStoreClosed
	}
	var rev uint64
	changed := fn()
	if changed {
		rev = s.publishLocked()
	}
	s.mu.Unlock()

	s.metrics.RecordMutation(op, changed)
	if changed {
		log.Info("catalog mutated", slog.String("operation", op), slog.Uint64("revision", rev))
	} else {
		log.Debug("catalog mutation had no target", slog.String("operation", op))
	}
	return rev, nil
}

func (s *CatalogStore) applied(ctx context.Context, rev uint64, err error, eventType string, target events.Target) (bool, error) {
	if err != nil || rev == 0 {
		return false, err
	}
	s.emit(ctx, eventType, rev, target)
	return true, nil
}

// publishLocked bumps the revision and refreshes the size gauges.
func (s *CatalogStore) publishLocked() uint64 {
	s.revision++
	if s.metrics != nil {
		diseases, files := 0, 0
		for _, sec := range s.sections {
			diseases += len(sec.Diseases)
			for _, d := range sec.Diseases {
				files += len(d.Files)
			}
		}
		s.metrics.SetCatalogSize(len(s.sections), diseases, files, len(s.banners))
	}
	return s.revision
}

func (s *CatalogStore) hasDisease(sectionID, diseaseID string) bool {
	for _, sec := range s.sections {
		if sec.ID != sectionID {
			continue
		}
		if d, _ := sec.FindDisease(diseaseID); d != nil {
			return true
		}
	}
	return false
}

func (s *CatalogStore) release(refs []string) {
	for _, ref := range refs {
		s.resources.Release(ref)
	}
}

func (s *CatalogStore) emit(ctx context.Context, eventType string, rev uint64, target events.Target) {
	if s.emitter == nil {
		return
	}
	event, err := events.NewCatalogEvent(eventType, rev, target, s.now())
	if err != nil {
		s.logger.Error("failed to build catalog event", slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("catalog event handler failed",
			slog.String("event_type", eventType),
			slog.Uint64("revision", rev),
			slog.String("error", err.Error()))
	}
}
