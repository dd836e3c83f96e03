package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/patientedu/internal/banner"
	"github.com/phrazzld/patientedu/internal/domain"
	"github.com/phrazzld/patientedu/internal/events"
	"github.com/phrazzld/patientedu/internal/store"
)

// Rotator is the banner rotation state machine.
type Rotator interface {
	Current() int
	Next() int
	Previous() int
	Goto(i int) (int, error)
	SetLength(n int)
}

var _ Rotator = (*banner.Rotator)(nil)

// CurrentBanner is the banner on display and its position.
type CurrentBanner struct {
	Index  int            `json:"index"`
	Total  int            `json:"total"`
	Banner *domain.Banner `json:"banner"`
}

// BannerService exposes the banner strip and its rotation.
type BannerService interface {
	events.EventHandler

	List(ctx context.Context) []*domain.Banner

	// Current returns the banner on display, or ErrNotFound when there are
	// no banners.
	Current(ctx context.Context) (*CurrentBanner, error)
	Next(ctx context.Context) (*CurrentBanner, error)
	Previous(ctx context.Context) (*CurrentBanner, error)
	Goto(ctx context.Context, index int) (*CurrentBanner, error)

	Add(ctx context.Context, up store.Upload, title, description string) (*domain.Banner, error)
	Update(ctx context.Context, id, title, description string, up *store.Upload) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type bannerServiceImpl struct {
	store   CatalogStore
	rotator Rotator
	logger  *slog.Logger
}

// NewBannerService creates a BannerService. Register the returned service
// with the store's event emitter so the rotator follows banner changes.
func NewBannerService(s CatalogStore, r Rotator, log *slog.Logger) (BannerService, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: store cannot be nil", domain.ErrValidation)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: rotator cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}
	return &bannerServiceImpl{
		store:   s,
		rotator: r,
		logger:  log.With(slog.String("component", "banner_service")),
	}, nil
}

// HandleEvent resizes the rotator whenever the banner list may have changed.
func (s *bannerServiceImpl) HandleEvent(ctx context.Context, event *events.CatalogEvent) error {
	switch event.Type {
	case events.TypeCatalogInstalled, events.TypeBannerAdded, events.TypeBannerDeleted:
		n := len(s.store.Snapshot().Banners)
		s.rotator.SetLength(n)
		s.logger.Debug("banner rotation resized", slog.Int("banners", n), slog.Uint64("revision", event.Revision))
	}
	return nil
}

func (s *bannerServiceImpl) List(ctx context.Context) []*domain.Banner {
	return s.store.Snapshot().Banners
}

func (s *bannerServiceImpl) Current(ctx context.Context) (*CurrentBanner, error) {
	return s.at(s.rotator.Current())
}

func (s *bannerServiceImpl) Next(ctx context.Context) (*CurrentBanner, error) {
	return s.at(s.rotator.Next())
}

func (s *bannerServiceImpl) Previous(ctx context.Context) (*CurrentBanner, error) {
	return s.at(s.rotator.Previous())
}

func (s *bannerServiceImpl) Goto(ctx context.Context, index int) (*CurrentBanner, error) {
	i, err := s.rotator.Goto(index)
	if err != nil {
		return nil, fmt.Errorf("banner %d: %w: %w", index, ErrNotFound, err)
	}
	return s.at(i)
}

func (s *bannerServiceImpl) Add(ctx context.Context, up store.Upload, title, description string) (*domain.Banner, error) {
	b, err := s.store.AddBanner(ctx, up, title, description)
	if err != nil {
		return nil, NewServiceError("banner", "add", err)
	}
	return b, nil
}

func (s *bannerServiceImpl) Update(ctx context.Context, id, title, description string, up *store.Upload) (bool, error) {
	ok, err := s.store.UpdateBanner(ctx, id, title, description, up)
	if err != nil {
		return false, NewServiceError("banner", "update", err)
	}
	return ok, nil
}

func (s *bannerServiceImpl) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.store.DeleteBanner(ctx, id)
	if err != nil {
		return false, NewServiceError("banner", "delete", err)
	}
	return ok, nil
}

func (s *bannerServiceImpl) at(index int) (*CurrentBanner, error) {
	banners := s.store.Snapshot().Banners
	if len(banners) == 0 {
		return nil, fmt.Errorf("banner: %w", ErrNotFound)
	}
	if index >= len(banners) {
		index = len(banners) - 1
	}
	return &CurrentBanner{Index: index, Total: len(banners), Banner: banners[index]}, nil
}
