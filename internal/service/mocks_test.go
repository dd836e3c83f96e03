package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phrazzld/patientedu/internal/catalog"
	"github.com/phrazzld/patientedu/internal/domain"
	"github.com/phrazzld/patientedu/internal/export"
	"github.com/phrazzld/patientedu/internal/store"
)

// MockLoader is a function-field Loader.
type MockLoader struct {
	LoadFn func(ctx context.Context) (*catalog.Catalog, error)
}

func (m *MockLoader) Load(ctx context.Context) (*catalog.Catalog, error) {
	return m.LoadFn(ctx)
}

// MockEncoder is a function-field DocumentEncoder.
type MockEncoder struct {
	EncodeFn func(doc *export.Document) ([]byte, error)
}

func (m *MockEncoder) Encode(doc *export.Document) ([]byte, error) {
	return m.EncodeFn(doc)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixtureCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Sections: []*domain.Section{
			{
				ID: "cardiology", Name: "Cardiology",
				Diseases: []*domain.Disease{
					{ID: "heart-failure", Name: "Heart Failure", Description: "Limit **salt** intake", Files: []*domain.FileAttachment{}},
					{ID: "angina", Name: "Angina", Description: "Chest pain on exertion", Files: []*domain.FileAttachment{}},
				},
			},
			{
				ID: "endocrinology", Name: "Endocrinology",
				Diseases: []*domain.Disease{
					{ID: "diabetes", Name: "Diabetes", Description: "Check blood SALT? no, sugar", Files: []*domain.FileAttachment{}},
				},
			},
		},
		Banners: []*domain.Banner{
			{ID: "b1", Title: "One"},
			{ID: "b2", Title: "Two"},
			{ID: "b3", Title: "Three"},
		},
	}
}

// newLoadedCatalogService returns a service over a store holding fixtureCatalog.
func newLoadedCatalogService(t *testing.T, opts ...store.Option) (CatalogService, *store.CatalogStore) {
	t.Helper()
	st := store.NewCatalogStore(append([]store.Option{store.WithLogger(discardLogger())}, opts...)...)
	svc, err := NewCatalogService(st, &MockLoader{LoadFn: func(ctx context.Context) (*catalog.Catalog, error) {
		return fixtureCatalog(), nil
	}}, discardLogger())
	require.NoError(t, err)
	require.NoError(t, svc.Load(context.Background()))
	return svc, st
}
