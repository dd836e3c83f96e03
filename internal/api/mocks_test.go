package api

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/patientedu/internal/domain"
	"github.com/phrazzld/patientedu/internal/events"
	"github.com/phrazzld/patientedu/internal/service"
	"github.com/phrazzld/patientedu/internal/store"
)

// MockCatalogService is a function-field mock of service.CatalogService.
// Unset read functions return zero values; unset writes report not applied.
type MockCatalogService struct {
	StatusFn        func(ctx context.Context) service.Status
	SectionsFn      func(ctx context.Context) []*domain.Section
	SectionFn       func(ctx context.Context, sectionID string) (*domain.Section, error)
	DiseaseFn       func(ctx context.Context, sectionID, diseaseID string) (*domain.Disease, error)
	BlobFn          func(ctx context.Context, ref string) (*store.Resource, error)
	SearchFn        func(ctx context.Context, query string) []service.SearchHit
	AddSectionFn    func(ctx context.Context, name, icon, colorClass string) (*domain.Section, error)
	UpdateSectionFn func(ctx context.Context, id, name, icon, colorClass string) (bool, error)
	DeleteSectionFn func(ctx context.Context, id string) (bool, error)
	AddDiseaseFn    func(ctx context.Context, sectionID, name, description string) (*domain.Disease, error)
	UpdateDiseaseFn func(ctx context.Context, sectionID, diseaseID, name, description string) (bool, error)
	DeleteDiseaseFn func(ctx context.Context, sectionID, diseaseID string) (bool, error)
	AddFileFn       func(ctx context.Context, sectionID, diseaseID string, up store.Upload, name, description string) (*domain.FileAttachment, error)
	DeleteFileFn    func(ctx context.Context, sectionID, diseaseID, fileID string) (bool, error)
}

var _ service.CatalogService = (*MockCatalogService)(nil)

func (m *MockCatalogService) Load(context.Context) error { return nil }

func (m *MockCatalogService) Status(ctx context.Context) service.Status {
	if m.StatusFn != nil {
		return m.StatusFn(ctx)
	}
	return service.Status{}
}

func (m *MockCatalogService) Sections(ctx context.Context) []*domain.Section {
	if m.SectionsFn != nil {
		return m.SectionsFn(ctx)
	}
	return nil
}

func (m *MockCatalogService) Section(ctx context.Context, sectionID string) (*domain.Section, error) {
	if m.SectionFn != nil {
		return m.SectionFn(ctx, sectionID)
	}
	return nil, service.ErrNotFound
}

func (m *MockCatalogService) Disease(ctx context.Context, sectionID, diseaseID string) (*domain.Disease, error) {
	if m.DiseaseFn != nil {
		return m.DiseaseFn(ctx, sectionID, diseaseID)
	}
	return nil, service.ErrNotFound
}

func (m *MockCatalogService) Blob(ctx context.Context, ref string) (*store.Resource, error) {
	if m.BlobFn != nil {
		return m.BlobFn(ctx, ref)
	}
	return nil, service.ErrNotFound
}

func (m *MockCatalogService) Search(ctx context.Context, query string) []service.SearchHit {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, query)
	}
	return nil
}

func (m *MockCatalogService) AddSection(ctx context.Context, name, icon, colorClass string) (*domain.Section, error) {
	if m.AddSectionFn != nil {
		return m.AddSectionFn(ctx, name, icon, colorClass)
	}
	return nil, nil
}

func (m *MockCatalogService) UpdateSection(ctx context.Context, id, name, icon, colorClass string) (bool, error) {
	if m.UpdateSectionFn != nil {
		return m.UpdateSectionFn(ctx, id, name, icon, colorClass)
	}
	return false, nil
}

func (m *MockCatalogService) DeleteSection(ctx context.Context, id string) (bool, error) {
	if m.DeleteSectionFn != nil {
		return m.DeleteSectionFn(ctx, id)
	}
	return false, nil
}

func (m *MockCatalogService) AddDisease(ctx context.Context, sectionID, name, description string) (*domain.Disease, error) {
	if m.AddDiseaseFn != nil {
		return m.AddDiseaseFn(ctx, sectionID, name, description)
	}
	return nil, nil
}

func (m *MockCatalogService) UpdateDisease(ctx context.Context, sectionID, diseaseID, name, description string) (bool, error) {
	if m.UpdateDiseaseFn != nil {
		return m.UpdateDiseaseFn(ctx, sectionID, diseaseID, name, description)
	}
	return false, nil
}

func (m *MockCatalogService) DeleteDisease(ctx context.Context, sectionID, diseaseID string) (bool, error) {
	if m.DeleteDiseaseFn != nil {
		return m.DeleteDiseaseFn(ctx, sectionID, diseaseID)
	}
	return false, nil
}

func (m *MockCatalogService) AddFile(
	ctx context.Context,
	sectionID, diseaseID string,
	up store.Upload,
	name, description string,
) (*domain.FileAttachment, error) {
	if m.AddFileFn != nil {
		return m.AddFileFn(ctx, sectionID, diseaseID, up, name, description)
	}
	return nil, nil
}

func (m *MockCatalogService) DeleteFile(ctx context.Context, sectionID, diseaseID, fileID string) (bool, error) {
	if m.DeleteFileFn != nil {
		return m.DeleteFileFn(ctx, sectionID, diseaseID, fileID)
	}
	return false, nil
}

// MockExportService is a function-field mock of service.ExportService.
type MockExportService struct {
	ExportFn func(ctx context.Context, sectionID, diseaseID string) (*service.Artifact, error)
}

func (m *MockExportService) Export(ctx context.Context, sectionID, diseaseID string) (*service.Artifact, error) {
	if m.ExportFn != nil {
		return m.ExportFn(ctx, sectionID, diseaseID)
	}
	return nil, service.ErrNotFound
}

// MockBannerService is a function-field mock of service.BannerService.
type MockBannerService struct {
	ListFn     func(ctx context.Context) []*domain.Banner
	CurrentFn  func(ctx context.Context) (*service.CurrentBanner, error)
	NextFn     func(ctx context.Context) (*service.CurrentBanner, error)
	PreviousFn func(ctx context.Context) (*service.CurrentBanner, error)
	GotoFn     func(ctx context.Context, index int) (*service.CurrentBanner, error)
	AddFn      func(ctx context.Context, up store.Upload, title, description string) (*domain.Banner, error)
	UpdateFn   func(ctx context.Context, id, title, description string, up *store.Upload) (bool, error)
	DeleteFn   func(ctx context.Context, id string) (bool, error)
}

var _ service.BannerService = (*MockBannerService)(nil)

func (m *MockBannerService) HandleEvent(context.Context, *events.CatalogEvent) error { return nil }

func (m *MockBannerService) List(ctx context.Context) []*domain.Banner {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil
}

func (m *MockBannerService) Current(ctx context.Context) (*service.CurrentBanner, error) {
	if m.CurrentFn != nil {
		return m.CurrentFn(ctx)
	}
	return nil, service.ErrNotFound
}

func (m *MockBannerService) Next(ctx context.Context) (*service.CurrentBanner, error) {
	if m.NextFn != nil {
		return m.NextFn(ctx)
	}
	return nil, service.ErrNotFound
}

func (m *MockBannerService) Previous(ctx context.Context) (*service.CurrentBanner, error) {
	if m.PreviousFn != nil {
		return m.PreviousFn(ctx)
	}
	return nil, service.ErrNotFound
}

func (m *MockBannerService) Goto(ctx context.Context, index int) (*service.CurrentBanner, error) {
	if m.GotoFn != nil {
		return m.GotoFn(ctx, index)
	}
	return nil, service.ErrNotFound
}

func (m *MockBannerService) Add(ctx context.Context, up store.Upload, title, description string) (*domain.Banner, error) {
	if m.AddFn != nil {
		return m.AddFn(ctx, up, title, description)
	}
	return nil, nil
}

func (m *MockBannerService) Update(ctx context.Context, id, title, description string, up *store.Upload) (bool, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, title, description, up)
	}
	return false, nil
}

func (m *MockBannerService) Delete(ctx context.Context, id string) (bool, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return false, nil
}

// MockLogin is a function-field mock of CredentialLogin.
type MockLogin struct {
	LoginFn func(ctx context.Context, login, password string) (bool, error)
}

func (m *MockLogin) Login(ctx context.Context, login, password string) (bool, error) {
	return m.LoginFn(ctx, login, password)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// serve routes one request through a chi router so path parameters resolve.
func serve(method, pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type formFile struct {
	field, filename, contentType string
	data                         []byte
}

// multipartRequest builds a multipart request with the given fields and files.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.filename+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
