package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/patientedu/internal/api/shared"
)

type checkerFunc func(ctx context.Context, login, password string) bool

func (f checkerFunc) Check(ctx context.Context, login, password string) bool {
	return f(ctx, login, password)
}

func TestAdminAuth_Authenticate(t *testing.T) {
	t.Parallel()

	checker := checkerFunc(func(_ context.Context, login, password string) bool {
		return login == "5850008985" && password == "64546"
	})

	tests := []struct {
		name           string
		setAuth        func(r *http.Request)
		expectedStatus int
		expectedLogin  string
	}{
		{
			name:           "valid credentials",
			setAuth:        func(r *http.Request) { r.SetBasicAuth("5850008985", "64546") },
			expectedStatus: http.StatusOK,
			expectedLogin:  "5850008985",
		},
		{
			name:           "missing header",
			setAuth:        func(*http.Request) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "bearer scheme",
			setAuth:        func(r *http.Request) { r.Header.Set("Authorization", "Bearer token") },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong password",
			setAuth:        func(r *http.Request) { r.SetBasicAuth("5850008985", "wrong") },
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotLogin string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotLogin, _ = shared.AdminLogin(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			r := httptest.NewRequest(http.MethodPost, "/api/admin/sections", nil)
			tt.setAuth(r)
			w := httptest.NewRecorder()

			NewAdminAuth(checker).Authenticate(next).ServeHTTP(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedLogin, gotLogin)
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.Contains(t, w.Header().Get("WWW-Authenticate"), `realm="`+Realm+`"`)
			}
		})
	}
}

func TestNewAdminAuth_NilChecker(t *testing.T) {
	assert.Panics(t, func() { NewAdminAuth(nil) })
}
