package middleware

import (
	"context"
	"net/http"

	"github.com/phrazzld/patientedu/internal/api/shared"
)

// Realm is advertised in the WWW-Authenticate challenge.
const Realm = "patientedu-admin"

// CredentialChecker verifies an administrator credential pair.
// *auth.Authenticator satisfies it.
type CredentialChecker interface {
	Check(ctx context.Context, login, password string) bool
}

// AdminAuth guards administrator routes with HTTP Basic credentials.
type AdminAuth struct {
	checker CredentialChecker
}

// NewAdminAuth creates an AdminAuth backed by checker.
func NewAdminAuth(checker CredentialChecker) *AdminAuth {
	if checker == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("credential checker cannot be nil")
	}
	return &AdminAuth{checker: checker}
}

// Authenticate rejects requests without valid administrator credentials
// and records the administrator login in the context of the rest.
func (m *AdminAuth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		login, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="`+Realm+`", charset="UTF-8"`)
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		if !m.checker.Check(r.Context(), login, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="`+Realm+`", charset="UTF-8"`)
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid credentials", nil,
				shared.WithElevatedLogLevel())
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithAdminLogin(r.Context(), login)))
	})
}
