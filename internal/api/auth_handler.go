package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/patientedu/internal/api/shared"
	"github.com/phrazzld/patientedu/internal/platform/logger"
	"github.com/phrazzld/patientedu/internal/redact"
)

// CredentialLogin checks an administrator credential pair with throttling.
// *auth.Authenticator satisfies it.
type CredentialLogin interface {
	Login(ctx context.Context, login, password string) (bool, error)
}

// AuthHandler handles authentication requests.
type AuthHandler struct {
	authenticator CredentialLogin
	logger        *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authenticator CredentialLogin, logger *slog.Logger) *AuthHandler {
	if authenticator == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("authenticator cannot be nil for AuthHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		authenticator: authenticator,
		logger:        logger.With(slog.String("component", "auth_handler")),
	}
}

// Login handles POST /api/auth/login. Wrong credentials are not an error:
// the response reports isAdmin=false.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		log.Warn("invalid login request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	ok, err := h.authenticator.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to check credentials")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{IsAdmin: ok})
}
