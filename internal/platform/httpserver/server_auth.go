package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	autherrors "bookshelf/contexts/identity-access/auth-service/domain/errors"
	authhttp "bookshelf/contexts/identity-access/auth-service/transport/http"
)

const (
	detailMissingCredentials = "Invalid request. Provide username and password in JSON or form data."
	detailBadLogin           = "Invalid username or password"
	detailNotAuthenticated   = "Not authenticated"
	detailInvalidToken       = "Invalid authentication credentials."
	detailTokenExpired       = "Token has expired"
)

func principalFrom(ctx context.Context) (authhttp.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(authhttp.Principal)
	return principal, ok
}

// handleLogin accepts either a JSON body or form fields.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req authhttp.LoginRequest
	if strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, detailMissingCredentials)
			return
		}
	} else {
		req.Username = r.FormValue("username")
		req.Password = r.FormValue("password")
	}

	resp, err := s.auth.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// requireBearer rejects the request unless it carries a valid bearer token.
func (s *Server) requireBearer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := ""
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = strings.TrimSpace(parts[1])
		}

		principal, err := s.auth.Handler.Authenticate(r.Context(), token)
		if err != nil {
			s.logger.Info("bearer rejected",
				"event", "http_bearer_rejected",
				"module", "internal/platform/httpserver",
				"layer", "platform",
				"request_id", requestIDFrom(r.Context()),
				"path", r.URL.Path,
				"reason", err.Error(),
			)
			writeAuthError(w, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), principalKey, principal)))
	}
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, autherrors.ErrMissingCredentials):
		writeDetail(w, http.StatusBadRequest, detailMissingCredentials)
	case errors.Is(err, autherrors.ErrInvalidCredentials):
		writeUnauthorized(w, detailBadLogin)
	case errors.Is(err, autherrors.ErrTokenMissing):
		writeUnauthorized(w, detailNotAuthenticated)
	case errors.Is(err, autherrors.ErrTokenExpired):
		writeUnauthorized(w, detailTokenExpired)
	case errors.Is(err, autherrors.ErrTokenInvalid):
		writeUnauthorized(w, detailInvalidToken)
	default:
		writeDetail(w, http.StatusInternalServerError, detailInternal)
	}
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, detail)
}
