package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "bookshelf/contexts/identity-access/auth-service/application"
	"bookshelf/contexts/identity-access/auth-service/application/commands"
	"bookshelf/contexts/identity-access/auth-service/application/queries"
	httptransport "bookshelf/contexts/identity-access/auth-service/transport/http"
)

type Handler struct {
	Login       commands.LoginUseCase
	VerifyToken queries.VerifyTokenUseCase
	Logger      *slog.Logger
}

// LoginHandler godoc
// @Summary Log in
// @Description Exchanges the demo credential for a bearer token. Accepts JSON or form data.
// @Tags auth
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request body httptransport.LoginRequest true "Credentials"
// @Success 200 {object} httptransport.TokenResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /auth/login [post]
func (h Handler) LoginHandler(ctx context.Context, req httptransport.LoginRequest) (httptransport.TokenResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("login request received",
		"event", "http_login_received",
		"module", "identity-access/auth-service",
		"layer", "transport",
	)

	result, err := h.Login.Execute(ctx, commands.LoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return httptransport.TokenResponse{}, err
	}
	return httptransport.TokenResponse{
		AccessToken: result.Token.Token,
		TokenType:   result.Token.TokenType,
	}, nil
}

// Authenticate resolves a raw bearer token to its principal.
func (h Handler) Authenticate(ctx context.Context, token string) (httptransport.Principal, error) {
	result, err := h.VerifyToken.Execute(ctx, queries.VerifyTokenQuery{Token: token})
	if err != nil {
		return httptransport.Principal{}, err
	}
	return httptransport.Principal{
		Username:  result.Claims.Subject,
		ExpiresAt: result.Claims.ExpiresAt.Format(time.RFC3339),
	}, nil
}
