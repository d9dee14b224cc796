package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "bookshelf/contexts/identity-access/auth-service/application"
	"bookshelf/contexts/identity-access/auth-service/domain/entities"
	domainerrors "bookshelf/contexts/identity-access/auth-service/domain/errors"
	"bookshelf/contexts/identity-access/auth-service/ports"
)

type VerifyTokenQuery struct {
	Token string
}

type VerifyTokenResult struct {
	Claims entities.TokenClaims
}

type VerifyTokenUseCase struct {
	Tokens ports.TokenManager
	Events ports.EventPublisher
	Logger *slog.Logger
}

func (u VerifyTokenUseCase) Execute(ctx context.Context, query VerifyTokenQuery) (VerifyTokenResult, error) {
	logger := application.ResolveLogger(u.Logger)
	token := strings.TrimSpace(query.Token)
	if token == "" {
		return VerifyTokenResult{}, domainerrors.ErrTokenMissing
	}

	claims, err := u.Tokens.Parse(token)
	if err != nil {
		if errors.Is(err, domainerrors.ErrTokenExpired) {
			logger.Info("token expired",
				"event", "verify_token_expired",
				"module", "identity-access/auth-service",
				"layer", "application",
			)
			application.Publish(ctx, u.Events, application.EventAuthTokenExpired, "Token has expired", map[string]any{})
			return VerifyTokenResult{}, domainerrors.ErrTokenExpired
		}
		logger.Warn("token rejected",
			"event", "verify_token_rejected",
			"module", "identity-access/auth-service",
			"layer", "application",
			"error", err.Error(),
		)
		return VerifyTokenResult{}, domainerrors.ErrTokenInvalid
	}

	return VerifyTokenResult{Claims: claims}, nil
}
