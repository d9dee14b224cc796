package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "bookshelf/contexts/identity-access/auth-service/application"
	"bookshelf/contexts/identity-access/auth-service/domain/entities"
	domainerrors "bookshelf/contexts/identity-access/auth-service/domain/errors"
	"bookshelf/contexts/identity-access/auth-service/ports"
)

type LoginCommand struct {
	Username string
	Password string
}

type LoginResult struct {
	Token entities.AccessToken
}

type LoginUseCase struct {
	Users     ports.UserDirectory
	Passwords ports.PasswordVerifier
	Tokens    ports.TokenManager
	Events    ports.EventPublisher
	Clock     ports.Clock
	TokenTTL  time.Duration
	Logger    *slog.Logger
}

func (u LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (LoginResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.Username) == "" || cmd.Password == "" {
		return LoginResult{}, domainerrors.ErrMissingCredentials
	}

	user, err := u.Users.FindUser(ctx, cmd.Username)
	if err == nil {
		err = u.Passwords.Compare(user.PasswordHash, cmd.Password)
	}
	if err != nil {
		if !errors.Is(err, domainerrors.ErrUserNotFound) && !errors.Is(err, domainerrors.ErrInvalidCredentials) {
			logger.Error("login failed",
				"event", "login_failed",
				"module", "identity-access/auth-service",
				"layer", "application",
				"username", cmd.Username,
				"error", err.Error(),
			)
			return LoginResult{}, err
		}
		logger.Warn("login rejected",
			"event", "login_rejected",
			"module", "identity-access/auth-service",
			"layer", "application",
			"username", cmd.Username,
		)
		application.Publish(ctx, u.Events, application.EventAuthFailed, fmt.Sprintf("Login failed for username: %s", cmd.Username), map[string]any{
			"username": cmd.Username,
		})
		return LoginResult{}, domainerrors.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if u.Clock != nil {
		now = u.Clock.Now().UTC()
	}
	token, err := u.Tokens.Issue(user.Username, now, u.TokenTTL)
	if err != nil {
		logger.Error("token issue failed",
			"event", "login_token_issue_failed",
			"module", "identity-access/auth-service",
			"layer", "application",
			"username", user.Username,
			"error", err.Error(),
		)
		return LoginResult{}, err
	}

	application.Publish(ctx, u.Events, application.EventAuthSuccess, fmt.Sprintf("User logged in successfully: %s", user.Username), map[string]any{
		"username": user.Username,
	})

	logger.Info("login completed",
		"event", "login_completed",
		"module", "identity-access/auth-service",
		"layer", "application",
		"username", user.Username,
	)

	return LoginResult{Token: entities.AccessToken{
		Token:     token,
		TokenType: entities.TokenTypeBearer,
		ExpiresAt: now.Add(u.TokenTTL),
	}}, nil
}
