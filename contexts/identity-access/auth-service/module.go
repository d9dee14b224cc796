package authservice

import (
	"log/slog"
	"time"

	bcryptadapter "bookshelf/contexts/identity-access/auth-service/adapters/bcrypt"
	httpadapter "bookshelf/contexts/identity-access/auth-service/adapters/http"
	jwtadapter "bookshelf/contexts/identity-access/auth-service/adapters/jwt"
	"bookshelf/contexts/identity-access/auth-service/adapters/memory"
	"bookshelf/contexts/identity-access/auth-service/application"
	"bookshelf/contexts/identity-access/auth-service/application/commands"
	"bookshelf/contexts/identity-access/auth-service/application/queries"
	"bookshelf/contexts/identity-access/auth-service/domain/entities"
	"bookshelf/contexts/identity-access/auth-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
}

type Dependencies struct {
	Users     ports.UserDirectory
	Passwords ports.PasswordVerifier
	Tokens    ports.TokenManager
	Events    ports.EventPublisher
	Clock     ports.Clock
	TokenTTL  time.Duration
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{Handler: httpadapter.Handler{
		Login: commands.LoginUseCase{
			Users:     deps.Users,
			Passwords: deps.Passwords,
			Tokens:    deps.Tokens,
			Events:    deps.Events,
			Clock:     deps.Clock,
			TokenTTL:  deps.TokenTTL,
			Logger:    deps.Logger,
		},
		VerifyToken: queries.VerifyTokenUseCase{
			Tokens: deps.Tokens,
			Events: deps.Events,
			Logger: deps.Logger,
		},
		Logger: deps.Logger,
	}}
}

// Settings configures the demo credential and token signing.
type Settings struct {
	SecretKey    string
	Algorithm    string
	TokenTTL     time.Duration
	DemoUsername string
	DemoPassword string
	// BcryptCost of zero uses bcrypt.DefaultCost.
	BcryptCost int
}

// NewInMemoryModule seeds a single bcrypt-hashed demo user.
func NewInMemoryModule(settings Settings, events ports.EventPublisher, logger *slog.Logger) (Module, error) {
	tokens, err := jwtadapter.NewManager(settings.SecretKey, settings.Algorithm)
	if err != nil {
		return Module{}, err
	}
	hasher := bcryptadapter.Hasher{Cost: settings.BcryptCost}
	hash, err := hasher.Hash(settings.DemoPassword)
	if err != nil {
		return Module{}, err
	}
	ttl := settings.TokenTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	application.ResolveLogger(logger).Info("auth module configured",
		"event", "auth_module_configured",
		"module", "identity-access/auth-service",
		"layer", "module",
		"token_algorithm", tokens.Algorithm(),
		"token_ttl", ttl.String(),
		"demo_username", settings.DemoUsername,
	)

	return NewModule(Dependencies{
		Users: memory.NewDirectory(entities.User{
			Username:     settings.DemoUsername,
			PasswordHash: hash,
		}),
		Passwords: hasher,
		Tokens:    tokens,
		Events:    events,
		Clock:     memory.SystemClock{},
		TokenTTL:  ttl,
		Logger:    logger,
	}), nil
}
