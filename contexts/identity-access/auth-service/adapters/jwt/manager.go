package jwtadapter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bookshelf/contexts/identity-access/auth-service/domain/entities"
	domainerrors "bookshelf/contexts/identity-access/auth-service/domain/errors"

	"github.com/dgrijalva/jwt-go"
)

// Manager signs and verifies HMAC access tokens.
type Manager struct {
	secret []byte
	method *jwt.SigningMethodHMAC
}

// NewManager accepts HS256, HS384 or HS512.
func NewManager(secret string, algorithm string) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	var method *jwt.SigningMethodHMAC
	switch strings.ToUpper(strings.TrimSpace(algorithm)) {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}
	return &Manager{secret: []byte(secret), method: method}, nil
}

func (m *Manager) Algorithm() string {
	return m.method.Alg()
}

func (m *Manager) Issue(subject string, issuedAt time.Time, ttl time.Duration) (string, error) {
	claims := jwt.StandardClaims{
		Subject:   subject,
		IssuedAt:  issuedAt.Unix(),
		ExpiresAt: issuedAt.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(m.method, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (m *Manager) Parse(tokenStr string) (entities.TokenClaims, error) {
	claims := &jwt.StandardClaims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != m.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil {
		var verr *jwt.ValidationError
		// Claims are checked before the signature, so a forged token can carry
		// the expired bit too. Only a token whose sole fault is expiry counts.
		if errors.As(err, &verr) && verr.Errors == jwt.ValidationErrorExpired {
			return entities.TokenClaims{}, domainerrors.ErrTokenExpired
		}
		return entities.TokenClaims{}, fmt.Errorf("%w: %v", domainerrors.ErrTokenInvalid, err)
	}
	if !tok.Valid || claims.Subject == "" {
		return entities.TokenClaims{}, domainerrors.ErrTokenInvalid
	}
	return entities.TokenClaims{
		Subject:   claims.Subject,
		IssuedAt:  time.Unix(claims.IssuedAt, 0).UTC(),
		ExpiresAt: time.Unix(claims.ExpiresAt, 0).UTC(),
	}, nil
}
