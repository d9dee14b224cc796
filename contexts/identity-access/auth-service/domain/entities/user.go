package entities

import "time"

type User struct {
	Username     string
	PasswordHash string
}

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "bearer"

type AccessToken struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
}

type TokenClaims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
