package domain

import "time"

// TokenKind differentiates access and refresh tokens.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Token represents issued authentication token metadata.
type Token struct {
	ID        string
	Kind      TokenKind
	Value     string
	SubjectID string
	ExpiresAt time.Time
	IssuedAt  time.Time
}
