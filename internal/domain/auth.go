package domain

import "time"

// TokenKind is carried in the token_type claim so a token cannot be replayed
// for another purpose.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "AccessToken"
	TokenKindRefresh TokenKind = "RefreshToken"
	TokenKindService TokenKind = "serviceToken"
)

// ParseTokenKind maps the wire string to a known kind.
func ParseTokenKind(raw string) (TokenKind, bool) {
	switch TokenKind(raw) {
	case TokenKindAccess, TokenKindRefresh, TokenKindService:
		return TokenKind(raw), true
	default:
		return "", false
	}
}

// TokenPair is returned to end-users on login and refresh.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}
