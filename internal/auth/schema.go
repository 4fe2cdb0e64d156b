package auth

import "time"

// Issuer identifies this authority; every token carries it in the issuer claim.
const Issuer = "shop.at.ecommerce"

// RoleUser is the only role granted to end-user tokens.
const RoleUser = "USER"

// Claim names shared by issuance and validation.
const (
	ClaimUserID      = "user_id"
	ClaimEmail       = "email"
	ClaimRoles       = "roles"
	ClaimIssuedAt    = "iat"
	ClaimExpiresAt   = "exp"
	ClaimIssuer      = "issuer"
	ClaimTokenType   = "token_type"
	ClaimServiceName = "serviceName"
	ClaimServiceID   = "serviceId"
)

const (
	AccessTokenTTL  = 6 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenClaims is the payload of every token. Time fields are epoch
// milliseconds. Fields unused by a token kind are omitted from the payload.
type TokenClaims struct {
	UserID      string `json:"user_id,omitempty"`
	Email       string `json:"email,omitempty"`
	Roles       string `json:"roles,omitempty"`
	ServiceName string `json:"serviceName,omitempty"`
	ServiceID   string `json:"serviceId,omitempty"`
	IssuedAt    int64  `json:"iat"`
	ExpiresAt   int64  `json:"exp,omitempty"`
	Issuer      string `json:"issuer"`
	TokenType   string `json:"token_type"`
}

// HasExpiry reports whether the exp claim was set.
func (c *TokenClaims) HasExpiry() bool {
	return c.ExpiresAt != 0
}

// ExpiresAtTime converts the exp claim to a time.Time.
func (c *TokenClaims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(c.ExpiresAt)
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}
