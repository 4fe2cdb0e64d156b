package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the smallest HMAC-SHA256 key accepted.
const MinSecretLength = 32

// Signer turns claims into compact HS256 tokens and back.
type Signer struct {
	secret []byte
	parser *jwt.Parser
}

// NewSigner builds a signer over the shared secret.
func NewSigner(secret []byte) (*Signer, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("signing secret must be at least %d bytes", MinSecretLength)
	}
	key := make([]byte, len(secret))
	copy(key, secret)

	// exp/iat are epoch milliseconds, so the library's registered-claim
	// checks are skipped; TokenService applies its own rules.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	return &Signer{secret: key, parser: parser}, nil
}

// Sign serializes and signs the claims.
func (s *Signer) Sign(claims *TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and decodes the claims. Every failure is
// reported as ErrParseFailure.
func (s *Signer) Parse(tokenStr string) (*TokenClaims, error) {
	parsed, err := s.parser.ParseWithClaims(tokenStr, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}

	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", ErrParseFailure)
	}
	return claims, nil
}

// The methods below satisfy jwt.Claims.

func (c *TokenClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.ExpiresAt == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.UnixMilli(c.ExpiresAt)), nil
}

func (c *TokenClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	if c.IssuedAt == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.UnixMilli(c.IssuedAt)), nil
}

func (c *TokenClaims) GetNotBefore() (*jwt.NumericDate, error) {
	return nil, nil
}

func (c *TokenClaims) GetIssuer() (string, error) {
	return c.Issuer, nil
}

func (c *TokenClaims) GetSubject() (string, error) {
	if c.ServiceName != "" {
		return c.ServiceName, nil
	}
	return c.Email, nil
}

func (c *TokenClaims) GetAudience() (jwt.ClaimStrings, error) {
	return nil, nil
}
