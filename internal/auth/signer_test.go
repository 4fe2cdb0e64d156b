package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	signer, err := NewSigner(testSecret)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	return signer
}

func TestSignerRoundTrip(t *testing.T) {
	signer := newTestSigner(t)
	in := &TokenClaims{
		UserID:    "42",
		Email:     "a@x.com",
		Roles:     RoleUser,
		IssuedAt:  1714564800000,
		ExpiresAt: 1714586400000,
		Issuer:    Issuer,
		TokenType: "AccessToken",
	}

	token, err := signer.Sign(in)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected compact token, got %q", token)
	}

	out, err := signer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if *out != *in {
		t.Fatalf("claims mismatch: got %+v want %+v", out, in)
	}
}

func TestSignerIsDeterministic(t *testing.T) {
	signer := newTestSigner(t)
	claims := &TokenClaims{ServiceName: "order-service", IssuedAt: 1, Issuer: Issuer, TokenType: "serviceToken"}

	first, err := signer.Sign(claims)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	second, err := signer.Sign(claims)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if first != second {
		t.Fatal("identical claims must produce identical tokens")
	}
}

func TestParseRejectsTamperedSignature(t *testing.T) {
	signer := newTestSigner(t)
	token, err := signer.Sign(&TokenClaims{Email: "a@x.com", IssuedAt: 1, Issuer: Issuer, TokenType: "AccessToken"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	sigStart := strings.LastIndex(token, ".") + 1
	for i := sigStart; i < len(token); i++ {
		// Flipping the high bit of the sextet always changes the decoded bytes.
		idx := strings.IndexByte(base64URLAlphabet, token[i])
		tampered := token[:i] + string(base64URLAlphabet[idx^0x20]) + token[i+1:]

		if _, err := signer.Parse(tampered); !errors.Is(err, ErrParseFailure) {
			t.Fatalf("tampered byte %d accepted: %v", i-sigStart, err)
		}
	}
}

func TestParseRejectsTamperedPayload(t *testing.T) {
	signer := newTestSigner(t)
	token, err := signer.Sign(&TokenClaims{Email: "a@x.com", IssuedAt: 1, Issuer: Issuer, TokenType: "RefreshToken"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	forged, err := signer.Sign(&TokenClaims{Email: "a@x.com", IssuedAt: 1, Issuer: Issuer, TokenType: "AccessToken"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	parts := strings.Split(token, ".")
	forgedParts := strings.Split(forged, ".")
	spliced := parts[0] + "." + forgedParts[1] + "." + parts[2]
	if _, err := signer.Parse(spliced); !errors.Is(err, ErrParseFailure) {
		t.Fatalf("expected parse failure, got %v", err)
	}
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	signer := newTestSigner(t)
	claims := &TokenClaims{Email: "a@x.com", IssuedAt: 1, Issuer: Issuer, TokenType: "AccessToken"}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign hs512: %v", err)
	}
	if _, err := signer.Parse(hs512); !errors.Is(err, ErrParseFailure) {
		t.Fatalf("hs512 accepted: %v", err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := signer.Parse(none); !errors.Is(err, ErrParseFailure) {
		t.Fatalf("unsigned token accepted: %v", err)
	}
}

func TestParseRejectsMistypedClaims(t *testing.T) {
	signer := newTestSigner(t)
	mapClaims := jwt.MapClaims{
		ClaimEmail:     "a@x.com",
		ClaimExpiresAt: "tomorrow",
		ClaimIssuer:    Issuer,
		ClaimTokenType: "AccessToken",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := signer.Parse(token); !errors.Is(err, ErrParseFailure) {
		t.Fatalf("expected parse failure, got %v", err)
	}
}

func TestParseIgnoresRegisteredClaimChecks(t *testing.T) {
	signer := newTestSigner(t)
	past := time.Now().Add(-time.Hour)
	token, err := signer.Sign(&TokenClaims{
		Email:     "a@x.com",
		IssuedAt:  past.UnixMilli(),
		ExpiresAt: past.UnixMilli(),
		Issuer:    Issuer,
		TokenType: "AccessToken",
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := signer.Parse(token)
	if err != nil {
		t.Fatalf("expiry is a validation rule, not a parse failure: %v", err)
	}
	if !claims.ExpiresAtTime().Equal(time.UnixMilli(past.UnixMilli())) {
		t.Fatalf("unexpected exp %s", claims.ExpiresAtTime())
	}
}
