package auth

import "errors"

// Validation failures. Each rejected token maps to exactly one of these.
var (
	ErrParseFailure       = errors.New("token parse failure")
	ErrInvalidUserID      = errors.New("invalid token user_id")
	ErrInvalidEmail       = errors.New("invalid token email")
	ErrInvalidServiceName = errors.New("invalid service token name")
	ErrInvalidServiceID   = errors.New("invalid service token id")
	ErrInvalidTokenType   = errors.New("invalid token token_type")
	ErrInvalidIssuer      = errors.New("invalid token issuer")
	ErrInvalidRoles       = errors.New("invalid token roles")
	ErrExpired            = errors.New("token expired")
)

var reasons = []struct {
	err  error
	code string
}{
	{ErrParseFailure, "SIGNATURE_OR_FORMAT"},
	{ErrInvalidUserID, "INVALID_USER_ID"},
	{ErrInvalidEmail, "INVALID_EMAIL"},
	{ErrInvalidServiceName, "INVALID_SERVICE_NAME"},
	{ErrInvalidServiceID, "INVALID_SERVICE_ID"},
	{ErrInvalidTokenType, "INVALID_TOKEN_TYPE"},
	{ErrInvalidIssuer, "INVALID_ISSUER"},
	{ErrInvalidRoles, "INVALID_ROLES"},
	{ErrExpired, "TOKEN_EXPIRED"},
}

// Reason returns the stable code of a validation failure and false when err
// is not one.
func Reason(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.code, true
		}
	}
	return "", false
}

// IsValidationError reports whether err rejects a token.
func IsValidationError(err error) bool {
	_, ok := Reason(err)
	return ok
}
