package dto

import "time"

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest payload for exchanging a refresh token.
type RefreshRequest struct {
	Email        string `json:"email"`
	RefreshToken string `json:"refresh_token"`
}

// TokenPairResponse is returned by login and refresh.
type TokenPairResponse struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// ValidateUserTokenRequest asks whether a user token is valid.
type ValidateUserTokenRequest struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	Email     string `json:"email"`
}
