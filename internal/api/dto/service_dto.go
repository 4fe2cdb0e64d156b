package dto

import "time"

// ServiceTokenRequest payload for service authentication.
type ServiceTokenRequest struct {
	ServiceName string `json:"service_name"`
	Secret      string `json:"secret"`
}

// ServiceTokenResponse carries an issued service token. ExpiresAt is absent
// for non-expiring tokens.
type ServiceTokenResponse struct {
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ValidateServiceTokenRequest asks whether a service token is valid.
type ValidateServiceTokenRequest struct {
	Token       string `json:"token"`
	ServiceName string `json:"service_name"`
}

// ValidationResponse is the verdict for a valid token. CheckedBy names the
// internal service that asked.
type ValidationResponse struct {
	Valid     bool   `json:"valid"`
	CheckedBy string `json:"checked_by,omitempty"`
}
