package domain

import "time"

// ServiceRegistry is a registered internal service allowed to hold a service token.
type ServiceRegistry struct {
	ID          string    `json:"id"`
	ServiceName string    `json:"service_name"`
	SecretHash  string    `json:"secret_hash"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
