package events

import (
	"time"

	"github.com/shop-at/authentication-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTokenIssued   EventType = "token_issued"
	EventTokenRejected EventType = "token_rejected"
)

// Subject identifies the principal a token was issued for or checked against.
type Subject struct {
	UserID      string `json:"user_id,omitempty"`
	Email       string `json:"email,omitempty"`
	ServiceName string `json:"service_name,omitempty"`
}

// Event represents an audit event emitted by the auth service.
type Event struct {
	ID        string           `json:"id"`
	Type      EventType        `json:"type"`
	TokenKind domain.TokenKind `json:"token_kind"`
	Subject   Subject          `json:"subject"`
	Timestamp time.Time        `json:"timestamp"`
	Payload   interface{}      `json:"payload,omitempty"`
}

// TokenIssuedPayload payload.
type TokenIssuedPayload struct {
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// TokenRejectedPayload payload.
type TokenRejectedPayload struct {
	Reason string `json:"reason"`
}
