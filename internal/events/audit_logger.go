package events

import (
	"context"

	"go.uber.org/zap"
)

// NewAuditLogger returns a handler writing token events to the logger.
func NewAuditLogger(logger *zap.Logger) EventHandler {
	return func(_ context.Context, event Event) error {
		fields := []zap.Field{
			zap.String("event_id", event.ID),
			zap.String("event", string(event.Type)),
			zap.String("token_kind", string(event.TokenKind)),
			zap.Time("timestamp", event.Timestamp),
		}
		if event.Subject.UserID != "" {
			fields = append(fields, zap.String("user_id", event.Subject.UserID))
		}
		if event.Subject.ServiceName != "" {
			fields = append(fields, zap.String("service_name", event.Subject.ServiceName))
		}
		if payload, ok := event.Payload.(TokenRejectedPayload); ok {
			fields = append(fields, zap.String("reason", payload.Reason))
			logger.Warn("token audit", fields...)
			return nil
		}
		logger.Info("token audit", fields...)
		return nil
	}
}
