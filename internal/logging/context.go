package logging

import (
	"context"
	"log/slog"

	"watchfilter/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType names the event a warning or error describes.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to check next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldRequestID is the standardized key for request correlation identifiers.
	FieldRequestID = "request_id"
	// FieldItem is the key for an item identity rendered as kind:id.
	FieldItem = "item"
	// FieldChannelID is the key for a distribution channel identifier.
	FieldChannelID = "channel_id"
	// FieldCriterion is the key for a rendered filter criterion.
	FieldCriterion = "criterion"
)

// WithContext stamps logger with the request id carried by ctx, if any.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if ctx == nil {
		return logger
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		return logger.With(slog.String(FieldRequestID, rid))
	}
	return logger
}
