package consumers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"reviews/app"
	"reviews/pkg/events"

	"go.uber.org/zap"
)

// CommentEventHandler reacts to comment events published by the API. It looks
// up the review so downstream notification delivery knows the owner; delivery
// itself is just a log line until a notification service exists.
type CommentEventHandler struct {
	repository app.Repository
	logger     *zap.Logger
}

func NewCommentEventHandler(repository app.Repository, logger *zap.Logger) *CommentEventHandler {
	return &CommentEventHandler{
		repository: repository,
		logger:     logger,
	}
}

func (h *CommentEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	zap.L().Info("Comment event received",
		zap.String("event", event.Event),
		zap.String("version", event.Version),
		zap.String("traceId", event.TraceID),
	)

	switch event.Event {
	case events.ReviewCommentCreatedEvent:
		return h.handleCommentCreated(ctx, event)
	default:
		zap.L().Warn("Unknown comment event type", zap.String("event", event.Event))
		return nil
	}
}

func (h *CommentEventHandler) handleCommentCreated(ctx context.Context, event *events.Event) error {
	payload, err := decodeCommentPayload(event.Payload)
	if err != nil {
		return err
	}

	review, err := h.repository.GetReview(ctx, payload.ReviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Review deleted between publish and consume; nothing to notify.
			zap.L().Warn("Review for comment event no longer exists",
				zap.Int("reviewId", payload.ReviewID),
				zap.String("traceId", event.TraceID),
			)
			return nil
		}
		return fmt.Errorf("failed to get review: %w", err)
	}

	zap.L().Info("New comment on review",
		zap.Int("reviewId", review.ReviewID),
		zap.String("owner", review.Owner),
		zap.Int("commentId", payload.CommentID),
		zap.String("author", payload.Author),
		zap.String("traceId", event.TraceID),
	)

	return nil
}

func decodeCommentPayload(raw interface{}) (*events.ReviewCommentCreatedPayload, error) {
	payloadBytes, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("malformed payload - marshal failed: %w", err)
	}

	var payload events.ReviewCommentCreatedPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return nil, fmt.Errorf("malformed payload - unmarshal failed: %w", err)
	}

	if payload.ReviewID == 0 {
		return nil, fmt.Errorf("malformed payload - reviewId missing or invalid")
	}
	if payload.Author == "" {
		return nil, fmt.Errorf("malformed payload - author missing or invalid")
	}

	return &payload, nil
}
