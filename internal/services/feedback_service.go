package services

import (
	"context"
	"fmt"
	"log/slog"

	"chovatel/internal/core"
)

// FeedbackService validates feedback submissions and hands them to the
// delivery pipeline. Delivery itself happens in the worker.
type FeedbackService struct {
	publisher FeedbackPublisher
}

func NewFeedbackService(publisher FeedbackPublisher) *FeedbackService {
	return &FeedbackService{publisher: publisher}
}

// Submit validates and enqueues one feedback message.
func (s *FeedbackService) Submit(ctx context.Context, fb core.Feedback) error {
	if err := fb.Validate(); err != nil {
		return err
	}
	if err := s.publisher.PublishFeedback(ctx, fb); err != nil {
		return fmt.Errorf("publish feedback: %w", err)
	}

	slog.InfoContext(ctx, "Feedback submitted",
		"from", fb.Email,
		"message_length", len(fb.Message))

	return nil
}
