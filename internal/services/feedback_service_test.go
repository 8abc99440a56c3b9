package services

import (
	"context"
	"errors"
	"testing"

	"chovatel/internal/core"
)

type recordingPublisher struct {
	published []core.Feedback
	err       error
}

func (p *recordingPublisher) PublishFeedback(_ context.Context, fb core.Feedback) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, fb)
	return nil
}

func validFeedback() core.Feedback {
	return core.Feedback{
		FirstName: "Karel",
		LastName:  "Novák",
		Email:     "karel@example.com",
		Message:   "Kalkulačka mi moc pomohla, díky!",
	}
}

func TestSubmitPublishesValidFeedback(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewFeedbackService(pub)

	if err := svc.Submit(context.Background(), validFeedback()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.published))
	}
	if pub.published[0].Email != "karel@example.com" {
		t.Errorf("published email = %q", pub.published[0].Email)
	}
}

func TestSubmitRejectsInvalidFeedback(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewFeedbackService(pub)

	fb := validFeedback()
	fb.Message = "krátké"
	err := svc.Submit(context.Background(), fb)
	if _, ok := core.AsValidationError(err); !ok {
		t.Errorf("Submit(short message) error = %v, want ValidationError", err)
	}
	if len(pub.published) != 0 {
		t.Errorf("invalid feedback reached the publisher")
	}
}

func TestSubmitWrapsPublishError(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewFeedbackService(pub)

	if err := svc.Submit(context.Background(), validFeedback()); err == nil {
		t.Errorf("Submit() = nil, want publish error")
	}
}
