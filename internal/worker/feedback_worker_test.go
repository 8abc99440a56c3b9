package worker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"chovatel/internal/amqp"
	"chovatel/internal/core"
	"chovatel/internal/mail/memory"
)

func testMessage() *amqp.FeedbackMessage {
	msg := amqp.NewFeedbackMessage(core.Feedback{
		FirstName: "Karel",
		LastName:  "Novák",
		Email:     "karel@example.com",
		Message:   "Chybí mi export do tabulky.",
	})
	msg.Timestamp = time.Date(2026, 8, 29, 14, 30, 0, 0, time.Local)
	return msg
}

func TestHandleFeedbackMessage(t *testing.T) {
	sender := memory.NewSender()
	w := NewFeedbackWorker(sender, "noreply@example.com", "feedback@example.com")

	if err := w.HandleFeedbackMessage(context.Background(), testMessage()); err != nil {
		t.Fatalf("HandleFeedbackMessage() error = %v", err)
	}

	sent := sender.Sent()
	if len(sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(sent))
	}
	m := sent[0]
	if m.From != "noreply@example.com" || m.To != "feedback@example.com" {
		t.Errorf("from/to = %q/%q", m.From, m.To)
	}
	if m.ReplyTo != "karel@example.com" {
		t.Errorf("ReplyTo = %q, want submitter address", m.ReplyTo)
	}
	if m.Subject != "Zpětná vazba od Karel Novák" {
		t.Errorf("subject = %q", m.Subject)
	}
	for _, want := range []string{
		"Jméno: Karel Novák",
		"E-mail: karel@example.com",
		"Odesláno: 29.8.2026 14:30",
		"Chybí mi export do tabulky.",
	} {
		if !strings.Contains(m.Text, want) {
			t.Errorf("mail body missing %q\nbody:\n%s", want, m.Text)
		}
	}
}

func TestHandleFeedbackMessageSendFailure(t *testing.T) {
	sender := memory.NewSender()
	sender.Fail(errors.New("gmail unavailable"))
	w := NewFeedbackWorker(sender, "noreply@example.com", "feedback@example.com")

	if err := w.HandleFeedbackMessage(context.Background(), testMessage()); err == nil {
		t.Error("HandleFeedbackMessage() = nil, want error so the delivery is retried")
	}
}
