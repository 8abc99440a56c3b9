// Package worker delivers queued feedback submissions by email.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"chovatel/internal/amqp"
	"chovatel/internal/mail"
)

// FeedbackWorker turns feedback messages into operator emails. Reply-To is
// the submitter, so the operator can answer directly.
type FeedbackWorker struct {
	sender    mail.Sender
	from      string
	recipient string
}

func NewFeedbackWorker(sender mail.Sender, from, recipient string) *FeedbackWorker {
	return &FeedbackWorker{
		sender:    sender,
		from:      from,
		recipient: recipient,
	}
}

// HandleFeedbackMessage processes a single feedback message from AMQP.
func (w *FeedbackWorker) HandleFeedbackMessage(ctx context.Context, msg *amqp.FeedbackMessage) error {
	slog.InfoContext(ctx, "Processing feedback message",
		"from", msg.Email,
		"submitted_at", msg.Timestamp)

	if err := w.sender.Send(ctx, buildMail(w.from, w.recipient, msg)); err != nil {
		return fmt.Errorf("send feedback mail: %w", err)
	}
	return nil
}

func buildMail(from, recipient string, msg *amqp.FeedbackMessage) mail.Message {
	name := strings.TrimSpace(msg.FirstName + " " + msg.LastName)

	var b strings.Builder
	fmt.Fprintf(&b, "Jméno: %s\n", name)
	fmt.Fprintf(&b, "E-mail: %s\n", msg.Email)
	if !msg.Timestamp.IsZero() {
		fmt.Fprintf(&b, "Odesláno: %s\n", msg.Timestamp.Format("2.1.2006 15:04"))
	}
	b.WriteString("\n")
	b.WriteString(msg.Message)
	b.WriteString("\n")

	return mail.Message{
		From:    from,
		To:      recipient,
		ReplyTo: msg.Email,
		Subject: "Zpětná vazba od " + name,
		Text:    b.String(),
	}
}
