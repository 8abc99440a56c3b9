package amqp

import (
	"encoding/json"
	"time"

	"chovatel/internal/core"
)

// FeedbackMessage carries one feedback submission to the mail worker. The
// full form content travels in the message; feedback is not persisted.
type FeedbackMessage struct {
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func NewFeedbackMessage(fb core.Feedback) *FeedbackMessage {
	return &FeedbackMessage{
		FirstName: fb.FirstName,
		LastName:  fb.LastName,
		Email:     fb.Email,
		Message:   fb.Message,
		Timestamp: time.Now(),
	}
}

// Feedback converts the message back to the domain type.
func (m *FeedbackMessage) Feedback() core.Feedback {
	return core.Feedback{
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Message:   m.Message,
	}
}

func (m *FeedbackMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func FeedbackMessageFromJSON(data []byte) (*FeedbackMessage, error) {
	var msg FeedbackMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
