package services

import (
	"context"

	"chovatel/internal/core"
)

// Store is the persistence the calculator service needs. Implemented by
// storage.SQLiteRepository and by the in-memory store used in tests.
type Store interface {
	GetSnapshot(ctx context.Context, userID string) (core.Snapshot, error)
	Initialize(ctx context.Context, userID string, expenses, incomes []core.LineItem) (bool, error)
	UpsertAnimalCount(ctx context.Context, userID string, count *float64) error
	GetItem(ctx context.Context, userID string, kind core.Kind, itemID string) (*core.LineItem, error)
	UpdateValues(ctx context.Context, userID string, kind core.Kind, writes []core.ValueWrite) (bool, error)
	UpdateNote(ctx context.Context, userID string, kind core.Kind, itemID, note string) (bool, error)
	Rename(ctx context.Context, userID string, kind core.Kind, itemID, name string) (bool, error)
	InsertItem(ctx context.Context, userID string, kind core.Kind, item core.LineItem) error
	DeleteItem(ctx context.Context, userID string, kind core.Kind, itemID string) (bool, error)
	ItemStats(ctx context.Context, userID string, kind core.Kind) (maxCustomSuffix, maxOrder int, err error)
}

// FeedbackPublisher hands a feedback message to the delivery pipeline.
// Implemented by the AMQP client; tests use an in-process recorder.
type FeedbackPublisher interface {
	PublishFeedback(ctx context.Context, fb core.Feedback) error
}
