package service

import (
	"context"

	"boutique/internal/model"

	"github.com/google/uuid"
)

// Notifier queues outgoing SMS and email. Implemented by worker.Dispatcher.
// With attachInvoice the order invoice is rendered and attached at send time.
type Notifier interface {
	QueueSMS(ctx context.Context, venteID *uuid.UUID, phone, text string) error
	QueueEmail(ctx context.Context, venteID *uuid.UUID, to, subject, body string, attachInvoice bool) error
}

// EventPublisher broadcasts back-office events. Implemented by infra.Hub.
type EventPublisher interface {
	Publish(event string, payload interface{})
}

// FileRemover deletes stored uploads. Implemented by infra.LocalStorage.
type FileRemover interface {
	Remove(url string) error
}

// SettingsSource returns the current store settings.
type SettingsSource interface {
	Settings(ctx context.Context) (*model.Information, error)
}
