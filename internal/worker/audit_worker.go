package worker

import (
	"context"
	"fmt"
	"log/slog"

	"expensetracker/internal/amqp"
	"expensetracker/internal/storage"
)

// AuditWorker consumes ledger events and appends them to the audit trail.
type AuditWorker struct {
	store storage.AuditStore
}

func NewAuditWorker(store storage.AuditStore) *AuditWorker {
	return &AuditWorker{store: store}
}

// HandleEvent records a single consumed event. Returning an error requeues
// the message.
func (w *AuditWorker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	err := w.store.RecordAuditEvent(ctx, storage.AuditEvent{
		TransactionID: event.TransactionID,
		OwnerID:       event.OwnerID,
		Action:        event.Action,
		OccurredAt:    event.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	slog.InfoContext(ctx, "Audit event recorded",
		"transaction_id", event.TransactionID,
		"owner_id", event.OwnerID,
		"action", event.Action)

	return nil
}

// Run consumes events from the queue until ctx is cancelled.
func (w *AuditWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeTransactionEvents(ctx, func(event *amqp.TransactionEvent) error {
		return w.HandleEvent(ctx, event)
	})
}
