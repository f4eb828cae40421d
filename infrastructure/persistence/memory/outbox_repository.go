package memory

import (
	"context"
	"fmt"

	"ordersvc/domain/shared"
	"ordersvc/infrastructure/outbox"

	"github.com/google/uuid"
)

// OutboxRepository keeps outbox rows in the store so they share its rollback.
type OutboxRepository struct {
	store *Store
}

func NewOutboxRepository(store *Store) *OutboxRepository {
	return &OutboxRepository{store: store}
}

func (r *OutboxRepository) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	if err := shared.ValidateEvent(event); err != nil {
		return fmt.Errorf("invalid domain event: %w", err)
	}
	payload, err := outbox.EncodePayload(event)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.outbox = append(r.store.outbox, outbox.Event{
		ID:          uuid.NewString(),
		AggregateID: event.GetAggregateID(),
		EventType:   event.EventName(),
		Payload:     payload,
		Status:      outbox.EventStatusPending,
	})
	return nil
}

// Events returns a copy of every stored outbox row, oldest first.
func (r *OutboxRepository) Events() []outbox.Event {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	events := make([]outbox.Event, len(r.store.outbox))
	copy(events, r.store.outbox)
	return events
}

func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]outbox.Event, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var pending []outbox.Event
	for _, e := range r.store.outbox {
		if e.Status == outbox.EventStatusPending {
			pending = append(pending, e)
			if len(pending) == limit {
				break
			}
		}
	}
	return pending, nil
}

func (r *OutboxRepository) MarkEventProcessing(ctx context.Context, eventID string) error {
	return r.update(eventID, func(e *outbox.Event) error {
		if e.Status != outbox.EventStatusPending {
			return fmt.Errorf("event not found or already being processed: %s", eventID)
		}
		e.Status = outbox.EventStatusProcessing
		return nil
	})
}

func (r *OutboxRepository) MarkEventPublished(ctx context.Context, eventID string) error {
	return r.update(eventID, func(e *outbox.Event) error {
		e.Status = outbox.EventStatusPublished
		return nil
	})
}

func (r *OutboxRepository) MarkEventFailed(ctx context.Context, eventID string, maxRetries int) error {
	return r.update(eventID, func(e *outbox.Event) error {
		e.RetryCount++
		e.Status = outbox.EventStatusFailed
		if e.RetryCount < maxRetries {
			e.Status = outbox.EventStatusPending
		}
		return nil
	})
}

func (r *OutboxRepository) update(eventID string, fn func(*outbox.Event) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.outbox {
		if r.store.outbox[i].ID == eventID {
			return fn(&r.store.outbox[i])
		}
	}
	return fmt.Errorf("event not found: %s", eventID)
}

var (
	_ shared.OutboxRepository = (*OutboxRepository)(nil)
	_ outbox.Store            = (*OutboxRepository)(nil)
)
