/*
Package outbox relays domain events that units of work stored in the
transactional outbox to a message transport.
*/
package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"ordersvc/domain/shared"
)

// EventStatus Outbox event status enum
type EventStatus string

const (
	EventStatusPending    EventStatus = "PENDING"
	EventStatusProcessing EventStatus = "PROCESSING"
	EventStatusPublished  EventStatus = "PUBLISHED"
	EventStatusFailed     EventStatus = "FAILED"
)

// Event is one stored outbox row.
type Event struct {
	ID          string
	AggregateID string
	EventType   string
	Payload     string
	Status      EventStatus
	RetryCount  int
}

// Store is the outbox table as seen by the relay.
type Store interface {
	GetPendingEvents(ctx context.Context, limit int) ([]Event, error)
	// MarkEventProcessing claims a pending event; it fails if another relay got there first.
	MarkEventProcessing(ctx context.Context, eventID string) error
	MarkEventPublished(ctx context.Context, eventID string) error
	// MarkEventFailed puts the event back to pending until maxRetries is reached.
	MarkEventFailed(ctx context.Context, eventID string, maxRetries int) error
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// EncodePayload serialises a domain event into the JSON stored in the outbox.
func EncodePayload(event shared.DomainEvent) (string, error) {
	data := map[string]interface{}{
		"event_name":   event.EventName(),
		"aggregate_id": event.GetAggregateID(),
		"occurred_on":  event.OccurredOn(),
	}
	if carrier, ok := event.(shared.PayloadCarrier); ok {
		for k, v := range carrier.Payload() {
			data[k] = v
		}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s event: %w", event.EventName(), err)
	}
	return string(raw), nil
}

// DecodePayload is the inverse of EncodePayload, for tests and debugging.
func DecodePayload(payload string) (map[string]interface{}, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, err
	}
	return data, nil
}
