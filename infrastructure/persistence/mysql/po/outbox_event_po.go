package po

import (
	"time"

	"ordersvc/domain/shared"
	"ordersvc/infrastructure/outbox"

	"github.com/google/uuid"
)

// OutboxEventPO Outbox event persistence object
// Implements transactional outbox pattern for reliable event publishing
type OutboxEventPO struct {
	ID          string    `gorm:"primaryKey;size:64"`
	AggregateID string    `gorm:"size:64;index;not null"`
	EventType   string    `gorm:"size:100;index;not null"`          // e.g. "order.placed"
	Payload     string    `gorm:"type:json;not null"`               // JSON serialized event data
	Status      string    `gorm:"size:20;default:PENDING;not null"` // PENDING, PROCESSING, PUBLISHED, FAILED
	RetryCount  int       `gorm:"default:0;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (OutboxEventPO) TableName() string {
	return "outbox_events"
}

// FromDomainEvent Convert domain event to outbox persistence object
func FromDomainEvent(event shared.DomainEvent) (*OutboxEventPO, error) {
	payload, err := outbox.EncodePayload(event)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &OutboxEventPO{
		ID:          uuid.NewString(),
		AggregateID: event.GetAggregateID(),
		EventType:   event.EventName(),
		Payload:     payload,
		Status:      string(outbox.EventStatusPending),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ToOutboxEvent Convert persistence object to the relay's view of the row
func (po *OutboxEventPO) ToOutboxEvent() outbox.Event {
	return outbox.Event{
		ID:          po.ID,
		AggregateID: po.AggregateID,
		EventType:   po.EventType,
		Payload:     po.Payload,
		Status:      outbox.EventStatus(po.Status),
		RetryCount:  po.RetryCount,
	}
}
