package mysql

import (
	"context"
	"fmt"

	"ordersvc/domain/shared"
	"ordersvc/infrastructure/outbox"
	"ordersvc/infrastructure/persistence"
	"ordersvc/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// OutboxRepository MySQL/GORM implementation of the transactional outbox.
// Units of work write to it; the relay worker reads it through outbox.Store.
type OutboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository Create outbox repository
func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *OutboxRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// SaveEvent Save domain event to outbox table
// Uses transaction from context when called within UoW.Execute()
func (r *OutboxRepository) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	if err := shared.ValidateEvent(event); err != nil {
		return fmt.Errorf("invalid domain event: %w", err)
	}

	eventPO, err := po.FromDomainEvent(event)
	if err != nil {
		return fmt.Errorf("failed to convert domain event: %w", err)
	}

	if err := r.getDB(ctx).Create(eventPO).Error; err != nil {
		return fmt.Errorf("failed to save event to outbox: %w", err)
	}
	return nil
}

// GetPendingEvents returns pending events, oldest first.
func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]outbox.Event, error) {
	var eventPOs []po.OutboxEventPO
	err := r.getDB(ctx).
		Where("status = ?", string(outbox.EventStatusPending)).
		Order("created_at ASC").
		Limit(limit).
		Find(&eventPOs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}

	events := make([]outbox.Event, 0, len(eventPOs))
	for i := range eventPOs {
		events = append(events, eventPOs[i].ToOutboxEvent())
	}
	return events, nil
}

// MarkEventProcessing Mark event as being processed
// The status condition keeps two relays from claiming the same event.
func (r *OutboxRepository) MarkEventProcessing(ctx context.Context, eventID string) error {
	result := r.getDB(ctx).Model(&po.OutboxEventPO{}).
		Where("id = ? AND status = ?", eventID, string(outbox.EventStatusPending)).
		Updates(map[string]interface{}{
			"status":     string(outbox.EventStatusProcessing),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found or already being processed: %s", eventID)
	}
	return nil
}

// MarkEventPublished Mark event as successfully published
func (r *OutboxRepository) MarkEventPublished(ctx context.Context, eventID string) error {
	result := r.getDB(ctx).Model(&po.OutboxEventPO{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"status":     string(outbox.EventStatusPublished),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found: %s", eventID)
	}
	return nil
}

// MarkEventFailed Mark event as failed to publish
// Increments retry count; the event goes back to pending until maxRetries.
func (r *OutboxRepository) MarkEventFailed(ctx context.Context, eventID string, maxRetries int) error {
	db := r.getDB(ctx)

	var event po.OutboxEventPO
	if err := db.First(&event, "id = ?", eventID).Error; err != nil {
		return fmt.Errorf("failed to find event: %w", err)
	}

	newRetryCount := event.RetryCount + 1
	newStatus := string(outbox.EventStatusFailed)
	if newRetryCount < maxRetries {
		newStatus = string(outbox.EventStatusPending) // Retry later
	}

	return db.Model(&po.OutboxEventPO{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"status":      newStatus,
			"retry_count": newRetryCount,
			"updated_at":  gorm.Expr("NOW()"),
		}).Error
}

// Compile-time interface implementation check
var (
	_ shared.OutboxRepository = (*OutboxRepository)(nil)
	_ outbox.Store            = (*OutboxRepository)(nil)
)
