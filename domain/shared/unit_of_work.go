package shared

import "context"

// UnitOfWork owns a transaction boundary and collects aggregate events.
// Execute runs fn in one transaction. It rolls back when fn returns an error or panics and commits otherwise.
// Events of aggregates passed to RegisterNew/RegisterDirty are written to the outbox before commit.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
}

// UnitOfWorkFactory hands each use case its own UnitOfWork so registered aggregates never leak across requests.
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}
