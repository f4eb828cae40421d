package memory

import (
	"context"
	"fmt"

	"ordersvc/domain/shared"
	"ordersvc/infrastructure/persistence/retry"
)

// UnitOfWork serializes on the store's transaction mutex and rolls back by
// restoring the snapshot taken at begin. Outbox rows it appended are dropped;
// rows that existed before keep whatever status the relay gave them.
type UnitOfWork struct {
	store       *Store
	outbox      *OutboxRepository
	aggregates  []shared.AggregateRoot
	retryConfig retry.Config
}

func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{
		store:       store,
		outbox:      NewOutboxRepository(store),
		retryConfig: retry.DefaultConfig,
	}
}

func (u *UnitOfWork) SetRetryConfig(config retry.Config) {
	u.retryConfig = config
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	// nested units of work join the outer one
	if inTx(ctx) {
		return fn(ctx)
	}
	return retry.ExecuteWithRetry(ctx, u.retryConfig, u.executeOnce(fn))
}

func (u *UnitOfWork) executeOnce(fn func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) (err error) {
		u.aggregates = nil

		u.store.txMu.Lock()
		defer u.store.txMu.Unlock()

		snap := u.store.snapshot()
		committed := false
		defer func() {
			if committed {
				return
			}
			u.store.restore(snap)
			if r := recover(); r != nil {
				panic(r)
			}
		}()

		txCtx := context.WithValue(ctx, txKey{}, true)

		if err := fn(txCtx); err != nil {
			return err
		}

		for _, agg := range u.aggregates {
			for _, event := range agg.PullEvents() {
				if err := u.outbox.SaveEvent(txCtx, event); err != nil {
					return fmt.Errorf("failed to save event to outbox: %w", err)
				}
			}
		}

		committed = true
		return nil
	}
}

func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

type UnitOfWorkFactory struct {
	store       *Store
	retryConfig retry.Config
}

func NewUnitOfWorkFactory(store *Store, retryConfig retry.Config) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store, retryConfig: retryConfig}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	uow := NewUnitOfWork(f.store)
	uow.SetRetryConfig(f.retryConfig)
	return uow
}

var (
	_ shared.UnitOfWork        = (*UnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
)
