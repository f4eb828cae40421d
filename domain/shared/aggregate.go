package shared

// AggregateRoot is the entry point for every change to an aggregate.
// It records the domain events those changes raise.
type AggregateRoot interface {
	ID() string

	// Version is the optimistic lock version.
	Version() int

	// PullEvents returns the recorded events and clears them.
	PullEvents() []DomainEvent
}
