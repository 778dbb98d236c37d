package domain

import "time"

// Event is a fact that already happened. Handlers must not veto it.
type Event[T any] interface {
	EventName() string
	OccurredAt() time.Time
	Payload() T
}
