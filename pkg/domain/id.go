package domain

import "time"

// IDGenerator produces unique identifiers for new records.
type IDGenerator[T comparable] func() T

// Clock returns the current instant. Tests pin it to a fixed date.
type Clock func() time.Time
