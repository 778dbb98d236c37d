package domain

import "context"

// RecordStore loads and saves a whole collection at once. There is no
// partial write: SaveAll replaces everything that was stored before.
type RecordStore[T any] interface {
	LoadAll(ctx context.Context) ([]T, error)
	SaveAll(ctx context.Context, records []T) error
}
