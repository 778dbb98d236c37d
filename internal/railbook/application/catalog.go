package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/mateusmacedo/go-railbook/internal/railbook/domain"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
)

// Catalog owns the train records and their seat grids.
type Catalog struct {
	mu     sync.RWMutex
	trains []domain.Train
	store  pkgDomain.RecordStore[domain.Train]
	logger pkgApp.AppLogger
}

func NewCatalog(store pkgDomain.RecordStore[domain.Train], logger pkgApp.AppLogger) *Catalog {
	return &Catalog{
		store:  store,
		logger: logger,
	}
}

// Load replaces the in-memory catalog with the stored one. Any record that
// breaks a train invariant fails the whole load.
func (c *Catalog) Load(ctx context.Context) error {
	trains, err := c.store.LoadAll(ctx)
	if err != nil {
		pkgApp.LogError(ctx, c.logger, "failed to load trains", err, nil)
		return fmt.Errorf("load trains: %w: %w", domain.ErrPersistence, err)
	}

	for _, train := range trains {
		if err := train.Validate(); err != nil {
			pkgApp.LogError(ctx, c.logger, "invalid train in catalog", err, map[string]interface{}{"train_id": train.ID})
			return err
		}
	}

	c.mu.Lock()
	c.trains = trains
	c.mu.Unlock()

	pkgApp.LogInfo(ctx, c.logger, "train catalog loaded", map[string]interface{}{"count": len(trains)})
	return nil
}

// Search returns copies of the trains that visit source before
// destination, in catalog order.
func (c *Catalog) Search(source, destination string) []domain.Train {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := []domain.Train{}
	for _, train := range c.trains {
		if train.ServesInOrder(source, destination) {
			result = append(result, train.Clone())
		}
	}
	return result
}

func (c *Catalog) Get(id string) (domain.Train, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexOf(id); i >= 0 {
		return c.trains[i].Clone(), true
	}
	return domain.Train{}, false
}

func (c *Catalog) All() []domain.Train {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Train, len(c.trains))
	for i, train := range c.trains {
		out[i] = train.Clone()
	}
	return out
}

// Upsert replaces the train with the same id, or appends it, and then
// persists the whole catalog. A failed save keeps the in-memory change.
func (c *Catalog) Upsert(ctx context.Context, train domain.Train) error {
	if err := train.Validate(); err != nil {
		return err
	}
	train = train.Clone()

	c.mu.Lock()
	if i := c.indexOf(train.ID); i >= 0 {
		c.trains[i] = train
	} else {
		c.trains = append(c.trains, train)
	}
	snapshot := make([]domain.Train, len(c.trains))
	copy(snapshot, c.trains)
	c.mu.Unlock()

	if err := c.store.SaveAll(ctx, snapshot); err != nil {
		pkgApp.LogError(ctx, c.logger, "failed to save trains", err, map[string]interface{}{"train_id": train.ID})
		return fmt.Errorf("save trains: %w: %w", domain.ErrPersistence, err)
	}

	pkgApp.LogDebug(ctx, c.logger, "train saved", map[string]interface{}{"train_id": train.ID})
	return nil
}

func (c *Catalog) indexOf(id string) int {
	for i, train := range c.trains {
		if train.SameID(id) {
			return i
		}
	}
	return -1
}
