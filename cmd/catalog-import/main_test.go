package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-railbook/internal/railbook/application"
	"github.com/mateusmacedo/go-railbook/internal/railbook/domain"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	"github.com/mateusmacedo/go-railbook/pkg/infrastructure/store"
)

func TestImportTrains(t *testing.T) {
	existing := domain.Train{ID: "101", Stations: []string{"delhi", "agra"}, Seats: domain.NewSeatGrid(1, 1)}
	trainStore := store.NewMemoryStore(existing)
	catalog := application.NewCatalog(trainStore, pkgApp.NopLogger{})

	replacement := existing.Clone()
	replacement.Seats = domain.NewSeatGrid(2, 3)
	added := domain.Train{ID: "202", Stations: []string{"pune", "mumbai"}, Seats: domain.NewSeatGrid(1, 2)}

	n, err := importTrains(context.Background(), catalog, []domain.Train{replacement, added})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	saved := trainStore.Snapshot()
	require.Len(t, saved, 2)
	assert.Equal(t, domain.NewSeatGrid(2, 3), saved[0].Seats)
	assert.Equal(t, "202", saved[1].ID)
}

func TestImportTrains_RejectsInvalidBeforeWriting(t *testing.T) {
	trainStore := store.NewMemoryStore[domain.Train]()
	catalog := application.NewCatalog(trainStore, pkgApp.NopLogger{})

	valid := domain.Train{ID: "101", Seats: domain.NewSeatGrid(1, 1)}
	invalid := domain.Train{ID: "", Seats: domain.NewSeatGrid(1, 1)}

	n, err := importTrains(context.Background(), catalog, []domain.Train{valid, invalid})
	assert.ErrorIs(t, err, domain.ErrInvalidTrain)
	assert.Zero(t, n)
	assert.Empty(t, trainStore.Snapshot())
}
