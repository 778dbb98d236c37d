package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-railbook/internal/railbook/domain"
)

func trainIDs(trains []domain.Train) []string {
	ids := []string{}
	for _, train := range trains {
		ids = append(ids, train.ID)
	}
	return ids
}

func TestCatalog_Search(t *testing.T) {
	other := domain.Train{
		ID:       "202",
		Stations: []string{"jaipur", "agra", "delhi"},
		Seats:    domain.NewSeatGrid(1, 1),
	}
	f := newFixture(train101(), other)
	require.NoError(t, f.catalog.Load(context.Background()))

	tests := []struct {
		name        string
		source      string
		destination string
		want        []string
	}{
		{name: "forward", source: "delhi", destination: "jaipur", want: []string{"101"}},
		{name: "reverse direction train", source: "jaipur", destination: "delhi", want: []string{"202"}},
		{name: "same station", source: "agra", destination: "agra", want: []string{}},
		{name: "mixed case", source: "Delhi", destination: "AGRA", want: []string{"101"}},
		{name: "unknown station", source: "delhi", destination: "mumbai", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, trainIDs(f.catalog.Search(tt.source, tt.destination)))
		})
	}
}

func TestCatalog_SearchReturnsCopies(t *testing.T) {
	f := newFixture(train101())
	require.NoError(t, f.catalog.Load(context.Background()))

	found := f.catalog.Search("delhi", "agra")
	require.Len(t, found, 1)
	found[0].Seats[0][0] = domain.SeatBooked

	live, ok := f.catalog.Get("101")
	require.True(t, ok)
	assert.Equal(t, domain.SeatFree, live.Seats[0][0])
}

func TestCatalog_UpsertReplacesCaseInsensitively(t *testing.T) {
	first := train101()
	first.ID = "EXP-1"
	f := newFixture(first)
	ctx := context.Background()
	require.NoError(t, f.catalog.Load(ctx))

	updated := first.Clone()
	updated.ID = "exp-1"
	updated.Seats[1][1] = domain.SeatBooked
	require.NoError(t, f.catalog.Upsert(ctx, updated))

	all := f.catalog.All()
	require.Len(t, all, 1)
	assert.Equal(t, domain.SeatBooked, all[0].Seats[1][1])
	assert.Equal(t, all, f.trainStore.Snapshot())

	added := train101()
	added.ID = "303"
	require.NoError(t, f.catalog.Upsert(ctx, added))
	assert.Equal(t, []string{"exp-1", "303"}, trainIDs(f.catalog.All()))
}

func TestCatalog_UpsertPersistFailureKeepsMemory(t *testing.T) {
	f := newFixture(train101())
	ctx := context.Background()
	require.NoError(t, f.catalog.Load(ctx))
	f.trainStore.FailSaves(errors.New("disk full"))

	updated := train101()
	updated.Seats[0][1] = domain.SeatBooked
	err := f.catalog.Upsert(ctx, updated)

	assert.ErrorIs(t, err, domain.ErrPersistence)
	live, _ := f.catalog.Get("101")
	assert.Equal(t, domain.SeatBooked, live.Seats[0][1])
	assert.Equal(t, domain.SeatFree, f.trainStore.Snapshot()[0].Seats[0][1])
}

func TestCatalog_LoadRejectsInvalidTrain(t *testing.T) {
	broken := train101()
	broken.Seats = domain.SeatGrid{{0, 0}, {0}}
	f := newFixture(broken)

	err := f.catalog.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidTrain)
}

func TestCatalog_UpsertRejectsInvalidTrain(t *testing.T) {
	f := newFixture()
	err := f.catalog.Upsert(context.Background(), domain.Train{})
	assert.ErrorIs(t, err, domain.ErrInvalidTrain)
	assert.Empty(t, f.catalog.All())
}
