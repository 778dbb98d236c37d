package application

import (
	"strconv"
	"time"

	"github.com/mateusmacedo/go-railbook/internal/railbook/domain"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	"github.com/mateusmacedo/go-railbook/pkg/infrastructure/store"
)

// plainVerifier stands in for bcrypt so tests stay fast.
type plainVerifier struct{}

func (plainVerifier) Hash(secret string) (string, error) { return "digest:" + secret, nil }
func (plainVerifier) Verify(secret, digest string) bool  { return digest == "digest:"+secret }

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + strconv.Itoa(n)
	}
}

var fixedNow = time.Date(2024, time.March, 9, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func train101() domain.Train {
	return domain.Train{
		ID:       "101",
		Stations: []string{"delhi", "agra", "jaipur"},
		StationTimes: domain.StationTimes{
			{Station: "delhi", Time: "08:00"},
			{Station: "agra", Time: "10:30"},
			{Station: "jaipur", Time: "13:15"},
		},
		Seats: domain.NewSeatGrid(2, 2),
	}
}

type fixture struct {
	trainStore *store.MemoryStore[domain.Train]
	userStore  *store.MemoryStore[domain.User]
	catalog    *Catalog
	directory  *Directory
	engine     *Engine
}

func newFixture(trains ...domain.Train) *fixture {
	logger := pkgApp.NopLogger{}
	f := &fixture{
		trainStore: store.NewMemoryStore(trains...),
		userStore:  store.NewMemoryStore[domain.User](),
	}
	f.catalog = NewCatalog(f.trainStore, logger)
	f.directory = NewDirectory(f.userStore, plainVerifier{}, sequentialIDs("user-"), logger)
	f.engine = NewEngine(f.catalog, f.directory, fixedClock, sequentialIDs("ticket-"), logger)
	return f
}
