// Command catalog-import upserts the trains of a JSON file into the
// configured catalog. Trains already present are replaced by id.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mateusmacedo/go-railbook/internal/config"
	"github.com/mateusmacedo/go-railbook/internal/railbook/application"
	"github.com/mateusmacedo/go-railbook/internal/railbook/domain"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
	"github.com/mateusmacedo/go-railbook/pkg/infrastructure/store"
	zapAdapter "github.com/mateusmacedo/go-railbook/pkg/infrastructure/zaplogger/adapter"
)

func main() {
	file := flag.String("file", "", "JSON array of trains to import")
	flag.Parse()

	if err := run(*file); err != nil {
		fmt.Fprintln(os.Stderr, "catalog-import:", err)
		os.Exit(1)
	}
}

func run(file string) error {
	if file == "" {
		return errors.New("-file is required")
	}

	cfg := config.MustLoad()
	logger, err := zapAdapter.NewZapAppLogger(zapAdapter.Options{
		AppName:     "catalog-import",
		Level:       cfg.Log.Level,
		OutputPaths: cfg.Log.Outputs,
	})
	if err != nil {
		return err
	}

	trainStore, err := openTrainStore(cfg.Storage, logger)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	var trains []domain.Train
	if err := json.Unmarshal(data, &trains); err != nil {
		return fmt.Errorf("decode %s: %w", file, err)
	}

	ctx := context.Background()
	n, err := importTrains(ctx, application.NewCatalog(trainStore, logger), trains)
	fmt.Printf("imported %d of %d trains\n", n, len(trains))
	return err
}

// importTrains validates every train before writing any of them.
func importTrains(ctx context.Context, catalog *application.Catalog, trains []domain.Train) (int, error) {
	if err := catalog.Load(ctx); err != nil {
		return 0, err
	}
	for _, train := range trains {
		if err := train.Validate(); err != nil {
			return 0, err
		}
	}

	for i, train := range trains {
		if err := catalog.Upsert(ctx, train); err != nil {
			return i, err
		}
	}
	return len(trains), nil
}

func openTrainStore(cfg config.Storage, logger pkgApp.AppLogger) (pkgDomain.RecordStore[domain.Train], error) {
	switch cfg.Driver {
	case "postgres":
		db, err := store.OpenPostgres(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return store.NewGormStore(db, "trains", func(t domain.Train) string { return t.ID }, logger)
	case "memory":
		return nil, errors.New("importing into the memory driver has no effect")
	default:
		return store.NewJSONFileStore[domain.Train](cfg.TrainsPath(), logger), nil
	}
}
