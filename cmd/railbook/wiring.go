package main

import (
	"context"
	"fmt"

	"github.com/mateusmacedo/go-railbook/internal/config"
	"github.com/mateusmacedo/go-railbook/internal/railbook/application"
	"github.com/mateusmacedo/go-railbook/internal/railbook/domain"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-railbook/pkg/infrastructure"
	kafkaAdapter "github.com/mateusmacedo/go-railbook/pkg/infrastructure/kafka/adapter"
	redisAdapter "github.com/mateusmacedo/go-railbook/pkg/infrastructure/redis/adapter"
	"github.com/mateusmacedo/go-railbook/pkg/infrastructure/store"
	watermillAdapter "github.com/mateusmacedo/go-railbook/pkg/infrastructure/watermill/adapter"
)

func newStores(cfg config.Storage, logger pkgApp.AppLogger) (pkgDomain.RecordStore[domain.Train], pkgDomain.RecordStore[domain.User], error) {
	switch cfg.Driver {
	case "memory":
		return store.NewMemoryStore[domain.Train](), store.NewMemoryStore[domain.User](), nil
	case "postgres":
		db, err := store.OpenPostgres(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		trains, err := store.NewGormStore(db, "trains", func(t domain.Train) string { return t.ID }, logger)
		if err != nil {
			return nil, nil, err
		}
		users, err := store.NewGormStore(db, "users", func(u domain.User) string { return u.Name }, logger)
		if err != nil {
			return nil, nil, err
		}
		return trains, users, nil
	default:
		return store.NewJSONFileStore[domain.Train](cfg.TrainsPath(), logger),
			store.NewJSONFileStore[domain.User](cfg.UsersPath(), logger),
			nil
	}
}

// newEventBus returns the configured bus and a func releasing its transport.
func newEventBus(ctx context.Context, cfg config.Events, logger pkgApp.AppLogger) (application.TicketEventBus, func(), error) {
	switch cfg.Backend {
	case "gochannel":
		pubSub := watermillAdapter.NewGoChannelPubSub(logger)
		bus := watermillAdapter.NewWatermillEventBus[pkgDomain.Event[application.TicketEventData], application.TicketEventData](pubSub, pubSub, logger)
		return bus, func() {
			_ = bus.Close()
			_ = pubSub.Close()
		}, nil

	case "redis":
		opts := redisAdapter.Options{
			Addr:          cfg.RedisAddr,
			Password:      cfg.RedisPassword,
			DB:            cfg.RedisDB,
			ConsumerGroup: cfg.ConsumerGroup,
			Consumer:      cfg.ConsumerGroup + "-" + pkgInfra.GenerateUUID()[:8],
		}
		client, err := redisAdapter.NewRedisClient(ctx, opts)
		if err != nil {
			return nil, nil, err
		}
		publisher, subscriber, err := redisAdapter.NewRedisStreamPubSub(client, opts, logger)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		bus := watermillAdapter.NewWatermillEventBus[pkgDomain.Event[application.TicketEventData], application.TicketEventData](publisher, subscriber, logger)
		return bus, func() {
			_ = bus.Close()
			_ = subscriber.Close()
			_ = publisher.Close()
			_ = client.Close()
		}, nil

	case "kafka":
		publisher, subscriber, err := kafkaAdapter.NewKafkaPubSub(kafkaAdapter.Options{
			Brokers:       cfg.KafkaBrokers,
			ConsumerGroup: cfg.ConsumerGroup,
			ClientID:      "railbook",
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		bus := watermillAdapter.NewWatermillEventBus[pkgDomain.Event[application.TicketEventData], application.TicketEventData](publisher, subscriber, logger)
		return bus, func() {
			_ = bus.Close()
			_ = subscriber.Close()
			_ = publisher.Close()
		}, nil

	case "memory":
		return pkgInfra.NewSimpleEventBus[pkgDomain.Event[application.TicketEventData], application.TicketEventData](logger), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}
