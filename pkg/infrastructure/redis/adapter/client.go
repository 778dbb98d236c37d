package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"

	"github.com/mateusmacedo/go-railbook/pkg/application"
	watermillAdapter "github.com/mateusmacedo/go-railbook/pkg/infrastructure/watermill/adapter"
)

type Options struct {
	Addr          string
	Password      string
	DB            int
	ConsumerGroup string
	Consumer      string
}

// NewRedisClient connects and pings once so a wrong address fails at
// startup instead of on the first booking.
func NewRedisClient(ctx context.Context, opts Options) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return client, nil
}

// NewRedisStreamPubSub returns a publisher/subscriber pair over Redis
// Streams that share one client.
func NewRedisStreamPubSub(client redis.UniversalClient, opts Options, logger application.AppLogger) (*redisstream.Publisher, *redisstream.Subscriber, error) {
	wmLogger := watermillAdapter.NewWatermillLoggerAdapter(logger)

	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: client,
	}, wmLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("create redis stream publisher: %w", err)
	}

	subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        client,
		ConsumerGroup: opts.ConsumerGroup,
		Consumer:      opts.Consumer,
	}, wmLogger)
	if err != nil {
		_ = publisher.Close()
		return nil, nil, fmt.Errorf("create redis stream subscriber: %w", err)
	}

	return publisher, subscriber, nil
}
