package adapter

import (
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"

	"github.com/mateusmacedo/go-railbook/pkg/application"
	watermillAdapter "github.com/mateusmacedo/go-railbook/pkg/infrastructure/watermill/adapter"
)

type Options struct {
	Brokers       []string
	ConsumerGroup string
	ClientID      string
}

// NewSaramaSubscriberConfig reads topics from the oldest offset so a
// freshly started consumer group sees the events published before it joined.
func NewSaramaSubscriberConfig(clientID string) *sarama.Config {
	saramaConfig := kafka.DefaultSaramaSubscriberConfig()
	saramaConfig.Version = sarama.V1_0_0_0
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.ClientID = clientID
	return saramaConfig
}

func NewKafkaPubSub(opts Options, logger application.AppLogger) (*kafka.Publisher, *kafka.Subscriber, error) {
	wmLogger := watermillAdapter.NewWatermillLoggerAdapter(logger)
	marshaler := kafka.DefaultMarshaler{}

	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   opts.Brokers,
		Marshaler: marshaler,
	}, wmLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("create kafka publisher: %w", err)
	}

	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               opts.Brokers,
		Unmarshaler:           marshaler,
		ConsumerGroup:         opts.ConsumerGroup,
		OverwriteSaramaConfig: NewSaramaSubscriberConfig(opts.ClientID),
		InitializeTopicDetails: &sarama.TopicDetail{
			NumPartitions:     1,
			ReplicationFactor: 1,
		},
	}, wmLogger)
	if err != nil {
		_ = publisher.Close()
		return nil, nil, fmt.Errorf("create kafka subscriber: %w", err)
	}

	return publisher, subscriber, nil
}
