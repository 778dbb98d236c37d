package adapter

import (
	"testing"

	"github.com/Shopify/sarama"
	"github.com/stretchr/testify/assert"
)

func TestNewSaramaSubscriberConfig(t *testing.T) {
	cfg := NewSaramaSubscriberConfig("railbook")

	assert.Equal(t, "railbook", cfg.ClientID)
	assert.Equal(t, sarama.OffsetOldest, cfg.Consumer.Offsets.Initial)
	assert.True(t, cfg.Consumer.Return.Errors)
	assert.Equal(t, sarama.V1_0_0_0, cfg.Version)
}
