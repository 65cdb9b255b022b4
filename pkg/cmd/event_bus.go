package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/fluxion-ai/fluxion/pkg/channels/gochannel"
	"github.com/fluxion-ai/fluxion/pkg/channels/kafka"
	"github.com/fluxion-ai/fluxion/pkg/eventbus"
)

// NewEventBus creates the run-event bus for the given provider. Kafka
// needs KAFKA_BROKERS set; everything else gets an in-process channel.
func NewEventBus(provider string, logger *slog.Logger) (eventbus.EventBus, error) {
	switch provider {
	case "kafka":
		pub, sub, err := kafka.CreateChannel(watermill.NewSlogLogger(logger), "fluxion")
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil
	default:
		pub, sub, err := gochannel.CreateChannel(watermill.NewSlogLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create in-process pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil
	}
}
