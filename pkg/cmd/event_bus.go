package cmd

import (
	"fmt"
	"log/slog"

	"github.com/openlms/courseflow/pkg/eventbus"
)

// NewEventBus selects the event bus backend: a Kafka publisher when brokers
// are configured, an in-process channel otherwise.
func NewEventBus(kafkaBrokers string, logger *slog.Logger) eventbus.EventBus {
	if kafkaBrokers == "" {
		return eventbus.NewGoChannelEventBus(logger)
	}

	bus, err := eventbus.NewKafkaEventBus(kafkaBrokers, logger)
	if err != nil {
		panic(fmt.Errorf("failed to create Kafka event bus: %w", err))
	}

	return bus
}
