package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/IBM/sarama"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v3/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// WatermillEventBus publishes events through any watermill publisher.
type WatermillEventBus struct {
	publisher message.Publisher
}

// NewWatermillEventBus wraps a watermill publisher.
func NewWatermillEventBus(pub message.Publisher) *WatermillEventBus {
	return &WatermillEventBus{publisher: pub}
}

func (eb *WatermillEventBus) GenerateID() string {
	return watermill.NewULID()
}

func (eb *WatermillEventBus) Publish(_ context.Context, key string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage("msg-"+eb.GenerateID(), payload)
	msg.Metadata.Set(EventMetadataKey, key)
	msg.Metadata.Set(EventTypeMetadataKey, string(event.GetType()))

	return eb.publisher.Publish(Topic, msg)
}

func (eb *WatermillEventBus) Close() error {
	return eb.publisher.Close()
}

// NewGoChannelEventBus creates an in-process event bus. Suitable for local
// development and tests; messages are not persisted.
func NewGoChannelEventBus(logger *slog.Logger) *WatermillEventBus {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            1000,
			Persistent:                     false,
			BlockPublishUntilSubscriberAck: false,
		},
		watermill.NewSlogLogger(logger),
	)

	return NewWatermillEventBus(pubSub)
}

// NewKafkaEventBus creates a Kafka-backed event bus from a comma-separated
// broker list.
func NewKafkaEventBus(brokersList string, logger *slog.Logger) (*WatermillEventBus, error) {
	brokers := strings.Split(brokersList, ",")
	if len(brokers) == 0 || brokers[0] == "" {
		return nil, errors.New("no Kafka brokers configured")
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true

	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:               brokers,
			Marshaler:             kafka.DefaultMarshaler{},
			OverwriteSaramaConfig: saramaConfig,
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return NewWatermillEventBus(publisher), nil
}
