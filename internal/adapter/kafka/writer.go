package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/hazard-cluster-service/internal/config"
	"github.com/couchcryptid/hazard-cluster-service/internal/domain"
)

// Writer produces ranked map items to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes the ranked items and publishes them in a single
// WriteMessages call. The rank header carries each item's position.
func (w *Writer) LoadBatch(ctx context.Context, items []domain.Item) error {
	if len(items) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(items))
	for i := range items {
		msg, err := serializeToMessage(items[i], i)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Item into a Kafka message keyed by item ID.
func serializeToMessage(item domain.Item, rank int) (kafkago.Message, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize item %s: %w", item.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(item.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "item_type", Value: []byte(item.Kind)},
			{Key: "urgent_level", Value: []byte(item.UrgentLevel)},
			{Key: "rank", Value: []byte(strconv.Itoa(rank))},
		},
	}, nil
}
