package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/config"
)

// CacheInvalidator is the part of the order cache the consumer needs.
type CacheInvalidator interface {
	InvalidateAll(ctx context.Context) error
	Delete(ctx context.Context, id string) error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaConsumer drops cached order snapshots when another instance reports
// an order change.
type KafkaConsumer struct {
	reader   messageReader
	cache    CacheInvalidator
	source   string
	logger   *logrus.Entry
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewKafkaConsumer creates a new Kafka-based event consumer. Events whose
// source equals source are ignored.
func NewKafkaConsumer(cfg config.KafkaConfig, source string, cache CacheInvalidator, logger *logrus.Entry) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.OrdersTopic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})
	return newKafkaConsumer(reader, source, cache, logger)
}

func newKafkaConsumer(reader messageReader, source string, cache CacheInvalidator, logger *logrus.Entry) *KafkaConsumer {
	return &KafkaConsumer{
		reader: reader,
		cache:  cache,
		source: source,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// Start consumes events until ctx is done or Stop is called.
func (c *KafkaConsumer) Start(ctx context.Context) error {
	c.logger.Info("Starting Kafka consumer")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			c.logger.Info("Kafka consumer stopped")
			return nil
		default:
		}

		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			select {
			case <-c.stopCh:
				c.logger.Info("Kafka consumer stopped")
				return nil
			default:
			}
			c.logger.WithField("error", err.Error()).Error("Failed to read message")
			continue
		}

		c.handleMessage(ctx, msg)
	}
}

// Stop stops the consumer.
func (c *KafkaConsumer) Stop() error {
	var err error
	c.stopOnce.Do(func() {
		close(c.stopCh)
		err = c.reader.Close()
	})
	return err
}

func (c *KafkaConsumer) handleMessage(ctx context.Context, msg kafka.Message) {
	c.logger.WithFields(logrus.Fields{
		"topic":     msg.Topic,
		"partition": msg.Partition,
		"offset":    msg.Offset,
	}).Debug("Received message")

	var event OrderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.WithField("error", err.Error()).Error("Failed to unmarshal event")
		return
	}

	if event.Metadata[MetadataSource] == c.source {
		return
	}

	switch event.Type {
	case EventTypeOrderCreated, EventTypeOrderUpdated, EventTypeOrderDeleted:
		c.invalidate(ctx, &event)
	default:
		c.logger.WithField("type", event.Type).Debug("Ignoring unknown event type")
	}
}

func (c *KafkaConsumer) invalidate(ctx context.Context, event *OrderEvent) {
	fields := logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
		"order_id":   event.OrderID,
		"source":     event.Metadata[MetadataSource],
	}

	if err := c.cache.InvalidateAll(ctx); err != nil {
		c.logger.WithFields(fields).WithField("error", err.Error()).Error("Failed to invalidate order list cache")
	}
	if event.OrderID != "" {
		if err := c.cache.Delete(ctx, event.OrderID); err != nil {
			c.logger.WithFields(fields).WithField("error", err.Error()).Error("Failed to evict cached order")
		}
	}

	c.logger.WithFields(fields).Info("Order cache invalidated by remote event")
}
