package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/config"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/middleware"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/models"
)

// EventType represents the type of order event.
type EventType string

const (
	EventTypeOrderCreated EventType = "order.created"
	EventTypeOrderUpdated EventType = "order.updated"
	EventTypeOrderDeleted EventType = "order.deleted"
)

// MetadataSource names the instance that published an event.
const MetadataSource = "source"

// OrderEvent represents an order-related event.
type OrderEvent struct {
	ID            string            `json:"id"`
	Type          EventType         `json:"type"`
	OrderID       string            `json:"order_id"`
	Data          json.RawMessage   `json:"data,omitempty"`
	Metadata      map[string]string `json:"metadata"`
	Timestamp     time.Time         `json:"timestamp"`
	CorrelationID string            `json:"correlation_id,omitempty"`
}

// Publisher announces order changes to other services.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, order *models.Order) error
	PublishOrderUpdated(ctx context.Context, order *models.Order) error
	PublishOrderDeleted(ctx context.Context, orderID string) error
}

var (
	_ Publisher = (*KafkaPublisher)(nil)
	_ Publisher = NopPublisher{}
	_ Publisher = (*MockEventPublisher)(nil)
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes order events to Kafka.
type KafkaPublisher struct {
	writer   messageWriter
	source   string
	logger   *logrus.Entry
	metrics  *metrics.Metrics
	clock    func() time.Time
	newEvent func() string
}

// NewKafkaPublisher creates a new Kafka-based event publisher. source is
// stamped on every event so consumers can skip their own.
func NewKafkaPublisher(cfg config.KafkaConfig, source string, logger *logrus.Entry, m *metrics.Metrics) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.OrdersTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}
	return newKafkaPublisher(writer, source, logger, m)
}

func newKafkaPublisher(writer messageWriter, source string, logger *logrus.Entry, m *metrics.Metrics) *KafkaPublisher {
	return &KafkaPublisher{
		writer:   writer,
		source:   source,
		logger:   logger,
		metrics:  m,
		clock:    time.Now,
		newEvent: uuid.NewString,
	}
}

// PublishOrderCreated publishes an order created event.
func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	return p.publishOrder(ctx, EventTypeOrderCreated, order)
}

// PublishOrderUpdated publishes an order updated event.
func (p *KafkaPublisher) PublishOrderUpdated(ctx context.Context, order *models.Order) error {
	return p.publishOrder(ctx, EventTypeOrderUpdated, order)
}

// PublishOrderDeleted publishes an order deleted event.
func (p *KafkaPublisher) PublishOrderDeleted(ctx context.Context, orderID string) error {
	return p.publish(ctx, p.createEvent(ctx, EventTypeOrderDeleted, orderID, nil))
}

func (p *KafkaPublisher) publishOrder(ctx context.Context, eventType EventType, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return p.publish(ctx, p.createEvent(ctx, eventType, order.ID, data))
}

func (p *KafkaPublisher) createEvent(ctx context.Context, eventType EventType, orderID string, data []byte) *OrderEvent {
	return &OrderEvent{
		ID:            p.newEvent(),
		Type:          eventType,
		OrderID:       orderID,
		Data:          data,
		Metadata:      map[string]string{MetadataSource: p.source},
		Timestamp:     p.clock().UTC(),
		CorrelationID: middleware.RequestIDFrom(ctx),
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, event *OrderEvent) (err error) {
	defer func() { p.metrics.EventPublished(string(event.Type), err) }()

	eventData, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: eventData,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.WithFields(logrus.Fields{
			"event_id":   event.ID,
			"event_type": event.Type,
			"order_id":   event.OrderID,
			"error":      err.Error(),
		}).Error("Failed to publish event")
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
		"order_id":   event.OrderID,
	}).Info("Event published")
	return nil
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	p.logger.Info("Closing Kafka publisher")
	return p.writer.Close()
}

// NopPublisher drops every event. Used when order events are disabled.
type NopPublisher struct{}

func (NopPublisher) PublishOrderCreated(context.Context, *models.Order) error { return nil }
func (NopPublisher) PublishOrderUpdated(context.Context, *models.Order) error { return nil }
func (NopPublisher) PublishOrderDeleted(context.Context, string) error        { return nil }

// MockEventPublisher records events for tests.
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []*OrderEvent
	Err    error
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{
		Events: make([]*OrderEvent, 0),
	}
}

func (m *MockEventPublisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	return m.record(EventTypeOrderCreated, order.ID)
}

func (m *MockEventPublisher) PublishOrderUpdated(ctx context.Context, order *models.Order) error {
	return m.record(EventTypeOrderUpdated, order.ID)
}

func (m *MockEventPublisher) PublishOrderDeleted(ctx context.Context, orderID string) error {
	return m.record(EventTypeOrderDeleted, orderID)
}

// Types returns the recorded event types in publish order.
func (m *MockEventPublisher) Types() []EventType {
	m.mu.Lock()
	defer m.mu.Unlock()

	types := make([]EventType, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Type
	}
	return types
}

func (m *MockEventPublisher) record(eventType EventType, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.Events = append(m.Events, &OrderEvent{
		Type:    eventType,
		OrderID: orderID,
	})
	return nil
}
