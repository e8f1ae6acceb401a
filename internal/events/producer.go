// Package events publishes domain events to Kafka. Delivery is best-effort
// for everything except the reset hand-off, whose caller decides what a
// failed publish means.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	UserRegistered         = "user_registered"
	PasswordResetRequested = "password_reset_requested"
	EmployeeCreated        = "employee_created"
	EmployeeUpdated        = "employee_updated"
	EmployeeDeleted        = "employee_deleted"
)

const (
	writeTimeout = 5 * time.Second
	// Publish is called on the request path one message at a time.
	batchTimeout = 10 * time.Millisecond
)

// Event is the envelope written as the message value.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, key, eventType string, payload any) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
	now    func() time.Time
}

// New returns a Noop publisher when no brokers are configured.
func New(brokers []string, topic string) Publisher {
	if len(brokers) == 0 || topic == "" {
		return Noop{}
	}
	return NewProducer(brokers, topic)
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{writer: newWriter(brokers, topic), now: time.Now}
}

func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchSize:              1,
		BatchTimeout:           batchTimeout,
		WriteTimeout:           writeTimeout,
	}
}

func (p *Producer) Publish(ctx context.Context, key, eventType string, payload any) error {
	ev := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: p.now().UTC(),
		Payload:    payload,
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write %s failed: %w", eventType, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, string, string, any) error { return nil }
func (Noop) Close() error                                       { return nil }
