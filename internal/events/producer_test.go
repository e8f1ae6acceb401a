package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestNew_NoBrokersIsNoop(t *testing.T) {
	t.Parallel()

	p := New(nil, "staff_events")
	assert.IsType(t, Noop{}, p)
	assert.NoError(t, p.Publish(context.Background(), "k", UserRegistered, nil))
	assert.NoError(t, p.Close())

	assert.IsType(t, &Producer{}, New([]string{"localhost:9092"}, "staff_events"))
}

func TestNewWriter_FlushesEachMessage(t *testing.T) {
	t.Parallel()

	w := newWriter([]string{"k1:9092", "k2:9092"}, "staff_events")
	assert.Equal(t, "staff_events", w.Topic)
	assert.Equal(t, 1, w.BatchSize)
	assert.LessOrEqual(t, w.BatchTimeout, 10*time.Millisecond)
	assert.Positive(t, w.BatchTimeout)
	assert.Equal(t, kafka.RequireOne, w.RequiredAcks)
	assert.NotNil(t, w.Addr)
}

func TestProducer_PublishWritesEnvelope(t *testing.T) {
	t.Parallel()

	fw := &fakeWriter{}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &Producer{writer: fw, now: func() time.Time { return at }}

	err := p.Publish(context.Background(), "42", EmployeeCreated, map[string]any{"empID": "E1"})
	require.NoError(t, err)
	require.Len(t, fw.msgs, 1)

	msg := fw.msgs[0]
	assert.Equal(t, "42", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, EmployeeCreated, string(msg.Headers[0].Value))

	var ev struct {
		ID         string         `json:"id"`
		Type       string         `json:"type"`
		OccurredAt time.Time      `json:"occurredAt"`
		Payload    map[string]any `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, EmployeeCreated, ev.Type)
	assert.True(t, at.Equal(ev.OccurredAt))
	assert.Equal(t, "E1", ev.Payload["empID"])

	require.NoError(t, p.Close())
	assert.True(t, fw.closed)
}

func TestProducer_PublishError(t *testing.T) {
	t.Parallel()

	boom := errors.New("broker down")
	p := &Producer{writer: &fakeWriter{err: boom}, now: time.Now}

	err := p.Publish(context.Background(), "1", UserRegistered, nil)
	assert.ErrorIs(t, err, boom)
}
