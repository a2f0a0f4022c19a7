package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YvonneBrian/ECommerce-Repawtly/models"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublishOrderPlaced(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, topic: "order.placed"}

	event := models.OrderPlacedEvent{Event: "order.placed", OrderID: "o-1", UserID: "user-1", Total: 513}
	require.NoError(t, p.PublishOrderPlaced(context.Background(), event))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "user-1", string(w.msgs[0].Key))

	var got models.OrderPlacedEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, 513.0, got.Total)

	w.err = errors.New("leader not available")
	assert.ErrorContains(t, p.PublishOrderPlaced(context.Background(), event), "order.placed")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewProducerNeedsBrokers(t *testing.T) {
	_, err := NewProducer(nil, "order.placed")
	assert.Error(t, err)

	p, err := NewProducer([]string{"localhost:9092"}, "order.placed")
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}
