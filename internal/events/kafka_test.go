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

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_KeysByCommission(t *testing.T) {
	w := &recordingWriter{}
	p := &KafkaPublisher{Writer: w}

	ev := NewEvent(CommissionStatusChanged, "comm-1", "artist-1").WithTransition("submitted", "under_review")
	require.NoError(t, p.Publish(context.Background(), ev))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "comm-1", string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, string(CommissionStatusChanged), string(msg.Headers[0].Value))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "submitted", decoded.From)
	assert.Equal(t, "under_review", decoded.To)
	assert.Equal(t, "artist-1", decoded.ActorID)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_PropagatesWriterError(t *testing.T) {
	p := &KafkaPublisher{Writer: &recordingWriter{err: errors.New("broker down")}}
	err := p.Publish(context.Background(), NewEvent(ReviewSubmitted, "c", "u"))
	assert.EqualError(t, err, "broker down")
}

func TestNewKafkaPublisher_DoesNotWaitForBatch(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "commission-events")
	t.Cleanup(func() { _ = p.Close() })

	w, ok := p.Writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, 1, w.BatchSize)
	assert.LessOrEqual(t, w.BatchTimeout, 10*time.Millisecond)
	assert.Equal(t, "commission-events", w.Topic)
}
