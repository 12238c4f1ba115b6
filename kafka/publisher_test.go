package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/date"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w}

	r := moneymanager.Record{
		ID:       "d1",
		Kind:     moneymanager.Debit,
		Amount:   decimal.RequireFromString("250.50"),
		Date:     date.MustParse("2025-01-06"),
		Category: "Food",
	}
	at := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)
	e := moneymanager.Event{
		Type:       moneymanager.RecordedEvent,
		Account:    "personal",
		Record:     &r,
		Summary:    moneymanager.NewSummary("personal").Debit(r.Amount),
		OccurredAt: at,
	}
	require.NoError(t, p.Publish(context.Background(), e))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "personal", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "recorded", string(msg.Headers[0].Value))

	var got struct {
		Type    string `json:"type"`
		Account string `json:"account"`
		Record  struct {
			ID     string  `json:"id"`
			Amount float64 `json:"amount"`
			Kind   string  `json:"kind"`
		} `json:"record"`
		Summary struct {
			Balance float64 `json:"balance"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "recorded", got.Type)
	assert.Equal(t, "d1", got.Record.ID)
	assert.Equal(t, "Debit", got.Record.Kind)
	assert.Equal(t, 250.5, got.Record.Amount)
	assert.Equal(t, -250.5, got.Summary.Balance)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublisher_Error(t *testing.T) {
	p := &Publisher{writer: &fakeWriter{err: errors.New("no broker")}}
	err := p.Publish(context.Background(), moneymanager.Event{Type: moneymanager.ResetEvent})
	assert.ErrorContains(t, err, "no broker")
}

func TestNewPublisher(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "moneymanager.events")
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "moneymanager.events", w.Topic)
	assert.Equal(t, "localhost:9092", w.Addr.String())
}
