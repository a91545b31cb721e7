package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CapLens/internal/domain/models"
	pkgkafka "CapLens/pkg/kafka"
	"CapLens/pkg/logger"
)

type fakeUpdater struct {
	known   map[string]bool
	ticker  string
	applied []string
}

func (u *fakeUpdater) Known(ticker string) bool { return u.known[ticker] }

func (u *fakeUpdater) UpdateStance(_ context.Context, ticker string, triggers []string) models.StanceChange {
	u.ticker, u.applied = ticker, triggers
	return models.StanceChange{Ticker: ticker, Previous: models.StanceWatch, Current: models.StanceStrongBuy}
}

func TestStanceFeedHandler(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantErr    bool
		wantTicker string
		errKind    string
	}{
		{name: "applies triggers", payload: `{"ticker":"onco3 ","triggers":["ONCO3_EBITDA_Q3_SUCCESS"]}`, wantTicker: "ONCO3"},
		{name: "unknown ticker is skipped", payload: `{"ticker":"ZZZZ3","triggers":["X"]}`},
		{name: "malformed json", payload: `{"ticker":`, wantErr: true, errKind: "trigger_feed_unmarshal"},
		{name: "missing ticker", payload: `{"triggers":["X"]}`, wantErr: true, errKind: "trigger_feed_invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updater := &fakeUpdater{known: map[string]bool{"ONCO3": true}}
			metrics := newRecordingMetrics()
			h := NewStanceFeedHandler("caplens.triggers", updater, metrics, logger.NewNop())

			ctx := pkgkafka.WithStartTime(context.Background(), time.Now())
			err := h.Handle(ctx, []byte(tt.payload))

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, 1, metrics.errors[tt.errKind])
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTicker, updater.ticker)
		})
	}
}

func TestStanceFeedHandlerTopic(t *testing.T) {
	h := NewStanceFeedHandler("caplens.triggers", &fakeUpdater{}, newRecordingMetrics(), logger.NewNop())
	assert.Equal(t, "caplens.triggers", h.Topic())
}

type capturedPublish struct {
	topic string
	key   []byte
	value any
	err   error
}

func (c *capturedPublish) Publish(_ context.Context, topic string, key []byte, value any) error {
	c.topic, c.key, c.value = topic, key, value
	return c.err
}

func (c *capturedPublish) Close() error { return nil }

func TestKafkaStancePublisher(t *testing.T) {
	producer := &capturedPublish{}
	p := NewKafkaStancePublisher("caplens.stance", producer)

	change := models.StanceChange{
		Ticker:    "CASH3",
		Previous:  models.StanceStrongBuy,
		Current:   models.StanceSellReduce,
		ChangedAt: time.Date(2025, 10, 1, 12, 30, 0, 0, time.UTC),
	}
	require.NoError(t, p.PublishStanceChange(context.Background(), change))

	assert.Equal(t, "caplens.stance", producer.topic)
	assert.Equal(t, []byte("CASH3"), producer.key)

	b, err := json.Marshal(producer.value)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ticker":"CASH3","previous":"strong_buy","current":"sell_reduce","changedAt":"2025-10-01T12:30:00Z"}`, string(b))

	producer.err = errors.New("down")
	assert.Error(t, p.PublishStanceChange(context.Background(), change))
}
