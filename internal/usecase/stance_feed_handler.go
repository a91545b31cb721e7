package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"CapLens/internal/domain/models"
	domrepo "CapLens/internal/domain/repository"
	pkgkafka "CapLens/pkg/kafka"
	"CapLens/pkg/logger"
)

// StanceUpdater is the single write path the trigger feed drives.
type StanceUpdater interface {
	Known(ticker string) bool
	UpdateStance(ctx context.Context, ticker string, triggers []string) models.StanceChange
}

// StanceFeedHandler consumes validated trigger ids from Kafka and applies them to the stance machine.
type StanceFeedHandler struct {
	topic   string
	updater StanceUpdater
	metrics domrepo.Metrics
	log     *logger.Logger
}

func NewStanceFeedHandler(topic string, updater StanceUpdater, metrics domrepo.Metrics, log *logger.Logger) *StanceFeedHandler {
	return &StanceFeedHandler{topic: topic, updater: updater, metrics: metrics, log: log}
}

func (h *StanceFeedHandler) Topic() string { return h.topic }

// incoming message schema: {"ticker":"ONCO3","triggers":["ONCO3_EBITDA_Q3_SUCCESS"]}
func (h *StanceFeedHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Ticker   string   `json:"ticker"`
		Triggers []string `json:"triggers"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("trigger_feed_unmarshal")
		return fmt.Errorf("decode trigger message: %w", err)
	}
	m.Ticker = strings.ToUpper(strings.TrimSpace(m.Ticker))
	if m.Ticker == "" {
		h.metrics.RecordError("trigger_feed_invalid")
		return fmt.Errorf("trigger message without ticker")
	}

	if !h.updater.Known(m.Ticker) {
		h.log.Warn("trigger feed: unknown ticker",
			logger.String("ticker", m.Ticker),
			logger.String("trace_id", pkgkafka.TraceIDFrom(ctx)))
		return nil
	}

	change := h.updater.UpdateStance(ctx, m.Ticker, m.Triggers)
	if start, ok := pkgkafka.StartTimeFrom(ctx); ok {
		h.metrics.RecordLatency("trigger_feed_seconds", time.Since(start).Seconds())
	}
	h.log.Debug("trigger feed: applied",
		logger.String("ticker", m.Ticker),
		logger.Int("triggers", len(m.Triggers)),
		logger.Bool("changed", change.Changed()))
	return nil
}

var _ pkgkafka.MessageHandler = (*StanceFeedHandler)(nil)
