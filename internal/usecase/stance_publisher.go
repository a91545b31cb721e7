package usecase

import (
	"context"
	"time"

	"CapLens/internal/domain/models"
	domrepo "CapLens/internal/domain/repository"
)

// MessagePublisher is the slice of the Kafka producer the stance publisher needs.
type MessagePublisher interface {
	Publish(ctx context.Context, topic string, key []byte, value any) error
	Close() error
}

// KafkaStancePublisher writes stance changes keyed by ticker so one ticker stays ordered.
type KafkaStancePublisher struct {
	topic    string
	producer MessagePublisher
}

func NewKafkaStancePublisher(topic string, producer MessagePublisher) *KafkaStancePublisher {
	return &KafkaStancePublisher{topic: topic, producer: producer}
}

type stanceChangeMessage struct {
	Ticker    string        `json:"ticker"`
	Previous  models.Stance `json:"previous"`
	Current   models.Stance `json:"current"`
	ChangedAt string        `json:"changedAt"`
}

func (p *KafkaStancePublisher) PublishStanceChange(ctx context.Context, change models.StanceChange) error {
	return p.producer.Publish(ctx, p.topic, []byte(change.Ticker), stanceChangeMessage{
		Ticker:    change.Ticker,
		Previous:  change.Previous,
		Current:   change.Current,
		ChangedAt: change.ChangedAt.UTC().Format(time.RFC3339),
	})
}

func (p *KafkaStancePublisher) Close() error { return p.producer.Close() }

var _ domrepo.StancePublisher = (*KafkaStancePublisher)(nil)
