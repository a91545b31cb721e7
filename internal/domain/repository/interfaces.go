package repository

import (
	"context"

	"CapLens/internal/domain/models"
)

type CompanyCatalog interface {
	Companies() []*models.Company
	Company(ticker string) (*models.Company, bool)
}

type EventCatalog interface {
	Buckets() []string
	Events(bucket string) []models.Event
	Event(id string) (models.Event, bool)
}

// StanceStore owns the only mutable state: the decision stance per ticker.
type StanceStore interface {
	Get(ticker string) models.Stance
	Update(ticker string, triggerIDs []string) models.StanceChange
	Snapshot() map[string]models.Stance
}

type StancePublisher interface {
	PublishStanceChange(ctx context.Context, change models.StanceChange) error
	Close() error
}

type Metrics interface {
	RecordScoring(op string)
	RecordStanceTransition(from, to models.Stance)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
