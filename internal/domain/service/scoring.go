package service

import "CapLens/internal/domain/models"

// Scorer computes risk and confidence for a single company record.
type Scorer interface {
	RiskScore(c *models.Company) float64
	BaseConfidence(c *models.Company) float64
	HorizonConfidence(c *models.Company, years float64) float64
	ConfidenceReport(c *models.Company) models.ConfidenceReport
	GrowthValueRatio(c *models.Company) float64
}

// EventEngine answers event catalog queries relative to the current date.
type EventEngine interface {
	EventsForTicker(ticker string) []models.Event
	FilterEvents(filter models.EventFilter) []models.Event
	EventsImpact(ticker string, horizonYears int) models.EventsImpact
	EventInsights(ticker string) models.EventInsights
	Resolve(eventID string, results map[string]any) (models.ResolvedEvent, bool)
}
