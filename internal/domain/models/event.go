package models

import "CapLens/pkg/util"

// MacroBucket is the catalog key for sector-agnostic events merged into every ticker.
const MacroBucket = "MACRO"

type EventType string

const (
	EventEarnings   EventType = "earnings"
	EventCorporate  EventType = "corporate"
	EventMacro      EventType = "macro"
	EventRegulatory EventType = "regulatory"
	EventRumors     EventType = "rumors"
	EventTechnical  EventType = "technical"
)

type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
	SentimentMixed    Sentiment = "mixed"
)

// Event is a dated, probabilistic catalyst. Confidence and probability default
// to 0.5 at load when the catalog leaves them empty.
type Event struct {
	ID              string    `json:"id" validate:"required"`
	Ticker          string    `json:"ticker"`
	TriggerID       string    `json:"triggerId,omitempty"`
	Date            util.Date `json:"date"`
	Type            EventType `json:"type" validate:"required,oneof=earnings corporate macro regulatory rumors technical"`
	Category        string    `json:"category"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Impact          Impact    `json:"impact" validate:"required,oneof=high medium low"`
	Sentiment       Sentiment `json:"sentiment" validate:"required,oneof=positive neutral negative mixed"`
	PriceImpact     float64   `json:"priceImpact"`
	Confidence      float64   `json:"confidence" default:"0.5" validate:"gte=0,lte=1"`
	Probability     float64   `json:"probability" default:"0.5" validate:"gte=0,lte=1"`
	Sources         []string  `json:"sources,omitempty"`
	Triggers        []string  `json:"triggers,omitempty"`
	AffectedSectors []string  `json:"affectedSectors,omitempty"`
	DecisionImpact  string    `json:"decisionImpact,omitempty"`
}

// EventFilter selects events across the whole catalog. Zero values mean "any".
type EventFilter struct {
	Ticker        string
	Types         []EventType
	Impact        Impact
	DateRangeDays int
}

type EventsImpact struct {
	TotalImpact      float64 `json:"totalImpact"`
	AvgConfidence    float64 `json:"avgConfidence"`
	EventCount       int     `json:"eventCount"`
	AdjustmentFactor float64 `json:"adjustmentFactor"`
}

type EventInsights struct {
	TopEvent       *Event    `json:"topEvent"`
	UpcomingCount  int       `json:"upcomingCount"`
	SentimentScore float64   `json:"sentimentScore"`
	Sentiment      Sentiment `json:"sentiment"`
	RiskLevel      string    `json:"riskLevel"`
	DecisionStance Stance    `json:"decisionStance"`
}

const (
	RiskLevelHigh   = "high"
	RiskLevelMedium = "medium"
	RiskLevelLow    = "low"
)
