package events

import "CapLens/internal/domain/models"

var typeWeights = map[models.EventType]float64{
	models.EventEarnings:   1.0,
	models.EventCorporate:  0.7,
	models.EventMacro:      0.8,
	models.EventRegulatory: 0.6,
	models.EventRumors:     0.4,
	models.EventTechnical:  0.5,
}

var sentimentMultipliers = map[models.Sentiment]float64{
	models.SentimentPositive: 1.0,
	models.SentimentNeutral:  0.0,
	models.SentimentNegative: -1.0,
	models.SentimentMixed:    0.3,
}

// TypeWeight returns the weight for an event type; unknown types weigh 0.5.
func TypeWeight(t models.EventType) float64 {
	if w, ok := typeWeights[t]; ok {
		return w
	}
	return 0.5
}

// SentimentMultiplier returns the signed multiplier; unknown sentiment is 0.
func SentimentMultiplier(s models.Sentiment) float64 {
	return sentimentMultipliers[s]
}

// EventScore is the expected price contribution of a single event.
func EventScore(e models.Event) float64 {
	return e.PriceImpact *
		TypeWeight(e.Type) *
		(1 + SentimentMultiplier(e.Sentiment)*0.5) *
		e.Confidence *
		e.Probability
}
