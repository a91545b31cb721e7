package events

import (
	"math"
	"sort"
	"time"

	"CapLens/internal/domain/models"
	"CapLens/internal/domain/repository"
	domsvc "CapLens/internal/domain/service"
	"CapLens/pkg/util"
)

const daysPerYear = 365

// Engine answers event queries over a read-only catalog. "Today" is the UTC
// calendar date of the injected clock.
type Engine struct {
	catalog  repository.EventCatalog
	registry Registry
	stances  repository.StanceStore
	now      func() time.Time
}

type Option func(*Engine)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(catalog repository.EventCatalog, registry Registry, stances repository.StanceStore, opts ...Option) *Engine {
	e := &Engine{
		catalog:  catalog,
		registry: registry,
		stances:  stances,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) today() util.Date { return util.DateOf(e.now()) }

// EventsForTicker merges the ticker's events with the macro bucket, sorted by
// date. An unknown ticker yields the macro events only.
func (e *Engine) EventsForTicker(ticker string) []models.Event {
	own := e.catalog.Events(ticker)
	macro := e.catalog.Events(models.MacroBucket)

	out := make([]models.Event, 0, len(own)+len(macro))
	out = append(out, own...)
	if ticker != models.MacroBucket {
		out = append(out, macro...)
	}
	sortByDate(out)
	return out
}

// FilterEvents scans every bucket and keeps events matching all set criteria.
func (e *Engine) FilterEvents(f models.EventFilter) []models.Event {
	var types map[models.EventType]struct{}
	if len(f.Types) > 0 {
		types = make(map[models.EventType]struct{}, len(f.Types))
		for _, t := range f.Types {
			types[t] = struct{}{}
		}
	}
	from := e.today()
	to := from.AddDays(f.DateRangeDays)

	var out []models.Event
	for _, bucket := range e.catalog.Buckets() {
		for _, ev := range e.catalog.Events(bucket) {
			if f.Ticker != "" && ev.Ticker != f.Ticker {
				continue
			}
			if types != nil {
				if _, ok := types[ev.Type]; !ok {
					continue
				}
			}
			if f.Impact != "" && ev.Impact != f.Impact {
				continue
			}
			if f.DateRangeDays > 0 && !ev.Date.Within(from, to) {
				continue
			}
			out = append(out, ev)
		}
	}
	sortByDate(out)
	return out
}

// EventsImpact aggregates time-decayed event scores over
// [today, today+horizonYears*365 days]. Events at the far edge of the window
// are discounted by 30%.
func (e *Engine) EventsImpact(ticker string, horizonYears int) models.EventsImpact {
	result := models.EventsImpact{AdjustmentFactor: 1}
	if horizonYears <= 0 {
		return result
	}
	windowDays := horizonYears * daysPerYear
	today := e.today()
	end := today.AddDays(windowDays)

	var weightedConfidence float64
	for _, ev := range e.EventsForTicker(ticker) {
		if !ev.Date.Within(today, end) {
			continue
		}
		score := EventScore(ev)
		decay := 1 - float64(today.DaysUntil(ev.Date))/float64(windowDays)*0.3

		result.TotalImpact += score * decay
		weightedConfidence += ev.Confidence * math.Abs(score)
		result.EventCount++
	}
	if result.EventCount > 0 {
		result.AvgConfidence = weightedConfidence / float64(result.EventCount)
	}
	result.AdjustmentFactor = 1 + result.TotalImpact
	return result
}

// EventInsights summarizes upcoming events for a ticker. With nothing
// upcoming it returns the empty state with risk level low.
func (e *Engine) EventInsights(ticker string) models.EventInsights {
	insights := models.EventInsights{
		Sentiment:      models.SentimentNeutral,
		RiskLevel:      models.RiskLevelLow,
		DecisionStance: e.stances.Get(ticker),
	}

	today := e.today()
	var (
		top      *models.Event
		topScore float64
		high     int
	)
	for _, ev := range e.EventsForTicker(ticker) {
		if ev.Date.Before(today.Time) {
			continue
		}
		score := EventScore(ev)
		if top == nil || score > topScore {
			ev := ev
			top, topScore = &ev, score
		}
		insights.SentimentScore += SentimentMultiplier(ev.Sentiment) * score
		if ev.Impact == models.ImpactHigh {
			high++
		}
		insights.UpcomingCount++
	}
	if insights.UpcomingCount == 0 {
		return insights
	}

	insights.TopEvent = top
	switch {
	case insights.SentimentScore > 0.1:
		insights.Sentiment = models.SentimentPositive
	case insights.SentimentScore < -0.1:
		insights.Sentiment = models.SentimentNegative
	}
	insights.RiskLevel = models.RiskLevelMedium
	if high > 2 {
		insights.RiskLevel = models.RiskLevelHigh
	}
	return insights
}

// Resolve applies the conditional logic registry to a catalog event.
func (e *Engine) Resolve(eventID string, results map[string]any) (models.ResolvedEvent, bool) {
	ev, ok := e.catalog.Event(eventID)
	if !ok {
		return models.ResolvedEvent{}, false
	}
	return models.ResolvedEvent{
		EventID:     ev.ID,
		TriggerID:   ev.TriggerID,
		StaticDelta: ev.PriceImpact,
		Resolved:    e.registry.ApplyConditionalLogic(ev, Results(results)),
	}, true
}

func sortByDate(evs []models.Event) {
	sort.SliceStable(evs, func(i, j int) bool {
		return evs[i].Date.Before(evs[j].Date.Time)
	})
}

var _ domsvc.EventEngine = (*Engine)(nil)
