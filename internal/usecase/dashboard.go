package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"CapLens/internal/domain/models"
	domrepo "CapLens/internal/domain/repository"
	domsvc "CapLens/internal/domain/service"
	"CapLens/internal/services/scoring"
	"CapLens/pkg/cache"
	"CapLens/pkg/logger"
)

var (
	ErrUnknownTicker = errors.New("unknown ticker")
	ErrUnknownEvent  = errors.New("unknown event")
)

const reportCachePrefix = "report"

// Dashboard serves every read the dashboard makes and owns the stance update path.
// Engines stay pure; caching, metrics and publishing live here.
type Dashboard struct {
	companies domrepo.CompanyCatalog
	scorer    domsvc.Scorer
	events    domsvc.EventEngine
	stances   domrepo.StanceStore
	cache     cache.Service
	cacheTTL  time.Duration
	metrics   domrepo.Metrics
	publisher domrepo.StancePublisher
	log       *logger.Logger
}

type DashboardOption func(*Dashboard)

// WithPublisher announces stance changes. Nil disables publishing.
func WithPublisher(p domrepo.StancePublisher) DashboardOption {
	return func(d *Dashboard) { d.publisher = p }
}

func WithCacheTTL(ttl time.Duration) DashboardOption {
	return func(d *Dashboard) {
		if ttl > 0 {
			d.cacheTTL = ttl
		}
	}
}

func NewDashboard(
	companies domrepo.CompanyCatalog,
	scorer domsvc.Scorer,
	events domsvc.EventEngine,
	stances domrepo.StanceStore,
	c cache.Service,
	metrics domrepo.Metrics,
	log *logger.Logger,
	opts ...DashboardOption,
) *Dashboard {
	d := &Dashboard{
		companies: companies,
		scorer:    scorer,
		events:    events,
		stances:   stances,
		cache:     c,
		cacheTTL:  5 * time.Minute,
		metrics:   metrics,
		log:       log,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dashboard) company(ticker string) (*models.Company, error) {
	c, ok := d.companies.Company(ticker)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTicker, ticker)
	}
	return c, nil
}

// Known reports whether ticker is in the catalog.
func (d *Dashboard) Known(ticker string) bool {
	_, ok := d.companies.Company(ticker)
	return ok
}

func (d *Dashboard) summary(c *models.Company) models.CompanySummary {
	return models.CompanySummary{
		Ticker:         c.Ticker,
		Name:           c.Name,
		Sector:         c.Sector,
		Score:          c.Score,
		ScoreClass:     scoring.ScoreClass(c.Score),
		Upside:         c.Upside,
		Recommendation: c.Recommendation,
		RiskScore:      d.scorer.RiskScore(c),
		Confidence:     d.scorer.BaseConfidence(c),
		GrowthValue:    d.scorer.GrowthValueRatio(c),
		Stance:         d.stances.Get(c.Ticker),
	}
}

// ListCompanies scores every company in catalog order.
func (d *Dashboard) ListCompanies() []models.CompanySummary {
	start := time.Now()
	defer func() { d.metrics.RecordLatency("list_companies", time.Since(start).Seconds()) }()
	d.metrics.RecordScoring("list")

	all := d.companies.Companies()
	out := make([]models.CompanySummary, 0, len(all))
	for _, c := range all {
		out = append(out, d.summary(c))
	}
	return out
}

func (d *Dashboard) Company(ticker string) (models.CompanyDetail, error) {
	c, err := d.company(ticker)
	if err != nil {
		return models.CompanyDetail{}, err
	}
	d.metrics.RecordScoring("company")
	return models.CompanyDetail{Summary: d.summary(c), Company: c}, nil
}

func (d *Dashboard) Risk(ticker string) (models.RiskReport, error) {
	c, err := d.company(ticker)
	if err != nil {
		return models.RiskReport{}, err
	}
	d.metrics.RecordScoring("risk")
	return models.RiskReport{Ticker: ticker, RiskScore: d.scorer.RiskScore(c)}, nil
}

func (d *Dashboard) Confidence(ticker string, years float64) (models.HorizonConfidence, error) {
	c, err := d.company(ticker)
	if err != nil {
		return models.HorizonConfidence{}, err
	}
	d.metrics.RecordScoring("confidence")
	return models.HorizonConfidence{
		Ticker:     ticker,
		Years:      years,
		Base:       d.scorer.BaseConfidence(c),
		Confidence: d.scorer.HorizonConfidence(c, years),
	}, nil
}

// ConfidenceReport is cached per ticker until the next stance change or TTL.
func (d *Dashboard) ConfidenceReport(ctx context.Context, ticker string) (models.ConfidenceReport, error) {
	c, err := d.company(ticker)
	if err != nil {
		return models.ConfidenceReport{}, err
	}
	report, hit, err := cache.GetOrLoad(ctx, d.cache, reportKey("confidence", ticker), d.cacheTTL,
		func() (models.ConfidenceReport, error) {
			d.metrics.RecordScoring("confidence_report")
			return d.scorer.ConfidenceReport(c), nil
		})
	d.log.Debug("confidence report", logger.String("ticker", ticker), logger.Bool("cache_hit", hit))
	return report, err
}

// Events returns the ticker's events merged with macro events.
func (d *Dashboard) Events(ticker string) ([]models.Event, error) {
	if _, err := d.company(ticker); err != nil {
		return nil, err
	}
	d.metrics.RecordScoring("events")
	return d.events.EventsForTicker(ticker), nil
}

func (d *Dashboard) EventsImpact(ticker string, horizonYears int) (models.EventsImpact, error) {
	if _, err := d.company(ticker); err != nil {
		return models.EventsImpact{}, err
	}
	d.metrics.RecordScoring("events_impact")
	return d.events.EventsImpact(ticker, horizonYears), nil
}

// Insights is cached per ticker and stance. A load racing a stance update can
// only fill the previous stance's slot, which later reads never consult.
func (d *Dashboard) Insights(ctx context.Context, ticker string) (models.EventInsights, error) {
	if _, err := d.company(ticker); err != nil {
		return models.EventInsights{}, err
	}
	stance := d.stances.Get(ticker)
	insights, _, err := cache.GetOrLoad(ctx, d.cache, insightsKey(ticker, stance), d.cacheTTL,
		func() (models.EventInsights, error) {
			d.metrics.RecordScoring("insights")
			ins := d.events.EventInsights(ticker)
			ins.DecisionStance = stance
			return ins, nil
		})
	return insights, err
}

func (d *Dashboard) Stance(ticker string) (models.StanceView, error) {
	if _, err := d.company(ticker); err != nil {
		return models.StanceView{}, err
	}
	return models.StanceView{Ticker: ticker, Stance: d.stances.Get(ticker)}, nil
}

// Stances lists every ticker that has decision rules, ordered by ticker.
func (d *Dashboard) Stances() []models.StanceView {
	snap := d.stances.Snapshot()
	out := make([]models.StanceView, 0, len(snap))
	for ticker, stance := range snap {
		out = append(out, models.StanceView{Ticker: ticker, Stance: stance})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}

// UpdateStance feeds validated trigger ids to the stance machine. On a change it
// evicts the ticker's cached reports and publishes the transition. Publishing
// failures are logged; the new stance stands either way.
func (d *Dashboard) UpdateStance(ctx context.Context, ticker string, triggers []string) models.StanceChange {
	change := d.stances.Update(ticker, triggers)
	if !change.Changed() {
		return change
	}

	d.metrics.RecordStanceTransition(change.Previous, change.Current)
	d.log.Info("stance changed",
		logger.String("ticker", ticker),
		logger.String("from", string(change.Previous)),
		logger.String("to", string(change.Current)),
		logger.Strings("triggers", triggers))

	d.evictReports(ctx, ticker)

	if d.publisher != nil {
		if err := d.publisher.PublishStanceChange(ctx, change); err != nil {
			d.metrics.RecordError("stance_publish")
			d.log.Error("publish stance change", logger.String("ticker", ticker), logger.Error(err))
		}
	}
	return change
}

func (d *Dashboard) FilterEvents(filter models.EventFilter) []models.Event {
	d.metrics.RecordScoring("filter_events")
	return d.events.FilterEvents(filter)
}

// ResolveEvent re-prices an event from realised results through the conditional rules.
func (d *Dashboard) ResolveEvent(eventID string, results map[string]any) (models.ResolvedEvent, error) {
	resolved, ok := d.events.Resolve(eventID, results)
	if !ok {
		return models.ResolvedEvent{}, fmt.Errorf("%w: %s", ErrUnknownEvent, eventID)
	}
	d.metrics.RecordScoring("resolve_event")
	d.log.Info("event resolved",
		logger.String("event", eventID),
		logger.String("trigger", resolved.TriggerID),
		logger.Float64("static", resolved.StaticDelta),
		logger.Float64("resolved", resolved.Resolved))
	return resolved, nil
}

// ProjectedTarget applies the event adjustment factor for the horizon to the
// static price target, next to the compounding model target.
func (d *Dashboard) ProjectedTarget(ticker string, horizonYears int) (models.ProjectionView, error) {
	c, err := d.company(ticker)
	if err != nil {
		return models.ProjectionView{}, err
	}
	d.metrics.RecordScoring("projection")

	impact := d.events.EventsImpact(ticker, horizonYears)
	view := models.ProjectionView{
		Ticker:       ticker,
		HorizonYears: horizonYears,
		ModelTarget:  scoring.LongTermTarget(c, float64(horizonYears)),
		Confidence:   d.scorer.HorizonConfidence(c, float64(horizonYears)),
		Impact:       impact,
	}
	if baseline, ok := scoring.ProjectionFor(c, horizonYears); ok {
		adjusted := baseline * impact.AdjustmentFactor
		view.BaselineTarget = &baseline
		view.AdjustedTarget = &adjusted
	}
	return view, nil
}

func reportKey(kind, ticker string) string {
	return cache.Key(reportCachePrefix, kind, ticker)
}

func insightsKey(ticker string, stance models.Stance) string {
	return cache.Key(reportKey("insights", ticker), string(stance))
}

// evictReports drops the ticker's confidence report and its insights under every stance.
func (d *Dashboard) evictReports(ctx context.Context, ticker string) {
	err := d.cache.Delete(ctx, reportKey("confidence", ticker))
	if err == nil {
		err = d.cache.DeleteByPattern(ctx, cache.Pattern(reportKey("insights", ticker)+":"))
	}
	if err != nil {
		d.metrics.RecordError("cache_evict")
		d.log.Warn("evict cached reports", logger.String("ticker", ticker), logger.Error(err))
	}
}
