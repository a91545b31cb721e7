package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CapLens/internal/domain/models"
	"CapLens/internal/repository"
	"CapLens/internal/services/events"
	"CapLens/internal/services/scoring"
	"CapLens/pkg/cache"
	"CapLens/pkg/logger"
)

type recordingMetrics struct {
	mu          sync.Mutex
	scoring     map[string]int
	errors      map[string]int
	transitions []string
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{scoring: map[string]int{}, errors: map[string]int{}}
}

func (m *recordingMetrics) RecordScoring(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scoring[op]++
}

func (m *recordingMetrics) RecordStanceTransition(from, to models.Stance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, string(from)+"->"+string(to))
}

func (m *recordingMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *recordingMetrics) RecordLatency(string, float64) {}

func (m *recordingMetrics) scoringCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scoring[op]
}

type fakePublisher struct {
	mu      sync.Mutex
	changes []models.StanceChange
	err     error
}

func (p *fakePublisher) PublishStanceChange(_ context.Context, change models.StanceChange) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, change)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

var testNow = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	dash      *Dashboard
	catalog   *repository.Catalog
	metrics   *recordingMetrics
	publisher *fakePublisher
	cache     *cache.MemoryCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalog, err := repository.LoadEmbedded()
	require.NoError(t, err)

	stances := repository.NewStanceStore(catalog.DecisionRules())
	engine := events.NewEngine(catalog, events.DefaultRegistry(0), stances,
		events.WithClock(func() time.Time { return testNow }))

	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })

	f := &fixture{catalog: catalog, metrics: newRecordingMetrics(), publisher: &fakePublisher{}, cache: mem}
	f.dash = NewDashboard(catalog, scoring.NewService(), engine, stances, mem, f.metrics, logger.NewNop(),
		WithPublisher(f.publisher), WithCacheTTL(time.Minute))
	return f
}

func TestListCompanies(t *testing.T) {
	f := newFixture(t)

	rows := f.dash.ListCompanies()
	require.Len(t, rows, 17)

	first := rows[0]
	assert.Equal(t, "PLPL3", first.Ticker)
	assert.Equal(t, "high", first.ScoreClass)
	assert.Equal(t, models.StanceStrongBuy, first.Stance)

	plpl3, _ := f.catalog.Company("PLPL3")
	assert.Equal(t, scoring.RiskScore(plpl3), first.RiskScore)
	assert.Equal(t, scoring.BaseConfidence(plpl3), first.Confidence)

	for _, r := range rows {
		if r.Ticker == "ONCO3" {
			assert.Zero(t, r.GrowthValue, "negative P/E has no growth/value ratio")
			assert.Equal(t, models.StanceWatch, r.Stance)
		}
	}
}

func TestUnknownTicker(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	calls := map[string]func() error{
		"company":    func() error { _, err := f.dash.Company("XXXX3"); return err },
		"risk":       func() error { _, err := f.dash.Risk("XXXX3"); return err },
		"confidence": func() error { _, err := f.dash.Confidence("XXXX3", 1); return err },
		"report":     func() error { _, err := f.dash.ConfidenceReport(ctx, "XXXX3"); return err },
		"events":     func() error { _, err := f.dash.Events("XXXX3"); return err },
		"impact":     func() error { _, err := f.dash.EventsImpact("XXXX3", 1); return err },
		"insights":   func() error { _, err := f.dash.Insights(ctx, "XXXX3"); return err },
		"stance":     func() error { _, err := f.dash.Stance("XXXX3"); return err },
		"projection": func() error { _, err := f.dash.ProjectedTarget("XXXX3", 1); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, call(), ErrUnknownTicker)
		})
	}
	assert.False(t, f.dash.Known("XXXX3"))
	assert.True(t, f.dash.Known("CASH3"))
}

func TestConfidence(t *testing.T) {
	f := newFixture(t)
	c, _ := f.catalog.Company("CURY3")

	got, err := f.dash.Confidence("CURY3", 5)
	require.NoError(t, err)
	assert.Equal(t, scoring.BaseConfidence(c), got.Base)
	assert.Equal(t, scoring.HorizonConfidence(c, 5), got.Confidence)
	assert.LessOrEqual(t, got.Confidence, got.Base)
}

func TestConfidenceReportIsCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.dash.ConfidenceReport(ctx, "PLPL3")
	require.NoError(t, err)
	second, err := f.dash.ConfidenceReport(ctx, "PLPL3")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.metrics.scoringCount("confidence_report"))
	assert.Equal(t, "PLPL3", first.Ticker)
}

func TestEventsMergeMacro(t *testing.T) {
	f := newFixture(t)

	evs, err := f.dash.Events("PLPL3")
	require.NoError(t, err)
	assert.Len(t, evs, len(f.catalog.Events("PLPL3"))+len(f.catalog.Events(models.MacroBucket)))
	for i := 1; i < len(evs); i++ {
		assert.False(t, evs[i].Date.Before(evs[i-1].Date.Time), "sorted by date")
	}
}

func TestUpdateStance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, err := f.dash.Insights(ctx, "ONCO3")
	require.NoError(t, err)
	assert.Equal(t, models.StanceWatch, before.DecisionStance)

	change := f.dash.UpdateStance(ctx, "ONCO3", []string{"ONCO3_EBITDA_Q3_FAILURE"})
	assert.Equal(t, models.StanceWatch, change.Previous)
	assert.Equal(t, models.StanceSellReduce, change.Current)

	after, err := f.dash.Insights(ctx, "ONCO3")
	require.NoError(t, err)
	assert.Equal(t, models.StanceSellReduce, after.DecisionStance, "insights follow the new stance")
	assert.Equal(t, 2, f.metrics.scoringCount("insights"))

	require.Len(t, f.publisher.changes, 1)
	assert.Equal(t, "ONCO3", f.publisher.changes[0].Ticker)
	assert.Equal(t, []string{"watch->sell_reduce"}, f.metrics.transitions)

	stance, err := f.dash.Stance("ONCO3")
	require.NoError(t, err)
	assert.Equal(t, models.StanceSellReduce, stance.Stance)
}

func TestInsightsIgnoreStaleStanceEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stale, err := f.dash.Insights(ctx, "ONCO3")
	require.NoError(t, err)
	require.Equal(t, models.StanceWatch, stale.DecisionStance)

	f.dash.UpdateStance(ctx, "ONCO3", []string{"ONCO3_EBITDA_Q3_FAILURE"})
	var got models.EventInsights
	assert.ErrorIs(t, f.cache.Get(ctx, insightsKey("ONCO3", models.StanceWatch), &got), cache.ErrCacheMiss)

	// A load that read the old stance finishes after the eviction.
	require.NoError(t, f.cache.Set(ctx, insightsKey("ONCO3", models.StanceWatch), stale, time.Minute))

	after, err := f.dash.Insights(ctx, "ONCO3")
	require.NoError(t, err)
	assert.Equal(t, models.StanceSellReduce, after.DecisionStance)
}

func TestStances(t *testing.T) {
	f := newFixture(t)
	f.dash.UpdateStance(context.Background(), "ONCO3", []string{"ONCO3_EBITDA_Q3_FAILURE"})

	views := f.dash.Stances()
	require.Len(t, views, len(f.catalog.DecisionRules()))
	for i := 1; i < len(views); i++ {
		assert.Less(t, views[i-1].Ticker, views[i].Ticker)
	}
	assert.Contains(t, views, models.StanceView{Ticker: "ONCO3", Stance: models.StanceSellReduce})
}

func TestUpdateStanceWithoutMatch(t *testing.T) {
	f := newFixture(t)

	change := f.dash.UpdateStance(context.Background(), "CASH3", []string{"SOMETHING_ELSE"})

	assert.False(t, change.Changed())
	assert.Equal(t, models.StanceStrongBuy, change.Current)
	assert.Empty(t, f.publisher.changes)
	assert.Empty(t, f.metrics.transitions)
}

func TestUpdateStancePublishFailureKeepsStance(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker down")

	change := f.dash.UpdateStance(context.Background(), "CASH3", []string{"MA_RUMOR_DENIED"})

	assert.Equal(t, models.StanceSellReduce, change.Current)
	assert.Equal(t, 1, f.metrics.errors["stance_publish"])
	stance, _ := f.dash.Stance("CASH3")
	assert.Equal(t, models.StanceSellReduce, stance.Stance)
}

func TestResolveEvent(t *testing.T) {
	f := newFixture(t)

	got, err := f.dash.ResolveEvent("PLPL3_001", map[string]any{"roe": 49.0, "divida_ebitda": 0.2})
	require.NoError(t, err)
	assert.Equal(t, "PLPL3_EXPECTATION_Q3", got.TriggerID)
	assert.InDelta(t, 0.12, got.StaticDelta, 1e-9)
	assert.InDelta(t, 0.12, got.Resolved, 1e-9)

	missed, err := f.dash.ResolveEvent("PLPL3_001", map[string]any{"roe": 40.0, "divida_ebitda": 0.2})
	require.NoError(t, err)
	assert.Zero(t, missed.Resolved)

	_, err = f.dash.ResolveEvent("NOPE_001", nil)
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestProjectedTarget(t *testing.T) {
	f := newFixture(t)

	view, err := f.dash.ProjectedTarget("PLPL3", 1)
	require.NoError(t, err)
	impact, _ := f.dash.EventsImpact("PLPL3", 1)

	require.NotNil(t, view.BaselineTarget)
	assert.Equal(t, 19.4, *view.BaselineTarget)
	assert.InDelta(t, 19.4*impact.AdjustmentFactor, *view.AdjustedTarget, 1e-9)
	assert.Equal(t, impact, view.Impact)
	assert.Greater(t, view.ModelTarget, 0.0)

	noTarget, err := f.dash.ProjectedTarget("PLPL3", 2)
	require.NoError(t, err)
	assert.Nil(t, noTarget.BaselineTarget)
	assert.Nil(t, noTarget.AdjustedTarget)
}

func TestFilterEvents(t *testing.T) {
	f := newFixture(t)

	got := f.dash.FilterEvents(models.EventFilter{Ticker: "PLPL3", Impact: models.ImpactHigh})
	for _, ev := range got {
		assert.Equal(t, models.ImpactHigh, ev.Impact)
	}
	assert.NotEmpty(t, got)
}

func TestExportCSV(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	require.NoError(t, f.dash.ExportCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 18)

	header := records[0]
	assert.Len(t, header, 28)
	assert.Equal(t, []string{"Rank", "Ticker", "Company", "Sector", "Score"}, header[:5])
	assert.Equal(t, "Recommendation", header[len(header)-1])
	assert.Equal(t, ExportHeader(), header)

	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "PLPL3", records[1][1])
	assert.Equal(t, "19.4", records[1][8])
}

type sparseCatalog struct{ companies []*models.Company }

func (s sparseCatalog) Companies() []*models.Company { return s.companies }

func (s sparseCatalog) Company(ticker string) (*models.Company, bool) {
	for _, c := range s.companies {
		if c.Ticker == ticker {
			return c, true
		}
	}
	return nil, false
}

func TestExportCSVEmptyCells(t *testing.T) {
	catalog := sparseCatalog{companies: []*models.Company{{
		Ticker:         "NEW3",
		Name:           "Newco",
		Sector:         "Tech",
		Recommendation: models.RecommendationHold,
	}}}
	d := NewDashboard(catalog, scoring.NewService(), nil, nil, cache.NewMemoryCache(), newRecordingMetrics(), logger.NewNop())

	var buf bytes.Buffer
	require.NoError(t, d.ExportCSV(&buf))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	row := records[1]
	assert.Equal(t, "", row[0], "rank unknown")
	assert.Equal(t, "NEW3", row[1])
	assert.Equal(t, "0", row[7], "upside zero is a value")
	assert.Equal(t, "", row[8], "no projections")
	assert.Equal(t, "HOLD", row[27])
}
