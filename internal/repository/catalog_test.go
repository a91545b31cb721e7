package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CapLens/internal/domain/models"
)

func TestLoadEmbedded(t *testing.T) {
	cat, err := LoadEmbedded()
	require.NoError(t, err)

	companies := cat.Companies()
	assert.Len(t, companies, 17)
	assert.Equal(t, "PLPL3", companies[0].Ticker)
	assert.Len(t, cat.Buckets(), 18)
	assert.Contains(t, cat.Buckets(), models.MacroBucket)
	assert.Len(t, cat.Events(models.MacroBucket), 4)
	assert.Empty(t, cat.Events("NOPE"))

	plpl, ok := cat.Company("PLPL3")
	require.True(t, ok)
	require.NotNil(t, plpl.Metrics)
	assert.Equal(t, 49.0, *plpl.Metrics.ROE)
	assert.Nil(t, plpl.Performance.FiveYears)
	assert.Equal(t, "2025-11-06", plpl.NextEarnings.String())

	ev, ok := cat.Event("PLPL3_001")
	require.True(t, ok)
	assert.Equal(t, "PLPL3", ev.Ticker)
	assert.Equal(t, "PLPL3_EXPECTATION_Q3", ev.TriggerID)
	assert.Equal(t, "2025-11-14", ev.Date.String())

	for _, bucket := range cat.Buckets() {
		for _, e := range cat.Events(bucket) {
			assert.Equal(t, bucket, e.Ticker)
			assert.Greater(t, e.Confidence, 0.0, e.ID)
			assert.Greater(t, e.Probability, 0.0, e.ID)
		}
	}

	rules := cat.DecisionRules()
	assert.Len(t, rules, 5)
	assert.Equal(t, models.StanceWatch, rules["ONCO3"].CurrentStance)

	ref, ok := cat.Fundamental("CASH3", "btc_avg_acquisition_price_usd")
	assert.True(t, ok)
	assert.Equal(t, 90926.0, ref)
	_, ok = cat.Fundamental("CASH3", "btc_strategy")
	assert.False(t, ok)
}

func TestCompaniesReturnsCopy(t *testing.T) {
	cat, err := LoadEmbedded()
	require.NoError(t, err)

	list := cat.Companies()
	list[0] = nil
	assert.NotNil(t, cat.Companies()[0])
}

const validEvents = `{"version":"t","events":{"AAA":[{"id":"A1","date":"2025-11-01","type":"earnings","impact":"high","sentiment":"positive","priceImpact":0.1}]},"decisionRules":{"AAA":{"strongBuy":["X"],"watch":[],"sellReduce":[],"currentStance":"watch"}}}`

func TestLoadDefaultsAndValidation(t *testing.T) {
	companies := `{"version":"t","companies":[{"ticker":"AAA","name":"A","sector":"Varejo","score":50,"recommendation":"BUY"}]}`

	cat, err := Load([]byte(companies), []byte(validEvents))
	require.NoError(t, err)
	ev, ok := cat.Event("A1")
	require.True(t, ok)
	assert.Equal(t, 0.5, ev.Confidence)
	assert.Equal(t, 0.5, ev.Probability)

	tests := []struct {
		name      string
		companies string
		events    string
		wantErr   string
	}{
		{
			name:      "duplicate ticker",
			companies: `{"companies":[{"ticker":"AAA","name":"A","sector":"X","recommendation":"BUY"},{"ticker":"AAA","name":"B","sector":"X","recommendation":"BUY"}]}`,
			events:    validEvents,
			wantErr:   "duplicate ticker",
		},
		{
			name:      "score out of range",
			companies: `{"companies":[{"ticker":"AAA","name":"A","sector":"X","score":120,"recommendation":"BUY"}]}`,
			events:    validEvents,
			wantErr:   `company "AAA"`,
		},
		{
			name:      "unknown recommendation",
			companies: `{"companies":[{"ticker":"AAA","name":"A","sector":"X","recommendation":"MAYBE"}]}`,
			events:    validEvents,
			wantErr:   "recommendation",
		},
		{
			name:      "bad event type",
			companies: companies,
			events:    `{"events":{"AAA":[{"id":"A1","date":"2025-11-01","type":"gossip","impact":"high","sentiment":"positive"}]}}`,
			wantErr:   `event "A1"`,
		},
		{
			name:      "missing event date",
			companies: companies,
			events:    `{"events":{"AAA":[{"id":"A1","type":"earnings","impact":"high","sentiment":"positive"}]}}`,
			wantErr:   "missing date",
		},
		{
			name:      "malformed date",
			companies: companies,
			events:    `{"events":{"AAA":[{"id":"A1","date":"01/11/2025","type":"earnings","impact":"high","sentiment":"positive"}]}}`,
			wantErr:   "decode events",
		},
		{
			name:      "probability out of range",
			companies: companies,
			events:    `{"events":{"AAA":[{"id":"A1","date":"2025-11-01","type":"earnings","impact":"high","sentiment":"positive","probability":1.5}]}}`,
			wantErr:   `event "A1"`,
		},
		{
			name:      "duplicate event id",
			companies: companies,
			events:    `{"events":{"AAA":[{"id":"A1","date":"2025-11-01","type":"earnings","impact":"high","sentiment":"positive"},{"id":"A1","date":"2025-11-02","type":"earnings","impact":"high","sentiment":"positive"}]}}`,
			wantErr:   "duplicate id",
		},
		{
			name:      "bad stance",
			companies: companies,
			events:    `{"events":{},"decisionRules":{"AAA":{"currentStance":"panic"}}}`,
			wantErr:   `decision rule "AAA"`,
		},
		{
			name:      "malformed json",
			companies: `{`,
			events:    validEvents,
			wantErr:   "decode companies",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.companies), []byte(tt.events))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
