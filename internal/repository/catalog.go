package repository

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"CapLens/internal/domain/models"
	"CapLens/internal/domain/repository"
)

//go:embed data/companies.json data/events.json
var dataFS embed.FS

const (
	companiesFile = "data/companies.json"
	eventsFile    = "data/events.json"
)

type companiesDoc struct {
	Version   string            `json:"version"`
	Companies []*models.Company `json:"companies"`
}

type eventsDoc struct {
	Version            string                         `json:"version"`
	Events             map[string][]models.Event      `json:"events"`
	DecisionRules      map[string]models.DecisionRule `json:"decisionRules"`
	FundamentalUpdates map[string]map[string]any      `json:"fundamentalUpdates"`
}

// Catalog is the read-only company and event dataset loaded at startup.
type Catalog struct {
	version      string
	companies    []*models.Company
	byTicker     map[string]*models.Company
	events       map[string][]models.Event
	buckets      []string
	byID         map[string]models.Event
	rules        map[string]models.DecisionRule
	fundamentals map[string]map[string]any
}

// LoadEmbedded loads the dataset compiled into the binary.
func LoadEmbedded() (*Catalog, error) {
	companies, err := dataFS.ReadFile(companiesFile)
	if err != nil {
		return nil, fmt.Errorf("read embedded companies: %w", err)
	}
	evs, err := dataFS.ReadFile(eventsFile)
	if err != nil {
		return nil, fmt.Errorf("read embedded events: %w", err)
	}
	return Load(companies, evs)
}

// LoadFiles loads a dataset from disk with the same layout as the embedded one.
func LoadFiles(companiesPath, eventsPath string) (*Catalog, error) {
	companies, err := os.ReadFile(companiesPath)
	if err != nil {
		return nil, fmt.Errorf("read companies %s: %w", companiesPath, err)
	}
	evs, err := os.ReadFile(eventsPath)
	if err != nil {
		return nil, fmt.Errorf("read events %s: %w", eventsPath, err)
	}
	return Load(companies, evs)
}

// Load decodes and validates both documents. Any invalid record aborts the load.
func Load(companiesJSON, eventsJSON []byte) (*Catalog, error) {
	var cd companiesDoc
	if err := json.Unmarshal(companiesJSON, &cd); err != nil {
		return nil, fmt.Errorf("decode companies: %w", err)
	}
	var ed eventsDoc
	if err := json.Unmarshal(eventsJSON, &ed); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	v := newCatalogValidator()
	c := &Catalog{
		version:      cd.Version,
		companies:    make([]*models.Company, 0, len(cd.Companies)),
		byTicker:     make(map[string]*models.Company, len(cd.Companies)),
		events:       make(map[string][]models.Event, len(ed.Events)),
		byID:         make(map[string]models.Event),
		rules:        make(map[string]models.DecisionRule, len(ed.DecisionRules)),
		fundamentals: ed.FundamentalUpdates,
	}

	for i, co := range cd.Companies {
		if co == nil {
			return nil, fmt.Errorf("company #%d: empty record", i)
		}
		if err := v.Struct(co); err != nil {
			return nil, fmt.Errorf("company %q: %w", co.Ticker, err)
		}
		if _, dup := c.byTicker[co.Ticker]; dup {
			return nil, fmt.Errorf("company %q: duplicate ticker", co.Ticker)
		}
		c.byTicker[co.Ticker] = co
		c.companies = append(c.companies, co)
	}

	for bucket, list := range ed.Events {
		evs := make([]models.Event, 0, len(list))
		for _, ev := range list {
			if ev.Ticker == "" {
				ev.Ticker = bucket
			}
			if err := defaults.Set(&ev); err != nil {
				return nil, fmt.Errorf("event %q: defaults: %w", ev.ID, err)
			}
			if err := v.Struct(ev); err != nil {
				return nil, fmt.Errorf("event %q: %w", ev.ID, err)
			}
			if ev.Date.IsZero() {
				return nil, fmt.Errorf("event %q: missing date", ev.ID)
			}
			if _, dup := c.byID[ev.ID]; dup {
				return nil, fmt.Errorf("event %q: duplicate id", ev.ID)
			}
			c.byID[ev.ID] = ev
			evs = append(evs, ev)
		}
		c.events[bucket] = evs
		c.buckets = append(c.buckets, bucket)
	}
	sort.Strings(c.buckets)

	for ticker, rule := range ed.DecisionRules {
		if err := v.Struct(rule); err != nil {
			return nil, fmt.Errorf("decision rule %q: %w", ticker, err)
		}
		c.rules[ticker] = rule
	}
	return c, nil
}

func (c *Catalog) Version() string { return c.version }

// Companies returns the records in catalog order.
func (c *Catalog) Companies() []*models.Company {
	out := make([]*models.Company, len(c.companies))
	copy(out, c.companies)
	return out
}

func (c *Catalog) Company(ticker string) (*models.Company, bool) {
	co, ok := c.byTicker[ticker]
	return co, ok
}

func (c *Catalog) Buckets() []string {
	out := make([]string, len(c.buckets))
	copy(out, c.buckets)
	return out
}

// Events returns a copy of one bucket; unknown buckets are empty.
func (c *Catalog) Events(bucket string) []models.Event {
	list := c.events[bucket]
	out := make([]models.Event, len(list))
	copy(out, list)
	return out
}

func (c *Catalog) Event(id string) (models.Event, bool) {
	ev, ok := c.byID[id]
	return ev, ok
}

// DecisionRules returns the initial stance rules per ticker.
func (c *Catalog) DecisionRules() map[string]models.DecisionRule {
	out := make(map[string]models.DecisionRule, len(c.rules))
	for k, v := range c.rules {
		out[k] = v
	}
	return out
}

// Fundamental reads a numeric fundamental update for a ticker.
func (c *Catalog) Fundamental(ticker, key string) (float64, bool) {
	f, ok := c.fundamentals[ticker][key].(float64)
	return f, ok
}

func newCatalogValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("recommendation", func(fl validator.FieldLevel) bool {
		return models.Recommendation(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("stance", func(fl validator.FieldLevel) bool {
		return models.Stance(fl.Field().String()).IsValid()
	})
	return v
}

var (
	_ repository.CompanyCatalog = (*Catalog)(nil)
	_ repository.EventCatalog   = (*Catalog)(nil)
)
