package repository

import (
	"sync"
	"time"

	"CapLens/internal/domain/models"
	"CapLens/internal/domain/repository"
)

type stanceRules struct {
	strongBuy  map[string]struct{}
	watch      map[string]struct{}
	sellReduce map[string]struct{}
	current    models.Stance
}

// StanceStore keeps the decision stance per ticker. Update is the single write
// path; reads may run concurrently.
type StanceStore struct {
	mu    sync.RWMutex
	rules map[string]*stanceRules
	now   func() time.Time
}

// NewStanceStore seeds the store from the catalog's decision rules.
func NewStanceStore(rules map[string]models.DecisionRule) *StanceStore {
	s := &StanceStore{
		rules: make(map[string]*stanceRules, len(rules)),
		now:   time.Now,
	}
	for ticker, r := range rules {
		current := r.CurrentStance
		if current == "" {
			current = models.StanceNeutral
		}
		s.rules[ticker] = &stanceRules{
			strongBuy:  toSet(r.StrongBuy),
			watch:      toSet(r.Watch),
			sellReduce: toSet(r.SellReduce),
			current:    current,
		}
	}
	return s
}

// Get returns the current stance; tickers without rules are neutral.
func (s *StanceStore) Get(ticker string) models.Stance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.rules[ticker]; ok {
		return r.current
	}
	return models.StanceNeutral
}

// Update applies validated trigger ids in priority order
// strong_buy > sell_reduce > watch. With no match the stance is unchanged.
// Unknown tickers stay neutral and nothing is stored.
func (s *StanceStore) Update(ticker string, triggerIDs []string) models.StanceChange {
	change := models.StanceChange{
		Ticker:    ticker,
		Previous:  models.StanceNeutral,
		Current:   models.StanceNeutral,
		Triggers:  triggerIDs,
		ChangedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rules[ticker]
	if !ok {
		return change
	}
	change.Previous = r.current
	switch {
	case matchesAny(r.strongBuy, triggerIDs):
		r.current = models.StanceStrongBuy
	case matchesAny(r.sellReduce, triggerIDs):
		r.current = models.StanceSellReduce
	case matchesAny(r.watch, triggerIDs):
		r.current = models.StanceWatch
	}
	change.Current = r.current
	return change
}

// Snapshot returns the stance of every ticker with rules.
func (s *StanceStore) Snapshot() map[string]models.Stance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.Stance, len(s.rules))
	for ticker, r := range s.rules {
		out[ticker] = r.current
	}
	return out
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func matchesAny(set map[string]struct{}, ids []string) bool {
	for _, id := range ids {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

var _ repository.StanceStore = (*StanceStore)(nil)
