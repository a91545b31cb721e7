package repository

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"CapLens/internal/domain/models"
)

func testRules() map[string]models.DecisionRule {
	return map[string]models.DecisionRule{
		"ONCO3": {
			StrongBuy:     []string{"ONCO3_EBITDA_Q3_SUCCESS"},
			Watch:         []string{"PENDING_EBITDA_VALIDATION"},
			SellReduce:    []string{"ONCO3_EBITDA_Q3_FAILURE"},
			CurrentStance: models.StanceWatch,
		},
	}
}

func TestStanceStoreGet(t *testing.T) {
	s := NewStanceStore(testRules())
	assert.Equal(t, models.StanceWatch, s.Get("ONCO3"))
	assert.Equal(t, models.StanceNeutral, s.Get("ZZZZ3"))
}

func TestStanceStoreUpdate(t *testing.T) {
	tests := []struct {
		name     string
		triggers []string
		want     models.Stance
	}{
		{"strong buy wins over sell", []string{"ONCO3_EBITDA_Q3_FAILURE", "ONCO3_EBITDA_Q3_SUCCESS"}, models.StanceStrongBuy},
		{"sell wins over watch", []string{"PENDING_EBITDA_VALIDATION", "ONCO3_EBITDA_Q3_FAILURE"}, models.StanceSellReduce},
		{"watch", []string{"PENDING_EBITDA_VALIDATION"}, models.StanceWatch},
		{"no match keeps current", []string{"SOMETHING_ELSE"}, models.StanceWatch},
		{"empty keeps current", nil, models.StanceWatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStanceStore(testRules())
			change := s.Update("ONCO3", tt.triggers)
			assert.Equal(t, models.StanceWatch, change.Previous)
			assert.Equal(t, tt.want, change.Current)
			assert.Equal(t, tt.want, s.Get("ONCO3"))
			assert.Equal(t, tt.want != models.StanceWatch, change.Changed())
		})
	}
}

func TestStanceStoreUpdateIsIdempotent(t *testing.T) {
	s := NewStanceStore(testRules())
	first := s.Update("ONCO3", []string{"ONCO3_EBITDA_Q3_FAILURE"})
	second := s.Update("ONCO3", []string{"ONCO3_EBITDA_Q3_FAILURE"})
	assert.True(t, first.Changed())
	assert.False(t, second.Changed())
	assert.Equal(t, models.StanceSellReduce, second.Current)
}

func TestStanceStoreUnknownTicker(t *testing.T) {
	s := NewStanceStore(testRules())
	change := s.Update("ZZZZ3", []string{"ONCO3_EBITDA_Q3_SUCCESS"})
	assert.Equal(t, models.StanceNeutral, change.Current)
	assert.False(t, change.Changed())
	assert.NotContains(t, s.Snapshot(), "ZZZZ3")
}

func TestStanceStoreConcurrentAccess(t *testing.T) {
	s := NewStanceStore(testRules())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			trigger := "PENDING_EBITDA_VALIDATION"
			if i%2 == 0 {
				trigger = "ONCO3_EBITDA_Q3_FAILURE"
			}
			s.Update("ONCO3", []string{trigger, fmt.Sprint(i)})
		}(i)
		go func() {
			defer wg.Done()
			_ = s.Get("ONCO3")
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	assert.Contains(t, []models.Stance{models.StanceWatch, models.StanceSellReduce}, s.Get("ONCO3"))
}
