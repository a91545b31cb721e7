package events

import (
	"encoding/json"
	"strconv"

	"CapLens/internal/domain/models"
)

// DefaultBTCReference is the average BTC acquisition price (USD) used when
// neither the results nor the catalog provide one.
const DefaultBTCReference = 90926.0

// Results are the externally observed outcomes a rule is evaluated against.
type Results map[string]any

// Float reads a numeric result. JSON numbers and numeric strings are accepted.
func (r Results) Float(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

// Bool reads a boolean result; only a true value or the string "true" is true.
func (r Results) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		return err == nil && b
	}
	return false
}

// Text reads a string result.
func (r Results) Text(key string) string {
	s, _ := r[key].(string)
	return s
}

// Predicate decides whether a rule's triggering condition held.
type Predicate func(Results) bool

// Rule is one of BinaryRule, FlowRule, PremiumRule or ComputedRule.
type Rule interface {
	rule()
}

// BinaryRule resolves to SuccessFactor-1 or FailureFactor-1.
type BinaryRule struct {
	SuccessFactor float64
	FailureFactor float64
	Condition     Predicate
}

// FlowRule resolves to FlowFactor-1 on confirmation and 0 otherwise.
type FlowRule struct {
	FlowFactor float64
	Condition  Predicate
}

// PremiumRule is a rare high-payoff corporate action; no downside when unconfirmed.
type PremiumRule struct {
	PremiumFactor float64
	Condition     Predicate
}

// ComputedRule derives a multiplicative factor from a current and a reference price.
type ComputedRule struct {
	Reference float64
	Calculate func(current, reference float64) float64
}

func (BinaryRule) rule()   {}
func (FlowRule) rule()     {}
func (PremiumRule) rule()  {}
func (ComputedRule) rule() {}

// Registry maps trigger ids to their resolution rule.
type Registry map[string]Rule

// DefaultRegistry returns the rules for the catalog's conditional events.
// btcReference overrides DefaultBTCReference when positive.
func DefaultRegistry(btcReference float64) Registry {
	if btcReference <= 0 {
		btcReference = DefaultBTCReference
	}
	return Registry{
		"ONCO3_EBITDA_Q3": BinaryRule{
			SuccessFactor: 1.25,
			FailureFactor: 0.85,
			Condition: func(r Results) bool {
				v, ok := r.Float("margem_ebitda_ex_pilp")
				return ok && v >= 15.4
			},
		},
		"CASH3_BTC_VAL": ComputedRule{
			Reference: btcReference,
			Calculate: func(current, reference float64) float64 {
				return 1 + (current-reference)/reference*0.3
			},
		},
		"CASH3_MA_RUMOR": PremiumRule{
			PremiumFactor: 1.50,
			Condition: func(r Results) bool {
				return r.Text("fato_relevante") == "negociacao_exclusiva"
			},
		},
		"CURY3_IBOV_FINAL": FlowRule{
			FlowFactor: 1.08,
			Condition:  func(r Results) bool { return r.Bool("confirmacao") },
		},
		"SMFT3_IBOV_FINAL": FlowRule{
			FlowFactor: 1.06,
			Condition:  func(r Results) bool { return r.Bool("confirmacao") },
		},
		// Confirmation of an already priced-in quality thesis: upside only.
		"PLPL3_EXPECTATION_Q3": FlowRule{
			FlowFactor: 1.12,
			Condition: func(r Results) bool {
				roe, okROE := r.Float("roe")
				debt, okDebt := r.Float("divida_ebitda")
				return okROE && okDebt && roe > 45 && debt < 0.3
			},
		},
		"ONCO3_ASSET_SALE": FlowRule{
			FlowFactor: 1.15,
			Condition: func(r Results) bool {
				return r.Text("tipo") == "venda_substancial_non_core"
			},
		},
	}
}

// Lookup returns the rule for a trigger id.
func (reg Registry) Lookup(triggerID string) (Rule, bool) {
	if triggerID == "" {
		return nil, false
	}
	r, ok := reg[triggerID]
	return r, ok
}

// ApplyConditionalLogic resolves an event's price delta against observed
// results. Events without a registered trigger keep their static PriceImpact.
func (reg Registry) ApplyConditionalLogic(e models.Event, results Results) float64 {
	rule, ok := reg.Lookup(e.TriggerID)
	if !ok {
		return e.PriceImpact
	}
	return resolve(rule, e.PriceImpact, results)
}

func resolve(rule Rule, static float64, results Results) float64 {
	switch r := rule.(type) {
	case BinaryRule:
		if holds(r.Condition, results) {
			return r.SuccessFactor - 1
		}
		return r.FailureFactor - 1
	case FlowRule:
		if holds(r.Condition, results) {
			return r.FlowFactor - 1
		}
		return 0
	case PremiumRule:
		if holds(r.Condition, results) {
			return r.PremiumFactor - 1
		}
		return 0
	case ComputedRule:
		current, ok := results.Float("current")
		if !ok || r.Calculate == nil {
			return static
		}
		reference, ok := results.Float("reference")
		if !ok {
			reference, ok = results.Float("acquisition")
		}
		if !ok {
			reference = r.Reference
		}
		if reference == 0 {
			return static
		}
		return r.Calculate(current, reference) - 1
	}
	return static
}

func holds(p Predicate, results Results) bool {
	return p != nil && p(results)
}
