package models

import "time"

// Stance is the per-ticker decision state.
type Stance string

const (
	StanceStrongBuy  Stance = "strong_buy"
	StanceWatch      Stance = "watch"
	StanceSellReduce Stance = "sell_reduce"
	StanceNeutral    Stance = "neutral"
)

// IsValid reports whether s is one of the four states.
func (s Stance) IsValid() bool {
	switch s {
	case StanceStrongBuy, StanceWatch, StanceSellReduce, StanceNeutral:
		return true
	default:
		return false
	}
}

// DecisionRule lists the trigger ids that move a ticker into each stance.
type DecisionRule struct {
	StrongBuy     []string `json:"strongBuy"`
	Watch         []string `json:"watch"`
	SellReduce    []string `json:"sellReduce"`
	CurrentStance Stance   `json:"currentStance" validate:"stance"`
}

type StanceChange struct {
	Ticker    string    `json:"ticker"`
	Previous  Stance    `json:"previous"`
	Current   Stance    `json:"current"`
	Triggers  []string  `json:"triggers"`
	ChangedAt time.Time `json:"changedAt"`
}

// Changed reports whether the update moved the ticker to a different stance.
func (c StanceChange) Changed() bool { return c.Previous != c.Current }

type StanceView struct {
	Ticker string `json:"ticker"`
	Stance Stance `json:"stance"`
}
