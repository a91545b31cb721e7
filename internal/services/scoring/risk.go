package scoring

import (
	"math"

	"CapLens/internal/domain/models"
)

var riskySectors = map[string]struct{}{
	"Petróleo e Gás":   {},
	"Tecnologia":       {},
	"Construção Civil": {},
	"Varejo":           {},
}

// RiskScore accumulates leverage, volatility, sector and profitability points
// into a score capped at 100. Missing leverage adds nothing, while a reported
// ratio of 0 still lands in the lowest tier. Missing ROE counts as 0, missing
// beta as 1.
func RiskScore(c *models.Company) float64 {
	if c == nil {
		c = &models.Company{}
	}
	var score float64
	if debt, ok := GetMetric(c, "netDebtToEbitda"); ok {
		score += leveragePoints(debt)
	}

	// A negative beta would be the only negative term, so the volatility
	// contribution is floored at zero.
	score += clamp(MetricOr(c, "beta", 1)*15, 0, 30)

	if _, ok := riskySectors[c.Sector]; ok {
		score += 20
	}

	roe := MetricOr(c, "roe", 0)
	switch {
	case roe < 0:
		score += 30
	case roe < 10:
		score += 15
	}
	return math.Min(score, 100)
}

func leveragePoints(debt float64) float64 {
	switch {
	case debt < 0:
		return 0
	case debt < 1:
		return 10
	case debt < 2:
		return 30
	case debt < 3:
		return 50
	default:
		return 70
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
