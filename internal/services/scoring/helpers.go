package scoring

import (
	"math"

	"CapLens/internal/domain/models"
)

// GrowthValueRatio is upside over P/E. It is 0 when P/E is unknown,
// non-positive or above 100.
func GrowthValueRatio(c *models.Company) float64 {
	pe, ok := GetMetric(c, "pe")
	if !ok || pe <= 0 || pe > 100 {
		return 0
	}
	return c.Upside / pe
}

// LongTermTarget compounds the current price over years with a weighted CAGR
// of 60% earnings growth, 20% ROE and 20% upside, floored at -5% a year.
func LongTermTarget(c *models.Company, years float64) float64 {
	if c == nil {
		return 0
	}
	growth := MetricOr(c, "earningsGrowth", 0) / 100
	roe := MetricOr(c, "roe", 0) / 100
	upside := c.Upside / 100

	cagr := math.Max(growth*0.60+roe*0.20+upside*0.20, -0.05)
	return c.CurrentPrice * math.Pow(1+cagr, years)
}

// ScoreClass buckets a quality score for display.
func ScoreClass(score float64) string {
	switch {
	case score > 75:
		return "high"
	case score > 55:
		return "medium"
	}
	return "low"
}

// ProjectionFor returns the static price target for a horizon in years.
// Only 1, 3, 5 and 10 have targets.
func ProjectionFor(c *models.Company, years int) (float64, bool) {
	switch years {
	case 1:
		return GetMetric(c, "target1Y")
	case 3:
		return GetMetric(c, "target3Y")
	case 5:
		return GetMetric(c, "target5Y")
	case 10:
		return GetMetric(c, "target10Y")
	}
	return 0, false
}
