package scoring

import (
	"math"
	"strings"

	"CapLens/internal/domain/models"
)

const (
	confidenceBase = 50.0

	weightConsensus   = 0.25
	weightPerformance = 0.20
	weightFinancial   = 0.20
	weightVolatility  = 0.15
	weightLiquidity   = 0.10
	weightMacro       = 0.10

	horizonDecayK    = 0.3
	growthThreshold  = 30.0
	declineThreshold = -20.0
)

var (
	defensiveSectors = []string{"Saúde", "Saneamento", "Energia Elétrica"}
	cyclicalSectors  = []string{"Construção Civil", "Varejo"}
	volatileSectors  = []string{"Petróleo e Gás", "Tecnologia"}
)

// ProjectionConfidence composes the six factor scores on top of a neutral base
// of 50 and clamps the result to [0,100].
func ProjectionConfidence(c *models.Company) float64 {
	if c == nil {
		c = &models.Company{}
	}
	score := confidenceBase +
		ConsensusScore(c)*weightConsensus +
		PerformanceScore(c)*weightPerformance +
		FinancialHealthScore(c)*weightFinancial +
		VolatilityScore(c)*weightVolatility +
		LiquidityScore(c)*weightLiquidity +
		MacroScore(c)*weightMacro
	return clamp(score, 0, 100)
}

// BaseConfidence prefers the catalog override and falls back to the computed score.
func BaseConfidence(c *models.Company) float64 {
	if v, ok := GetMetric(c, "confidence"); ok {
		return v
	}
	return ProjectionConfidence(c)
}

// ConsensusScore ranges -20..+50 from the buy and sell ratios.
func ConsensusScore(c *models.Company) float64 {
	if c == nil || c.AnalystConsensus == nil {
		return 0
	}
	total := c.AnalystConsensus.Total()
	if total <= 0 {
		return 0
	}
	buyRatio := float64(c.AnalystConsensus.Buy) / float64(total)
	sellRatio := float64(c.AnalystConsensus.Sell) / float64(total)

	switch {
	case buyRatio >= 0.70:
		return 50
	case buyRatio >= 0.50:
		return 30
	case buyRatio >= 0.30:
		return 10
	case sellRatio >= 0.30:
		return -20
	}
	return 0
}

// PerformanceScore ranges -35..+50 from YTD and one-year returns.
func PerformanceScore(c *models.Company) float64 {
	if c == nil || c.Performance == nil {
		return 0
	}
	ytd := valueOr(c.Performance.YTD, 0)
	oneYear := valueOr(c.Performance.OneYear, 0)

	var score float64
	switch {
	case ytd > 30:
		score += 30
	case ytd > 15:
		score += 20
	case ytd > 0:
		score += 10
	case ytd < -20:
		score -= 15
	}
	switch {
	case oneYear > 50:
		score += 20
	case oneYear > 20:
		score += 10
	case oneYear < -30:
		score -= 20
	}
	return score
}

// FinancialHealthScore adds ROE, EBITDA margin and leverage tiers.
// Leverage tiers are checked in order <0, <1, >3, >4, so anything above 3
// lands on the >3 tier.
func FinancialHealthScore(c *models.Company) float64 {
	var score float64

	roe := MetricOr(c, "roe", 0)
	switch {
	case roe > 30:
		score += 25
	case roe > 20:
		score += 15
	case roe > 10:
		score += 5
	case roe < 0:
		score -= 20
	}

	margin := MetricOr(c, "ebitdaMargin", 0)
	switch {
	case margin > 30:
		score += 15
	case margin > 20:
		score += 10
	case margin > 10:
		score += 5
	}

	debt := MetricOr(c, "netDebtToEbitda", 0)
	switch {
	case debt < 0:
		score += 10
	case debt < 1:
		score += 5
	case debt > 3:
		score -= 15
	case debt > 4:
		score -= 25
	}
	return score
}

// VolatilityScore maps beta (default 1) to -20..+20.
func VolatilityScore(c *models.Company) float64 {
	beta := MetricOr(c, "beta", 1)
	switch {
	case beta < 0.7:
		return 20
	case beta < 1.0:
		return 10
	case beta < 1.3:
		return 0
	case beta < 1.7:
		return -10
	}
	return -20
}

// LiquidityScore adds free-float and daily traded volume tiers.
func LiquidityScore(c *models.Company) float64 {
	freeFloat := MetricOr(c, "freeFloat", 0)
	daily := MetricOr(c, "liquidityDaily", 0)

	var score float64
	switch {
	case freeFloat > 50:
		score += 10
	case freeFloat > 30:
		score += 5
	case freeFloat < 20:
		score -= 5
	}
	switch {
	case daily > 100_000_000:
		score += 10
	case daily > 50_000_000:
		score += 5
	case daily < 10_000_000:
		score -= 10
	}
	return score
}

// MacroScore matches the sector name against defensive, cyclical and volatile groups.
func MacroScore(c *models.Company) float64 {
	if c == nil {
		return 0
	}
	switch {
	case containsAny(c.Sector, defensiveSectors):
		return 15
	case containsAny(c.Sector, cyclicalSectors):
		return 5
	case containsAny(c.Sector, volatileSectors):
		return -10
	}
	return 0
}

// HorizonConfidence discounts the base confidence logarithmically for
// horizons beyond one year and applies the earnings-growth penalty.
func HorizonConfidence(c *models.Company, years float64) float64 {
	base := BaseConfidence(c)
	if years <= 1 {
		return base
	}

	adjusted := base / (1 + horizonDecayK*math.Log(years))

	scale := 1.0
	if years > 5 {
		scale = 0.5
	}
	adjusted += GrowthPenalty(MetricOr(c, "earningsGrowth", 0)) * scale

	return clamp(adjusted, 0, 100)
}

// GrowthPenalty is zero inside [-20,30] and negative outside it: at most -15
// for extreme growth and at most -20 for steep declines.
func GrowthPenalty(earningsGrowth float64) float64 {
	switch {
	case earningsGrowth > growthThreshold:
		return -math.Min((earningsGrowth-growthThreshold)*0.15, 15)
	case earningsGrowth < declineThreshold:
		return math.Max((earningsGrowth-declineThreshold)*0.25, -20)
	}
	return 0
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
