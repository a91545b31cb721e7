package scoring

import "CapLens/internal/domain/models"

// DescribeConfidence returns the qualitative tier for a confidence value.
func DescribeConfidence(confidence float64) string {
	switch {
	case confidence >= 80:
		return "Very High"
	case confidence >= 70:
		return "High"
	case confidence >= 60:
		return "Moderate"
	case confidence >= 50:
		return "Medium"
	case confidence >= 40:
		return "Low"
	}
	return "Very Low"
}

// ConfidenceLevel buckets confidence into high, medium or low.
func ConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= 75:
		return "high"
	case confidence >= 60:
		return "medium"
	}
	return "low"
}

// ConfidenceReport builds the structured confidence view for a company: the
// base value, its horizon breakdown and the raw factor scores.
func ConfidenceReport(c *models.Company) models.ConfidenceReport {
	if c == nil {
		c = &models.Company{}
	}
	overall := BaseConfidence(c)
	return models.ConfidenceReport{
		Ticker:      c.Ticker,
		Overall:     overall,
		Description: DescribeConfidence(overall),
		Level:       ConfidenceLevel(overall),
		ByHorizon: models.HorizonBreakdown{
			OneYear:    HorizonConfidence(c, 1),
			ThreeYears: HorizonConfidence(c, 3),
			FiveYears:  HorizonConfidence(c, 5),
			TenYears:   HorizonConfidence(c, 10),
		},
		Factors: models.ConfidenceFactors{
			Consensus:   ConsensusScore(c),
			Performance: PerformanceScore(c),
			Financial:   FinancialHealthScore(c),
			Volatility:  VolatilityScore(c),
			Liquidity:   LiquidityScore(c),
			Macro:       MacroScore(c),
		},
	}
}
