package scoring

import (
	"strings"

	"CapLens/internal/domain/models"
)

// GetMetric resolves a logical metric name against a possibly partial company
// record. The boolean is false when the value is unknown.
//
// Nested ratios treat zero as a real value. The confidence override and the
// top-level market fields (marketCap, currentPrice, targetPrice, score,
// ranking) treat zero as missing, matching how the catalog encodes gaps.
// Upside is signed and zero is kept.
func GetMetric(c *models.Company, name string) (float64, bool) {
	if c == nil {
		return 0, false
	}
	if v, ok := nestedMetric(c.Metrics, name); ok {
		return deref(v)
	}

	switch {
	case name == "ytd":
		if c.Performance == nil {
			return 0, false
		}
		return deref(c.Performance.YTD)
	case strings.HasPrefix(name, "target") && name != "targetPrice":
		return projection(c.Projections, name)
	case name == "confidence":
		if c.Confidence == nil {
			return 0, false
		}
		return nonZero(*c.Confidence)
	}

	switch name {
	case "marketCap":
		return nonZero(c.MarketCap)
	case "currentPrice":
		return nonZero(c.CurrentPrice)
	case "targetPrice":
		return nonZero(c.TargetPrice)
	case "score":
		return nonZero(c.Score)
	case "ranking":
		return nonZero(float64(c.Ranking))
	case "upside":
		return c.Upside, true
	}
	return 0, false
}

// MetricOr returns the resolved metric or def when it is unknown.
func MetricOr(c *models.Company, name string, def float64) float64 {
	if v, ok := GetMetric(c, name); ok {
		return v
	}
	return def
}

// nestedMetric reports whether name is a nested ratio and returns its slot.
func nestedMetric(m *models.Metrics, name string) (*float64, bool) {
	var slot func(*models.Metrics) *float64
	switch name {
	case "pe":
		slot = func(m *models.Metrics) *float64 { return m.PE }
	case "roe":
		slot = func(m *models.Metrics) *float64 { return m.ROE }
	case "roic":
		slot = func(m *models.Metrics) *float64 { return m.ROIC }
	case "dividendYield":
		slot = func(m *models.Metrics) *float64 { return m.DividendYield }
	case "netDebtToEbitda":
		slot = func(m *models.Metrics) *float64 { return m.NetDebtToEbitda }
	case "beta":
		slot = func(m *models.Metrics) *float64 { return m.Beta }
	case "pb":
		slot = func(m *models.Metrics) *float64 { return m.PB }
	case "evEbitda":
		slot = func(m *models.Metrics) *float64 { return m.EvEbitda }
	case "growthValueRatio":
		slot = func(m *models.Metrics) *float64 { return m.GrowthValueRatio }
	case "ebitdaMargin":
		slot = func(m *models.Metrics) *float64 { return m.EbitdaMargin }
	case "revenueGrowth":
		slot = func(m *models.Metrics) *float64 { return m.RevenueGrowth }
	case "earningsGrowth":
		slot = func(m *models.Metrics) *float64 { return m.EarningsGrowth }
	case "freeFloat":
		slot = func(m *models.Metrics) *float64 { return m.FreeFloat }
	case "liquidityDaily":
		slot = func(m *models.Metrics) *float64 { return m.LiquidityDaily }
	default:
		return nil, false
	}
	if m == nil {
		return nil, true
	}
	return slot(m), true
}

func projection(p *models.Projections, name string) (float64, bool) {
	if p == nil {
		return 0, false
	}
	switch name {
	case "target1Y":
		return deref(p.Target1Y)
	case "target3Y":
		return deref(p.Target3Y)
	case "target5Y":
		return deref(p.Target5Y)
	case "target10Y":
		return deref(p.Target10Y)
	}
	return 0, false
}

func deref(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

func nonZero(v float64) (float64, bool) {
	if v == 0 {
		return 0, false
	}
	return v, true
}
