package models

import "CapLens/pkg/util"

// Recommendation is the closed set of analyst calls a company can carry.
type Recommendation string

const (
	RecommendationStrongBuy      Recommendation = "STRONG BUY"
	RecommendationBuy            Recommendation = "BUY"
	RecommendationHold           Recommendation = "HOLD"
	RecommendationSpeculativeBuy Recommendation = "SPECULATIVE BUY"
	RecommendationHighRisk       Recommendation = "HIGH RISK"
)

// IsValid reports whether r belongs to the closed enumeration.
func (r Recommendation) IsValid() bool {
	switch r {
	case RecommendationStrongBuy, RecommendationBuy, RecommendationHold,
		RecommendationSpeculativeBuy, RecommendationHighRisk:
		return true
	default:
		return false
	}
}

// Metrics holds fundamental and market ratios. A nil field is unknown.
type Metrics struct {
	PE               *float64 `json:"pe,omitempty"`
	ROE              *float64 `json:"roe,omitempty"`
	ROIC             *float64 `json:"roic,omitempty"`
	DividendYield    *float64 `json:"dividendYield,omitempty"`
	NetDebtToEbitda  *float64 `json:"netDebtToEbitda,omitempty"`
	EbitdaMargin     *float64 `json:"ebitdaMargin,omitempty"`
	RevenueGrowth    *float64 `json:"revenueGrowth,omitempty"`
	EarningsGrowth   *float64 `json:"earningsGrowth,omitempty"`
	PB               *float64 `json:"pb,omitempty"`
	EvEbitda         *float64 `json:"evEbitda,omitempty"`
	Beta             *float64 `json:"beta,omitempty"`
	FreeFloat        *float64 `json:"freeFloat,omitempty"`
	LiquidityDaily   *float64 `json:"liquidityDaily,omitempty"`
	GrowthValueRatio *float64 `json:"growthValueRatio,omitempty"`
}

// Performance holds trailing price returns in percent.
type Performance struct {
	YTD        *float64 `json:"ytd,omitempty"`
	OneYear    *float64 `json:"oneYear,omitempty"`
	ThreeYears *float64 `json:"threeYears,omitempty"`
	FiveYears  *float64 `json:"fiveYears,omitempty"`
}

type AnalystConsensus struct {
	Buy  int `json:"buy" validate:"gte=0"`
	Hold int `json:"hold" validate:"gte=0"`
	Sell int `json:"sell" validate:"gte=0"`
}

// Total returns the number of covering analysts.
func (a AnalystConsensus) Total() int { return a.Buy + a.Hold + a.Sell }

// Projections holds price targets per horizon.
type Projections struct {
	Target1Y  *float64 `json:"target1Y,omitempty"`
	Target3Y  *float64 `json:"target3Y,omitempty"`
	Target5Y  *float64 `json:"target5Y,omitempty"`
	Target10Y *float64 `json:"target10Y,omitempty"`
}

type LastResults struct {
	Quarter   string   `json:"quarter"`
	Revenue   *float64 `json:"revenue,omitempty"`
	NetIncome *float64 `json:"netIncome,omitempty"`
	Ebitda    *float64 `json:"ebitda,omitempty"`
}

// Company is an immutable catalog record. Render state never lives here.
type Company struct {
	Ticker    string `json:"ticker" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Sector    string `json:"sector" validate:"required"`
	Subsector string `json:"subsector"`

	MarketCap      float64        `json:"marketCap" validate:"gte=0"`
	CurrentPrice   float64        `json:"currentPrice" validate:"gte=0"`
	TargetPrice    float64        `json:"targetPrice" validate:"gte=0"`
	Upside         float64        `json:"upside"`
	Score          float64        `json:"score" validate:"gte=0,lte=100"`
	Ranking        int            `json:"ranking" validate:"gte=0"`
	Recommendation Recommendation `json:"recommendation" validate:"recommendation"`

	Metrics          *Metrics          `json:"metrics,omitempty"`
	Performance      *Performance      `json:"performance,omitempty"`
	AnalystConsensus *AnalystConsensus `json:"analystConsensus,omitempty"`
	Projections      *Projections      `json:"projections,omitempty"`
	Confidence       *float64          `json:"confidence,omitempty" validate:"omitempty,gte=0,lte=100"`

	Catalysts     []string     `json:"catalysts,omitempty"`
	Risks         []string     `json:"risks,omitempty"`
	KeyHighlights []string     `json:"keyHighlights,omitempty"`
	IRWebsite     string       `json:"irWebsite,omitempty"`
	NextEarnings  util.Date    `json:"nextEarnings"`
	LastResults   *LastResults `json:"lastResults,omitempty"`
}

// CompanySummary is the scored row served to the dashboard list.
type CompanySummary struct {
	Ticker         string         `json:"ticker"`
	Name           string         `json:"name"`
	Sector         string         `json:"sector"`
	Score          float64        `json:"score"`
	ScoreClass     string         `json:"scoreClass"`
	Upside         float64        `json:"upside"`
	Recommendation Recommendation `json:"recommendation"`
	RiskScore      float64        `json:"riskScore"`
	Confidence     float64        `json:"confidence"`
	GrowthValue    float64        `json:"growthValueRatio"`
	Stance         Stance         `json:"stance"`
}

// CompanyDetail is the full record next to its scored summary.
type CompanyDetail struct {
	Summary CompanySummary `json:"summary"`
	Company *Company       `json:"company"`
}
