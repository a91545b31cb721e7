package models

// ConfidenceFactors are the raw, unweighted sub-scores behind a base confidence.
type ConfidenceFactors struct {
	Consensus   float64 `json:"consensus"`
	Performance float64 `json:"performance"`
	Financial   float64 `json:"financial"`
	Volatility  float64 `json:"volatility"`
	Liquidity   float64 `json:"liquidity"`
	Macro       float64 `json:"macro"`
}

type HorizonBreakdown struct {
	OneYear    float64 `json:"oneYear"`
	ThreeYears float64 `json:"threeYears"`
	FiveYears  float64 `json:"fiveYears"`
	TenYears   float64 `json:"tenYears"`
}

// ConfidenceReport is the contract other components read confidence from.
type ConfidenceReport struct {
	Ticker      string            `json:"ticker"`
	Overall     float64           `json:"overall"`
	Description string            `json:"description"`
	Level       string            `json:"level"`
	ByHorizon   HorizonBreakdown  `json:"byHorizon"`
	Factors     ConfidenceFactors `json:"factors"`
}

type RiskReport struct {
	Ticker    string  `json:"ticker"`
	RiskScore float64 `json:"riskScore"`
}

type HorizonConfidence struct {
	Ticker     string  `json:"ticker"`
	Years      float64 `json:"years"`
	Base       float64 `json:"base"`
	Confidence float64 `json:"confidence"`
}

// ProjectionView joins a static price projection with the event adjustment for its horizon.
type ProjectionView struct {
	Ticker          string       `json:"ticker"`
	HorizonYears    int          `json:"horizonYears"`
	BaselineTarget  *float64     `json:"baselineTarget"`
	AdjustedTarget  *float64     `json:"adjustedTarget"`
	ModelTarget     float64      `json:"modelTarget"`
	Confidence      float64      `json:"confidence"`
	Impact          EventsImpact `json:"impact"`
}
