package models

// Requests for dashboard HTTP endpoints. Defined in domain for consistency and reuse.
// Defaulted query values are pointers so an explicit zero is validated rather
// than replaced by the default.

type TickerRequest struct {
	Ticker string `param:"ticker" json:"ticker" validate:"required,max=12"`
}

type HorizonConfidenceRequest struct {
	Ticker string   `param:"ticker" json:"ticker" validate:"required,max=12"`
	Years  *float64 `query:"years" json:"years" default:"1" validate:"required,gt=0,lte=30"`
}

type EventsImpactRequest struct {
	Ticker  string `param:"ticker" json:"ticker" validate:"required,max=12"`
	Horizon *int   `query:"horizon" json:"horizon" default:"1" validate:"required,gte=1,lte=10"`
}

type ProjectionRequest struct {
	Ticker  string `param:"ticker" json:"ticker" validate:"required,max=12"`
	Horizon *int   `query:"horizon" json:"horizon" default:"1" validate:"required,oneof=1 3 5 10"`
}

type StanceUpdateRequest struct {
	Ticker   string   `param:"ticker" json:"-" validate:"required,max=12"`
	Triggers []string `json:"triggers" validate:"required,min=1,dive,required"`
}

type EventsQueryRequest struct {
	Ticker string   `query:"ticker" json:"ticker" validate:"omitempty,max=12"`
	Types  []string `query:"type" json:"type" validate:"omitempty,dive,oneof=earnings corporate macro regulatory rumors technical"`
	Impact string   `query:"impact" json:"impact" validate:"omitempty,oneof=high medium low"`
	Days   int      `query:"days" json:"days" validate:"gte=0,lte=3650"`
}

type ResolveEventRequest struct {
	ID      string         `param:"id" json:"-" validate:"required"`
	Results map[string]any `json:"results"`
}

type ResolvedEvent struct {
	EventID     string  `json:"eventId"`
	TriggerID   string  `json:"triggerId,omitempty"`
	StaticDelta float64 `json:"staticDelta"`
	Resolved    float64 `json:"resolved"`
}
