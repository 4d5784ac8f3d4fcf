package models

// Requests for the scoring HTTP endpoints. Defined in domain for consistency and reuse.

type HistoryRequest struct {
	Ticker string `param:"ticker" json:"ticker" validate:"required"`
	Years  int    `query:"years" json:"years" default:"5" validate:"gte=1,lte=25"`
	Period string `query:"period" json:"period" default:"FY" validate:"oneof=FY Q"`
}

type TrendRequest struct {
	Ticker  string `param:"ticker" json:"ticker" validate:"required"`
	Periods int    `query:"periods" json:"periods" default:"4" validate:"gte=2,lte=20"`
}

type MoversRequest struct {
	MinChange int `query:"min_change" json:"min_change" default:"2" validate:"gte=1,lte=9"`
	Periods   int `query:"periods" json:"periods" default:"4" validate:"gte=2,lte=20"`
	Limit     int `query:"limit" json:"limit" default:"25" validate:"gte=1,lte=200"`
}

type ConsistentRequest struct {
	MinScore int `query:"min_score" json:"min_score" default:"7" validate:"gte=0,lte=9"`
	Periods  int `query:"periods" json:"periods" default:"8" validate:"gte=2,lte=20"`
	Limit    int `query:"limit" json:"limit" default:"25" validate:"gte=1,lte=200"`
}

type TurnaroundRequest struct {
	Limit int `query:"limit" json:"limit" default:"25" validate:"gte=1,lte=200"`
}

type RefreshRequest struct {
	Tickers []string `json:"tickers" validate:"required,min=1,max=500,dive,required"`
}
