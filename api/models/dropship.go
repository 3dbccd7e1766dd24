package models

import "time"

// NicheAnalysis is one evaluated market niche produced by a discovery run.
type NicheAnalysis struct {
	ID                int64
	Name              string
	Description       string
	MainKeywords      string
	SearchVolume      int
	CompetitionLevel  string
	GrowthPotential   float64
	Demographics      string
	MarketingChannels string
	EvaluationNotes   string
	CreatedAt         time.Time
}

type TrendAnalysis struct {
	ID               int64
	Source           string
	Keyword          string
	SearchVolume     int
	GrowthRate       float64
	CompetitionLevel string
	Seasonality      string
	CreatedAt        time.Time
}

// ProductSource is a supplier listing discovered for a trend.
type ProductSource struct {
	ID             int64
	TrendID        int64
	Name           string
	Description    string
	SourceURL      string
	SourcePlatform string
	Price          float64
	ShippingCost   float64
	ShippingTime   string
	Rating         float64
	ProfitMargin   float64
	IsTrending     bool
	IsSeasonal     bool
	ImageURLs      string
	CreatedAt      time.Time
}

// ProductEvaluation scores a sourced product for dropshipping viability on a
// 0-100 scale per dimension.
type ProductEvaluation struct {
	ID                 int64
	ProductID          int64
	DropshippingScore  float64
	MarketSaturation   float64
	ShippingComplexity float64
	ReturnRisk         float64
	ProfitPotential    float64
	Recommendation     string
	EvaluationNotes    string
	CreatedAt          time.Time
}
