package models

import "time"

// Housing classes recognized by the classifier. Rows with any other
// class label are dropped during ingestion.
const (
	ClassComfort  = "Комфорт"
	ClassBusiness = "Бизнес"
	ClassPremium  = "Премиум"
)

// City districts recognized by the district normalizer. Labels that
// match none of these pass through untouched.
const (
	DistrictCentral = "Центральный"
	DistrictNorth   = "Северный"
	DistrictSouth   = "Южный"
	DistrictWest    = "Западный"
	DistrictEast    = "Восточный"
)

// PriceColumn describes one discovered time-series price column.
// Order of discovery in the header row is chronological order.
type PriceColumn struct {
	Header string `json:"header"`
	Period string `json:"period"`
}

// PricePoint is one observed valid price for an entity.
type PricePoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// Entity is one residential project tracked across pricing periods.
type Entity struct {
	Name       string       `json:"name"`
	Class      string       `json:"class"`
	District   string       `json:"district,omitempty"`
	Prices     []PricePoint `json:"prices"`
	FirstPrice float64      `json:"first_price"`
	LastPrice  float64      `json:"last_price"`
	Trend      float64      `json:"trend"`
}

// ClassStats aggregates last observed prices over one housing class.
type ClassStats struct {
	Count    int     `json:"count"`
	AvgPrice int     `json:"avg_price"`
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
	AvgTrend float64 `json:"avg_trend"`
}

// DistrictStats aggregates last observed prices over one district.
type DistrictStats struct {
	Count    int     `json:"count"`
	AvgPrice int     `json:"avg_price"`
	AvgTrend float64 `json:"avg_trend"`
}

// PriceHistoryPoint holds the mean price per class for one period.
// Classes with no valid observation in the period are absent from
// the map, not zero-filled.
type PriceHistoryPoint struct {
	Period string             `json:"period"`
	Values map[string]float64 `json:"values"`
}

// ForecastPoint is one projected price at a fixed horizon.
type ForecastPoint struct {
	Months int     `json:"months"`
	Price  int     `json:"price"`
	Change float64 `json:"change"`
}

// ClassForecast is the per-class forecast contract served by the API.
type ClassForecast struct {
	Class    string          `json:"class"`
	Current  int             `json:"current"`
	Count    int             `json:"count"`
	Trend    float64         `json:"trend"`
	Forecast []ForecastPoint `json:"forecast"`
}

// Analysis is the full derived snapshot of one refresh.
type Analysis struct {
	ClassStats    map[string]ClassStats    `json:"classStats"`
	DistrictStats map[string]DistrictStats `json:"districtStats"`
	AllEntities   []*Entity                `json:"allEntities"`
	PriceColumns  []PriceColumn            `json:"priceColumns"`
	PriceHistory  []PriceHistoryPoint      `json:"priceHistory"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}
