package dto

import "github.com/octobees/house-price-estimator/internal/catalog"

// PredictRequest is the payload the prediction backend expects.
type PredictRequest struct {
	TotalSqft float64 `json:"total_sqft"`
	Location  string  `json:"location"`
	BHK       int     `json:"bhk"`
	Bath      int     `json:"bath"`
}

// PredictInput is the body accepted by POST /api/predict. Counts are floats
// so that non-integral values reach validation instead of failing to bind.
type PredictInput struct {
	TotalSqft float64 `json:"total_sqft"`
	Location  string  `json:"location"`
	BHK       float64 `json:"bhk"`
	Bath      float64 `json:"bath"`
}

// PredictionData is returned on a successful estimate.
type PredictionData struct {
	EstimatedPrice float64 `json:"estimated_price"`
	Formatted      string  `json:"formatted"`
	Disclaimer     string  `json:"disclaimer"`
}

// LocationsData lists the loaded catalog.
type LocationsData struct {
	Count     int                `json:"count"`
	Hint      string             `json:"hint"`
	Locations []catalog.Location `json:"locations"`
}
