package dto

import "time"

// ReproductionPoint pairs the fitted estimate with the RIVM-published
// reference value for the same date. Either side may be absent.
type ReproductionPoint struct {
	Date      time.Time `json:"date"`
	Estimate  *float64  `json:"estimate,omitempty"`
	Reference *float64  `json:"reference,omitempty"`
}

// ForecastPoint is one date of the extrapolated series. The exponential
// fields are omitted when the fit was suppressed or did not converge.
type ForecastPoint struct {
	Date    time.Time `json:"date"`
	Linear  *float64  `json:"linear,omitempty"`
	ExpLow  *float64  `json:"exp_low,omitempty"`
	ExpMid  *float64  `json:"exp_mid,omitempty"`
	ExpHigh *float64  `json:"exp_high,omitempty"`
}

// RefreshResult reports what one refresh cycle ingested.
type RefreshResult struct {
	RunID       string `json:"run_id"`
	RegionRows  int    `json:"region_rows"`
	CaseRows    int    `json:"case_rows"`
	JoinedDates int    `json:"joined_dates"`
}
