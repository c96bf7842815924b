package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuationResponse is the offer plus its full breakdown. The UI renders the
// breakdown verbatim, so every factor is part of the contract.
type ValuationResponse struct {
	DeviceID  string    `json:"device_id"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Storage   string    `json:"storage"`
	Condition string    `json:"condition"`
	ValuedAt  time.Time `json:"valued_at"`

	FinalValue decimal.Decimal `json:"final_value"`
	Clamped    bool            `json:"clamped,omitempty"` // final value moved onto an offer bound

	Breakdown Breakdown `json:"breakdown"`
}

// Breakdown lists every intermediate figure. Money fields are decimal
// strings; market_demand and supply_level are percentages.
type Breakdown struct {
	ReferencePrice decimal.Decimal `json:"reference_price"`
	BasePrice      decimal.Decimal `json:"base_price"` // age adjusted

	MonthsSinceRelease float64 `json:"months_since_release"`
	TimeDecay          float64 `json:"time_decay"`

	MarketDemand           float64 `json:"market_demand"`
	SupplyLevel            float64 `json:"supply_level"`
	SupplyDemandRatio      float64 `json:"supply_demand_ratio"`
	SupplyDemandMultiplier float64 `json:"supply_demand_multiplier"`
	DemandSignal           string  `json:"demand_signal"`

	CompetitorPrice          decimal.Decimal `json:"competitor_price"`
	MarketPosition           float64         `json:"market_position"`
	MarketPositionMultiplier float64         `json:"market_position_multiplier"`
	MarketSignal             string          `json:"market_signal"`

	SeasonalMultiplier float64 `json:"seasonal_multiplier"`
	Season             string  `json:"season"`

	StorageValue        float64 `json:"storage_value"`
	ConditionMultiplier float64 `json:"condition_multiplier"`
}

// OfferMatrixResponse is every storage x condition offer for one device.
type OfferMatrixResponse struct {
	DeviceID string              `json:"device_id"`
	ValuedAt time.Time           `json:"valued_at"`
	Offers   []ValuationResponse `json:"offers"`
}

// DeviceInfo is a catalog entry as shown in the booking wizard.
type DeviceInfo struct {
	ID             string          `json:"id"`
	Brand          string          `json:"brand"`
	Model          string          `json:"model"`
	Name           string          `json:"name"`
	ReleaseDate    string          `json:"release_date"` // YYYY-MM-DD
	BasePrice      decimal.Decimal `json:"base_price"`
	StorageOptions []string        `json:"storage_options"`
}

// TablesResponse exposes the active multiplier tables.
type TablesResponse struct {
	Decay               DecayInfo        `json:"decay"`
	AgeSteps            []AgeStepInfo    `json:"age_steps"`
	Seasons             []SeasonInfo     `json:"seasons"`
	DefaultSeasonal     float64          `json:"default_seasonal"`
	Conditions          []MultiplierInfo `json:"conditions"`
	Storage             []MultiplierInfo `json:"storage"`
	SupplyDemandCurve   []CurvePoint     `json:"supply_demand_curve"`
	MarketPositionCurve []CurvePoint     `json:"market_position_curve"`
	OfferBounds         OfferBoundsInfo  `json:"offer_bounds"`
}

type DecayInfo struct {
	MonthlyRate float64 `json:"monthly_rate"`
	Floor       float64 `json:"floor"`
}

// AgeStepInfo applies up to MaxMonths; the fallback step has no max.
type AgeStepInfo struct {
	MaxMonths    *float64 `json:"max_months,omitempty"`
	DemandFactor float64  `json:"demand_factor"`
	SupplyFactor float64  `json:"supply_factor"`
}

type SeasonInfo struct {
	Name   string   `json:"name"`
	Months []string `json:"months"`
	Factor float64  `json:"factor"`
}

type MultiplierInfo struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
}

type CurvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type OfferBoundsInfo struct {
	Minimum decimal.Decimal  `json:"minimum"`
	Maximum *decimal.Decimal `json:"maximum,omitempty"` // omitted when unbounded
}

// TradeInResponse is a stored trade-in submission.
type TradeInResponse struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	Customer  CustomerInfo      `json:"customer"`
	Valuation ValuationResponse `json:"valuation"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
