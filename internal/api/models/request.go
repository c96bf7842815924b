package models

import "time"

// ValuationRequest is the body of POST /api/v1/valuations.
type ValuationRequest struct {
	DeviceID  string `json:"device_id" binding:"required"`
	Storage   string `json:"storage" binding:"required"`   // e.g. "256GB"
	Condition string `json:"condition" binding:"required"` // excellent, good, fair, poor
	// Now overrides the server clock (RFC3339). Used for quotes at a fixed
	// instant and for reproducing a stored offer.
	Now *time.Time `json:"now,omitempty"`
}

// OffersQuery is the query string of GET /api/v1/devices/:id/offers.
type OffersQuery struct {
	Now string `form:"now"` // RFC3339, default: server clock
}

// TradeInRequest is the body of POST /api/v1/tradeins. There is no price
// field: the offer is always recomputed server side.
type TradeInRequest struct {
	Customer  CustomerInfo `json:"customer" binding:"required"`
	DeviceID  string       `json:"device_id" binding:"required"`
	Storage   string       `json:"storage" binding:"required"`
	Condition string       `json:"condition" binding:"required"`
}

// CustomerInfo identifies who books the trade-in.
type CustomerInfo struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone,omitempty"`
}
