package model

import "github.com/pkg/errors"

// Failure classes surfaced to callers. Producers wrap these with context;
// consumers classify with errors.Is.
var (
	// ErrNotFound means no active market profile exists for the device id.
	ErrNotFound = errors.New("device not found")
	// ErrInvalidStorage means the storage tier is not offered for the device.
	ErrInvalidStorage = errors.New("invalid storage tier")
	// ErrInvalidCondition means the condition is not one of the known tiers.
	ErrInvalidCondition = errors.New("invalid condition tier")
	// ErrInvalidRequest covers malformed requests (empty id, zero timestamp).
	ErrInvalidRequest = errors.New("invalid valuation request")
	// ErrUpstreamUnavailable means the profile backend could not be reached.
	// Callers may retry with backoff.
	ErrUpstreamUnavailable = errors.New("market profile store unavailable")
	// ErrComputation means an intermediate factor fell outside its documented
	// bounds. It points at a configuration or catalog bug and is never retried.
	ErrComputation = errors.New("valuation computation error")
)
