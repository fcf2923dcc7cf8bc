package models

import "fmt"

// ValidationError is a risk-limit breach. The signal is discarded and
// the cycle continues.
type ValidationError struct {
	OrderID string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("order %s: validation failed: %s", e.OrderID, e.Reason)
}

// VenueError is an execution backend failure. The order is marked
// rejected and may be resubmitted on a later cycle.
type VenueError struct {
	OrderID string
	Reason  string
}

func (e *VenueError) Error() string {
	return fmt.Sprintf("order %s: venue: %s", e.OrderID, e.Reason)
}

// StateError is an illegal transition attempt, e.g. cancel after fill.
// It signals a contract violation and is never swallowed.
type StateError struct {
	OrderID string
	Reason  string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("order %s: illegal state: %s", e.OrderID, e.Reason)
}

// DataError is missing or stale market data for one instrument. It
// blocks submissions for that instrument only.
type DataError struct {
	Instrument string
	Reason     string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("instrument %s: market data: %s", e.Instrument, e.Reason)
}
