package venue

import (
	"context"

	"tradegate/models"
)

type ResultState int

const (
	StateFilled ResultState = iota
	StatePending
	StateRejected
)

// Result is the venue's verdict for one execution attempt.
type Result struct {
	State      ResultState
	Price      float64
	Commission float64
	Reason     string
}

// Venue executes orders against the current market quote. The
// simulated implementation is the default; a real broker adapter plugs
// in behind the same contract. A returned error is an infrastructure
// failure (e.g. timeout); business rejections come back as a Result
// with StateRejected.
type Venue interface {
	Execute(ctx context.Context, order *models.Order, quote models.Quote) (Result, error)
}
