package marketdata

import (
	"math/rand"
	"sync"
	"time"

	"tradegate/models"
)

// RandomWalkSource is the paper-trading quote source. Each fetch steps
// the last price by a bounded random fraction and derives bid/ask from
// a fixed half-spread.
type RandomWalkSource struct {
	mu         sync.Mutex
	rnd        *rand.Rand
	last       map[string]float64
	stepFrac   float64
	spreadFrac float64
}

func NewRandomWalkSource(seeds map[string]float64, stepFrac, spreadFrac float64, seed int64) *RandomWalkSource {
	last := make(map[string]float64, len(seeds))
	for instrument, price := range seeds {
		last[instrument] = price
	}

	return &RandomWalkSource{
		rnd:        rand.New(rand.NewSource(seed)),
		last:       last,
		stepFrac:   stepFrac,
		spreadFrac: spreadFrac,
	}
}

func (s *RandomWalkSource) Fetch(instrument string) (models.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	price, ok := s.last[instrument]
	if !ok {
		return models.Quote{}, &models.DataError{Instrument: instrument, Reason: "unknown instrument"}
	}

	price *= 1 + (s.rnd.Float64()*2-1)*s.stepFrac
	s.last[instrument] = price

	half := price * s.spreadFrac / 2

	return models.Quote{
		Instrument: instrument,
		Bid:        price - half,
		Ask:        price + half,
		Last:       price,
		Timestamp:  time.Now(),
	}, nil
}
