package marketdata

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"tradegate/internal/repository/postgres"
	"tradegate/models"
)

// QuoteSource is the upstream of the feed: an exchange poller in
// production, a random walk in paper trading.
type QuoteSource interface {
	Fetch(instrument string) (models.Quote, error)
}

// Feed serves market quotes to the pipeline. Quote fails with a
// DataError when there is no fresh quote for the instrument, which
// blocks submissions for that instrument only.
type Feed interface {
	Quote(instrument string) (models.Quote, error)
	History(instrument string, n int) []models.Quote
	Refresh() error
}

type CachedFeedConfig struct {
	Instruments []string
	MaxAge      time.Duration
	HistorySize int
}

// CachedFeed polls the source once per cycle, keeps a trailing window
// per instrument for indicator math and persists every refreshed quote.
type CachedFeed struct {
	cfg    CachedFeedConfig
	source QuoteSource
	repo   postgres.QuoteRepo
	logger *logrus.Logger

	mu      sync.RWMutex
	quotes  map[string]models.Quote
	history map[string][]models.Quote
}

func NewCachedFeed(cfg CachedFeedConfig, source QuoteSource, repo postgres.QuoteRepo, logger *logrus.Logger) *CachedFeed {
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 64
	}

	return &CachedFeed{
		cfg:     cfg,
		source:  source,
		repo:    repo,
		logger:  logger,
		quotes:  make(map[string]models.Quote),
		history: make(map[string][]models.Quote),
	}
}

// Refresh polls every configured instrument. It fails only when no
// instrument could be refreshed at all; partial failures are logged and
// surface later as per-instrument DataErrors once the cache goes stale.
func (f *CachedFeed) Refresh() error {
	refreshed := 0

	for _, instrument := range f.cfg.Instruments {
		quote, err := f.source.Fetch(instrument)
		if err != nil {
			f.logger.Errorf("refresh %s: %s", instrument, err)
			continue
		}

		if quote.Timestamp.IsZero() {
			quote.Timestamp = time.Now()
		}

		f.mu.Lock()
		f.quotes[instrument] = quote

		window := append(f.history[instrument], quote)
		if len(window) > f.cfg.HistorySize {
			window = window[len(window)-f.cfg.HistorySize:]
		}
		f.history[instrument] = window
		f.mu.Unlock()

		if f.repo != nil {
			q := quote
			if err := f.repo.Store(&q); err != nil {
				f.logger.Errorf("store quote %s: %s", instrument, err)
			}
		}

		refreshed++
	}

	if refreshed == 0 {
		return fmt.Errorf("market data refresh failed for all %d instruments", len(f.cfg.Instruments))
	}

	return nil
}

func (f *CachedFeed) Quote(instrument string) (models.Quote, error) {
	f.mu.RLock()
	quote, ok := f.quotes[instrument]
	f.mu.RUnlock()

	if !ok {
		return models.Quote{}, &models.DataError{Instrument: instrument, Reason: "no quote"}
	}

	if f.cfg.MaxAge > 0 && time.Since(quote.Timestamp) > f.cfg.MaxAge {
		return models.Quote{}, &models.DataError{Instrument: instrument, Reason: "stale quote"}
	}

	return quote, nil
}

func (f *CachedFeed) History(instrument string, n int) []models.Quote {
	f.mu.RLock()
	defer f.mu.RUnlock()

	window := f.history[instrument]
	if n > 0 && len(window) > n {
		window = window[len(window)-n:]
	}

	out := make([]models.Quote, len(window))
	copy(out, window)

	return out
}
