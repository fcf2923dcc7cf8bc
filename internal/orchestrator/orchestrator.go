package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"tradegate/internal/controllers"
	"tradegate/internal/marketdata"
	"tradegate/models"
)

// TradingAgent is one strategy wrapped behind the signal contract.
type TradingAgent interface {
	ID() string
	Signals(feed marketdata.Feed, instruments []string) ([]models.Signal, error)
	ExitSignals(feed marketdata.Feed) []models.Signal
	OnFill(order *models.Order, signal models.Signal)
}

// Book is the slice of the order gateway the orchestrator drives.
type Book interface {
	Submit(ctx context.Context, order *models.Order) (*models.Order, error)
	OpenPositionCount() int
}

type Config struct {
	Instruments            []string
	MaxConcurrentPositions int
	ConfidenceWeight       float64
	RewardWeight           float64
	// MaxRiskReward caps the risk/reward term before it is normalized
	// into [0,1] for ranking.
	MaxRiskReward float64
}

// Orchestrator drives the periodic cycle: refresh market data, collect
// signals from every agent, rank them, allocate the remaining position
// slots and submit the winners. One tick completes fully before the
// next begins.
type Orchestrator struct {
	cfg    Config
	book   Book
	feed   marketdata.Feed
	agents []TradingAgent
	byID   map[string]TradingAgent

	tgm     controllers.TgmCtrl
	metrics models.Metrics
	logger  *logrus.Logger

	mu      sync.Mutex
	running bool
}

func New(
	cfg Config,
	book Book,
	feed marketdata.Feed,
	agents []TradingAgent,
	tgm controllers.TgmCtrl,
	metrics models.Metrics,
	logger *logrus.Logger,
) *Orchestrator {
	if cfg.ConfidenceWeight == 0 && cfg.RewardWeight == 0 {
		cfg.ConfidenceWeight = 0.6
		cfg.RewardWeight = 0.4
	}
	if cfg.MaxRiskReward <= 0 {
		cfg.MaxRiskReward = 3
	}

	byID := make(map[string]TradingAgent, len(agents))
	for _, ag := range agents {
		byID[ag.ID()] = ag
	}

	return &Orchestrator{
		cfg:     cfg,
		book:    book,
		feed:    feed,
		agents:  agents,
		byID:    byID,
		tgm:     tgm,
		metrics: metrics,
		logger:  logger,
	}
}

// RunCycle executes one full tick. Overlapping invocations are
// rejected so ticks never interleave.
func (o *Orchestrator) RunCycle(ctx context.Context) error {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return errors.New("cycle already running")
	}
	o.running = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.running = false
		o.mu.Unlock()
	}()

	if err := o.feed.Refresh(); err != nil {
		o.metrics.Inc(models.MetricCycleAborted)
		o.notify(fmt.Sprintf("cycle aborted: %s", err))
		return fmt.Errorf("refresh market data: %w", err)
	}

	// Exits first: closing must never compete with opening for slots.
	for _, ag := range o.agents {
		for _, sig := range ag.ExitSignals(o.feed) {
			o.submitSignal(ctx, ag, sig)
		}
	}

	signals := o.collectSignals()
	ranked := o.rank(signals)

	slots := o.cfg.MaxConcurrentPositions - o.book.OpenPositionCount()
	if slots <= 0 {
		o.logger.Debugf("no capacity: %d signals discarded", len(ranked))
		for range ranked {
			o.metrics.Inc(models.MetricSignalDiscarded)
		}
		o.metrics.Inc(models.MetricCycleComplete)
		return nil
	}

	if len(ranked) > slots {
		for range ranked[slots:] {
			o.metrics.Inc(models.MetricSignalDiscarded)
		}
		ranked = ranked[:slots]
	}

	for _, sig := range ranked {
		ag, ok := o.byID[sig.AgentID]
		if !ok {
			o.logger.Errorf("signal from unknown agent %s", sig.AgentID)
			continue
		}
		o.submitSignal(ctx, ag, sig)
	}

	o.metrics.Inc(models.MetricCycleComplete)

	return nil
}

// collectSignals fans out across agents. One agent's panic or error is
// logged and never aborts the cycle for the others.
func (o *Orchestrator) collectSignals() []models.Signal {
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		all []models.Signal
	)

	for _, ag := range o.agents {
		wg.Add(1)
		go func(ag TradingAgent) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					o.logger.Errorf("agent %s panicked: %v\n%s", ag.ID(), r, debug.Stack())
				}
			}()

			signals, err := ag.Signals(o.feed, o.cfg.Instruments)
			if err != nil {
				o.logger.Errorf("agent %s signals: %s", ag.ID(), err)
				return
			}

			mu.Lock()
			all = append(all, signals...)
			mu.Unlock()
		}(ag)
	}

	wg.Wait()

	return all
}

// rank orders signals by the weighted priority score. Exact ties break
// by agent ID then instrument so the ranking is deterministic.
func (o *Orchestrator) rank(signals []models.Signal) []models.Signal {
	ranked := make([]models.Signal, len(signals))
	copy(ranked, signals)

	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := o.priorityScore(ranked[i]), o.priorityScore(ranked[j])
		if si != sj {
			return si > sj
		}
		if ranked[i].AgentID != ranked[j].AgentID {
			return ranked[i].AgentID < ranked[j].AgentID
		}
		return ranked[i].Instrument < ranked[j].Instrument
	})

	return ranked
}

// priorityScore blends confidence and the normalized risk/reward ratio
// under the configured weights. Both terms live in [0,1].
func (o *Orchestrator) priorityScore(sig models.Signal) float64 {
	rr := sig.RiskRewardRatio()
	if rr > o.cfg.MaxRiskReward {
		rr = o.cfg.MaxRiskReward
	}

	return o.cfg.ConfidenceWeight*sig.Confidence + o.cfg.RewardWeight*rr/o.cfg.MaxRiskReward
}

// submitSignal converts a signal to a market order and settles the
// outcome. Rejections are logged and left for the next cycle; the
// originating agent is called back only on a fill.
func (o *Orchestrator) submitSignal(ctx context.Context, ag TradingAgent, sig models.Signal) {
	order := &models.Order{
		Instrument:  sig.Instrument,
		Side:        sig.Side,
		Quantity:    sig.PositionSize,
		Type:        models.TypeMarket,
		AgentID:     sig.AgentID,
		StrategyTag: sig.StrategyTag,
	}

	result, err := o.book.Submit(ctx, order)
	if err != nil {
		var (
			validationErr *models.ValidationError
			venueErr      *models.VenueError
			dataErr       *models.DataError
		)

		switch {
		case errors.As(err, &validationErr):
			o.logger.Warnf("signal %s/%s discarded: %s", sig.AgentID, sig.Instrument, err)
			o.metrics.Inc(models.MetricSignalDiscarded)
		case errors.As(err, &venueErr):
			o.logger.Warnf("order %s rejected by venue: %s", venueErr.OrderID, err)
		case errors.As(err, &dataErr):
			o.logger.Warnf("order for %s blocked: %s", sig.Instrument, err)
		default:
			o.logger.Errorf("submit %s/%s: %s", sig.AgentID, sig.Instrument, err)
		}

		return
	}

	if result.Status != models.StatusFilled && result.Status != models.StatusPartiallyFilled {
		o.logger.Debugf("order %s left %s", result.ID, result.Status)
		return
	}

	ag.OnFill(result, sig)

	verb := "opened"
	if sig.Exit {
		verb = "closed " + sig.ExitReason
	}
	o.notify(fmt.Sprintf("%s %s %s %s %.4f @ %.2f (order %s)",
		sig.AgentID, verb, sig.Side, sig.Instrument, result.FilledQuantity, result.AvgFillPrice, result.ID))
}

func (o *Orchestrator) notify(text string) {
	if o.tgm == nil {
		return
	}
	if err := o.tgm.Send(text); err != nil {
		o.logger.Errorf("tgm send: %s", err)
	}
}
