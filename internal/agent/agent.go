package agent

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"tradegate/internal/marketdata"
	"tradegate/models"
)

type PositionState string

const (
	PositionOpen   PositionState = "OPEN"
	PositionClosed PositionState = "CLOSED"
)

type CloseReason string

const (
	CloseStopLoss   CloseReason = "STOP_LOSS"
	CloseTakeProfit CloseReason = "TAKE_PROFIT"
	CloseManual     CloseReason = "MANUAL"
)

// OpenPosition is the agent's local view of a position it opened. The
// gateway remains the authority; this view only drives exit logic.
// Once closed it never reopens under the same entry.
type OpenPosition struct {
	Instrument  string
	Side        models.OrderSide
	Quantity    float64
	EntryPrice  float64
	StopLoss    float64
	TakeProfit  float64
	OpenedAt    time.Time
	State       PositionState
	CloseReason CloseReason
}

type Config struct {
	StrategyTag          string
	ConfidenceThreshold  float64
	ATRPeriod            int
	ATRMultiplier        float64
	RewardMultiple       float64
	FallbackStopPct      float64
	AccountBalance       float64
	MaxRiskPerTrade      float64
	MaxPositionValueFrac float64
	MaxPositions         int
	MaxSignalsPerCycle   int
}

// Agent wraps one predictive model and turns feature snapshots into
// ranked entry signals plus exit signals for its own open positions.
type Agent struct {
	id     string
	model  Model
	cfg    Config
	logger *logrus.Logger

	mu     sync.Mutex
	open   map[string]*OpenPosition
	closed []OpenPosition
}

func New(id string, model Model, cfg Config, logger *logrus.Logger) *Agent {
	if cfg.ATRPeriod <= 0 {
		cfg.ATRPeriod = 14
	}
	if cfg.ATRMultiplier <= 0 {
		cfg.ATRMultiplier = 2
	}
	if cfg.RewardMultiple <= 0 {
		cfg.RewardMultiple = 2
	}
	if cfg.FallbackStopPct <= 0 {
		cfg.FallbackStopPct = 0.02
	}
	if cfg.MaxSignalsPerCycle <= 0 {
		cfg.MaxSignalsPerCycle = 3
	}

	return &Agent{
		id:     id,
		model:  model,
		cfg:    cfg,
		logger: logger,
		open:   make(map[string]*OpenPosition),
	}
}

func (a *Agent) ID() string {
	return a.id
}

// Signals produces at most the remaining-capacity entry candidates,
// ranked by confidence descending.
func (a *Agent) Signals(feed marketdata.Feed, instruments []string) ([]models.Signal, error) {
	a.mu.Lock()
	capacity := a.cfg.MaxPositions - len(a.open)
	a.mu.Unlock()

	if capacity <= 0 {
		return nil, nil
	}
	if capacity > a.cfg.MaxSignalsPerCycle {
		capacity = a.cfg.MaxSignalsPerCycle
	}

	var candidates []models.Signal

	for _, instrument := range instruments {
		a.mu.Lock()
		_, held := a.open[instrument]
		a.mu.Unlock()
		if held {
			continue
		}

		history := feed.History(instrument, a.cfg.ATRPeriod+1)
		score := a.model.Score(instrument, history)

		confidence := math.Abs(score)
		if confidence < a.cfg.ConfidenceThreshold {
			continue
		}

		quote, err := feed.Quote(instrument)
		if err != nil {
			a.logger.Debugf("agent %s skip %s: %s", a.id, instrument, err)
			continue
		}

		side := models.SideBuy
		entry := quote.Ask
		if score < 0 {
			side = models.SideSell
			entry = quote.Bid
		}

		stop, target := a.exitLevels(side, entry, history)

		size := a.sizePosition(entry, stop)
		if size <= 0 {
			continue
		}

		riskPerUnit := math.Abs(entry - stop)

		candidates = append(candidates, models.Signal{
			AgentID:        a.id,
			StrategyTag:    a.cfg.StrategyTag,
			Instrument:     instrument,
			Side:           side,
			Confidence:     confidence,
			EntryPrice:     entry,
			StopLoss:       stop,
			TakeProfit:     target,
			PositionSize:   size,
			RiskAmount:     riskPerUnit * size,
			ExpectedReward: math.Abs(target-entry) * size,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	if len(candidates) > capacity {
		candidates = candidates[:capacity]
	}

	return candidates, nil
}

// ExitSignals checks every open position against its stop and target
// and emits full-close signals with the side inverted. Partial exits
// are never generated.
func (a *Agent) ExitSignals(feed marketdata.Feed) []models.Signal {
	a.mu.Lock()
	defer a.mu.Unlock()

	var exits []models.Signal

	for instrument, pos := range a.open {
		quote, err := feed.Quote(instrument)
		if err != nil {
			a.logger.Debugf("agent %s exit check %s: %s", a.id, instrument, err)
			continue
		}

		reason, hit := exitBreached(pos, quote.Last)
		if !hit {
			continue
		}

		exits = append(exits, models.Signal{
			AgentID:      a.id,
			StrategyTag:  a.cfg.StrategyTag,
			Instrument:   instrument,
			Side:         pos.Side.Invert(),
			Confidence:   1,
			EntryPrice:   quote.Last,
			PositionSize: pos.Quantity,
			Exit:         true,
			ExitReason:   string(reason),
		})
	}

	sort.SliceStable(exits, func(i, j int) bool {
		return exits[i].Instrument < exits[j].Instrument
	})

	return exits
}

// OnFill advances the local position view from a filled order: entry
// fills open the view, exit fills close it (terminal).
func (a *Agent) OnFill(order *models.Order, signal models.Signal) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if signal.Exit {
		pos, ok := a.open[order.Instrument]
		if !ok {
			return
		}
		pos.State = PositionClosed
		pos.CloseReason = CloseReason(signal.ExitReason)
		if pos.CloseReason == "" {
			pos.CloseReason = CloseManual
		}
		a.closed = append(a.closed, *pos)
		delete(a.open, order.Instrument)
		return
	}

	a.open[order.Instrument] = &OpenPosition{
		Instrument: order.Instrument,
		Side:       order.Side,
		Quantity:   order.FilledQuantity,
		EntryPrice: order.AvgFillPrice,
		StopLoss:   signal.StopLoss,
		TakeProfit: signal.TakeProfit,
		OpenedAt:   time.Now(),
		State:      PositionOpen,
	}
}

// OpenPositions returns a snapshot of the local view.
func (a *Agent) OpenPositions() []OpenPosition {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]OpenPosition, 0, len(a.open))
	for _, pos := range a.open {
		out = append(out, *pos)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Instrument < out[j].Instrument })

	return out
}

// ClosedPositions returns the archive of closed position views.
func (a *Agent) ClosedPositions() []OpenPosition {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]OpenPosition, len(a.closed))
	copy(out, a.closed)

	return out
}

// exitLevels derives the stop from the ATR distance (falling back to a
// fixed percentage when volatility is unavailable) and the target at a
// fixed reward multiple of the risk distance.
func (a *Agent) exitLevels(side models.OrderSide, entry float64, history []models.Quote) (stop, target float64) {
	dist := atr(history, a.cfg.ATRPeriod) * a.cfg.ATRMultiplier
	if dist <= 0 {
		dist = entry * a.cfg.FallbackStopPct
	}

	if side == models.SideBuy {
		stop = entry - dist
		target = entry + dist*a.cfg.RewardMultiple
	} else {
		stop = entry + dist
		target = entry - dist*a.cfg.RewardMultiple
	}

	return stop, target
}

// sizePosition caps the per-unit risk by the account risk budget and
// the resulting notional by the max position value fraction.
func (a *Agent) sizePosition(entry, stop float64) float64 {
	riskPerUnit := math.Abs(entry - stop)
	if riskPerUnit <= 0 || entry <= 0 {
		return 0
	}

	size := a.cfg.AccountBalance * a.cfg.MaxRiskPerTrade / riskPerUnit

	maxValue := a.cfg.AccountBalance * a.cfg.MaxPositionValueFrac
	if maxValue > 0 && size*entry > maxValue {
		size = maxValue / entry
	}

	return size
}

// atr approximates average true range as the mean absolute move
// between consecutive quotes over the trailing window.
func atr(history []models.Quote, period int) float64 {
	if len(history) < 2 {
		return 0
	}

	if len(history) > period+1 {
		history = history[len(history)-period-1:]
	}

	var sum float64
	for i := 1; i < len(history); i++ {
		sum += math.Abs(history[i].Last - history[i-1].Last)
	}

	return sum / float64(len(history)-1)
}

func exitBreached(pos *OpenPosition, last float64) (CloseReason, bool) {
	if pos.Side == models.SideBuy {
		if pos.StopLoss > 0 && last <= pos.StopLoss {
			return CloseStopLoss, true
		}
		if pos.TakeProfit > 0 && last >= pos.TakeProfit {
			return CloseTakeProfit, true
		}
		return "", false
	}

	if pos.StopLoss > 0 && last >= pos.StopLoss {
		return CloseStopLoss, true
	}
	if pos.TakeProfit > 0 && last <= pos.TakeProfit {
		return CloseTakeProfit, true
	}

	return "", false
}
