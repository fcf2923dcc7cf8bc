package orderbook

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tradegate/internal/marketdata"
	"tradegate/internal/repository/postgres"
	"tradegate/internal/risk"
	"tradegate/internal/venue"
	"tradegate/models"
)

// closeEpsilon is the absolute quantity under which a position counts
// as flat and is removed.
const closeEpsilon = 1e-9

type Config struct {
	VenueTimeout time.Duration
}

// Gateway owns the authoritative order and position state. Every
// submit and cancel is appended to the audit log before its result is
// returned, so the in-memory state can always be rebuilt from the log.
// Submit and Cancel are serialized under one writer lock.
type Gateway struct {
	cfg       Config
	validator *risk.Validator
	venue     venue.Venue
	feed      marketdata.Feed
	audit     postgres.AuditRepo
	metrics   models.Metrics
	logger    *logrus.Logger

	mu           sync.Mutex
	orders       map[string]*models.Order
	positions    map[string]*models.Position
	trades       []models.Trade
	recentOrders map[string][]time.Time

	submitted int
	filled    int
	rejected  int
	canceled  int

	commission float64
	realized   float64
}

func NewGateway(
	cfg Config,
	validator *risk.Validator,
	execVenue venue.Venue,
	feed marketdata.Feed,
	audit postgres.AuditRepo,
	metrics models.Metrics,
	logger *logrus.Logger,
) *Gateway {
	if cfg.VenueTimeout <= 0 {
		cfg.VenueTimeout = 5 * time.Second
	}

	return &Gateway{
		cfg:          cfg,
		validator:    validator,
		venue:        execVenue,
		feed:         feed,
		audit:        audit,
		metrics:      metrics,
		logger:       logger,
		orders:       make(map[string]*models.Order),
		positions:    make(map[string]*models.Position),
		recentOrders: make(map[string][]time.Time),
	}
}

// Submit runs the full admission sequence: audit the attempt, validate
// against risk limits, execute at the venue under a bounded timeout,
// then settle the fill into the position and trade state. Whatever the
// outcome, the order leaves in a well-defined status and the caller
// gets a copy attributed to its order ID.
func (g *Gateway) Submit(ctx context.Context, order *models.Order) (*models.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.Status = models.StatusNew
	g.orders[order.ID] = order

	g.appendAudit(order, models.AuditSubmit, 0, 0, "")
	g.submitted++

	quote, err := g.feed.Quote(order.Instrument)
	if err != nil {
		var dataErr *models.DataError
		if !errors.As(err, &dataErr) {
			dataErr = &models.DataError{Instrument: order.Instrument, Reason: err.Error()}
		}
		g.rejectLocked(order, dataErr.Reason)
		return copyOrder(order), dataErr
	}

	now := time.Now()
	if verr := g.validator.Validate(order, g.positionsLocked(order.AgentID), g.recentOrders[order.AgentID], quote.Last, now); verr != nil {
		g.rejectLocked(order, verr.Reason)
		return copyOrder(order), verr
	}

	order.Status = models.StatusSubmitted
	g.recordAcceptedLocked(order.AgentID, now)

	execCtx, cancel := context.WithTimeout(ctx, g.cfg.VenueTimeout)
	result, err := g.venue.Execute(execCtx, order, quote)
	cancel()

	if err != nil {
		reason := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "venue timeout"
		}
		g.rejectLocked(order, reason)
		return copyOrder(order), &models.VenueError{OrderID: order.ID, Reason: reason}
	}

	switch result.State {
	case venue.StateRejected:
		g.rejectLocked(order, result.Reason)
		return copyOrder(order), &models.VenueError{OrderID: order.ID, Reason: result.Reason}

	case venue.StatePending:
		g.logger.Debugf("order %s pending: %s", order.ID, result.Reason)
		return copyOrder(order), nil

	default:
		g.appendAudit(order, models.AuditFill, result.Price, result.Commission, "")
		g.settleFillLocked(order, order.Quantity, result.Price, result.Commission, time.Now())
		g.metrics.Inc(models.MetricOrderFilled)
		return copyOrder(order), nil
	}
}

// Cancel is honored only before any fill is recorded. A cancel against
// a terminal or partially filled order is a contract violation and
// leaves no audit trace beyond the original lifecycle records.
func (g *Gateway) Cancel(orderID string) (*models.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	order, ok := g.orders[orderID]
	if !ok {
		return nil, &models.StateError{OrderID: orderID, Reason: "unknown order"}
	}

	if order.Status.Terminal() || order.FilledQuantity > 0 {
		return copyOrder(order), &models.StateError{OrderID: orderID, Reason: "not cancellable"}
	}

	order.Status = models.StatusCanceled
	g.appendAudit(order, models.AuditCancel, 0, 0, "")
	g.canceled++
	g.metrics.Inc(models.MetricOrderCanceled)

	return copyOrder(order), nil
}

// Order returns a copy of the order, if known.
func (g *Gateway) Order(orderID string) (*models.Order, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	order, ok := g.orders[orderID]
	if !ok {
		return nil, false
	}

	return copyOrder(order), true
}

// PositionsFor returns copies of the agent's open positions keyed by
// instrument, with unrealized P&L marked against the latest quote.
func (g *Gateway) PositionsFor(agentID string) map[string]models.Position {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := g.positionsLocked(agentID)
	for instrument, p := range out {
		if quote, err := g.feed.Quote(instrument); err == nil {
			p.UnrealizedPnL = (quote.Last - p.AvgEntryPrice) * p.Quantity
			out[instrument] = p
		}
	}

	return out
}

// OpenPositionCount is the number of open positions across all agents.
func (g *Gateway) OpenPositionCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.positions)
}

// TradeHistory returns the most recent trades, newest last.
func (g *Gateway) TradeHistory(limit int) []models.Trade {
	g.mu.Lock()
	defer g.mu.Unlock()

	trades := g.trades
	if limit > 0 && len(trades) > limit {
		trades = trades[len(trades)-limit:]
	}

	out := make([]models.Trade, len(trades))
	copy(out, trades)

	return out
}

type Stats struct {
	Submitted       int     `json:"submitted"`
	Filled          int     `json:"filled"`
	Rejected        int     `json:"rejected"`
	Canceled        int     `json:"canceled"`
	Trades          int     `json:"trades"`
	OpenPositions   int     `json:"open_positions"`
	TotalCommission float64 `json:"total_commission"`
	RealizedPnL     float64 `json:"realized_pnl"`
}

func (g *Gateway) ExecutionStats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()

	return Stats{
		Submitted:       g.submitted,
		Filled:          g.filled,
		Rejected:        g.rejected,
		Canceled:        g.canceled,
		Trades:          len(g.trades),
		OpenPositions:   len(g.positions),
		TotalCommission: g.commission,
		RealizedPnL:     g.realized,
	}
}

func (g *Gateway) rejectLocked(order *models.Order, reason string) {
	order.Status = models.StatusRejected
	g.appendAudit(order, models.AuditReject, 0, 0, reason)
	g.rejected++
	g.metrics.Inc(models.MetricOrderRejected)
}

// settleFillLocked applies a fill to the order, its position and the
// trade history. Commissions reduce realized P&L as they occur, so a
// round trip nets price delta minus both legs' commissions.
func (g *Gateway) settleFillLocked(order *models.Order, qty, price, commission float64, at time.Time) {
	prevNotional := order.AvgFillPrice * order.FilledQuantity
	order.FilledQuantity += qty
	if order.FilledQuantity > order.Quantity {
		order.FilledQuantity = order.Quantity
	}
	order.AvgFillPrice = (prevNotional + qty*price) / order.FilledQuantity
	order.Commission += commission

	if order.FilledQuantity >= order.Quantity {
		order.Status = models.StatusFilled
	} else {
		order.Status = models.StatusPartiallyFilled
	}

	delta := qty
	if order.Side == models.SideSell {
		delta = -qty
	}

	g.applyToPosition(order, delta, price, commission, at)

	g.trades = append(g.trades, models.Trade{
		ID:            fmt.Sprintf("%s/%d", order.ID, len(g.trades)),
		OrderID:       order.ID,
		AgentID:       order.AgentID,
		Instrument:    order.Instrument,
		Side:          order.Side,
		Quantity:      qty,
		Price:         price,
		Commission:    commission,
		PositionDelta: delta,
		ExecutedAt:    at,
	})

	g.filled++
	g.commission += commission
}

// applyToPosition updates the volume-weighted entry price for same-side
// fills and realizes P&L for reducing fills. A fill larger than the
// open quantity flips the position at the fill price.
func (g *Gateway) applyToPosition(order *models.Order, delta, price, commission float64, at time.Time) {
	key := models.PositionKey(order.AgentID, order.Instrument)

	p, ok := g.positions[key]
	if !ok {
		p = &models.Position{
			AgentID:    order.AgentID,
			Instrument: order.Instrument,
			OpenedAt:   at,
		}
		g.positions[key] = p
	}

	sameSide := p.Quantity == 0 || (p.Quantity > 0) == (delta > 0)
	if sameSide {
		prevAbs := math.Abs(p.Quantity)
		addAbs := math.Abs(delta)
		p.AvgEntryPrice = (prevAbs*p.AvgEntryPrice + addAbs*price) / (prevAbs + addAbs)
		p.Quantity += delta
	} else {
		closeQty := math.Min(math.Abs(delta), math.Abs(p.Quantity))

		var pnl float64
		if p.Quantity > 0 {
			pnl = closeQty * (price - p.AvgEntryPrice)
		} else {
			pnl = closeQty * (p.AvgEntryPrice - price)
		}
		p.RealizedPnL += pnl
		g.realized += pnl

		p.Quantity += delta
		if math.Abs(p.Quantity) > closeEpsilon && (p.Quantity > 0) == (delta > 0) {
			// flipped through zero
			p.AvgEntryPrice = price
		}
	}

	p.RealizedPnL -= commission
	g.realized -= commission
	p.UpdatedAt = at

	if math.Abs(p.Quantity) < closeEpsilon {
		delete(g.positions, key)
	}
}

func (g *Gateway) positionsLocked(agentID string) map[string]models.Position {
	out := make(map[string]models.Position)
	for _, p := range g.positions {
		if p.AgentID == agentID {
			out[p.Instrument] = *p
		}
	}

	return out
}

func (g *Gateway) recordAcceptedLocked(agentID string, now time.Time) {
	cutoff := now.Add(-risk.RollingWindow)
	kept := g.recentOrders[agentID][:0]
	for _, ts := range g.recentOrders[agentID] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	g.recentOrders[agentID] = append(kept, now)
}

func (g *Gateway) appendAudit(order *models.Order, event models.AuditEvent, price, commission float64, reason string) {
	record := &models.AuditRecord{
		OrderID:    order.ID,
		AgentID:    order.AgentID,
		Instrument: order.Instrument,
		Event:      event,
		Side:       order.Side,
		OrderType:  order.Type,
		Quantity:   order.Quantity,
		LimitPrice: order.LimitPrice,
		StopPrice:  order.StopPrice,
		Price:      price,
		Commission: commission,
		Status:     order.Status,
		Reason:     reason,
		CreatedAt:  time.Now(),
	}

	// The venue outcome is already final here; losing the append means
	// losing history, not consistency, so it is logged and not fatal.
	if err := g.audit.Append(record); err != nil {
		g.logger.Errorf("audit append order %s event %s: %s", order.ID, event, err)
	}
}

func copyOrder(order *models.Order) *models.Order {
	c := *order
	return &c
}
