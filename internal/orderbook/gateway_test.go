package orderbook

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradegate/internal/risk"
	"tradegate/internal/venue"
	"tradegate/models"
)

// memAudit is an in-memory persistence sink: it both records the
// write-ahead log for assertions and feeds Recover.
type memAudit struct {
	mu      sync.Mutex
	records []models.AuditRecord
}

func (m *memAudit) Append(r *models.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := *r
	rec.ID = int64(len(m.records) + 1)
	m.records = append(m.records, rec)

	return nil
}

func (m *memAudit) Load() ([]models.AuditRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.AuditRecord, len(m.records))
	copy(out, m.records)

	return out, nil
}

func (m *memAudit) LoadByAgent(agentID string) ([]models.AuditRecord, error) {
	records, _ := m.Load()

	var out []models.AuditRecord
	for _, r := range records {
		if r.AgentID == agentID {
			out = append(out, r)
		}
	}

	return out, nil
}

func (m *memAudit) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.records)
}

type stubFeed struct {
	mu     sync.Mutex
	quotes map[string]models.Quote
}

func newStubFeed(prices map[string]float64) *stubFeed {
	quotes := make(map[string]models.Quote, len(prices))
	for instrument, price := range prices {
		quotes[instrument] = models.Quote{
			Instrument: instrument,
			Bid:        price,
			Ask:        price,
			Last:       price,
			Timestamp:  time.Now(),
		}
	}

	return &stubFeed{quotes: quotes}
}

func (f *stubFeed) setPrice(instrument string, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.quotes[instrument] = models.Quote{
		Instrument: instrument,
		Bid:        price,
		Ask:        price,
		Last:       price,
		Timestamp:  time.Now(),
	}
}

func (f *stubFeed) Quote(instrument string) (models.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	quote, ok := f.quotes[instrument]
	if !ok {
		return models.Quote{}, &models.DataError{Instrument: instrument, Reason: "no quote"}
	}

	return quote, nil
}

func (f *stubFeed) History(instrument string, n int) []models.Quote { return nil }

func (f *stubFeed) Refresh() error { return nil }

func testLimits() models.RiskLimits {
	return models.RiskLimits{
		MaxNotionalPerOrder:          1e9,
		MaxPositionSizePerInstrument: 1e6,
		MaxOrdersPerRollingMinute:    100,
		MinLotSize:                   0.0001,
	}
}

func newTestGateway(limits models.RiskLimits, feed *stubFeed, audit *memAudit, latency time.Duration) *Gateway {
	execVenue := venue.NewSimulatedVenue(venue.SimulatedConfig{
		SlippageFrac:   0,
		CommissionRate: 0.001,
		Latency:        latency,
	}, logrus.New())

	return NewGateway(
		Config{VenueTimeout: time.Second},
		risk.NewValidator(limits),
		execVenue,
		feed,
		audit,
		nil,
		logrus.New(),
	)
}

func marketOrder(agentID, instrument string, side models.OrderSide, qty float64) *models.Order {
	return &models.Order{
		Instrument: instrument,
		Side:       side,
		Quantity:   qty,
		Type:       models.TypeMarket,
		AgentID:    agentID,
	}
}

func Test_SubmitFill(t *testing.T) {
	audit := &memAudit{}
	feed := newStubFeed(map[string]float64{"BTCUSD": 100})
	g := newTestGateway(testLimits(), feed, audit, 0)

	result, err := g.Submit(context.Background(), marketOrder("a1", "BTCUSD", models.SideBuy, 10))
	require.NoError(t, err)

	assert.Equal(t, models.StatusFilled, result.Status)
	assert.InDelta(t, 10, result.FilledQuantity, 1e-9)
	assert.InDelta(t, 100, result.AvgFillPrice, 1e-9)
	assert.InDelta(t, 1.0, result.Commission, 1e-9)
	assert.LessOrEqual(t, result.FilledQuantity, result.Quantity)

	positions := g.PositionsFor("a1")
	require.Len(t, positions, 1)
	assert.InDelta(t, 10, positions["BTCUSD"].Quantity, 1e-9)
	assert.InDelta(t, 100, positions["BTCUSD"].AvgEntryPrice, 1e-9)

	// SUBMIT then FILL, in that order.
	require.Equal(t, 2, audit.count())
	assert.Equal(t, models.AuditSubmit, audit.records[0].Event)
	assert.Equal(t, models.AuditFill, audit.records[1].Event)

	trades := g.TradeHistory(0)
	require.Len(t, trades, 1)
	assert.InDelta(t, 10, trades[0].PositionDelta, 1e-9)
}

func Test_VWAPAveraging(t *testing.T) {
	audit := &memAudit{}
	feed := newStubFeed(map[string]float64{"BTCUSD": 100})
	g := newTestGateway(testLimits(), feed, audit, 0)

	_, err := g.Submit(context.Background(), marketOrder("a1", "BTCUSD", models.SideBuy, 10))
	require.NoError(t, err)

	feed.setPrice("BTCUSD", 110)
	_, err = g.Submit(context.Background(), marketOrder("a1", "BTCUSD", models.SideBuy, 10))
	require.NoError(t, err)

	positions := g.PositionsFor("a1")
	require.Len(t, positions, 1)
	assert.InDelta(t, 20, positions["BTCUSD"].Quantity, 1e-9)
	assert.InDelta(t, 105, positions["BTCUSD"].AvgEntryPrice, 1e-9)
}

func Test_RealizedLossRoundTrip(t *testing.T) {
	audit := &memAudit{}
	feed := newStubFeed(map[string]float64{"BTCUSD": 100})
	g := newTestGateway(testLimits(), feed, audit, 0)

	buy, err := g.Submit(context.Background(), marketOrder("a1", "BTCUSD", models.SideBuy, 10))
	require.NoError(t, err)

	feed.setPrice("BTCUSD", 95)
	sell, err := g.Submit(context.Background(), marketOrder("a1", "BTCUSD", models.SideSell, 10))
	require.NoError(t, err)

	// Realized loss is 10 x (95 - 100) minus both commissions.
	expected := 10*(95.0-100.0) - buy.Commission - sell.Commission

	stats := g.ExecutionStats()
	assert.InDelta(t, expected, stats.RealizedPnL, 1e-9)

	// The position is flat and removed.
	assert.Empty(t, g.PositionsFor("a1"))
	assert.Equal(t, 0, g.OpenPositionCount())
}

func Test_CancelAfterFill(t *testing.T) {
	audit := &memAudit{}
	feed := newStubFeed(map[string]float64{"BTCUSD": 100})
	g := newTestGateway(testLimits(), feed, audit, 0)

	filled, err := g.Submit(context.Background(), marketOrder("a1", "BTCUSD", models.SideBuy, 10))
	require.NoError(t, err)

	before := audit.count()

	_, err = g.Cancel(filled.ID)
	var stateErr *models.StateError
	require.ErrorAs(t, err, &stateErr)

	// No audit record beyond the original fill.
	assert.Equal(t, before, audit.count())
}

func Test_CancelPendingOrder(t *testing.T) {
	audit := &memAudit{}
	feed := newStubFeed(map[string]float64{"BTCUSD": 100})
	g := newTestGateway(testLimits(), feed, audit, 0)

	// A limit buy below the market stays pending at the venue.
	order := marketOrder("a1", "BTCUSD", models.SideBuy, 10)
	order.Type = models.TypeLimit
	order.LimitPrice = 90

	pending, err := g.Submit(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, pending.Status)

	canceled, err := g.Cancel(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCanceled, canceled.Status)

	last := audit.records[audit.count()-1]
	assert.Equal(t, models.AuditCancel, last.Event)

	// Terminal now: a second cancel is a contract violation.
	_, err = g.Cancel(pending.ID)
	var stateErr *models.StateError
	assert.ErrorAs(t, err, &stateErr)
}

func Test_ValidationReject(t *testing.T) {
	limits := testLimits()
	limits.MaxNotionalPerOrder = 500

	audit := &memAudit{}
	feed := newStubFeed(map[string]float64{"BTCUSD": 100})
	g := newTestGateway(limits, feed, audit, 0)

	result, err := g.Submit(context.Background(), marketOrder("a1", "BTCUSD", models.SideBuy, 10))

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, risk.ReasonNotionalLimit, verr.Reason)
	assert.Equal(t, models.StatusRejected, result.Status)

	// No position or trade state was touched.
	assert.Empty(t, g.PositionsFor("a1"))
	assert.Empty(t, g.TradeHistory(0))

	// The attempt and the rejection are both on the log.
	require.Equal(t, 2, audit.count())
	assert.Equal(t, models.AuditSubmit, audit.records[0].Event)
	assert.Equal(t, models.AuditReject, audit.records[1].Event)
}

func Test_RollingMinuteAdmission(t *testing.T) {
	limits := testLimits()
	limits.MaxOrdersPerRollingMinute = 3

	audit := &memAudit{}
	feed := newStubFeed(map[string]float64{"BTCUSD": 100})
	g := newTestGateway(limits, feed, audit, 0)

	tooMany := 0
	for i := 0; i < 4; i++ {
		_, err := g.Submit(context.Background(), marketOrder("a1", "BTCUSD", models.SideBuy, 0.01))
		var verr *models.ValidationError
		if err != nil {
			require.ErrorAs(t, err, &verr)
			require.Equal(t, risk.ReasonTooManyOrders, verr.Reason)
			tooMany++
		}
	}

	assert.Equal(t, 1, tooMany)
}

func Test_VenueTimeout(t *testing.T) {
	audit := &memAudit{}
	feed := newStubFeed(map[string]float64{"BTCUSD": 100})
	g := newTestGateway(testLimits(), feed, audit, 300*time.Millisecond)
	g.cfg.VenueTimeout = 10 * time.Millisecond

	result, err := g.Submit(context.Background(), marketOrder("a1", "BTCUSD", models.SideBuy, 10))

	var venueErr *models.VenueError
	require.ErrorAs(t, err, &venueErr)
	assert.Equal(t, "venue timeout", venueErr.Reason)
	assert.Equal(t, models.StatusRejected, result.Status)
}

func Test_NoMarketData(t *testing.T) {
	audit := &memAudit{}
	feed := newStubFeed(map[string]float64{"BTCUSD": 100})
	g := newTestGateway(testLimits(), feed, audit, 0)

	result, err := g.Submit(context.Background(), marketOrder("a1", "ETHUSD", models.SideBuy, 10))

	var dataErr *models.DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, models.StatusRejected, result.Status)
}

func Test_TradeReconciliation(t *testing.T) {
	audit := &memAudit{}
	feed := newStubFeed(map[string]float64{"BTCUSD": 100, "ETHUSD": 50})
	g := newTestGateway(testLimits(), feed, audit, 0)

	_, err := g.Submit(context.Background(), marketOrder("a1", "BTCUSD", models.SideBuy, 10))
	require.NoError(t, err)
	_, err = g.Submit(context.Background(), marketOrder("a1", "ETHUSD", models.SideBuy, 4))
	require.NoError(t, err)
	_, err = g.Submit(context.Background(), marketOrder("a1", "BTCUSD", models.SideSell, 3))
	require.NoError(t, err)

	// Sum of position deltas from the trade log reproduces live state.
	sums := map[string]float64{}
	for _, trade := range g.TradeHistory(0) {
		sums[models.PositionKey(trade.AgentID, trade.Instrument)] += trade.PositionDelta
	}

	positions := g.PositionsFor("a1")
	for instrument, p := range positions {
		assert.InDelta(t, sums[models.PositionKey("a1", instrument)], p.Quantity, 1e-9)
	}
	assert.InDelta(t, 7, positions["BTCUSD"].Quantity, 1e-9)
	assert.InDelta(t, 4, positions["ETHUSD"].Quantity, 1e-9)
}

func Test_RecoverReplaysAuditLog(t *testing.T) {
	audit := &memAudit{}
	feed := newStubFeed(map[string]float64{"BTCUSD": 100, "ETHUSD": 50})
	g := newTestGateway(testLimits(), feed, audit, 0)

	_, err := g.Submit(context.Background(), marketOrder("a1", "BTCUSD", models.SideBuy, 10))
	require.NoError(t, err)
	feed.setPrice("BTCUSD", 110)
	_, err = g.Submit(context.Background(), marketOrder("a1", "BTCUSD", models.SideSell, 4))
	require.NoError(t, err)
	_, err = g.Submit(context.Background(), marketOrder("a2", "ETHUSD", models.SideBuy, 2))
	require.NoError(t, err)

	// Fresh gateway, same log.
	recovered := newTestGateway(testLimits(), feed, audit, 0)
	require.NoError(t, recovered.Recover())

	for _, agentID := range []string{"a1", "a2"} {
		want := g.PositionsFor(agentID)
		got := recovered.PositionsFor(agentID)
		require.Len(t, got, len(want))

		for instrument, p := range want {
			assert.InDelta(t, p.Quantity, got[instrument].Quantity, 1e-9, instrument)
			assert.InDelta(t, p.AvgEntryPrice, got[instrument].AvgEntryPrice, 1e-9, instrument)
			assert.InDelta(t, p.RealizedPnL, got[instrument].RealizedPnL, 1e-9, instrument)
		}
	}

	assert.Equal(t, g.ExecutionStats().Filled, recovered.ExecutionStats().Filled)
	assert.Equal(t, g.ExecutionStats().Trades, recovered.ExecutionStats().Trades)
	assert.InDelta(t, g.ExecutionStats().RealizedPnL, recovered.ExecutionStats().RealizedPnL, 1e-9)

	// Replaying again from the same log is idempotent.
	require.NoError(t, recovered.Recover())
	assert.Equal(t, g.ExecutionStats().Trades, recovered.ExecutionStats().Trades)
}

func Test_PositionSnapshotIsACopy(t *testing.T) {
	audit := &memAudit{}
	feed := newStubFeed(map[string]float64{"BTCUSD": 100})
	g := newTestGateway(testLimits(), feed, audit, 0)

	_, err := g.Submit(context.Background(), marketOrder("a1", "BTCUSD", models.SideBuy, 10))
	require.NoError(t, err)

	snapshot := g.PositionsFor("a1")
	p := snapshot["BTCUSD"]
	p.Quantity = 9999
	snapshot["BTCUSD"] = p

	assert.InDelta(t, 10, g.PositionsFor("a1")["BTCUSD"].Quantity, 1e-9)
}
