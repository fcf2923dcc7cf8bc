package orderbook

import (
	"fmt"
	"time"

	"tradegate/models"
)

// Recover rebuilds orders, trades and positions by replaying the audit
// log from empty state. Replay applies the same settle path as live
// fills, so the reconstructed state matches what the gateway held
// before a restart.
func (g *Gateway) Recover() error {
	records, err := g.audit.Load()
	if err != nil {
		return fmt.Errorf("load audit log: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.orders = make(map[string]*models.Order)
	g.positions = make(map[string]*models.Position)
	g.trades = nil
	g.recentOrders = make(map[string][]time.Time)
	g.submitted, g.filled, g.rejected, g.canceled = 0, 0, 0, 0
	g.commission, g.realized = 0, 0

	for i := range records {
		rec := records[i]

		switch rec.Event {
		case models.AuditSubmit:
			g.orders[rec.OrderID] = &models.Order{
				ID:         rec.OrderID,
				Instrument: rec.Instrument,
				Side:       rec.Side,
				Quantity:   rec.Quantity,
				Type:       rec.OrderType,
				LimitPrice: rec.LimitPrice,
				StopPrice:  rec.StopPrice,
				AgentID:    rec.AgentID,
				// A submit with no later record either passed the gate
				// or crashed mid-flight; either way it is in flight.
				Status:    models.StatusSubmitted,
				CreatedAt: rec.CreatedAt,
			}
			g.submitted++
			// Conservative: counts gate-rejected submits too, which only
			// tightens the rate window right after a restart.
			g.recordAcceptedLocked(rec.AgentID, rec.CreatedAt)

		case models.AuditFill:
			order, ok := g.orders[rec.OrderID]
			if !ok {
				return fmt.Errorf("audit record %d: fill for unknown order %s", rec.ID, rec.OrderID)
			}
			g.settleFillLocked(order, order.Quantity-order.FilledQuantity, rec.Price, rec.Commission, rec.CreatedAt)

		case models.AuditReject:
			order, ok := g.orders[rec.OrderID]
			if !ok {
				return fmt.Errorf("audit record %d: reject for unknown order %s", rec.ID, rec.OrderID)
			}
			order.Status = models.StatusRejected
			g.rejected++

		case models.AuditCancel:
			order, ok := g.orders[rec.OrderID]
			if !ok {
				return fmt.Errorf("audit record %d: cancel for unknown order %s", rec.ID, rec.OrderID)
			}
			order.Status = models.StatusCanceled
			g.canceled++

		default:
			g.logger.Errorf("audit record %d: unknown event %s", rec.ID, rec.Event)
		}
	}

	g.logger.Infof("recovered %d orders, %d trades, %d open positions from audit log",
		len(g.orders), len(g.trades), len(g.positions))

	return nil
}
