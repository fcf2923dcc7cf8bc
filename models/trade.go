package models

import "time"

// Trade is one immutable audit entry per fill. PositionDelta is the
// signed quantity the fill applied to the position.
type Trade struct {
	ID            string    `db:"id"`
	OrderID       string    `db:"order_id"`
	AgentID       string    `db:"agent_id"`
	Instrument    string    `db:"instrument"`
	Side          OrderSide `db:"side"`
	Quantity      float64   `db:"quantity"`
	Price         float64   `db:"price"`
	Commission    float64   `db:"commission"`
	PositionDelta float64   `db:"position_delta"`
	ExecutedAt    time.Time `db:"executed_at"`
}
