package models

import "time"

type AuditEvent string

const (
	AuditSubmit AuditEvent = "SUBMIT"
	AuditFill   AuditEvent = "FILL"
	AuditReject AuditEvent = "REJECT"
	AuditCancel AuditEvent = "CANCEL"
)

// AuditRecord is one append-only row in the order lifecycle log. The
// log is written ahead of every in-memory mutation, so replaying it
// from empty state reproduces orders, trades and positions exactly.
type AuditRecord struct {
	ID         int64       `db:"id"`
	OrderID    string      `db:"order_id"`
	AgentID    string      `db:"agent_id"`
	Instrument string      `db:"instrument"`
	Event      AuditEvent  `db:"event"`
	Side       OrderSide   `db:"side"`
	OrderType  OrderType   `db:"order_type"`
	Quantity   float64     `db:"quantity"`
	LimitPrice float64     `db:"limit_price"`
	StopPrice  float64     `db:"stop_price"`
	Price      float64     `db:"price"`
	Commission float64     `db:"commission"`
	Status     OrderStatus `db:"status"`
	Reason     string      `db:"reason"`
	CreatedAt  time.Time   `db:"created_at"`
}
