package models

import "time"

// Position is the aggregate per (agent, instrument) pair. Quantity is
// signed: positive means long, negative means short. The order book is
// the only writer; everyone else gets copies.
type Position struct {
	AgentID       string    `db:"agent_id"`
	Instrument    string    `db:"instrument"`
	Quantity      float64   `db:"quantity"`
	AvgEntryPrice float64   `db:"avg_entry_price"`
	RealizedPnL   float64   `db:"realized_pnl"`
	UnrealizedPnL float64   `db:"unrealized_pnl"`
	OpenedAt      time.Time `db:"opened_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// PositionKey identifies the single-writer slot for a position.
func PositionKey(agentID, instrument string) string {
	return agentID + "|" + instrument
}
