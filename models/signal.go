package models

// Signal is a candidate trade produced by an agent for one cycle. It is
// consumed immediately or discarded, never stored.
type Signal struct {
	AgentID        string
	StrategyTag    string
	Instrument     string
	Side           OrderSide
	Confidence     float64
	EntryPrice     float64
	StopLoss       float64
	TakeProfit     float64
	PositionSize   float64
	RiskAmount     float64
	ExpectedReward float64

	// Exit marks a full-close signal for an open position. Exit signals
	// bypass capacity allocation and are always processed first.
	Exit       bool
	ExitReason string
}

// RiskRewardRatio is ExpectedReward/RiskAmount, 0 when risk is unknown.
func (s Signal) RiskRewardRatio() float64 {
	if s.RiskAmount <= 0 {
		return 0
	}
	return s.ExpectedReward / s.RiskAmount
}
