package models

import "time"

type OrderSide string

const (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

// Invert returns the opposite side, used when closing a position.
func (s OrderSide) Invert() OrderSide {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

type OrderType string

const (
	TypeMarket     OrderType = "MARKET"
	TypeLimit      OrderType = "LIMIT"
	TypeStopLoss   OrderType = "STOP_LOSS"
	TypeTakeProfit OrderType = "TAKE_PROFIT"
)

type OrderStatus string

const (
	StatusNew             OrderStatus = "NEW"
	StatusSubmitted       OrderStatus = "SUBMITTED"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusRejected        OrderStatus = "REJECTED"
	StatusCanceled        OrderStatus = "CANCELED"
)

// Terminal reports whether no further transition is allowed from s.
func (s OrderStatus) Terminal() bool {
	switch s {
	case StatusFilled, StatusRejected, StatusCanceled:
		return true
	default:
		return false
	}
}

type Order struct {
	ID             string      `db:"id"`
	Instrument     string      `db:"instrument"`
	Side           OrderSide   `db:"side"`
	Quantity       float64     `db:"quantity"`
	Type           OrderType   `db:"type"`
	LimitPrice     float64     `db:"limit_price"`
	StopPrice      float64     `db:"stop_price"`
	AgentID        string      `db:"agent_id"`
	StrategyTag    string      `db:"strategy_tag"`
	Status         OrderStatus `db:"status"`
	FilledQuantity float64     `db:"filled_quantity"`
	AvgFillPrice   float64     `db:"avg_fill_price"`
	Commission     float64     `db:"commission"`
	CreatedAt      time.Time   `db:"created_at"`
}

// SignedQuantity is positive for buys and negative for sells.
func (o *Order) SignedQuantity() float64 {
	if o.Side == SideSell {
		return -o.Quantity
	}
	return o.Quantity
}
