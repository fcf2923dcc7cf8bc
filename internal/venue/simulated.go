package venue

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"tradegate/models"
)

const (
	ReasonNoMarketData    = "no market data"
	ReasonLimitNotReached = "limit not reached"
	ReasonStopNotReached  = "stop not reached"
)

type SimulatedConfig struct {
	SlippageFrac   float64
	CommissionRate float64
	Latency        time.Duration
}

// SimulatedVenue fills market orders immediately at the slippage-
// adjusted quote and limit orders only when the adjusted quote has
// reached the limit price.
type SimulatedVenue struct {
	cfg    SimulatedConfig
	logger *logrus.Logger
}

func NewSimulatedVenue(cfg SimulatedConfig, logger *logrus.Logger) *SimulatedVenue {
	return &SimulatedVenue{
		cfg:    cfg,
		logger: logger,
	}
}

func (v *SimulatedVenue) Execute(ctx context.Context, order *models.Order, quote models.Quote) (Result, error) {
	if quote.Last <= 0 {
		return Result{State: StateRejected, Reason: ReasonNoMarketData}, nil
	}

	if v.cfg.Latency > 0 {
		timer := time.NewTimer(v.cfg.Latency)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}

	ask := quote.Last * (1 + v.cfg.SlippageFrac)
	bid := quote.Last * (1 - v.cfg.SlippageFrac)

	var price float64
	switch order.Type {
	case models.TypeMarket:
		price = v.touchPrice(order.Side, bid, ask)

	case models.TypeLimit, models.TypeTakeProfit:
		touch := v.touchPrice(order.Side, bid, ask)
		if order.Side == models.SideBuy && touch > order.LimitPrice {
			return Result{State: StatePending, Reason: ReasonLimitNotReached}, nil
		}
		if order.Side == models.SideSell && touch < order.LimitPrice {
			return Result{State: StatePending, Reason: ReasonLimitNotReached}, nil
		}
		price = touch

	case models.TypeStopLoss:
		touch := v.touchPrice(order.Side, bid, ask)
		if order.Side == models.SideBuy && touch < order.StopPrice {
			return Result{State: StatePending, Reason: ReasonStopNotReached}, nil
		}
		if order.Side == models.SideSell && touch > order.StopPrice {
			return Result{State: StatePending, Reason: ReasonStopNotReached}, nil
		}
		price = touch

	default:
		price = v.touchPrice(order.Side, bid, ask)
	}

	commission := math.Abs(order.Quantity*price) * v.cfg.CommissionRate

	v.logger.Debugf("venue fill order %s %s %s qty %f @ %f commission %f",
		order.ID, order.Side, order.Instrument, order.Quantity, price, commission)

	return Result{
		State:      StateFilled,
		Price:      price,
		Commission: commission,
	}, nil
}

func (v *SimulatedVenue) touchPrice(side models.OrderSide, bid, ask float64) float64 {
	if side == models.SideBuy {
		return ask
	}
	return bid
}
