package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradegate/models"
)

func testLimits() models.RiskLimits {
	return models.RiskLimits{
		MaxNotionalPerOrder:          10000,
		MaxPositionSizePerInstrument: 100,
		MaxOrdersPerRollingMinute:    5,
		MinLotSize:                   0.01,
		DeniedInstruments:            []string{"DOGEUSD"},
	}
}

func testOrder(instrument string, side models.OrderSide, qty float64) *models.Order {
	return &models.Order{
		ID:         "o-1",
		Instrument: instrument,
		Side:       side,
		Quantity:   qty,
		Type:       models.TypeMarket,
		AgentID:    "agent-1",
	}
}

func Test_Validate(t *testing.T) {
	now := time.Now()

	t.Run("accepts a clean order", func(t *testing.T) {
		v := NewValidator(testLimits())

		verr := v.Validate(testOrder("BTCUSD", models.SideBuy, 10), nil, nil, 100, now)
		assert.Nil(t, verr)
	})

	t.Run("denied instrument", func(t *testing.T) {
		v := NewValidator(testLimits())

		verr := v.Validate(testOrder("DOGEUSD", models.SideBuy, 10), nil, nil, 100, now)
		require.NotNil(t, verr)
		assert.Equal(t, ReasonInstrumentDenied, verr.Reason)
	})

	t.Run("allow list excludes everything else", func(t *testing.T) {
		limits := testLimits()
		limits.AllowedInstruments = []string{"BTCUSD"}
		v := NewValidator(limits)

		assert.Nil(t, v.Validate(testOrder("BTCUSD", models.SideBuy, 10), nil, nil, 100, now))

		verr := v.Validate(testOrder("ETHUSD", models.SideBuy, 10), nil, nil, 100, now)
		require.NotNil(t, verr)
		assert.Equal(t, ReasonInstrumentDenied, verr.Reason)
	})

	t.Run("notional limit", func(t *testing.T) {
		v := NewValidator(testLimits())

		verr := v.Validate(testOrder("BTCUSD", models.SideBuy, 101), nil, nil, 100, now)
		require.NotNil(t, verr)
		assert.Equal(t, ReasonNotionalLimit, verr.Reason)
	})

	t.Run("position limit counts the resulting position", func(t *testing.T) {
		v := NewValidator(testLimits())

		positions := map[string]models.Position{
			"BTCUSD": {AgentID: "agent-1", Instrument: "BTCUSD", Quantity: 95},
		}

		verr := v.Validate(testOrder("BTCUSD", models.SideBuy, 10), positions, nil, 10, now)
		require.NotNil(t, verr)
		assert.Equal(t, ReasonPositionLimit, verr.Reason)

		// Selling reduces the long, so the same quantity passes.
		assert.Nil(t, v.Validate(testOrder("BTCUSD", models.SideSell, 10), positions, nil, 10, now))
	})

	t.Run("rolling minute window", func(t *testing.T) {
		v := NewValidator(testLimits())

		recent := []time.Time{
			now.Add(-50 * time.Second),
			now.Add(-40 * time.Second),
			now.Add(-30 * time.Second),
			now.Add(-20 * time.Second),
			now.Add(-10 * time.Second),
		}

		verr := v.Validate(testOrder("BTCUSD", models.SideBuy, 1), nil, recent, 100, now)
		require.NotNil(t, verr)
		assert.Equal(t, ReasonTooManyOrders, verr.Reason)

		// Timestamps older than the window do not count.
		aged := []time.Time{
			now.Add(-2 * time.Minute),
			now.Add(-90 * time.Second),
			now.Add(-30 * time.Second),
		}
		assert.Nil(t, v.Validate(testOrder("BTCUSD", models.SideBuy, 1), nil, aged, 100, now))
	})

	t.Run("minimum lot", func(t *testing.T) {
		v := NewValidator(testLimits())

		verr := v.Validate(testOrder("BTCUSD", models.SideBuy, 0.001), nil, nil, 100, now)
		require.NotNil(t, verr)
		assert.Equal(t, ReasonBelowMinimumLot, verr.Reason)
	})

	t.Run("deterministic", func(t *testing.T) {
		v := NewValidator(testLimits())
		order := testOrder("BTCUSD", models.SideBuy, 101)

		first := v.Validate(order, nil, nil, 100, now)
		second := v.Validate(order, nil, nil, 100, now)

		require.NotNil(t, first)
		require.NotNil(t, second)
		assert.Equal(t, first.Reason, second.Reason)
	})
}
