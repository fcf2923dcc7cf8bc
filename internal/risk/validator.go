package risk

import (
	"math"
	"time"

	"tradegate/models"
)

const (
	ReasonInstrumentDenied = "instrument denied"
	ReasonNotionalLimit    = "notional limit exceeded"
	ReasonPositionLimit    = "position limit exceeded"
	ReasonTooManyOrders    = "too many orders"
	ReasonBelowMinimumLot  = "below minimum lot"
)

// RollingWindow is the admission-control rate window.
const RollingWindow = time.Minute

// Validator is the admission gate. It only reads its inputs; recording
// the timestamp of an accepted order is the caller's job. Given
// identical inputs the verdict is always identical.
type Validator struct {
	limits models.RiskLimits
}

func NewValidator(limits models.RiskLimits) *Validator {
	return &Validator{limits: limits}
}

func (v *Validator) Limits() models.RiskLimits {
	return v.limits
}

// Validate runs the checks in a fixed order and stops at the first
// failure. positions is the agent's current positions keyed by
// instrument, recent the agent's accepted-order timestamps, refPrice
// the current reference price for the instrument.
func (v *Validator) Validate(order *models.Order, positions map[string]models.Position, recent []time.Time, refPrice float64, now time.Time) *models.ValidationError {
	if !v.limits.InstrumentAllowed(order.Instrument) {
		return v.reject(order, ReasonInstrumentDenied)
	}

	if order.Quantity*refPrice > v.limits.MaxNotionalPerOrder {
		return v.reject(order, ReasonNotionalLimit)
	}

	resulting := order.SignedQuantity()
	if p, ok := positions[order.Instrument]; ok {
		resulting += p.Quantity
	}
	if math.Abs(resulting) > v.limits.MaxPositionSizePerInstrument {
		return v.reject(order, ReasonPositionLimit)
	}

	cutoff := now.Add(-RollingWindow)
	count := 0
	for _, ts := range recent {
		if ts.After(cutoff) {
			count++
		}
	}
	if count >= v.limits.MaxOrdersPerRollingMinute {
		return v.reject(order, ReasonTooManyOrders)
	}

	if order.Quantity < v.limits.MinLotSize {
		return v.reject(order, ReasonBelowMinimumLot)
	}

	return nil
}

func (v *Validator) reject(order *models.Order, reason string) *models.ValidationError {
	return &models.ValidationError{
		OrderID: order.ID,
		Reason:  reason,
	}
}
