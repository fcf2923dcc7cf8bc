package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// RiskLimits is the admission-control configuration. It is loaded once
// at startup and read-only for the lifetime of the orchestrator.
type RiskLimits struct {
	ID                           primitive.ObjectID `bson:"_id,omitempty"`
	Name                         string             `bson:"name"`
	MaxNotionalPerOrder          float64            `bson:"max_notional_per_order"`
	MaxPositionSizePerInstrument float64            `bson:"max_position_size_per_instrument"`
	MaxTotalRiskFraction         float64            `bson:"max_total_risk_fraction"`
	MaxOrdersPerRollingMinute    int                `bson:"max_orders_per_rolling_minute"`
	MinLotSize                   float64            `bson:"min_lot_size"`
	AllowedInstruments           []string           `bson:"allowed_instruments"`
	DeniedInstruments            []string           `bson:"denied_instruments"`
}

// InstrumentAllowed applies the deny list first, then the allow list if
// one is configured.
func (l RiskLimits) InstrumentAllowed(instrument string) bool {
	for _, d := range l.DeniedInstruments {
		if d == instrument {
			return false
		}
	}

	if len(l.AllowedInstruments) == 0 {
		return true
	}

	for _, a := range l.AllowedInstruments {
		if a == instrument {
			return true
		}
	}

	return false
}
