package models

import "github.com/prometheus/client_golang/prometheus"

type MetricConst int

const (
	MetricOrderFilled MetricConst = iota
	MetricOrderRejected
	MetricOrderCanceled
	MetricCycleComplete
	MetricCycleAborted
	MetricSignalDiscarded
)

func (m MetricConst) ToString() string {
	switch m {
	case MetricOrderFilled:
		return "order_filled_total"
	case MetricOrderRejected:
		return "order_rejected_total"
	case MetricOrderCanceled:
		return "order_canceled_total"
	case MetricCycleComplete:
		return "cycle_complete_total"
	case MetricCycleAborted:
		return "cycle_aborted_total"
	case MetricSignalDiscarded:
		return "signal_discarded_total"
	default:
		return "unknown"
	}
}

type Metrics map[MetricConst]prometheus.Counter

// Inc is a no-op when metrics are not wired, e.g. in tests.
func (m Metrics) Inc(key MetricConst) {
	if c, ok := m[key]; ok {
		c.Inc()
	}
}
