package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"tradegate/models"
)

func (a *App) InitMetrics() {
	metrics := models.Metrics{}

	for _, key := range []models.MetricConst{
		models.MetricOrderFilled,
		models.MetricOrderRejected,
		models.MetricOrderCanceled,
		models.MetricCycleComplete,
		models.MetricCycleAborted,
		models.MetricSignalDiscarded,
	} {
		metrics[key] = promauto.NewCounter(prometheus.CounterOpts{
			Name: key.ToString(),
			Help: key.ToString(),
		})
	}

	a.Metrics = metrics
}
