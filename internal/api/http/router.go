package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"tradegate/internal/orchestrator"
	"tradegate/internal/orderbook"
	"tradegate/internal/repository/postgres"
)

func RegisterHTTPEndpoints(
	f *fiber.App,
	orch *orchestrator.Orchestrator,
	gateway *orderbook.Gateway,
	audit postgres.AuditRepo,
	quotes postgres.QuoteRepo,
	l *logrus.Logger,
) {
	h := NewHandler(orch, gateway, audit, quotes, l)

	router := f.Group("api")
	router.Get("/healthcheck", h.HealthCheck)
	router.Post("/cycle", h.RunCycle)
	router.Delete("/orders/:id", h.CancelOrder)
	router.Get("/positions/:agent", h.Positions)
	router.Get("/stats", h.Stats)
	router.Get("/trades", h.Trades)
	router.Get("/audit/:agent", h.AuditTrail)
	router.Get("/quotes/:instrument", h.Quotes)
}
