package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"tradegate/internal/orchestrator"
	"tradegate/internal/orderbook"
	"tradegate/internal/repository/postgres"
	"tradegate/models"
)

type Handler struct {
	orch    *orchestrator.Orchestrator
	gateway *orderbook.Gateway
	audit   postgres.AuditRepo
	quotes  postgres.QuoteRepo
	logger  *logrus.Logger
}

func NewHandler(
	orch *orchestrator.Orchestrator,
	gateway *orderbook.Gateway,
	audit postgres.AuditRepo,
	quotes postgres.QuoteRepo,
	l *logrus.Logger,
) *Handler {
	return &Handler{
		orch:    orch,
		gateway: gateway,
		audit:   audit,
		quotes:  quotes,
		logger:  l,
	}
}

func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	body := struct {
		Status bool `json:"status"`
	}{
		Status: true,
	}

	return c.JSON(body)
}

func (h *Handler) RunCycle(c *fiber.Ctx) error {
	if err := h.orch.RunCycle(c.Context()); err != nil {
		h.logger.Errorf("run cycle: %s", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(h.gateway.ExecutionStats())
}

func (h *Handler) CancelOrder(c *fiber.Ctx) error {
	order, err := h.gateway.Cancel(c.Params("id"))
	if err != nil {
		var stateErr *models.StateError
		status := fiber.StatusInternalServerError
		if errors.As(err, &stateErr) {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(order)
}

func (h *Handler) Positions(c *fiber.Ctx) error {
	return c.JSON(h.gateway.PositionsFor(c.Params("agent")))
}

func (h *Handler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.gateway.ExecutionStats())
}

func (h *Handler) Trades(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "100"))
	if err != nil || limit < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad limit"})
	}

	return c.JSON(h.gateway.TradeHistory(limit))
}

func (h *Handler) AuditTrail(c *fiber.Ctx) error {
	records, err := h.audit.LoadByAgent(c.Params("agent"))
	if err != nil {
		h.logger.Errorf("load audit trail: %s", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(records)
}

func (h *Handler) Quotes(c *fiber.Ctx) error {
	instrument := c.Params("instrument")

	from := c.Query("from")
	if from == "" {
		quote, err := h.quotes.GetLast(instrument)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(quote)
	}

	sTime, err := time.Parse(time.RFC3339, from)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad from"})
	}

	eTime := time.Now()
	if to := c.Query("to"); to != "" {
		if eTime, err = time.Parse(time.RFC3339, to); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad to"})
		}
	}

	quotes, err := h.quotes.GetByInterval(instrument, sTime, eTime)
	if err != nil {
		h.logger.Errorf("load quotes: %s", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(quotes)
}
