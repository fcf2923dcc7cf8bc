package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"

	"tradegate/internal/agent"
	api "tradegate/internal/api/http"
	"tradegate/internal/controllers"
	"tradegate/internal/marketdata"
	"tradegate/internal/orchestrator"
	"tradegate/internal/orderbook"
	mongoRepo "tradegate/internal/repository/mongo"
	"tradegate/internal/repository/postgres"
	"tradegate/internal/risk"
	"tradegate/internal/venue"
)

const appName = "tradegate"

func main() {
	var app App
	var confFileName string

	flag.StringVar(&confFileName, "config", ".env", "")
	flag.Parse()

	app.Name = appName

	if err := app.loadConfig(confFileName); err != nil {
		panic(err)
	}

	app.initLogger()

	if err := app.initTgBot(); err != nil {
		panic(err)
	}

	if err := app.InitDB(); err != nil {
		panic(err)
	}

	if err := app.initMongo(); err != nil {
		panic(err)
	}

	if app.Config.LokiAddr != "" {
		if err := app.initPromTail(); err != nil {
			panic(err)
		}
	}

	app.InitMetrics()

	chatId, err := strconv.ParseInt(app.Config.TelegramChatID, 10, 64)
	if err != nil {
		panic(err)
	}

	auditRepo := postgres.NewAuditRepository(app.DB)
	quoteRepo := postgres.NewQuoteRepository(app.DB)

	limitsRepo := mongoRepo.NewLimitsRepository(app.Mongo)
	if err := limitsRepo.SetDefault(); err != nil {
		panic(err)
	}

	limits, err := limitsRepo.Load(app.Config.RiskProfile)
	if err != nil {
		panic(err)
	}

	tgmController := controllers.NewTgmController(app.TGM, chatId, false)

	seeds := make(map[string]float64, len(app.Config.Instruments))
	for _, instrument := range app.Config.Instruments {
		seeds[instrument] = 100
	}

	feed := marketdata.NewCachedFeed(
		marketdata.CachedFeedConfig{
			Instruments: app.Config.Instruments,
			MaxAge:      5 * time.Minute,
			HistorySize: 64,
		},
		marketdata.NewRandomWalkSource(seeds, 0.002, 0.0005, time.Now().UnixNano()),
		quoteRepo,
		app.Logger,
	)

	execVenue := venue.NewSimulatedVenue(venue.SimulatedConfig{
		SlippageFrac:   0.0005,
		CommissionRate: 0.001,
		Latency:        50 * time.Millisecond,
	}, app.Logger)

	gateway := orderbook.NewGateway(
		orderbook.Config{VenueTimeout: 5 * time.Second},
		risk.NewValidator(*limits),
		execVenue,
		feed,
		auditRepo,
		app.Metrics,
		app.Logger,
	)

	if err := gateway.Recover(); err != nil {
		panic(err)
	}

	agents := []orchestrator.TradingAgent{
		agent.New("momentum-fast", agent.MomentumModel{Gain: 80}, agent.Config{
			StrategyTag:          "momentum-fast",
			ConfidenceThreshold:  0.55,
			ATRPeriod:            10,
			ATRMultiplier:        2,
			RewardMultiple:       2,
			AccountBalance:       10000,
			MaxRiskPerTrade:      0.02,
			MaxPositionValueFrac: 0.25,
			MaxPositions:         3,
		}, app.Logger),
		agent.New("momentum-slow", agent.MomentumModel{Gain: 30}, agent.Config{
			StrategyTag:          "momentum-slow",
			ConfidenceThreshold:  0.6,
			ATRPeriod:            20,
			ATRMultiplier:        3,
			RewardMultiple:       2.5,
			AccountBalance:       10000,
			MaxRiskPerTrade:      0.01,
			MaxPositionValueFrac: 0.2,
			MaxPositions:         2,
		}, app.Logger),
	}

	orch := orchestrator.New(
		orchestrator.Config{
			Instruments:            app.Config.Instruments,
			MaxConcurrentPositions: 5,
			ConfidenceWeight:       0.6,
			RewardWeight:           0.4,
		},
		gateway,
		feed,
		agents,
		tgmController,
		app.Metrics,
		app.Logger,
	)

	c := cron.New()
	if _, err := c.AddFunc(app.Config.CronSpec, func() {
		if err := orch.RunCycle(context.Background()); err != nil {
			app.Logger.Error(err)
		}
	}); err != nil {
		panic(err)
	}
	c.Start()

	f := fiber.New()
	api.NewMiddleware(f, appName).UseMetrics()
	api.RegisterHTTPEndpoints(f, orch, gateway, auditRepo, quoteRepo, app.Logger)

	go func() {
		if err := f.Listen(app.Config.HTTPAddr); err != nil {
			app.Logger.Error(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	c.Stop()

	if err := f.Shutdown(); err != nil {
		app.Logger.Error(err)
	}
}
