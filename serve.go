package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/maoshanman/durian-order-bot/internal/config"
	"github.com/maoshanman/durian-order-bot/internal/handlers"
	"github.com/maoshanman/durian-order-bot/internal/jobs"
	"github.com/maoshanman/durian-order-bot/internal/routes"
	"github.com/maoshanman/durian-order-bot/internal/services"
	"github.com/maoshanman/durian-order-bot/internal/storage"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot and its HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("❌ Invalid configuration")
	}

	location, err := time.LoadLocation(cfg.OrderTimezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.OrderTimezone).Msg("❌ Unknown ORDER_TIMEZONE")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("storage", storage.Describe(cfg)).Msg("❌ Failed to open order store")
	}
	log.Info().Str("storage", storage.Describe(cfg)).Msg("📦 Order store ready")

	sessions := services.NewSessionStore()
	sink := services.NewStoreSink(store, location, cfg.SinkTimeout)
	engine := services.NewConversationEngine(sessions, services.NewFieldValidator(), sink)
	query := services.NewOrderQuery(store)
	bot := services.NewBotService(engine, query, cfg.IsAdmin)
	dispatcher := services.NewDispatcher(cfg.MaxInFlight)

	h := routes.Handlers{
		Admin: handlers.NewAdminHandler(query),
	}
	var pinger handlers.Pinger
	if p, ok := store.(handlers.Pinger); ok {
		pinger = p
	}
	h.Health = handlers.NewHealthHandler(version, cfg.Transport, storage.Describe(cfg), sessions, pinger)

	var telegram *services.TelegramService
	switch cfg.Transport {
	case config.TransportWhatsApp:
		twilioService, err := services.NewTwilioService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to initialize Twilio service")
		}
		h.WhatsApp = handlers.NewWhatsAppHandler(bot, dispatcher, twilioService)
		log.Info().Msg("✅ Twilio service initialized")
	case config.TransportTelegram:
		telegram, err = services.NewTelegramService(cfg.BotToken, bot, dispatcher)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to initialize Telegram bot")
		}
	}

	app := newApp()
	routes.SetupRoutes(app, cfg, h)

	reportJob := jobs.NewSessionReportJob(sessions, cfg.SessionReportInterval, cfg.SessionIdleAfter)
	reportJob.Start(ctx)

	log.Info().
		Str("port", cfg.Port).
		Str("transport", cfg.Transport).
		Str("storage", storage.Describe(cfg)).
		Str("timezone", location.String()).
		Str("environment", cfg.Environment).
		Msg("🚀 Durian order bot starting")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return errors.Wrap(app.Listen(":"+cfg.Port), "http server")
	})
	if telegram != nil {
		g.Go(func() error {
			return telegram.Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("🛑 Gracefully shutting down...")
		reportJob.Stop()
		err := app.ShutdownWithTimeout(shutdownTimeout)
		dispatcher.Wait()
		log.Info().Msg("👋 Shutdown complete")
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Durian Order Bot v" + version,
		Immutable:             true,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	return app
}
