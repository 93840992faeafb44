package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"telegram-order-notifier/internal/application"
	"telegram-order-notifier/internal/config"
	"telegram-order-notifier/internal/domain/model"
	"telegram-order-notifier/internal/domain/ports/adapter"
	aiAdapters "telegram-order-notifier/internal/infra/adapters/ai"
	tele "telegram-order-notifier/internal/infra/adapters/telegram"
	pg "telegram-order-notifier/internal/infra/db/postgres"
	"telegram-order-notifier/internal/infra/i18n"
	"telegram-order-notifier/internal/infra/logging"
	"telegram-order-notifier/internal/infra/metrics"
	red "telegram-order-notifier/internal/infra/redis"
	"telegram-order-notifier/internal/infra/sched"
	"telegram-order-notifier/internal/infra/web"
	"telegram-order-notifier/internal/infra/worker"
	"telegram-order-notifier/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted phones)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema migration failed")
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	chatState := red.NewChatStateRepo(redisClient, cfg.Redis.StateTTL)

	// ---- Repositories ----
	subRepo := pg.NewSubscriberRepo(pool)
	feedbackRepo := pg.NewFeedbackTaskRepo(pool)

	// ---- Locale / menus ----
	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Locale)
	if err != nil {
		logger.Fatal().Err(err).Str("locale", cfg.Locale).Msg("locale load failed")
	}
	menus := usecase.NewMenus(tr)
	admins := model.NewAdminSet(cfg.Bot.AdminIDs)
	locInfo := model.LocationInfo{
		Latitude:     cfg.Location.Latitude,
		Longitude:    cfg.Location.Longitude,
		VideoURL:     cfg.Location.VideoURL,
		ScheduleText: cfg.Location.ScheduleText,
		ContactPhone: cfg.Location.ContactPhone,
		MapsURL:      cfg.Location.MapsURL,
	}

	// ---- Telegram transport ----
	updatePool := worker.NewPool(cfg.Bot.Workers)
	updatePool.Start(ctx)
	defer updatePool.Stop()

	classifier := tele.NewClassifier(tr)
	bot, err := tele.NewRealBotAdapter(cfg.Bot.Token, classifier, updatePool, rateLimiter, cfg.RateLimit.PerChatPerMinute, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram adapter init failed")
	}

	// ---- AI adapter ----
	var estimator adapter.EstimateAdapter
	if cfg.AI.OpenAIKey != "" {
		estimator, err = aiAdapters.NewOpenAIEstimator(cfg.AI.OpenAIKey, cfg.AI.Model)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai estimator init failed")
		}
		logger.Info().Str("model", cfg.AI.Model).Msg("AI estimator: OpenAI")
	} else {
		estimator = aiAdapters.NewNoopEstimator()
		logger.Warn().Msg("ai.openai_key not set; using fixed-estimate fallback")
	}

	// ---- Use cases ----
	if cfg.Contact.InstagramURL == "" {
		cfg.Contact.InstagramURL = "https://www.instagram.com"
		logger.Warn().Msg("contact.instagram_url not set; portfolio button falls back to instagram.com")
	}
	onboardingUC := usecase.NewOnboardingUseCase(subRepo, bot, menus, tr, admins, cfg.Contact.InstagramURL, logger)
	locationUC := usecase.NewLocationUseCase(bot, tr, locInfo, logger)
	feedbackUC := usecase.NewFeedbackUseCase(feedbackRepo, bot, menus, tr, admins, cfg.Location.MapsURL, usecase.FeedbackSettings{
		InitialDelay:      cfg.Feedback.InitialDelay,
		RetryDelay:        cfg.Feedback.RetryDelay,
		MaxPickupAttempts: cfg.Feedback.MaxPickupAttempts,
	}, logger)
	notificationUC := usecase.NewNotificationUseCase(subRepo, bot, tr, locInfo, feedbackUC, logger, cfg.Runtime.Dev)
	broadcastUC := usecase.NewBroadcastUseCase(subRepo, bot, logger)
	statsUC := usecase.NewStatsUseCase(subRepo, logger)
	estimateUC := usecase.NewEstimateUseCase(chatState, subRepo, estimator, cfg.Pricing, bot, menus, tr, admins, logger)

	// ---- Facade ----
	facade := application.NewBotFacade(application.FacadeDeps{
		Onboarding:      onboardingUC,
		Location:        locationUC,
		Estimate:        estimateUC,
		Feedback:        feedbackUC,
		Broadcast:       broadcastUC,
		Stats:           statsUC,
		Bot:             bot,
		Menus:           menus,
		Tr:              tr,
		Admins:          admins,
		SupportUsername: cfg.Contact.SupportUsername,
		InstagramURL:    cfg.Contact.InstagramURL,
		ContactPhone:    cfg.Location.ContactPhone,
		ScheduleText:    cfg.Location.ScheduleText,
		Log:             logger,
	})
	bot.SetHandler(facade)

	// ---- Update intake ----
	polling := strings.EqualFold(cfg.Bot.Mode, "polling")
	if polling {
		go func() {
			if err := bot.StartPolling(ctx); err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Msg("telegram polling stopped")
			}
		}()
	}

	// ---- HTTP server ----
	deps := web.ServerDeps{
		Port:     strconv.Itoa(cfg.Server.Port),
		APIKey:   cfg.Trigger.InternalAPIKey,
		Notifier: notificationUC,
		Log:      logger,
	}
	if !polling {
		deps.WebhookPath = cfg.Bot.WebhookPath
		deps.Webhook = bot.WebhookHandler()
	}
	srv := web.NewServer(deps)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// ---- Feedback sweep ----
	fbWorker := sched.NewFeedbackWorker(cfg.Feedback.SweepInterval, feedbackUC, logger)
	go func() { _ = fbWorker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	if polling {
		bot.StopPolling()
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}
	cancel()
}
