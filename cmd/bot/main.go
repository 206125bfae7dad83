// Package main contains the entrypoint for the FitBot Telegram application.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/fitbot/internal/bot"
	"github.com/edgard/fitbot/internal/bot/handlers"
	"github.com/edgard/fitbot/internal/bot/tasks"
	"github.com/edgard/fitbot/internal/config"
	"github.com/edgard/fitbot/internal/conversation"
	"github.com/edgard/fitbot/internal/database"
	"github.com/edgard/fitbot/internal/ledger"
	"github.com/edgard/fitbot/internal/logger"
	"github.com/edgard/fitbot/internal/lookup"
	"github.com/edgard/fitbot/internal/profile"
	"github.com/edgard/fitbot/internal/telegram"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger, db,
// lookup clients, dialog engine, bot, scheduler), handles graceful shutdown,
// and returns an exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	translator := lookup.NewTranslator(cfg.Lookup.NativeLanguage, cfg.Lookup.Timeout, log)
	nutrition := lookup.NewNutritionClient(translator, cfg.Lookup.Timeout, log)
	exercise := lookup.NewExerciseClient(cfg.Lookup.APINinjasKey, translator, cfg.Lookup.Timeout, log)
	weather := lookup.NewWeatherClient(cfg.Lookup.OpenWeatherAPIKey, cfg.Lookup.Timeout, log)

	profiles := profile.NewService(store, log)
	ledg := ledger.New(store, log)
	engine := conversation.NewEngine(profiles, ledg, nutrition, exercise, weather, log)

	hDeps := handlers.HandlerDeps{
		Logger:   log,
		Engine:   engine,
		Profiles: profiles,
		Ledger:   ledg,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewTextHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
		TgBot:  tg,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, cfg, db, store, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
