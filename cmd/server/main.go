package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/vytor/workshop/internal/api"
	"github.com/vytor/workshop/internal/config"
	"github.com/vytor/workshop/internal/db"
	"github.com/vytor/workshop/internal/logger"
	"github.com/vytor/workshop/internal/play"
	"github.com/vytor/workshop/internal/puzzle"
	"github.com/vytor/workshop/internal/repository/sqlite"
	"github.com/vytor/workshop/internal/services"
	"github.com/vytor/workshop/internal/worker"
)

func main() {
	cmd := &cli.Command{
		Name:  "workshop",
		Usage: "Santa's Workshop sliding puzzle server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address (overrides ADDR)"},
			&cli.StringFlag{Name: "db", Usage: "SQLite database path (overrides DB_PATH)"},
			&cli.StringFlag{Name: "log-level", Usage: "DEBUG, INFO, WARN or ERROR (overrides LOG_LEVEL)"},
			&cli.StringFlag{Name: "env-file", Usage: "dotenv file to load", Value: ".env"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.Load(cmd.String("env-file"))
	if cmd.IsSet("addr") {
		cfg.Addr = cmd.String("addr")
	}
	if cmd.IsSet("db") {
		cfg.DBPath = cmd.String("db")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Santa's Workshop Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("outcome_worker_count=%d", cfg.OutcomeWorkerCount)
	log.Debug("outcome_queue_size=%d", cfg.OutcomeQueueSize)
	log.Debug("starting_dust=%d", cfg.StartingDust)
	log.Debug("history_limit=%d", cfg.HistoryLimit)
	log.Debug("shuffle_seed=%d", cfg.ShuffleSeed)

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	users := sqlite.NewUserRepository(database.DB)
	games := sqlite.NewGameSessionRepository(database.DB)
	prefs := sqlite.NewPreferenceRepository(database.DB)
	txr := sqlite.NewTransactor(database.DB)

	// Services
	achievementService := services.NewAchievementService(sqlite.NewAchievementRepository(database.DB))
	accountService := services.NewAccountService(users, games, prefs, txr, cfg.StartingDust)
	gameService := services.NewGameService(users, games, achievementService, txr, cfg.HistoryLimit)
	currencyService := services.NewCurrencyService(users)
	storyService := services.NewStoryService(sqlite.NewStoryRepository(database.DB))

	outcomePool := worker.NewPool(cfg.OutcomeWorkerCount, cfg.OutcomeQueueSize)
	hub := play.NewHub()

	backend := &services.Backend{Accounts: accountService, Games: gameService, Currency: currencyService}
	manager := play.NewManager(backend, outcomePool, storyService, hub,
		play.WithShuffler(puzzle.NewRandomShuffler(cfg.ShuffleSeed)),
	)

	srv := &api.Server{
		DB:           database,
		Accounts:     accountService,
		Games:        gameService,
		Achievements: achievementService,
		Currency:     currencyService,
		Story:        storyService,
		Social:       services.NewSocialService(users, sqlite.NewFriendRepository(database.DB)),
		Preferences:  services.NewPreferenceService(prefs),
		Play:         manager,
		Hub:          hub,
		HistoryLimit: cfg.HistoryLimit,
	}

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	outcomePool.Start(workerCtx)
	go hub.Run(workerCtx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	var runErr error
	select {
	case sig := <-stop:
		log.Info("received signal %v, initiating graceful shutdown", sig)
	case runErr = <-serverErr:
		log.Error("HTTP server error: %v", runErr)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Abandoned attempts queue their outcomes, so sessions close before the
	// pool drains.
	log.Debug("closing live sessions")
	manager.Shutdown()
	log.Debug("stopping outcome pool")
	outcomePool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("Santa's Workshop Server Stopped")
	log.Info("===========================================")
	return runErr
}
