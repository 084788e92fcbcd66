package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"battlecode-client/internal/config"
	"battlecode-client/internal/database"
	"battlecode-client/internal/runner"
	"battlecode-client/internal/server"
	"battlecode-client/internal/version"
	"battlecode-client/pkg/logger"
	"battlecode-client/pkg/maps"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides PORT)")
	dbPath := flag.String("db", "", "SQLite database path (overrides DB_PATH)")
	scaffold := flag.String("scaffold", "", "Engine scaffold directory (overrides SCAFFOLD_PATH)")
	noRunner := flag.Bool("no-runner", false, "Disable the match runner")
	flag.Parse()

	logger.Init()
	log := logger.Component("main")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *scaffold != "" {
		cfg.ScaffoldPath = *scaffold
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	if err := maps.LoadAll(); err != nil {
		log.WithError(err).Fatal("failed to load built-in maps")
	}
	log.WithField("count", len(maps.List())).Info("loaded built-in maps")

	dsn := cfg.DBPath
	if cfg.DBDriver == "postgres" {
		dsn = cfg.DatabaseURL
	}
	db, err := database.Open(cfg.DBDriver, dsn)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}

	var matchRunner server.MatchRunner
	if !*noRunner && cfg.ScaffoldPath != "" {
		if _, err := os.Stat(cfg.ScaffoldPath); err == nil {
			matchRunner = runner.New(cfg.ScaffoldPath)
		} else {
			log.WithField("scaffold", cfg.ScaffoldPath).Warn("scaffold not found, match runner disabled")
		}
	}

	srv := server.New(cfg, db, matchRunner)

	// Handle shutdown gracefully
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			log.WithError(err).Error("server error")
			done <- syscall.SIGTERM
		}
	}()

	log.WithField("addr", cfg.Addr()).
		WithField("db", cfg.DBDriver).
		WithField("version", version.Version).
		Info("battlecode replay server running")

	<-done
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		log.WithError(err).Error("server shutdown error")
	}
	log.Info("server stopped")
}
