package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/napolitain/settlers-combat/internal/armyparse"
	"github.com/napolitain/settlers-combat/internal/loader"
	"github.com/napolitain/settlers-combat/internal/logging"
	"github.com/napolitain/settlers-combat/internal/models"
	"github.com/napolitain/settlers-combat/internal/store"
)

var (
	configFile     = pflag.StringP("config", "c", "", "Path to settlers.yaml")
	maxSimulations = pflag.Int("max-simulations", 100000, "Largest simulation count accepted per request")
	noHistory      = pflag.Bool("no-history", false, "Do not store reports")
)

func main() {
	pflag.String("listen", ":8080", "Address to listen on")
	pflag.String("units", "", "Folder of unit .json files (default: built-in catalog)")
	pflag.String("database", "settlers.db", "SQLite file for the report history")
	pflag.String("postgres", "", "Postgres URL for the report history, overrides --database")
	pflag.String("log-level", "info", "Log level: debug, info, warn, error")
	pflag.StringSlice("allowed-origins", nil, "Extra origins allowed to open the narration socket")
	pflag.Parse()

	v, err := models.NewViper(*configFile)
	if err != nil {
		die("failed to load config", err)
	}
	for name, key := range map[string]string{
		"listen":          models.KeyListen,
		"units":           models.KeyUnitsDir,
		"database":        models.KeyDatabase,
		"postgres":        models.KeyPostgres,
		"log-level":       models.KeyLogLevel,
		"allowed-origins": models.KeyOrigins,
	} {
		_ = v.BindPFlag(key, pflag.Lookup(name))
	}
	cfg, err := models.LoadConfig(v)
	if err != nil {
		die("invalid config", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		die("failed to build logger", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := loader.LoadDatabase(cfg.UnitsDir, logger)
	if err != nil {
		logger.Fatal("failed to load units", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := &server{
		cfg:            cfg,
		db:             db,
		logger:         logger,
		parse:          armyparse.Options{CoerceFactions: true},
		maxSimulations: *maxSimulations,
	}
	if !*noHistory {
		reports, err := store.Open(ctx, cfg.Database, cfg.PostgresURL)
		if err != nil {
			logger.Fatal("failed to open report history", zap.Error(err))
		}
		defer reports.Close()
		srv.reports = reports
	}

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdown)
	}()

	logger.Info("server listening", zap.String("addr", cfg.Listen), zap.Int("units", db.Len()))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// die reports errors raised before the logger exists
func die(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
