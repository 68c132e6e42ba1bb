package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/napolitain/settlers-combat/internal/armyparse"
	"github.com/napolitain/settlers-combat/internal/loader"
	"github.com/napolitain/settlers-combat/internal/logging"
	"github.com/napolitain/settlers-combat/internal/models"
	"github.com/napolitain/settlers-combat/internal/store"
	"github.com/napolitain/settlers-combat/internal/units"
)

var (
	configFile string
	quiet      bool
)

// flagKeys maps command line flags onto config keys
var flagKeys = map[string]string{
	"simulations":  models.KeySimulations,
	"destructions": models.KeyDestructions,
	"workers":      models.KeyWorkers,
	"seed":         models.KeySeed,
	"weather":      models.KeyWeather,
	"units":        models.KeyUnitsDir,
	"database":     models.KeyDatabase,
	"postgres":     models.KeyPostgres,
	"log-level":    models.KeyLogLevel,
	"criterion":    models.KeyCriterion,
}

// app is the state shared by every subcommand once the config is loaded
type app struct {
	cfg    *models.Config
	logger *zap.Logger
	db     *units.Database
}

var state app

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.Red("Error: %v", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "settlers",
		Short: "Settlers Online Combat Simulator",
		Long: `Simulates battles between armies of The Settlers Online: loss bounds,
loss distributions over many randomized battles and camp destruction time.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if state.logger != nil {
				_ = state.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "Path to settlers.yaml (default ./settlers.yaml)")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Minimal output")
	flags.Int("workers", 0, "Parallel simulation workers (default: number of CPUs)")
	flags.Uint64("seed", 0, "Random seed, 0 picks one")
	flags.String("weather", "none", "Weather: none, hard frost, bright sunshine, heavy fog, hurricane")
	flags.String("units", "", "Folder of unit .json files (default: built-in catalog)")
	flags.String("database", "settlers.db", "SQLite file for the report history")
	flags.String("postgres", "", "Postgres URL for the report history, overrides --database")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newSimulateCmd(), newNarrateCmd(), newUnitsCmd(), newHistoryCmd())
	return rootCmd
}

func setup(cmd *cobra.Command, args []string) error {
	v, err := models.NewViper(configFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := models.LoadConfig(v)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		return err
	}
	db, err := loader.LoadDatabase(cfg.UnitsDir, logger)
	if err != nil {
		return err
	}

	state = app{cfg: cfg, logger: logger, db: db}
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}

func (a *app) parser() *armyparse.Parser {
	return armyparse.New(a.db, a.logger)
}

func (a *app) openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, a.cfg.Database, a.cfg.PostgresURL)
}

func printTitle(subtitle string) {
	if quiet {
		return
	}
	titleColor := color.New(color.FgCyan, color.Bold)
	titleColor.Println("\n╭───────────────────────────╮")
	titleColor.Println("│  Settlers Online          │")
	titleColor.Printf("│  %-24s │\n", subtitle)
	titleColor.Println("╰───────────────────────────╯")
	fmt.Println()
}
