package models

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/napolitain/settlers-combat/internal/combat"
)

// Config keys
const (
	KeySimulations  = "simulations"
	KeyDestructions = "destructions"
	KeyWorkers      = "workers"
	KeySeed         = "seed"
	KeyWeather      = "weather"
	KeyUnitsDir     = "units_dir"
	KeyDatabase     = "database"
	KeyPostgres     = "postgres_url"
	KeyLogLevel     = "log_level"
	KeyLogEncoding  = "log_encoding"
	KeyListen       = "listen"
	KeyCriterion    = "criterion"
	KeyOrigins      = "allowed_origins"
)

// Config holds the simulator settings
type Config struct {
	Simulations  int    // randomized battles per pairing
	Destructions int    // camp destruction samples per battle
	Workers      int    // parallel simulation workers
	Seed         uint64 // 0 draws a random seed
	Weather      combat.Weather
	UnitsDir     string // folder of unit .json files; empty uses the built-in catalog
	Database     string // sqlite file for report history
	PostgresURL  string // takes precedence over Database when set
	LogLevel     string
	LogEncoding  string
	Listen       string
	Criterion    string   // CEL expression evaluated against each battle summary
	Origins      []string // extra origins allowed on the narration socket
}

// SetDefaults registers the default settings on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySimulations, 10000)
	v.SetDefault(KeyDestructions, 50)
	v.SetDefault(KeyWorkers, runtime.NumCPU())
	v.SetDefault(KeySeed, 0)
	v.SetDefault(KeyWeather, "none")
	v.SetDefault(KeyUnitsDir, "")
	v.SetDefault(KeyDatabase, "settlers.db")
	v.SetDefault(KeyPostgres, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogEncoding, "console")
	v.SetDefault(KeyListen, ":8080")
	v.SetDefault(KeyCriterion, "")
	v.SetDefault(KeyOrigins, []string{})
}

// NewViper creates a viper instance reading settlers.yaml from the working
// directory (or path, when given) and SETTLERS_* environment variables.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("SETTLERS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("settlers")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

// LoadConfig decodes and validates the settings held by v
func LoadConfig(v *viper.Viper) (*Config, error) {
	weather, err := combat.ParseWeather(v.GetString(KeyWeather))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	c := &Config{
		Simulations:  v.GetInt(KeySimulations),
		Destructions: v.GetInt(KeyDestructions),
		Workers:      v.GetInt(KeyWorkers),
		Seed:         v.GetUint64(KeySeed),
		Weather:      weather,
		UnitsDir:     v.GetString(KeyUnitsDir),
		Database:     v.GetString(KeyDatabase),
		PostgresURL:  v.GetString(KeyPostgres),
		LogLevel:     v.GetString(KeyLogLevel),
		LogEncoding:  v.GetString(KeyLogEncoding),
		Listen:       v.GetString(KeyListen),
		Criterion:    v.GetString(KeyCriterion),
		Origins:      v.GetStringSlice(KeyOrigins),
	}
	return c, c.Validate()
}

// Validate checks the numeric settings
func (c *Config) Validate() error {
	if c.Simulations < 0 {
		return fmt.Errorf("simulations must not be negative: %d", c.Simulations)
	}
	if c.Destructions < 0 {
		return fmt.Errorf("destructions must not be negative: %d", c.Destructions)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive: %d", c.Workers)
	}
	return nil
}
