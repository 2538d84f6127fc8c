package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"skycast/cache"
	"skycast/config"
	"skycast/datasource"
)

// app carries what every command needs once flags are parsed
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

var (
	current = &app{}

	configFile string
	envFile    string
	logLevel   string
	localeFlag string
	iconsFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "skycast",
	Short: "SkyCast - current weather and a short forecast for any city",
	Long: `SkyCast looks places up with the Open-Meteo geocoding API and turns
their forecast into display-ready current conditions and daily entries.
It runs as an HTTP service for the web front end or answers one-off
lookups in the terminal.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if current.logger != nil {
			current.logger.Sync()
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "config.json", "Path to configuration file")
	flags.StringVar(&envFile, "env-file", ".env", "Environment file loaded before SKYCAST_* overrides")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&localeFlag, "locale", "", "Display locale, e.g. en-US or de")
	flags.StringVar(&iconsFlag, "icons", "", "Icon set (fontawesome, emoji)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration with precedence file < environment < flags and
// builds the logger
func setup(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg, err := config.LoadConfig(configFile)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
		cfg = config.DefaultConfig()
	case err != nil:
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if localeFlag != "" {
		cfg.Display.Locale = localeFlag
	}
	if iconsFlag != "" {
		cfg.Display.IconSet = iconsFlag
	}
	if err := applyCommandFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	current.cfg = cfg
	current.logger = logger
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	zcfg.Encoding = "console"
	zcfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	return zcfg.Build()
}

// sources builds the Open-Meteo collaborators wrapped in the configured
// rate limiting and caching decorators
func sources(cfg *config.Config, logger *zap.Logger, rateLimit bool) (datasource.Geocoder, datasource.ForecastSource) {
	provider := datasource.NewOpenMeteoProvider(cfg.OpenMeteoConfig(), logger.Named("openmeteo"))

	var geocoder datasource.Geocoder = provider
	var forecasts datasource.ForecastSource = provider

	if rateLimit && cfg.OpenMeteo.RequestsPerSecond > 0 {
		burst := max(cfg.OpenMeteo.Burst, 1)
		geocoder = datasource.NewRateLimitedGeocoder(geocoder, cfg.OpenMeteo.RequestsPerSecond, burst)
		forecasts = datasource.NewRateLimitedForecastSource(forecasts, cfg.OpenMeteo.RequestsPerSecond, burst)
		logger.Debug("applied rate limiting",
			zap.Float64("rps", cfg.OpenMeteo.RequestsPerSecond), zap.Int("burst", burst))
	}

	if ttl := cfg.Cache.GeocodingTTL.Std(); ttl > 0 {
		geocoder = cache.NewCachedGeocoder(geocoder, ttl, logger.Named("cache"))
	}
	if ttl := cfg.Cache.ForecastTTL.Std(); ttl > 0 {
		forecasts = cache.NewCachedForecastSource(forecasts, ttl, logger.Named("cache"))
	}

	return geocoder, forecasts
}
