package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/RMahshie/wifiscope/pkg/models"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Scanner ScannerConfig
	Cycle   CycleConfig
	Plot    PlotConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
	LogLevel       string
}

// ScannerConfig selects the wireless backend
type ScannerConfig struct {
	Backend    string
	Interface  string
	ReplayFile string
}

// CycleConfig tunes the scan-and-render cycle
type CycleConfig struct {
	DefaultBand   models.Band
	PostScanDelay time.Duration
	Pacing        time.Duration
	MaxBackoff    time.Duration
	AutoOnStart   bool
	LogCapacity   int
}

// PlotConfig holds rendering defaults
type PlotConfig struct {
	AxisSamples int
	Width       int
	Height      int
}

var keys = []string{
	"PORT",
	"ENVIRONMENT",
	"ALLOWED_ORIGINS",
	"LOG_LEVEL",
	"SCANNER_BACKEND",
	"SCANNER_INTERFACE",
	"REPLAY_FILE",
	"DEFAULT_BAND",
	"POST_SCAN_DELAY",
	"AUTO_SCAN_PACING",
	"AUTO_SCAN_MAX_BACKOFF",
	"AUTO_SCAN_ON_START",
	"LOG_CAPACITY",
	"AXIS_SAMPLES",
	"PLOT_WIDTH",
	"PLOT_HEIGHT",
}

// Load loads configuration from environment variables and .env files
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "dev")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SCANNER_BACKEND", "auto")
	v.SetDefault("SCANNER_INTERFACE", "")
	v.SetDefault("REPLAY_FILE", "")
	v.SetDefault("DEFAULT_BAND", string(models.Band24))
	v.SetDefault("POST_SCAN_DELAY", "1s")
	v.SetDefault("AUTO_SCAN_PACING", "100ms")
	v.SetDefault("AUTO_SCAN_MAX_BACKOFF", "30s")
	v.SetDefault("AUTO_SCAN_ON_START", false)
	v.SetDefault("LOG_CAPACITY", 500)
	v.SetDefault("AXIS_SAMPLES", 401)
	v.SetDefault("PLOT_WIDTH", 1100)
	v.SetDefault("PLOT_HEIGHT", 560)

	// Environment variables override .env file values
	v.AutomaticEnv()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// Read from .env files based on environment
	env := v.GetString("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}
	v.SetConfigName(".env." + env)
	v.SetConfigType("env")
	v.AddConfigPath(".")

	// Read .env file (ignore error if file doesn't exist)
	_ = v.ReadInConfig()

	band, err := models.ParseBand(v.GetString("DEFAULT_BAND"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_BAND: %w", err)
	}

	var config Config
	config.Server.Port = v.GetString("PORT")
	config.Server.Env = env
	config.Server.AllowedOrigins = splitList(v.GetString("ALLOWED_ORIGINS"))
	config.Server.LogLevel = v.GetString("LOG_LEVEL")
	config.Scanner.Backend = v.GetString("SCANNER_BACKEND")
	config.Scanner.Interface = v.GetString("SCANNER_INTERFACE")
	config.Scanner.ReplayFile = v.GetString("REPLAY_FILE")
	config.Cycle.DefaultBand = band
	config.Cycle.PostScanDelay = v.GetDuration("POST_SCAN_DELAY")
	config.Cycle.Pacing = v.GetDuration("AUTO_SCAN_PACING")
	config.Cycle.MaxBackoff = v.GetDuration("AUTO_SCAN_MAX_BACKOFF")
	config.Cycle.AutoOnStart = v.GetBool("AUTO_SCAN_ON_START")
	config.Cycle.LogCapacity = v.GetInt("LOG_CAPACITY")
	config.Plot.AxisSamples = v.GetInt("AXIS_SAMPLES")
	config.Plot.Width = v.GetInt("PLOT_WIDTH")
	config.Plot.Height = v.GetInt("PLOT_HEIGHT")

	if config.Plot.AxisSamples < 2 {
		return nil, fmt.Errorf("AXIS_SAMPLES must be at least 2, got %d", config.Plot.AxisSamples)
	}

	log.Debug().
		Str("backend", config.Scanner.Backend).
		Str("band", string(config.Cycle.DefaultBand)).
		Strs("allowed_origins", config.Server.AllowedOrigins).
		Msg("Configuration loaded")

	return &config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
