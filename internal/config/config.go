package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"robotadvisor/internal/catalog"
	"robotadvisor/internal/gemini"
)

const (
	ModeHTTP = "http"
	ModeMCP  = "mcp"
	ModeBoth = "both"
)

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Addr        string
	AuthToken   string
	CORSOrigins []string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// CatalogConfig locates robot definitions and controls reloading.
type CatalogConfig struct {
	AssetsDir string
	// Refresh is a cron expression; empty disables scheduled reloads.
	Refresh string
}

// NotificationConfig holds completion notification settings.
type NotificationConfig struct {
	// BarkURL is a Bark device URL; empty disables notifications.
	BarkURL string
}

// Config holds all runtime configuration options for the daemon.
type Config struct {
	Mode    string
	Server  ServerConfig
	Log     LogConfig
	Catalog CatalogConfig
	GenAI   gemini.Config
	Notify  NotificationConfig

	ShutdownGrace time.Duration
}

const (
	defaultAddr          = "127.0.0.1:5000"
	defaultMode          = ModeHTTP
	defaultLogLevel      = "info"
	defaultLogFormat     = "text"
	defaultCORSOrigins   = "http://localhost:3000"
	defaultAssetsDir     = "./assets"
	defaultBackend       = gemini.BackendVertex
	defaultLocation      = "us-central1"
	defaultVideoModel    = "gemini-2.0-flash-001"
	defaultTextModel     = "gemini-2.5-pro"
	defaultShutdownGrace = 5 * time.Second
)

// getEnvString returns the environment variable value or default; empty counts as unset
func getEnvString(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// getEnvList splits a comma separated environment variable
func getEnvList(key, defaultVal string) []string {
	var out []string
	for _, item := range strings.Split(getEnvString(key, defaultVal), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvDuration returns the environment variable as duration or default
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// Parse loads .env files and parses the process arguments into Config.
// Priority: CLI flags > Environment variables > .env file > defaults
func Parse() (*Config, error) {
	// Check multiple locations: current directory, then config directory
	envFiles := []string{".env"}
	if configDir, err := os.UserConfigDir(); err == nil {
		envFiles = append(envFiles, filepath.Join(configDir, "robotadvisor", ".env"))
	}
	for _, f := range envFiles {
		// godotenv never overrides variables already set, so earlier files win.
		_ = godotenv.Load(f)
	}
	return Load(os.Args[1:])
}

// Load builds Config from the environment and the given arguments.
func Load(args []string) (*Config, error) {
	addr := defaultAddr
	if port := getEnvString("PORT", ""); port != "" {
		addr = ":" + port
	}

	cfg := &Config{
		Mode: getEnvString("ADVISOR_MODE", defaultMode),
		Server: ServerConfig{
			Addr:        getEnvString("ADVISOR_ADDR", addr),
			AuthToken:   getEnvString("ADVISOR_AUTH_TOKEN", ""),
			CORSOrigins: getEnvList("ADVISOR_CORS_ORIGINS", defaultCORSOrigins),
		},
		Log: LogConfig{
			Level:  getEnvString("ADVISOR_LOG_LEVEL", defaultLogLevel),
			Format: getEnvString("ADVISOR_LOG_FORMAT", defaultLogFormat),
		},
		Catalog: CatalogConfig{
			AssetsDir: getEnvString("ADVISOR_ASSETS_DIR", defaultAssetsDir),
			Refresh:   getEnvString("ADVISOR_CATALOG_REFRESH", ""),
		},
		GenAI: gemini.Config{
			Backend:    getEnvString("ADVISOR_GENAI_BACKEND", defaultBackend),
			Project:    getEnvString("GOOGLE_CLOUD_PROJECT", ""),
			Location:   getEnvString("ADVISOR_GENAI_LOCATION", defaultLocation),
			APIKey:     getEnvString("GEMINI_API_KEY", ""),
			VideoModel: getEnvString("ADVISOR_VIDEO_MODEL", defaultVideoModel),
			TextModel:  getEnvString("ADVISOR_TEXT_MODEL", defaultTextModel),
		},
		Notify: NotificationConfig{
			BarkURL: getEnvString("ADVISOR_BARK_URL", ""),
		},
		ShutdownGrace: getEnvDuration("ADVISOR_SHUTDOWN_GRACE", defaultShutdownGrace),
	}

	// CLI flags override environment variables
	fs := flag.NewFlagSet("robotadvisord", flag.ContinueOnError)
	var mode, flagAddr, logLevel, assetsDir, backend string
	var shutdownGrace time.Duration
	fs.StringVar(&mode, "mode", "", "Run mode: http, mcp or both")
	fs.StringVar(&flagAddr, "addr", "", "HTTP listen address (overrides env)")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&assetsDir, "assets-dir", "", "Directory containing urdfs/ and robot metadata")
	fs.StringVar(&backend, "genai-backend", "", "Model backend: vertex, gemini or mock")
	fs.DurationVar(&shutdownGrace, "shutdown-grace", 0, "Grace period when shutting down")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if mode != "" {
		cfg.Mode = mode
	}
	if flagAddr != "" {
		cfg.Server.Addr = flagAddr
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if assetsDir != "" {
		cfg.Catalog.AssetsDir = assetsDir
	}
	if backend != "" {
		cfg.GenAI.Backend = backend
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "shutdown-grace" {
			cfg.ShutdownGrace = shutdownGrace
		}
	})

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	switch c.Mode {
	case ModeHTTP, ModeMCP, ModeBoth:
	default:
		return fmt.Errorf("unknown mode %q (want http, mcp or both)", c.Mode)
	}

	c.GenAI.Backend = strings.ToLower(strings.TrimSpace(c.GenAI.Backend))
	switch c.GenAI.Backend {
	case gemini.BackendVertex, gemini.BackendGemini, gemini.BackendMock:
	default:
		return fmt.Errorf("unknown genai backend %q (want vertex, gemini or mock)", c.GenAI.Backend)
	}

	if c.Catalog.Refresh != "" {
		if _, err := catalog.ParseSchedule(c.Catalog.Refresh); err != nil {
			return fmt.Errorf("ADVISOR_CATALOG_REFRESH: %w", err)
		}
	}
	if c.ShutdownGrace < 0 {
		return fmt.Errorf("shutdown grace must not be negative")
	}
	return nil
}
