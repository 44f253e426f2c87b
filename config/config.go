package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// DefaultFile is the optional TOML file read by Load when present.
const DefaultFile = "scraper.toml"

// Config holds all runtime configuration for the scraper.
type Config struct {
	BaseURL   string   `toml:"base_url"`
	StartURLs []string `toml:"start_urls"`

	// Browser
	Headless     bool   `toml:"headless"`
	ExecPath     string `toml:"exec_path"`
	UserDataDir  string `toml:"user_data_dir"`
	UserAgent    string `toml:"user_agent"`
	WindowWidth  int    `toml:"window_width"`
	WindowHeight int    `toml:"window_height"`

	// Navigation and readiness
	NavigateRetries int      `toml:"navigate_retries"`
	ReadyPoll       Duration `toml:"ready_poll"`
	ReadyTimeout    Duration `toml:"ready_timeout"`
	ActionTimeout   Duration `toml:"action_timeout"`
	ClickWait       Duration `toml:"click_wait"`
	ClickPause      Duration `toml:"click_pause"`
	MaxPages        int      `toml:"max_pages"`
	HideClasses     []string `toml:"hide_classes"`

	// Stage 3 pacing
	RestartEvery  int      `toml:"restart_every"`
	CooldownEvery int      `toml:"cooldown_every"`
	Cooldown      Duration `toml:"cooldown"`

	// Output
	ResultsDir string `toml:"results_dir"`
	LogLevel   string `toml:"log_level"`

	// Database: "postgres", "sqlite" or "none"
	DBDriver   string `toml:"db_driver"`
	DBHost     string `toml:"db_host"`
	DBPort     int    `toml:"db_port"`
	DBUser     string `toml:"db_user"`
	DBPassword string `toml:"db_password"`
	DBName     string `toml:"db_name"`
	DBSSLMode  string `toml:"db_sslmode"`
	SQLitePath string `toml:"sqlite_path"`
}

// Default returns a Config populated with sensible defaults.
func Default() Config {
	return Config{
		BaseURL: "https://www.tripadvisor.com",
		StartURLs: []string{
			"/Attractions-g188553-Activities-North_Holland_Province.html",
			"/Attractions-g188581-Activities-Flevoland_Province.html",
		},

		Headless:     true,
		UserDataDir:  "chrome-data",
		WindowWidth:  1920,
		WindowHeight: 1080,
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64) " +
			"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",

		NavigateRetries: 10,
		ReadyPoll:       Duration(100 * time.Millisecond),
		ReadyTimeout:    Duration(30 * time.Second),
		ActionTimeout:   Duration(10 * time.Second),
		ClickWait:       Duration(time.Second),
		ClickPause:      Duration(time.Second),
		HideClasses:     []string{"evidon-banner", "ot-sdk-container"},

		RestartEvery:  500,
		CooldownEvery: 50,
		Cooldown:      Duration(60 * time.Second),

		ResultsDir: "results",
		LogLevel:   "info",

		DBDriver:   "postgres",
		DBHost:     "localhost",
		DBPort:     5432,
		DBUser:     "tripadvisor",
		DBPassword: "tripadvisor",
		DBName:     "tripadvisor",
		DBSSLMode:  "disable",
		SQLitePath: "tripadvisor.db",
	}
}

// Load builds the runtime configuration. Values are layered as
// defaults, then the TOML file at path (skipped when it does not exist),
// then a local .env file, then the process environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config file %s: %w", path, err)
			}
		}
	}

	_ = godotenv.Load()
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.BaseURL = getEnv("TA_BASE_URL", cfg.BaseURL)
	if v := getEnv("TA_START_URLS", ""); v != "" {
		cfg.StartURLs = splitTrim(v, ",")
	}

	cfg.Headless = getEnvBool("TA_HEADLESS", cfg.Headless)
	cfg.ExecPath = getEnv("TA_CHROME_PATH", cfg.ExecPath)
	cfg.UserDataDir = getEnv("TA_USER_DATA_DIR", cfg.UserDataDir)
	cfg.UserAgent = getEnv("TA_USER_AGENT", cfg.UserAgent)

	cfg.NavigateRetries = getEnvInt("TA_NAVIGATE_RETRIES", cfg.NavigateRetries)
	cfg.ReadyTimeout = getEnvDuration("TA_READY_TIMEOUT", cfg.ReadyTimeout)
	cfg.MaxPages = getEnvInt("TA_MAX_PAGES", cfg.MaxPages)

	cfg.RestartEvery = getEnvInt("TA_RESTART_EVERY", cfg.RestartEvery)
	cfg.CooldownEvery = getEnvInt("TA_COOLDOWN_EVERY", cfg.CooldownEvery)
	cfg.Cooldown = getEnvDuration("TA_COOLDOWN", cfg.Cooldown)

	cfg.ResultsDir = getEnv("TA_RESULTS_DIR", cfg.ResultsDir)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnvInt("DB_PORT", cfg.DBPort)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = getEnv("DB_SSLMODE", cfg.DBSSLMode)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
}

// Validate checks that required fields are present and values are sensible.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if len(c.StartURLs) == 0 {
		return fmt.Errorf("at least one start url is required")
	}
	if c.NavigateRetries < 1 {
		return fmt.Errorf("navigate_retries must be >= 1")
	}
	if c.RestartEvery < 1 || c.CooldownEvery < 1 {
		return fmt.Errorf("restart_every and cooldown_every must be >= 1")
	}
	switch c.DBDriver {
	case "postgres", "sqlite", "none":
	default:
		return fmt.Errorf("unknown db_driver %q", c.DBDriver)
	}
	return nil
}

// PostgresDSN renders the pgx connection string.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback Duration) Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return Duration(parsed)
}

func splitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
