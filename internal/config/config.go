package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Asset
	CoinID     string
	VsCurrency string

	// Collection
	LookbackDays       int
	HTTPTimeoutSeconds int
	APIBaseURL         string

	// Paths
	DataDir   string
	ChartsDir string

	// Notifications
	WebhookURL string
	BotName    string

	// Optional Postgres archive
	ArchiveEnabled bool
	DBHost         string
	DBPort         int
	DBName         string
	DBUser         string
	DBPassword     string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		// Asset
		CoinID:     envStr("COIN_ID", "bitcoin"),
		VsCurrency: envStr("VS_CURRENCY", "usd"),

		// Collection
		LookbackDays:       envInt("LOOKBACK_DAYS", 365),
		HTTPTimeoutSeconds: envInt("HTTP_TIMEOUT_SECONDS", 15),
		APIBaseURL:         envStr("API_BASE_URL", "https://api.coingecko.com/api/v3"),

		// Paths
		DataDir:   envStr("DATA_DIR", "data"),
		ChartsDir: envStr("CHARTS_DIR", "visualizations"),

		// Notifications
		WebhookURL: envStr("WEBHOOK_URL", ""),
		BotName:    envStr("BOT_NAME", "BtcTracker"),

		// Archive
		ArchiveEnabled: envBool("ARCHIVE_ENABLED", false),
		DBHost:         envStr("DB_HOST", "localhost"),
		DBPort:         envInt("DB_PORT", 5432),
		DBName:         envStr("DB_NAME", "btc_tracker"),
		DBUser:         envStr("DB_USER", ""),
		DBPassword:     envStr("DB_PASSWORD", ""),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.CoinID == "" {
		errs = append(errs, "COIN_ID must not be empty")
	}
	if c.LookbackDays <= 0 {
		errs = append(errs, "LOOKBACK_DAYS must be positive")
	}
	if c.HTTPTimeoutSeconds <= 0 {
		errs = append(errs, "HTTP_TIMEOUT_SECONDS must be positive")
	}
	if c.ArchiveEnabled && c.DBUser == "" {
		errs = append(errs, "DB_USER is required when ARCHIVE_ENABLED is true")
	}

	if c.WebhookURL == "" {
		fmt.Println("[WARN] WEBHOOK_URL not set — run results will only be logged to console")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== Bitcoin Data Pipeline Configuration ===")
	fmt.Printf("Asset: %s/%s\n", c.CoinID, strings.ToUpper(c.VsCurrency))
	fmt.Printf("Lookback: %d days\n", c.LookbackDays)
	fmt.Printf("API: %s (timeout %ds)\n", c.APIBaseURL, c.HTTPTimeoutSeconds)
	fmt.Printf("Data dir: %s\n", c.DataDir)
	fmt.Printf("Charts dir: %s\n", c.ChartsDir)
	fmt.Printf("Webhook: %s\n", boolLabel(c.WebhookURL != "", "configured", "not set"))
	if c.ArchiveEnabled {
		fmt.Printf("Archive: postgres %s:%d/%s\n", c.DBHost, c.DBPort, c.DBName)
	} else {
		fmt.Println("Archive: disabled")
	}
	fmt.Println("===========================================")
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "true" || v == "1" || v == "yes"
	}
	return fallback
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
