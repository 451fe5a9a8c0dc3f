package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	applog "wikimart/internal/log"
)

type Config struct {
	AuctionsAddr   string `yaml:"auctions_addr"`
	WikiAddr       string `yaml:"wiki_addr"`
	DBDSN          string `yaml:"db_dsn"`
	EntriesDir     string `yaml:"entries_dir"`
	LogFile        string `yaml:"log_file"`
	LogLevel       string `yaml:"log_level"`
	CookieSecure   bool   `yaml:"cookie_secure"`
	RateLimit      int    `yaml:"rate_limit"`       // requests per minute per IP, 0 disables
	LoginRateLimit int    `yaml:"login_rate_limit"` // attempts per 10 minutes per IP, 0 disables
	DisableCSRF    bool   `yaml:"disable_csrf"`
	SeedDemo       bool   `yaml:"seed_demo"`
}

func Defaults() Config {
	return Config{
		AuctionsAddr:   ":8080",
		WikiAddr:       ":8000",
		DBDSN:          "auctions.db",
		EntriesDir:     "./entries",
		LogLevel:       "info",
		RateLimit:      60,
		LoginRateLimit: 5,
	}
}

// Load resolves defaults, then CONFIG_FILE (yaml), then .env, then the
// process environment.
func Load() Config {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			applog.Security(nil, "config.file.fail", map[string]any{"path": path, "err": err.Error()})
		}
	}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()
	applyEnv(&cfg)

	applog.Info(nil, "config.loaded", map[string]any{
		"auctions_addr": cfg.AuctionsAddr,
		"wiki_addr":     cfg.WikiAddr,
		"db_dsn":        cfg.DBDSN,
		"entries_dir":   cfg.EntriesDir,
		"log_file":      cfg.LogFile,
		"log_level":     cfg.LogLevel,
		"rate_limit":    cfg.RateLimit,
		"seed_demo":     cfg.SeedDemo,
	})
	return cfg
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, cfg)
}

func applyEnv(cfg *Config) {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				*dst = n
			}
		}
	}
	flag := func(key string, dst *bool) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	str("AUCTIONS_ADDR", &cfg.AuctionsAddr)
	str("WIKI_ADDR", &cfg.WikiAddr)
	str("DB_DSN", &cfg.DBDSN)
	str("ENTRIES_DIR", &cfg.EntriesDir)
	str("LOG_FILE", &cfg.LogFile)
	str("LOG_LEVEL", &cfg.LogLevel)
	num("RATE_LIMIT", &cfg.RateLimit)
	num("LOGIN_RATE_LIMIT", &cfg.LoginRateLimit)
	flag("COOKIE_SECURE", &cfg.CookieSecure)
	flag("DISABLE_CSRF", &cfg.DisableCSRF)
	flag("SEED_DEMO", &cfg.SeedDemo)
}
