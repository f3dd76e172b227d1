package config

import (
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	DBDSN         string `env:"DB_DSN" envDefault:"cozyoven.db"` // sqlite file in project root
	LogFile       string `env:"LOG_FILE" envDefault:"./cozyoven.log"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	TemplatesDir  string `env:"TEMPLATES_DIR" envDefault:"./web/templates"`

	// AdminTokenHash is a bcrypt hash of the back-office token. Empty disables /admin.
	AdminTokenHash string `env:"ADMIN_TOKEN_HASH"`

	ComboStoreKey  string `env:"COMBO_STORE_KEY" envDefault:"cozyoven_combo_products"`
	CurrencySymbol string `env:"CURRENCY_SYMBOL" envDefault:"₵"`
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env loaded: %v", err)
	}
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		log.Fatalf("[config] parse: %v", err)
	}
	admin := "disabled"
	if cfg.AdminTokenHash != "" {
		admin = "set"
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s LOG_LEVEL=%s COMBO_STORE_KEY=%s ADMIN_TOKEN=%s",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.LogLevel, cfg.ComboStoreKey, admin)
	return cfg
}
