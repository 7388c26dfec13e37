// Package config reads the back office configuration.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the back office configuration. Environment variables win over
// command line flags.
type Config struct {
	RunAddress  string `env:"RUN_ADDRESS"`
	DatabaseURI string `env:"DATABASE_URI"`
	PSGCAddress string `env:"PSGC_ADDRESS"`

	AuthSecret string `env:"AUTH_SECRET"`
	UploadDir  string `env:"UPLOAD_DIR"`

	PaymentChannels []string `env:"PAYMENT_CHANNELS" envSeparator:","`

	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASS"`
	SMTPFrom string `env:"SMTP_FROM"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// Parse reads the configuration from a .env file when present, command line
// flags and environment variables.
func Parse() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envPSGCAddress := cfg.PSGCAddress
	envAuthSecret := cfg.AuthSecret
	envUploadDir := cfg.UploadDir

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.PSGCAddress, "p", "", "PSGC lookup service address")
	flag.StringVar(&cfg.AuthSecret, "s", "", "JWT signing secret")
	flag.StringVar(&cfg.UploadDir, "u", "uploads", "payment proof upload directory")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envPSGCAddress != "" {
		cfg.PSGCAddress = envPSGCAddress
	}
	if envAuthSecret != "" {
		cfg.AuthSecret = envAuthSecret
	}
	if envUploadDir != "" {
		cfg.UploadDir = envUploadDir
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}
	if len(cfg.PaymentChannels) == 0 {
		cfg.PaymentChannels = []string{"gcash", "bpi"}
	}

	return cfg, nil
}
