package config

import (
	"os"
	"strconv"
	"time"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

type Config struct {
	R2 R2Config

	// ModerationChannel is the address that receives profile verification
	// requests.
	ModerationChannel string

	// Image pipeline limits.
	MaxImageDimension int
	MaxUploadBytes    int64

	// Session idle timeouts.
	WizardTimeout  time.Duration
	BrowserTimeout time.Duration
}

func LoadConfig() *Config {
	cfg := &Config{}

	cfg.R2.AccountID = os.Getenv("R2_ACCOUNT_ID")
	cfg.R2.AccessKeyID = os.Getenv("R2_ACCESS_KEY_ID")
	cfg.R2.SecretAccessKey = os.Getenv("R2_SECRET_ACCESS_KEY")
	cfg.R2.Bucket = os.Getenv("R2_BUCKET")
	cfg.R2.PublicURL = os.Getenv("R2_PUBLIC_URL")

	cfg.ModerationChannel = os.Getenv("MODERATION_CHANNEL_EMAIL")

	cfg.MaxImageDimension = envInt("MAX_IMAGE_DIMENSION", 1920)
	cfg.MaxUploadBytes = int64(envInt("MAX_UPLOAD_MB", 10)) * 1024 * 1024

	cfg.WizardTimeout = envDuration("WIZARD_TIMEOUT", 15*time.Minute)
	cfg.BrowserTimeout = envDuration("BROWSER_TIMEOUT", 5*time.Minute)

	return cfg
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
