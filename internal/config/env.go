package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	JWTSecret string

	// Fallback driver-pay configuration, used when the settings table has no
	// override rows.
	DriverPayEnabled bool
	DriverPayAmount  float64

	PollInterval time.Duration
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	return Env{
		AppAddr: appAddr,
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBUser: envOr("DB_USER", "root"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: envOr("DB_HOST", "127.0.0.1:3306"),
		DBName: envOr("DB_NAME", "lipa_nganya"),

		JWTSecret: envOr("JWT_SECRET", "super-secret-key-change-me"),

		DriverPayEnabled: envBool("DRIVER_PAY_PER_DELIVERY_ENABLED", true),
		DriverPayAmount:  envFloat("DRIVER_PAY_PER_DELIVERY_AMOUNT", 50),

		PollInterval: envDuration("SETTLEMENT_POLL_INTERVAL", 2*time.Minute),
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
