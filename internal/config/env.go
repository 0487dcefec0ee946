package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string
	GinMode string

	DBDSN string

	ReservationAPIURL string
	PaymentAPIURL     string
	UserAPIURL        string
	UpstreamToken     string

	JWTSecret string

	PollInterval    time.Duration
	PollMaxAttempts int
	PollMaxDuration time.Duration
}

func LoadEnv() Env {
	// .env is optional; deployments set variables directly.
	_ = godotenv.Load()

	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		dsn = "root:@tcp(127.0.0.1:3306)/rental_gateway?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		secret = "super-secret-key-change-me"
	}

	return Env{
		AppAddr: appAddr,
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBDSN: dsn,

		ReservationAPIURL: envURL("RESERVATION_API_URL", "http://127.0.0.1:9101"),
		PaymentAPIURL:     envURL("PAYMENT_API_URL", "http://127.0.0.1:9102"),
		UserAPIURL:        envURL("USER_API_URL", "http://127.0.0.1:9103"),
		UpstreamToken:     strings.TrimSpace(os.Getenv("UPSTREAM_TOKEN")),

		JWTSecret: secret,

		PollInterval:    time.Duration(envInt("POLL_INTERVAL_SECONDS", 5)) * time.Second,
		PollMaxAttempts: envInt("POLL_MAX_ATTEMPTS", 60),
		PollMaxDuration: time.Duration(envInt("POLL_MAX_MINUTES", 5)) * time.Minute,
	}
}

func envURL(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return strings.TrimRight(v, "/")
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
