package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the API and worker read from the environment.
type Config struct {
	HTTPAddr      string
	ProductsTable string
	OrdersTable   string
	UsersTable    string
	ReviewsTable  string
	OrdersQueue   string
	RedisAddr     string
	JWTSecret     string
	TokenTTL      time.Duration
	RunLocal      bool
}

// Load reads configuration from the environment. For local runs it first
// merges a .env file if one exists; missing file is not an error.
func Load() Config {
	runLocal := os.Getenv("RUN_LOCAL") == "true"
	if runLocal {
		_ = godotenv.Load()
	}

	return Config{
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		ProductsTable: getenv("PRODUCTS_TABLE", "products"),
		OrdersTable:   getenv("ORDERS_TABLE", "orders"),
		UsersTable:    getenv("USERS_TABLE", "users"),
		ReviewsTable:  getenv("REVIEWS_TABLE", "reviews"),
		OrdersQueue:   os.Getenv("ORDERS_QUEUE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		JWTSecret:     getenv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:      getdur("TOKEN_TTL", 7*24*time.Hour),
		RunLocal:      runLocal,
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
