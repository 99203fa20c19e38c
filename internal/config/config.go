package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBUrl      string
	Port       string
	JWTSecret  string
	BcryptCost int
	RateLimit  float64
	RateBurst  int
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found, falling back to environment defaults")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default-secret-key-change-in-production"
		log.Println("JWT_SECRET not set, using default key")
	}

	return Config{
		DBUrl:      os.Getenv("DB_URL"),
		Port:       port,
		JWTSecret:  secret,
		BcryptCost: intEnv("BCRYPT_COST", 12),
		RateLimit:  floatEnv("RATE_LIMIT", 10),
		RateBurst:  intEnv("RATE_BURST", 20),
	}
}

func intEnv(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func floatEnv(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}
