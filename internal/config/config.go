package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// API do Cubo (catálogo paginado)
	CuboAPIURL    string
	CuboAPIKey    string
	CuboPageLimit int

	DatabaseURL string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// API Copafer (imagens dos produtos)
	CopaferBaseURL    string
	CopaferAuthHeader string
	CopaferAuthToken  string

	OpenRouterBaseURL string
	OpenRouterKey     string
	OpenRouterModel   string

	// TTL do cache de imagens em segundos (padrão: 3 dias)
	ImageCacheTTL int

	HTTPPort    string
	MetricsPort string
}

func Load() *Config {
	// Carrega .env da raiz do projeto
	_ = godotenv.Load("../../.env")
	// Se não encontrar, tenta no diretório atual
	_ = godotenv.Load()
	return &Config{
		CuboAPIURL:        getEnv("CUBO_API_URL", "https://copafer.fortiddns.com/api/v2/cubo/produtos"),
		CuboAPIKey:        strings.TrimSpace(os.Getenv("X_COPAFER_KEY")),
		CuboPageLimit:     getEnvInt("CUBO_PAGE_LIMIT", 50), // confirmado: 50
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisHost:         getEnv("REDIS_HOST", "localhost"),
		RedisPort:         getEnv("REDIS_PORT", "6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		CopaferBaseURL:    strings.TrimSpace(os.Getenv("COPAFER_API_BASE_URL")),
		CopaferAuthHeader: getEnv("COPAFER_AUTH_HEADER", "X-Copafer-Auth"),
		CopaferAuthToken:  strings.TrimSpace(os.Getenv("COPAFER_AUTH_TOKEN")),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterKey:     strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "openai/gpt-5-chat"),
		ImageCacheTTL:     getEnvInt("IMAGE_CACHE_TTL", 259200),
		HTTPPort:          getEnv("PORT", "8081"),
		MetricsPort:       getEnv("METRICS_PORT", "9090"),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}
