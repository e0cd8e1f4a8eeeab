package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string

	// GitBaseDir каталог с bare-репозиториями проектов.
	GitBaseDir string
	// GlobalOwnersConfig fallback-файл конфигурации владения.
	GlobalOwnersConfig string

	MeiliURL    string
	MeiliAPIKey string

	MaxReviewers int
	EventWorkers int
}

func LoadConfig() (Config, error) {

	err := godotenv.Load()

	return Config{
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", "password"),
		DBName:             getEnv("DB_NAME", "module_owner"),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		GitBaseDir:         getEnv("GIT_BASE_DIR", "/var/lib/git"),
		GlobalOwnersConfig: getEnv("GLOBAL_OWNERS_CONFIG", ""),
		MeiliURL:           getEnv("MEILI_URL", "http://localhost:7700"),
		MeiliAPIKey:        getEnv("MEILI_API_KEY", ""),
		MaxReviewers:       getEnvInt("MAX_REVIEWERS", 2),
		EventWorkers:       getEnvInt("EVENT_WORKERS", 4),
	}, err
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
