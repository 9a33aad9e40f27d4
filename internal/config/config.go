package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Notebook NotebookConfig
}

type AppConfig struct {
	Environment      string
	LogFilePath      string
	EventLogFilePath string
}

type NotebookConfig struct {
	DefaultName            string
	DefaultLanguage        string
	SessionTTL             time.Duration
	SessionCleanupInterval time.Duration
	EventTopic             string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Environment:      getEnv("GO_ENV", "development"),
			LogFilePath:      getEnv("LOG_FILE_PATH", "logs/notebook.log"),
			EventLogFilePath: getEnv("EVENT_LOG_FILE_PATH", "logs/notebook_events.log"),
		},
		Notebook: NotebookConfig{
			DefaultName:            getEnv("NOTEBOOK_DEFAULT_NAME", "New Notebook"),
			DefaultLanguage:        getEnv("NOTEBOOK_DEFAULT_LANGUAGE", "javascript"),
			SessionTTL:             time.Duration(getEnvAsInt("NOTEBOOK_SESSION_TTL_MINUTES", 60)) * time.Minute,
			SessionCleanupInterval: time.Duration(getEnvAsInt("NOTEBOOK_SESSION_CLEANUP_MINUTES", 10)) * time.Minute,
			EventTopic:             getEnv("NOTEBOOK_EVENT_TOPIC", "NOTEBOOK_EVENTS"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
