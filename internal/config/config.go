package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BackendBaseURL string

	CredentialsDBPath string

	HTTPTimeout time.Duration
}

func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	baseURL := os.Getenv("BACKEND_BASE_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("BACKEND_BASE_URL is required")
	}

	credsPath := os.Getenv("CREDENTIALS_DB_PATH")
	if credsPath == "" {
		credsPath = "recipehub.db"
	}

	timeoutSeconds, err := strconv.Atoi(os.Getenv("HTTP_TIMEOUT_SECONDS"))
	if err != nil || timeoutSeconds <= 0 {
		timeoutSeconds = 15
	}

	return &Config{
		BackendBaseURL:    baseURL,
		CredentialsDBPath: credsPath,
		HTTPTimeout:       time.Duration(timeoutSeconds) * time.Second,
	}, nil
}
