package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port        string
	DatabaseURL string
	RabbitMQURL string
	CORSOrigins []string
	LogLevel    string

	Mail struct {
		Host     string
		Port     int
		User     string
		Password string
		From     string
		To       []string
	}

	Kommo struct {
		APIToken string
		BaseURL  string
	}
}

// Load lê o .env (se existir) e depois o ambiente. Variáveis do ambiente têm prioridade.
func Load(files ...string) *Config {
	if err := godotenv.Load(files...); err != nil {
		log.Debugf("sem .env: %v", err)
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
		CORSOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	cfg.Mail.Host = os.Getenv("MAIL_HOST")
	cfg.Mail.Port = getEnvInt("MAIL_PORT", 587)
	cfg.Mail.User = os.Getenv("MAIL_USER")
	cfg.Mail.Password = os.Getenv("MAIL_PASS")
	cfg.Mail.From = getEnv("MAIL_FROM", "nao-responda@liguemedicina.com")
	cfg.Mail.To = splitList(os.Getenv("MAIL_NOTIFY_TO"))

	cfg.Kommo.APIToken = os.Getenv("KOMMO_API_TOKEN")
	cfg.Kommo.BaseURL = getEnv("KOMMO_BASE_URL", "https://liguemedicina.kommo.com/api/v4")

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warnf("⚠️ %s inválido (%q), usando %d", key, v, fallback)
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
