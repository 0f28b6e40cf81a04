package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string
	ServerPort    string
	SessionSecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel  string
	LogFormat string

	// Mailer is "ses" or "log"; the log mailer prints codes instead of
	// sending mail and is only for development.
	Mailer    string
	AWSRegion string
	FromEmail string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		LogFormat:     os.Getenv("LOG_FORMAT"),
		Mailer:        os.Getenv("MAILER"),
		AWSRegion:     os.Getenv("AWS_REGION"),
		FromEmail:     os.Getenv("OTP_FROM_EMAIL"),
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("REDIS_DB is not a number: %v", err)
		}
		cfg.RedisDB = n
	}

	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN is not set")
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Mailer == "" {
		cfg.Mailer = "log"
	}
	if cfg.Mailer == "ses" {
		if cfg.AWSRegion == "" {
			log.Fatal("AWS_REGION is required with MAILER=ses")
		}
		if cfg.FromEmail == "" {
			log.Fatal("OTP_FROM_EMAIL is required with MAILER=ses")
		}
	}

	return cfg
}
