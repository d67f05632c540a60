package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port             string
	AllowedOrigin    string
	BackendBaseURL   string
	BackendToken     string
	BackendTimeout   time.Duration
	PollInterval     time.Duration
	DatabaseURL      string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	SnapshotTTL      time.Duration
	ConsoleTokenHash string
	LogLevel         string
	LogFormat        string
	ArchiveLimit     int
}

// Load reads the environment. Values from a .env file in the working
// directory fill in variables that are not already set.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:             getEnv("PORT", "8080"),
		AllowedOrigin:    getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		BackendBaseURL:   getEnv("BACKEND_BASE_URL", "http://localhost:8000/api/v1"),
		BackendToken:     strings.TrimSpace(os.Getenv("BACKEND_TOKEN")),
		BackendTimeout:   seconds("BACKEND_TIMEOUT_SECONDS", 15),
		PollInterval:     seconds("POLL_INTERVAL_SECONDS", 3),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          intFromEnv("REDIS_DB", 0),
		SnapshotTTL:      seconds("SNAPSHOT_TTL_SECONDS", 60),
		ConsoleTokenHash: strings.TrimSpace(os.Getenv("CONSOLE_TOKEN_HASH")),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		ArchiveLimit:     intFromEnv("ARCHIVE_LIMIT", 50),
	}
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

// NewLogger builds the process logger. Unknown levels fall back to info.
func NewLogger(level, format string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	if out != nil {
		logger.SetOutput(out)
	} else {
		logger.SetOutput(os.Stdout)
	}
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func getEnv(key string, fallback string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	return val
}

func intFromEnv(key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n < 0 {
		return def
	}
	return n
}

func seconds(key string, def int) time.Duration {
	n := intFromEnv(key, def)
	if n < 1 {
		n = def
	}
	return time.Duration(n) * time.Second
}
