package config

import (
	"github.com/joho/godotenv"
	"log"
	"os"
	"strconv"
	"time"
)

type DatabaseConfig struct {
	Dialect         string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
}

type MonitorConfig struct {
	Enabled  bool
	Schedule string
}

type Config struct {
	HTTPAddress   string
	LogsDirectory string
	LogLevel      string
	Database      *DatabaseConfig
	Monitor       *MonitorConfig
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return &Config{
		HTTPAddress:   getString("HTTP_ADDRESS", ":3000"),
		LogsDirectory: os.Getenv("LOGS_DIRECTORY"),
		LogLevel:      getString("LOG_LEVEL", "info"),
		Database: &DatabaseConfig{
			Dialect:         getString("DATABASE_DIALECT", "mysql"),
			DSN:             getString("DATABASE_DSN", "root:root@tcp(localhost:3306)/shippio?parseTime=true"),
			MaxOpenConns:    getInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
			QueryTimeout:    getDuration("DATABASE_QUERY_TIMEOUT", 10*time.Second),
		},
		Monitor: &MonitorConfig{
			Enabled:  getBool("MONITOR_ENABLED", true),
			Schedule: getString("MONITOR_SCHEDULE", "*/30 * * * *"),
		},
	}
}

func getString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
