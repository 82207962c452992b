package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr string
	MysqlDSN   string
	RedisURL   string
	JWTSecret  string
}

var Cfg *Config

func Load() {
	godotenv.Load()

	Cfg = &Config{
		ServerAddr: ":" + getEnv("PORT", "8080"),
		MysqlDSN:   getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/dayz_pda?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisURL:   getEnv("REDIS_URL", ""),
		JWTSecret:  getEnv("JWT_SECRET", "dayz-pda-secret-key-change-in-production"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
