package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host string
		Port int
	}

	DatabaseConfig struct {
		Host     string
		Port     int
		User     string
		Password string
		DBName   string
		SSLMode  string
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
	}

	GoogleAPIConfig struct {
		ClientID     string
		ClientSecret string
	}

	JWTConfig struct {
		Secret string
	}

	AWSConfig struct {
		Region          string
		AccessKeyID     string
		SecretAccessKey string
		ExportBucket    string
	}

	LogConfig struct {
		Level string
		JSON  bool
	}

	Config struct {
		Server    ServerConfig
		Database  DatabaseConfig
		Redis     RedisConfig
		GoogleAPI GoogleAPIConfig
		JWT       JWTConfig
		AWS       AWSConfig
		Log       LogConfig
		// TokenCipherKey is the hex-encoded 256-bit key used to encrypt
		// calendar provider tokens at rest.
		TokenCipherKey string
	}
)

var (
	instance *Config
	mu       sync.RWMutex
)

// Load reads .env (if present) and environment variables into the config singleton.
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 7070)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "meetsync")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_JSON", false)
	v.SetDefault("AWS_REGION", "ap-southeast-1")

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		GoogleAPI: GoogleAPIConfig{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		AWS: AWSConfig{
			Region:          v.GetString("AWS_REGION"),
			AccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
			ExportBucket:    v.GetString("AWS_EXPORT_BUCKET"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			JSON:  v.GetBool("LOG_JSON"),
		},
		TokenCipherKey: v.GetString("TOKEN_CIPHER_KEY"),
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	instance = cfg
	return cfg, nil
}

// Get returns the loaded config. Panics if Load has not been called;
// use GetSafe where the caller can degrade gracefully.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		panic("config: Load must be called before Get")
	}
	return instance
}

// GetSafe returns the loaded config and whether it has been initialized.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}
