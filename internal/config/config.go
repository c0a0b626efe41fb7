package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings, loaded from a .env file and/or the
// environment.
type Config struct {
	ServerPort   string        `mapstructure:"SERVER_PORT"`
	DatabaseURL  string        `mapstructure:"DATABASE_URL"`
	JWTSecret    string        `mapstructure:"JWT_SECRET"`
	ClientOrigin string        `mapstructure:"CLIENT_ORIGIN"`
	LogLevel     string        `mapstructure:"LOG_LEVEL"`
	AWSRegion    string        `mapstructure:"AWS_REGION"`
	EmailFrom    string        `mapstructure:"EMAIL_FROM"`
	StoreTimeout time.Duration `mapstructure:"STORE_TIMEOUT"`
	OTPTTL       time.Duration `mapstructure:"OTP_TTL"`
}

// LoadConfig reads configuration from <path>/.env, with environment
// variables taking precedence. A missing .env file is not an error.
func LoadConfig(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5000")
	viper.SetDefault("CLIENT_ORIGIN", "http://localhost:3000")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("STORE_TIMEOUT", "5s")
	viper.SetDefault("OTP_TTL", "10m")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}
