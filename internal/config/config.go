package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	StreamChannelBase      string
	JWTSecret              string
	TokenTTL               time.Duration
	ResetTokenTTL          time.Duration
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	FeedCacheTTL           time.Duration
	MaxUploadMB            int
	CORSOrigins            string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("BETHEL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Bethel Admin API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("stream.channel_base", "bethel")
	v.SetDefault("cloudinary.folder", "bethel/avatars")
	v.SetDefault("feed.cache_ttl", "30s")
	v.SetDefault("token.ttl", "24h")
	v.SetDefault("reset_token.ttl", "30m")
	v.SetDefault("max_upload_mb", 5)
	// The dashboard is the only browser client; lock this down per deployment.
	v.SetDefault("cors.origins", "*")

	feedTTL, err := time.ParseDuration(v.GetString("feed.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid feed cache ttl: %w", err)
	}

	tokenTTL, err := time.ParseDuration(v.GetString("token.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid token ttl: %w", err)
	}

	resetTTL, err := time.ParseDuration(v.GetString("reset_token.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid reset token ttl: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		StreamChannelBase:      v.GetString("stream.channel_base"),
		JWTSecret:              v.GetString("jwt.secret"),
		TokenTTL:               tokenTTL,
		ResetTokenTTL:          resetTTL,
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		FeedCacheTTL:           feedTTL,
		MaxUploadMB:            v.GetInt("max_upload_mb"),
		CORSOrigins:            v.GetString("cors.origins"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 5
	}

	return cfg, nil
}
