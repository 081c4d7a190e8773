package config

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type DiscordConfig struct {
	PublicKeyHex string
	BotToken     string
	APIBaseURL   string
}

// IsConfigured returns true if all required Discord configuration is present
func (c DiscordConfig) IsConfigured() bool {
	return c.PublicKeyHex != "" && c.BotToken != ""
}

// VerificationKey decodes the hex-encoded Ed25519 public key used to
// authenticate inbound interaction webhooks.
func (c DiscordConfig) VerificationKey() (ed25519.PublicKey, error) {
	raw, err := hex.DecodeString(c.PublicKeyHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Discord public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("discord public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL        string
	DatabaseSchema     string
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string
	AlertWebhookURL    string
	ServerLogsURL      string

	DiscordConfig DiscordConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	databaseSchema, err := getEnvRequired("DB_SCHEMA")
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		DatabaseURL:        databaseURL,
		DatabaseSchema:     databaseSchema,
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		AlertWebhookURL:    getEnvWithDefault("ALERT_WEBHOOK_URL", ""),
		ServerLogsURL:      getEnvWithDefault("SERVER_LOGS_URL", ""),

		DiscordConfig: DiscordConfig{
			PublicKeyHex: os.Getenv("DISCORD_PUBLIC_KEY"),
			BotToken:     os.Getenv("DISCORD_BOT_TOKEN"),
			APIBaseURL:   getEnvWithDefault("DISCORD_API_BASE_URL", "https://discord.com/api/v10"),
		},
	}

	if !config.DiscordConfig.IsConfigured() {
		return nil, fmt.Errorf("discord integration is not fully configured")
	}
	if _, err := config.DiscordConfig.VerificationKey(); err != nil {
		return nil, err
	}
	log.Printf("✅ Discord integration configured")

	return config, nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
