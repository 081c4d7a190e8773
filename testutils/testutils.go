package testutils

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"spectrobackend/config"
	"spectrobackend/db"
	"spectrobackend/models"
)

// LoadTestConfig loads configuration for integration tests from environment
// variables
func LoadTestConfig() (*config.AppConfig, error) {
	// Try to load environment variables from various possible locations
	_ = godotenv.Load("../.env.test") // From services/ directory
	_ = godotenv.Load(".env.test")    // From root directory
	_ = godotenv.Load()               // Default .env file

	databaseURL := os.Getenv("DB_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}

	databaseSchema := os.Getenv("DB_SCHEMA")
	if databaseSchema == "" {
		return nil, fmt.Errorf("DB_SCHEMA is not set")
	}

	return &config.AppConfig{
		DatabaseURL:    databaseURL,
		DatabaseSchema: databaseSchema,
	}, nil
}

// GenerateInteractionKeypair produces a fresh Ed25519 keypair for signing
// test webhooks.
func GenerateInteractionKeypair(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err, "Failed to generate Ed25519 keypair")
	return publicKey, privateKey
}

// NewSignedInteractionRequest builds a webhook request carrying a valid
// signature over timestamp||body, the way Discord signs interactions.
func NewSignedInteractionRequest(t *testing.T, privateKey ed25519.PrivateKey, target, body string) *http.Request {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	signature := ed25519.Sign(privateKey, []byte(timestamp+body))

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature-Ed25519", hex.EncodeToString(signature))
	req.Header.Set("X-Signature-Timestamp", timestamp)
	return req
}

// UniqueSnowflake returns a snowflake unlikely to collide across test runs,
// avoiding unique-constraint violations on shared test databases.
func UniqueSnowflake() models.Snowflake {
	return models.Snowflake(int64(uuid.New().ID())<<16 | int64(time.Now().UnixNano()&0xffff))
}

// CreateTestGuild creates a guild row with a unique ID for integration tests.
func CreateTestGuild(t *testing.T, guildsRepo *db.PostgresGuildsRepository) *models.Guild {
	guild := &models.Guild{
		ID:   UniqueSnowflake(),
		Name: "Test Guild " + uuid.New().String(),
	}
	err := guildsRepo.UpsertGuild(context.Background(), guild)
	require.NoError(t, err, "Failed to create test guild")
	return guild
}

// CreateTestChannel creates a confession channel row for integration tests.
func CreateTestChannel(
	t *testing.T,
	channelsRepo *db.PostgresChannelsRepository,
	guildID models.Snowflake,
	approvalRequired bool,
) *models.Channel {
	channel := &models.Channel{
		ID:                 UniqueSnowflake(),
		GuildID:            guildID,
		IsApprovalRequired: approvalRequired,
		Label:              "Confession",
	}
	err := channelsRepo.CreateChannel(context.Background(), channel)
	require.NoError(t, err, "Failed to create test channel")
	return channel
}
