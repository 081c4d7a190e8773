package discord

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spectrobackend/clients"
	"spectrobackend/models"
)

// MockDiscordClient implements the clients.DiscordClient interface for testing
type MockDiscordClient struct {
	mock.Mock
}

// CreateMessage mocks posting a message to a channel
func (m *MockDiscordClient) CreateMessage(
	ctx context.Context,
	channelID models.Snowflake,
	message *models.CreateMessage,
) (*models.Message, error) {
	args := m.Called(ctx, channelID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

// EditMessage mocks rewriting an existing message
func (m *MockDiscordClient) EditMessage(
	ctx context.Context,
	channelID models.Snowflake,
	messageID models.Snowflake,
	message *models.EditMessage,
) (*models.Message, error) {
	args := m.Called(ctx, channelID, messageID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

// DeleteMessage mocks removing a message
func (m *MockDiscordClient) DeleteMessage(
	ctx context.Context,
	channelID models.Snowflake,
	messageID models.Snowflake,
) error {
	args := m.Called(ctx, channelID, messageID)
	return args.Error(0)
}

// CreateInteractionCallback mocks answering an interaction
func (m *MockDiscordClient) CreateInteractionCallback(
	ctx context.Context,
	interactionID models.Snowflake,
	interactionToken string,
	callback *models.InteractionCallback,
) error {
	args := m.Called(ctx, interactionID, interactionToken, callback)
	return args.Error(0)
}

// GetGuildByID mocks fetching guild metadata
func (m *MockDiscordClient) GetGuildByID(guildID models.Snowflake) (*clients.DiscordGuild, error) {
	args := m.Called(guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.DiscordGuild), args.Error(1)
}
