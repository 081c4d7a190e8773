package clients

import (
	"context"

	"spectrobackend/models"
)

// DiscordGuild is the guild metadata subset fetched during sync.
type DiscordGuild struct {
	ID         string
	Name       string
	IconHash   string
	SplashHash string
}

// DiscordClient is the outbound surface towards the Discord REST API. Errors
// originating from the platform are returned as *models.DiscordError so
// callers can inspect the numeric code; no retries happen at this layer.
type DiscordClient interface {
	CreateMessage(
		ctx context.Context,
		channelID models.Snowflake,
		message *models.CreateMessage,
	) (*models.Message, error)
	EditMessage(
		ctx context.Context,
		channelID models.Snowflake,
		messageID models.Snowflake,
		message *models.EditMessage,
	) (*models.Message, error)
	DeleteMessage(
		ctx context.Context,
		channelID models.Snowflake,
		messageID models.Snowflake,
	) error
	CreateInteractionCallback(
		ctx context.Context,
		interactionID models.Snowflake,
		interactionToken string,
		callback *models.InteractionCallback,
	) error
	GetGuildByID(guildID models.Snowflake) (*DiscordGuild, error)
}
