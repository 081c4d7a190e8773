package services

import (
	"context"
	"time"

	"spectrobackend/models"
)

// DispatcherService maps a decoded interaction to the single callback sent
// back through its continuation token. It is a deterministic function of the
// interaction and the current time; all state lives behind the collaborators.
type DispatcherService interface {
	DispatchInteraction(
		ctx context.Context,
		now time.Time,
		interaction *models.Interaction,
	) (*models.InteractionCallback, error)
}

// ConfessionsService defines the confession moderation workflow. Every
// operation returns the user-facing confirmation string; domain refusals
// (disabled channel, missing permission) come back as friendly strings with
// a nil error, while infrastructure failures surface as errors.
type ConfessionsService interface {
	SubmitConfession(
		ctx context.Context,
		now time.Time,
		channelID models.Snowflake,
		author *models.InteractionUser,
		options []models.CommandOption,
	) (string, error)
	PublishConfession(
		ctx context.Context,
		now time.Time,
		internalID string,
		moderator *models.InteractionUser,
	) (string, error)
	DeleteConfession(
		ctx context.Context,
		now time.Time,
		internalID string,
		moderator *models.InteractionUser,
	) (string, error)
	ResendConfession(
		ctx context.Context,
		now time.Time,
		channelID models.Snowflake,
		confessionNumber int64,
		moderator *models.InteractionUser,
	) (string, error)
}

// GuildsService keeps locally stored guild metadata in sync with Discord.
type GuildsService interface {
	SyncGuildMetadata(ctx context.Context, guildID models.Snowflake) error
}
