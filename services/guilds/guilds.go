package guilds

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"spectrobackend/clients"
	"spectrobackend/db"
	"spectrobackend/models"
)

// GuildsService refreshes locally stored guild metadata from Discord.
type GuildsService struct {
	guildsRepo    *db.PostgresGuildsRepository
	discordClient clients.DiscordClient
}

func NewGuildsService(guildsRepo *db.PostgresGuildsRepository, discordClient clients.DiscordClient) *GuildsService {
	return &GuildsService{guildsRepo: guildsRepo, discordClient: discordClient}
}

// SyncGuildMetadata fetches the guild from Discord and upserts its name and
// art hashes. Moderation settings on the row are left untouched.
func (s *GuildsService) SyncGuildMetadata(ctx context.Context, guildID models.Snowflake) error {
	log.Printf("📋 Starting to sync metadata for guild %s", guildID)

	discordGuild, err := s.discordClient.GetGuildByID(guildID)
	if err != nil {
		return fmt.Errorf("failed to fetch guild from Discord: %w", err)
	}

	fetchedID, err := strconv.ParseInt(discordGuild.ID, 10, 64)
	if err != nil {
		return fmt.Errorf("failed to parse fetched guild id %q: %w", discordGuild.ID, err)
	}
	if models.Snowflake(fetchedID) != guildID {
		return fmt.Errorf("fetched guild id %s does not match requested %s", discordGuild.ID, guildID)
	}

	guild := &models.Guild{
		ID:         guildID,
		Name:       discordGuild.Name,
		IconHash:   optionalString(discordGuild.IconHash),
		SplashHash: optionalString(discordGuild.SplashHash),
	}
	if err := s.guildsRepo.UpsertGuild(ctx, guild); err != nil {
		return fmt.Errorf("failed to upsert guild metadata: %w", err)
	}

	log.Printf("📋 Completed successfully - synced metadata for guild %s (%s)", guildID, guild.Name)
	return nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
