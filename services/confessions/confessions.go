package confessions

import (
	"context"
	"fmt"
	"log"
	"time"

	"spectrobackend/clients"
	clientdiscord "spectrobackend/clients/discord"
	"spectrobackend/core"
	"spectrobackend/db"
	"spectrobackend/models"
	"spectrobackend/services/txmanager"
)

// ConfessionsService implements the confession moderation workflow on top of
// the persistence layer and the Discord REST client.
type ConfessionsService struct {
	channelsRepo    *db.PostgresChannelsRepository
	confessionsRepo *db.PostgresConfessionsRepository
	guildsRepo      *db.PostgresGuildsRepository
	usersRepo       *db.PostgresUsersRepository
	permissionsRepo *db.PostgresPermissionsRepository
	discordClient   clients.DiscordClient
	txManager       *txmanager.TransactionManager
}

func NewConfessionsService(
	channelsRepo *db.PostgresChannelsRepository,
	confessionsRepo *db.PostgresConfessionsRepository,
	guildsRepo *db.PostgresGuildsRepository,
	usersRepo *db.PostgresUsersRepository,
	permissionsRepo *db.PostgresPermissionsRepository,
	discordClient clients.DiscordClient,
	txManager *txmanager.TransactionManager,
) *ConfessionsService {
	return &ConfessionsService{
		channelsRepo:    channelsRepo,
		confessionsRepo: confessionsRepo,
		guildsRepo:      guildsRepo,
		usersRepo:       usersRepo,
		permissionsRepo: permissionsRepo,
		discordClient:   discordClient,
		txManager:       txManager,
	}
}

// SubmitConfession allocates the next confession number for the channel,
// persists the confession, and either publishes it right away or parks it in
// the guild's moderation log for approval.
func (s *ConfessionsService) SubmitConfession(
	ctx context.Context,
	now time.Time,
	channelID models.Snowflake,
	author *models.InteractionUser,
	options []models.CommandOption,
) (string, error) {
	log.Printf("📋 Starting to submit confession in channel %s by user %s", channelID, author.ID)

	data := models.ApplicationCommandData{Options: options}
	content, ok := data.Option("content")
	if !ok || content == "" {
		return "Your confession is missing its content.", nil
	}

	maybeChannel, err := s.channelsRepo.GetChannelByID(ctx, channelID)
	if err != nil {
		return "", fmt.Errorf("failed to look up channel: %w", err)
	}
	if !maybeChannel.IsPresent() {
		return "This channel is not set up for confessions.", nil
	}
	channel := maybeChannel.MustGet()
	if !channel.Enabled() {
		return "Confessions are currently disabled in this channel.", nil
	}

	if err := s.usersRepo.UpsertUser(ctx, &models.User{ID: author.ID, Name: author.Username}); err != nil {
		return "", fmt.Errorf("failed to upsert confession author: %w", err)
	}

	confession := &models.Confession{
		InternalID: core.NewID("cf"),
		ChannelID:  channel.ID,
		CreatedAt:  now,
		AuthorID:   author.ID,
		Content:    content,
	}
	if !channel.IsApprovalRequired {
		approvedAt := now
		confession.ApprovedAt = &approvedAt
	}

	// Number allocation and insert share one transaction so the public
	// numbering stays gapless under concurrent submissions.
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		confessionNumber, err := s.channelsRepo.AllocateConfessionNumber(txCtx, channel.ID)
		if err != nil {
			return err
		}
		confession.ConfessionID = confessionNumber
		return s.confessionsRepo.CreateConfession(txCtx, confession)
	})
	if err != nil {
		return "", fmt.Errorf("failed to persist confession: %w", err)
	}

	if channel.IsApprovalRequired {
		s.logPendingConfession(ctx, now, channel, confession)
		log.Printf("📋 Completed successfully - confession %s pending approval", confession.InternalID)
		return fmt.Sprintf("%s #%d submitted for approval.", channel.Label, confession.ConfessionID), nil
	}

	if err := s.publishToChannel(ctx, now, channel, confession, nil); err != nil {
		return "", fmt.Errorf("failed to publish confession: %w", err)
	}
	s.logModeration(ctx, channel, func(logChannelID models.Snowflake) (*models.CreateMessage, error) {
		return clientdiscord.BuildApprovedLogMessage(
			now, confession.ConfessionID, confession.AuthorID,
			channel.Label, confession.Content, confession.Attachment())
	})

	log.Printf("📋 Completed successfully - confession %s published as #%d", confession.InternalID, confession.ConfessionID)
	return fmt.Sprintf("%s #%d submitted.", channel.Label, confession.ConfessionID), nil
}

// PublishConfession approves a pending confession and posts it to its
// channel. Triggered by the Publish button on the moderation log.
func (s *ConfessionsService) PublishConfession(
	ctx context.Context,
	now time.Time,
	internalID string,
	moderator *models.InteractionUser,
) (string, error) {
	log.Printf("📋 Starting to publish confession %s by moderator %s", internalID, moderator.ID)

	confession, channel, refusal, err := s.loadModerationTarget(ctx, internalID, moderator)
	if err != nil || refusal != "" {
		return refusal, err
	}

	if confession.Approved() {
		return fmt.Sprintf("%s #%d was already published.", channel.Label, confession.ConfessionID), nil
	}

	approved, err := s.confessionsRepo.ApproveConfession(ctx, internalID, now)
	if err != nil {
		return "", fmt.Errorf("failed to approve confession: %w", err)
	}
	if !approved {
		return fmt.Sprintf("%s #%d was already published.", channel.Label, confession.ConfessionID), nil
	}

	if err := s.publishToChannel(ctx, now, channel, confession, nil); err != nil {
		return "", fmt.Errorf("failed to publish confession: %w", err)
	}
	if ref := confession.LogRef(); ref != nil {
		s.updateLogToApproved(ctx, now, channel, confession, *ref)
	} else {
		s.logModeration(ctx, channel, func(logChannelID models.Snowflake) (*models.CreateMessage, error) {
			return clientdiscord.BuildApprovedLogMessage(
				now, confession.ConfessionID, confession.AuthorID,
				channel.Label, confession.Content, confession.Attachment())
		})
	}

	log.Printf("📋 Completed successfully - confession %s published", internalID)
	return fmt.Sprintf("%s #%d published.", channel.Label, confession.ConfessionID), nil
}

// DeleteConfession removes a pending confession. Triggered by the Delete
// button on the moderation log.
func (s *ConfessionsService) DeleteConfession(
	ctx context.Context,
	now time.Time,
	internalID string,
	moderator *models.InteractionUser,
) (string, error) {
	log.Printf("📋 Starting to delete confession %s by moderator %s", internalID, moderator.ID)

	confession, channel, refusal, err := s.loadModerationTarget(ctx, internalID, moderator)
	if err != nil || refusal != "" {
		return refusal, err
	}

	deleted, err := s.confessionsRepo.DeleteConfessionByInternalID(ctx, internalID)
	if err != nil {
		return "", fmt.Errorf("failed to delete confession: %w", err)
	}
	if !deleted {
		return "That confession log no longer exists.", nil
	}

	// Best-effort cleanup of the log entry carrying the now-dead buttons
	if ref := confession.LogRef(); ref != nil {
		if err := s.discordClient.DeleteMessage(ctx, ref.ChannelID, ref.MessageID); err != nil {
			log.Printf("❌ Failed to remove confession log message %s: %v", ref.MessageID, err)
		}
	}

	log.Printf("📋 Completed successfully - confession %s deleted", internalID)
	return fmt.Sprintf("%s #%d deleted.", channel.Label, confession.ConfessionID), nil
}

// ResendConfession re-posts an already approved confession to its channel
// and records the acting moderator in the log.
func (s *ConfessionsService) ResendConfession(
	ctx context.Context,
	now time.Time,
	channelID models.Snowflake,
	confessionNumber int64,
	moderator *models.InteractionUser,
) (string, error) {
	log.Printf("📋 Starting to resend confession #%d in channel %s by moderator %s",
		confessionNumber, channelID, moderator.ID)

	maybeChannel, err := s.channelsRepo.GetChannelByID(ctx, channelID)
	if err != nil {
		return "", fmt.Errorf("failed to look up channel: %w", err)
	}
	if !maybeChannel.IsPresent() {
		return "This channel is not set up for confessions.", nil
	}
	channel := maybeChannel.MustGet()

	isModerator, err := s.isModerator(ctx, channel.GuildID, moderator.ID)
	if err != nil {
		return "", err
	}
	if !isModerator {
		return "You are not allowed to moderate confessions in this guild.", nil
	}

	maybeConfession, err := s.confessionsRepo.GetConfessionByChannelAndNumber(ctx, channelID, confessionNumber)
	if err != nil {
		return "", fmt.Errorf("failed to look up confession: %w", err)
	}
	if !maybeConfession.IsPresent() {
		return fmt.Sprintf("%s #%d does not exist in this channel.", channel.Label, confessionNumber), nil
	}
	confession := maybeConfession.MustGet()
	if !confession.Approved() {
		return fmt.Sprintf("%s #%d is still awaiting approval.", channel.Label, confessionNumber), nil
	}

	if err := s.publishToChannel(ctx, now, channel, confession, nil); err != nil {
		return "", fmt.Errorf("failed to resend confession: %w", err)
	}
	s.logModeration(ctx, channel, func(logChannelID models.Snowflake) (*models.CreateMessage, error) {
		return clientdiscord.BuildResentLogMessage(
			now, confession.ConfessionID, confession.AuthorID, moderator.ID,
			channel.Label, confession.Content, confession.Attachment())
	})

	log.Printf("📋 Completed successfully - confession #%d resent", confessionNumber)
	return fmt.Sprintf("%s #%d resent.", channel.Label, confessionNumber), nil
}

// loadModerationTarget resolves a button's confession together with its
// channel and enforces the moderator permission. A non-empty refusal string
// means the caller should return it to the user verbatim.
func (s *ConfessionsService) loadModerationTarget(
	ctx context.Context,
	internalID string,
	moderator *models.InteractionUser,
) (*models.Confession, *models.Channel, string, error) {
	maybeConfession, err := s.confessionsRepo.GetConfessionByInternalID(ctx, internalID)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to look up confession: %w", err)
	}
	if !maybeConfession.IsPresent() {
		return nil, nil, "That confession log no longer exists.", nil
	}
	confession := maybeConfession.MustGet()

	maybeChannel, err := s.channelsRepo.GetChannelByID(ctx, confession.ChannelID)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to look up channel: %w", err)
	}
	if !maybeChannel.IsPresent() {
		return nil, nil, "The confession's channel is no longer configured.", nil
	}
	channel := maybeChannel.MustGet()

	isModerator, err := s.isModerator(ctx, channel.GuildID, moderator.ID)
	if err != nil {
		return nil, nil, "", err
	}
	if !isModerator {
		return nil, nil, "You are not allowed to moderate confessions in this guild.", nil
	}

	return confession, channel, "", nil
}

func (s *ConfessionsService) isModerator(
	ctx context.Context,
	guildID, userID models.Snowflake,
) (bool, error) {
	maybePermission, err := s.permissionsRepo.GetPermission(ctx, guildID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to look up permission: %w", err)
	}
	return maybePermission.IsPresent() && maybePermission.MustGet().IsAdmin, nil
}

// publishToChannel posts the public confession embed. Platform rejections
// propagate to the caller; retrying is the caller's decision.
func (s *ConfessionsService) publishToChannel(
	ctx context.Context,
	now time.Time,
	channel *models.Channel,
	confession *models.Confession,
	replyToMessageID *models.Snowflake,
) error {
	message, err := clientdiscord.BuildConfessionMessage(
		now, confession.ConfessionID, channel.Label, 0,
		confession.Content, replyToMessageID, confession.Attachment())
	if err != nil {
		return err
	}

	if _, err := s.discordClient.CreateMessage(ctx, channel.ID, message); err != nil {
		return err
	}
	return nil
}

// logPendingConfession posts the reviewable log entry and persists its
// handle so the Publish/Delete buttons can find it later. Best-effort: a
// failed log never rolls back the submission.
func (s *ConfessionsService) logPendingConfession(
	ctx context.Context,
	now time.Time,
	channel *models.Channel,
	confession *models.Confession,
) {
	logChannelID, ok := s.guildLogChannel(ctx, channel.GuildID)
	if !ok {
		return
	}

	message, err := clientdiscord.BuildPendingLogMessage(
		now, confession.InternalID, confession.ConfessionID, confession.AuthorID,
		channel.Label, confession.Content, confession.Attachment())
	if err != nil {
		log.Printf("❌ Failed to build pending log message: %v", err)
		return
	}

	created, err := s.discordClient.CreateMessage(ctx, logChannelID, message)
	if err != nil {
		log.Printf("❌ Failed to post pending confession log: %v", err)
		return
	}

	ref := models.ChannelMessageRef{ChannelID: created.ChannelID, MessageID: created.ID}
	if err := s.confessionsRepo.SetConfessionLogRef(ctx, confession.InternalID, ref); err != nil {
		log.Printf("❌ Failed to persist confession log ref: %v", err)
	}
}

// updateLogToApproved rewrites the pending log entry into its approved form,
// dropping the Publish/Delete buttons. Best-effort: the confession is already
// published, so a failed edit is only logged.
func (s *ConfessionsService) updateLogToApproved(
	ctx context.Context,
	now time.Time,
	channel *models.Channel,
	confession *models.Confession,
	ref models.ChannelMessageRef,
) {
	edit, err := clientdiscord.BuildApprovedLogEdit(
		now, confession.ConfessionID, confession.AuthorID,
		channel.Label, confession.Content, confession.Attachment())
	if err != nil {
		log.Printf("❌ Failed to build approved log edit: %v", err)
		return
	}

	if _, err := s.discordClient.EditMessage(ctx, ref.ChannelID, ref.MessageID, edit); err != nil {
		log.Printf("❌ Failed to update confession log message %s: %v", ref.MessageID, err)
	}
}

// logModeration posts a moderation-log entry built by the given constructor.
// Best-effort: failures are logged and swallowed.
func (s *ConfessionsService) logModeration(
	ctx context.Context,
	channel *models.Channel,
	build func(logChannelID models.Snowflake) (*models.CreateMessage, error),
) {
	logChannelID, ok := s.guildLogChannel(ctx, channel.GuildID)
	if !ok {
		return
	}

	message, err := build(logChannelID)
	if err != nil {
		log.Printf("❌ Failed to build moderation log message: %v", err)
		return
	}

	if _, err := s.discordClient.CreateMessage(ctx, logChannelID, message); err != nil {
		log.Printf("❌ Failed to post moderation log: %v", err)
	}
}

func (s *ConfessionsService) guildLogChannel(
	ctx context.Context,
	guildID models.Snowflake,
) (models.Snowflake, bool) {
	maybeGuild, err := s.guildsRepo.GetGuildByID(ctx, guildID)
	if err != nil {
		log.Printf("❌ Failed to look up guild %s for moderation log: %v", guildID, err)
		return 0, false
	}
	if !maybeGuild.IsPresent() || maybeGuild.MustGet().LogChannelID == nil {
		return 0, false
	}
	return *maybeGuild.MustGet().LogChannelID, true
}
