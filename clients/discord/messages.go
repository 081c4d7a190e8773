package discord

import (
	"fmt"
	"strings"
	"time"

	"spectrobackend/core"
	"spectrobackend/models"
	"spectrobackend/utils"
)

const (
	appIconURL         = "https://spectro.fly.dev/favicon.png"
	confessionFooter   = "Admins can access Spectro's confession logs"
	moderationFooter   = "Spectro Logs"
	colorPendingLog    = 0xf1c40f
	colorApprovedLog   = 0x2ecc71
	colorResentLog     = 0x3498db
	publishButtonEmoji = "✒️"
	deleteButtonEmoji  = "\U0001f5d1️"
)

// AttachmentField synthesizes the embed field for a generic attachment. The
// field name derives from the MIME primary type, e.g. "audio/mpeg" becomes
// "Audio Attachment". A content type that does not split into exactly two
// parts is a decoder contract breach, not user input.
func AttachmentField(attachment *models.EmbedAttachment) (models.EmbedField, error) {
	parts := strings.Split(attachment.ContentType, "/")
	if len(parts) != 2 {
		return models.EmbedField{}, core.NewInvariantViolation(
			fmt.Sprintf("malformed attachment content type %q", attachment.ContentType))
	}

	return models.EmbedField{
		Name:   utils.CapitalizeASCII(parts[0]) + " Attachment",
		Value:  attachment.URL,
		Inline: true,
	}, nil
}

// applyAttachment attaches an image inline or appends a generic attachment
// field, depending on the declared content type's primary type.
func applyAttachment(embed *models.Embed, attachment *models.EmbedAttachment) error {
	if attachment == nil {
		return nil
	}

	if strings.HasPrefix(attachment.ContentType, "image/") {
		embed.Image = &models.EmbedImage{
			URL:    attachment.URL,
			Width:  attachment.Width,
			Height: attachment.Height,
		}
		return nil
	}

	field, err := AttachmentField(attachment)
	if err != nil {
		return err
	}
	embed.Fields = append(embed.Fields, field)
	return nil
}

// BuildConfessionMessage constructs the public confession embed, used both
// for the live post and for moderator resends.
func BuildConfessionMessage(
	timestamp time.Time,
	confessionID int64,
	label string,
	color int,
	description string,
	replyToMessageID *models.Snowflake,
	attachment *models.EmbedAttachment,
) (*models.CreateMessage, error) {
	ts := timestamp
	embed := models.Embed{
		Type:        models.EmbedTypeRich,
		Title:       fmt.Sprintf("%s #%d", label, confessionID),
		Description: description,
		Timestamp:   &ts,
		Color:       color,
		Footer: &models.EmbedFooter{
			Text:    confessionFooter,
			IconURL: appIconURL,
		},
	}

	if err := applyAttachment(&embed, attachment); err != nil {
		return nil, err
	}

	message := &models.CreateMessage{Embeds: []models.Embed{embed}}
	if replyToMessageID != nil {
		// Best-effort reference: a deleted original must not break the reply.
		message.MessageReference = &models.MessageReference{
			Type:            models.MessageReferenceTypeDefault,
			MessageID:       *replyToMessageID,
			FailIfNotExists: false,
		}
	}

	return message, nil
}

// BuildPendingLogMessage constructs the moderation-log entry for a
// confession awaiting approval, with Publish/Delete action buttons keyed by
// the confession's durable internal ID.
func BuildPendingLogMessage(
	timestamp time.Time,
	internalID string,
	confessionID int64,
	authorID models.Snowflake,
	label string,
	description string,
	attachment *models.EmbedAttachment,
) (*models.CreateMessage, error) {
	message, err := buildLogMessage(timestamp, confessionID, authorID, label, description, colorPendingLog, attachment, nil)
	if err != nil {
		return nil, err
	}

	message.Components = []models.ActionRow{{
		Type: models.ComponentTypeActionRow,
		Components: []models.Button{
			{
				Type:     models.ComponentTypeButton,
				Style:    models.ButtonStyleSuccess,
				Label:    "Publish",
				Emoji:    &models.ComponentEmoji{Name: publishButtonEmoji},
				CustomID: "publish:" + internalID,
			},
			{
				Type:     models.ComponentTypeButton,
				Style:    models.ButtonStyleDanger,
				Label:    "Delete",
				Emoji:    &models.ComponentEmoji{Name: deleteButtonEmoji},
				CustomID: "delete:" + internalID,
			},
		},
	}}

	return message, nil
}

// BuildApprovedLogMessage constructs the moderation-log entry for a
// confession that cleared review. Same shape as pending, no buttons.
func BuildApprovedLogMessage(
	timestamp time.Time,
	confessionID int64,
	authorID models.Snowflake,
	label string,
	description string,
	attachment *models.EmbedAttachment,
) (*models.CreateMessage, error) {
	return buildLogMessage(timestamp, confessionID, authorID, label, description, colorApprovedLog, attachment, nil)
}

// BuildApprovedLogEdit rewrites a pending log entry in place once the
// confession clears review. The empty components slice clears the
// Publish/Delete buttons off the original message.
func BuildApprovedLogEdit(
	timestamp time.Time,
	confessionID int64,
	authorID models.Snowflake,
	label string,
	description string,
	attachment *models.EmbedAttachment,
) (*models.EditMessage, error) {
	message, err := BuildApprovedLogMessage(timestamp, confessionID, authorID, label, description, attachment)
	if err != nil {
		return nil, err
	}

	return &models.EditMessage{
		Embeds:          message.Embeds,
		Components:      []models.ActionRow{},
		AllowedMentions: message.AllowedMentions,
	}, nil
}

// BuildResentLogMessage constructs the moderation-log entry for a confession
// a moderator re-dispatched, naming the moderator in a second field.
func BuildResentLogMessage(
	timestamp time.Time,
	confessionID int64,
	authorID models.Snowflake,
	moderatorID models.Snowflake,
	label string,
	description string,
	attachment *models.EmbedAttachment,
) (*models.CreateMessage, error) {
	resentBy := &models.EmbedField{
		Name:   "Resent by",
		Value:  utils.Mention(moderatorID.String()),
		Inline: true,
	}
	return buildLogMessage(timestamp, confessionID, authorID, label, description, colorResentLog, attachment, resentBy)
}

func buildLogMessage(
	timestamp time.Time,
	confessionID int64,
	authorID models.Snowflake,
	label string,
	description string,
	color int,
	attachment *models.EmbedAttachment,
	extraField *models.EmbedField,
) (*models.CreateMessage, error) {
	// The author stays behind a spoiler so logs do not reveal identities at
	// a glance; the allowed-mentions whitelist keeps @everyone/@here inert
	// even when the confession text contains them.
	fields := []models.EmbedField{{
		Name:   "Authored by",
		Value:  utils.SpoilerMention(authorID.String()),
		Inline: true,
	}}
	if extraField != nil {
		fields = append(fields, *extraField)
	}

	ts := timestamp
	embed := models.Embed{
		Type:        models.EmbedTypeRich,
		Title:       fmt.Sprintf("%s #%d", label, confessionID),
		Description: description,
		Timestamp:   &ts,
		Color:       color,
		Footer: &models.EmbedFooter{
			Text:    moderationFooter,
			IconURL: appIconURL,
		},
		Fields: fields,
	}

	// Log entries always render attachments as a field, never inline.
	if attachment != nil {
		field, err := AttachmentField(attachment)
		if err != nil {
			return nil, err
		}
		embed.Fields = append(embed.Fields, field)
	}

	return &models.CreateMessage{
		Flags:           models.MessageFlagSuppressNotifications,
		AllowedMentions: &models.AllowedMentions{Parse: []models.AllowedMentionType{models.AllowedMentionTypeUsers}},
		Embeds:          []models.Embed{embed},
	}, nil
}
