package models

import "time"

type User struct {
	ID         Snowflake `db:"id"          json:"id"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	Name       string    `db:"name"        json:"name"`
	AvatarHash *string   `db:"avatar_hash" json:"avatar_hash"`
}

type Guild struct {
	ID           Snowflake  `db:"id"             json:"id"`
	CreatedAt    time.Time  `db:"created_at"     json:"created_at"`
	Name         string     `db:"name"           json:"name"`
	IconHash     *string    `db:"icon_hash"      json:"icon_hash"`
	SplashHash   *string    `db:"splash_hash"    json:"splash_hash"`
	LogChannelID *Snowflake `db:"log_channel_id" json:"log_channel_id"`
}

type Permission struct {
	GuildID Snowflake `db:"guild_id" json:"guild_id"`
	UserID  Snowflake `db:"user_id"  json:"user_id"`
	IsAdmin bool      `db:"is_admin" json:"is_admin"`
}

// Channel is a guild channel that accepts confessions. LastConfessionID is
// the per-channel counter behind the public sequential numbering.
type Channel struct {
	ID                 Snowflake  `db:"id"                   json:"id"`
	GuildID            Snowflake  `db:"guild_id"             json:"guild_id"`
	LastConfessionID   int64      `db:"last_confession_id"   json:"last_confession_id"`
	DisabledAt         *time.Time `db:"disabled_at"          json:"disabled_at"`
	IsApprovalRequired bool       `db:"is_approval_required" json:"is_approval_required"`
	Label              string     `db:"label"                json:"label"`
}

// Enabled reports whether the channel currently accepts confessions.
func (c *Channel) Enabled() bool {
	return c.DisabledAt == nil
}

// Confession is one anonymous submission. InternalID is the durable key used
// in button custom IDs; ConfessionID is the public per-channel number shown
// in embed titles. The two are distinct so that button callbacks stay valid
// even if the visible numbering changes.
type Confession struct {
	InternalID            string     `db:"internal_id"             json:"internal_id"`
	ChannelID             Snowflake  `db:"channel_id"              json:"channel_id"`
	ConfessionID          int64      `db:"confession_id"           json:"confession_id"`
	CreatedAt             time.Time  `db:"created_at"              json:"created_at"`
	AuthorID              Snowflake  `db:"author_id"               json:"author_id"`
	Content               string     `db:"content"                 json:"content"`
	AttachmentURL         *string    `db:"attachment_url"          json:"attachment_url"`
	AttachmentContentType *string    `db:"attachment_content_type" json:"attachment_content_type"`
	ApprovedAt            *time.Time `db:"approved_at"             json:"approved_at"`
	LogChannelID          *Snowflake `db:"log_channel_id"          json:"log_channel_id"`
	LogMessageID          *Snowflake `db:"log_message_id"          json:"log_message_id"`
}

// Approved reports whether the confession has cleared moderation.
func (c *Confession) Approved() bool {
	return c.ApprovedAt != nil
}

// Attachment converts the stored attachment columns back into the embed
// attachment shape, or nil when the confession had none.
func (c *Confession) Attachment() *EmbedAttachment {
	if c.AttachmentURL == nil {
		return nil
	}
	attachment := &EmbedAttachment{URL: *c.AttachmentURL}
	if c.AttachmentContentType != nil {
		attachment.ContentType = *c.AttachmentContentType
	}
	return attachment
}

// LogRef returns the persisted log-message handle, if any.
func (c *Confession) LogRef() *ChannelMessageRef {
	if c.LogChannelID == nil || c.LogMessageID == nil {
		return nil
	}
	return &ChannelMessageRef{ChannelID: *c.LogChannelID, MessageID: *c.LogMessageID}
}
