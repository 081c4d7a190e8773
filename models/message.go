package models

import "time"

type MessageFlags int

const (
	MessageFlagEphemeral             MessageFlags = 1 << 6
	MessageFlagSuppressNotifications MessageFlags = 1 << 12
)

type EmbedType string

const EmbedTypeRich EmbedType = "rich"

type EmbedFooter struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

type EmbedImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type Embed struct {
	Type        EmbedType    `json:"type,omitempty"`
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Timestamp   *time.Time   `json:"timestamp,omitempty"`
	Color       int          `json:"color,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Image       *EmbedImage  `json:"image,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

// EmbedAttachment describes a file the confession author attached. The
// content type decides between an inline image embed and a generic
// "Attachment" field.
type EmbedAttachment struct {
	URL         string
	ContentType string
	Width       int
	Height      int
}

type AllowedMentionType string

const AllowedMentionTypeUsers AllowedMentionType = "users"

type AllowedMentions struct {
	Parse []AllowedMentionType `json:"parse"`
}

type MessageReferenceType int

const MessageReferenceTypeDefault MessageReferenceType = 0

// MessageReference threads a reply onto an existing message. References are
// best-effort: fail_if_not_exists stays false so a deleted original does not
// break the reply.
type MessageReference struct {
	Type            MessageReferenceType `json:"type"`
	MessageID       Snowflake            `json:"message_id"`
	FailIfNotExists bool                 `json:"fail_if_not_exists"`
}

type ComponentType int

const (
	ComponentTypeActionRow ComponentType = 1
	ComponentTypeButton    ComponentType = 2
)

type ButtonStyle int

const (
	ButtonStylePrimary ButtonStyle = 1
	ButtonStyleSuccess ButtonStyle = 3
	ButtonStyleDanger  ButtonStyle = 4
	ButtonStyleLink    ButtonStyle = 5
)

type ComponentEmoji struct {
	Name string `json:"name"`
}

type Button struct {
	Type     ComponentType   `json:"type"`
	Style    ButtonStyle     `json:"style"`
	Label    string          `json:"label,omitempty"`
	Emoji    *ComponentEmoji `json:"emoji,omitempty"`
	CustomID string          `json:"custom_id,omitempty"`
	URL      string          `json:"url,omitempty"`
}

type ActionRow struct {
	Type       ComponentType `json:"type"`
	Components []Button      `json:"components"`
}

// CreateMessage is the payload for POST /channels/{id}/messages.
type CreateMessage struct {
	Embeds           []Embed           `json:"embeds,omitempty"`
	Components       []ActionRow       `json:"components,omitempty"`
	MessageReference *MessageReference `json:"message_reference,omitempty"`
	Flags            MessageFlags      `json:"flags,omitempty"`
	AllowedMentions  *AllowedMentions  `json:"allowed_mentions,omitempty"`
}

// EditMessage is the payload for PATCH /channels/{id}/messages/{mid}.
// Embeds and components serialize even when empty so an edit can clear the
// action buttons off an existing log entry.
type EditMessage struct {
	Embeds          []Embed          `json:"embeds"`
	Components      []ActionRow      `json:"components"`
	AllowedMentions *AllowedMentions `json:"allowed_mentions,omitempty"`
}

// Message is the subset of Discord's message object this backend reads back
// from a successful create call.
type Message struct {
	ID        Snowflake `json:"id"`
	ChannelID Snowflake `json:"channel_id"`
}

// ChannelMessageRef is the durable handle persisted alongside a pending
// confession so moderation actions can later locate its log message.
type ChannelMessageRef struct {
	ChannelID Snowflake
	MessageID Snowflake
}
