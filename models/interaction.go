package models

import (
	"encoding/json"
	"fmt"

	"spectrobackend/core"
)

type InteractionType int

const (
	InteractionTypePing               InteractionType = 1
	InteractionTypeApplicationCommand InteractionType = 2
	InteractionTypeMessageComponent   InteractionType = 3
)

type CommandOption struct {
	Name  string `json:"name"`
	Type  int    `json:"type"`
	Value string `json:"value"`
}

type ApplicationCommandData struct {
	Name    string          `json:"name"`
	Options []CommandOption `json:"options"`
}

// Option returns the value of the named command option.
func (d *ApplicationCommandData) Option(name string) (string, bool) {
	for _, opt := range d.Options {
		if opt.Name == name {
			return opt.Value, true
		}
	}
	return "", false
}

type MessageComponentData struct {
	CustomID      string `json:"custom_id"`
	ComponentType int    `json:"component_type"`
}

type InteractionUser struct {
	ID       Snowflake `json:"id"`
	Username string    `json:"username"`
}

type GuildMember struct {
	User *InteractionUser `json:"user"`
}

// InteractionMessage is the subset of the message a component interaction was
// triggered from that this backend needs to locate the log entry.
type InteractionMessage struct {
	ID        Snowflake `json:"id"`
	ChannelID Snowflake `json:"channel_id"`
}

// Interaction is the decoded form of an inbound webhook callback. Exactly one
// of Command and Component is set, matching Type. Decoding is all-or-nothing:
// any variant whose required fields are missing is rejected up front, so
// downstream code may rely on the variant-specific fields being populated.
type Interaction struct {
	ID        Snowflake
	Token     string
	Type      InteractionType
	GuildID   *Snowflake
	ChannelID *Snowflake
	Member    *GuildMember
	Command   *ApplicationCommandData
	Component *MessageComponentData
	Message   *InteractionMessage
}

// Invoker returns the guild member's user, or nil when absent.
func (i *Interaction) Invoker() *InteractionUser {
	if i.Member == nil {
		return nil
	}
	return i.Member.User
}

// wireInteraction mirrors the raw JSON layout before variant validation.
type wireInteraction struct {
	ID        *Snowflake          `json:"id"`
	Token     *string             `json:"token"`
	Type      *int                `json:"type"`
	GuildID   *Snowflake          `json:"guild_id"`
	ChannelID *Snowflake          `json:"channel_id"`
	Member    *GuildMember        `json:"member"`
	Data      json.RawMessage     `json:"data"`
	Message   *InteractionMessage `json:"message"`
}

// ParseInteraction decodes verified JSON bytes into the Interaction tagged
// union. Anything that does not match a known variant's shape fails with a
// *core.ValidationError carrying a diagnostic path.
func ParseInteraction(raw []byte) (*Interaction, error) {
	var wire wireInteraction
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, core.NewValidationError("$", fmt.Sprintf("malformed interaction payload: %v", err))
	}

	if wire.ID == nil {
		return nil, core.NewValidationError("id", "missing interaction id")
	}
	if wire.Token == nil || *wire.Token == "" {
		return nil, core.NewValidationError("token", "missing interaction token")
	}
	if wire.Type == nil {
		return nil, core.NewValidationError("type", "missing interaction type")
	}

	interaction := &Interaction{
		ID:        *wire.ID,
		Token:     *wire.Token,
		Type:      InteractionType(*wire.Type),
		GuildID:   wire.GuildID,
		ChannelID: wire.ChannelID,
		Member:    wire.Member,
		Message:   wire.Message,
	}

	switch interaction.Type {
	case InteractionTypePing:
		return interaction, nil

	case InteractionTypeApplicationCommand:
		if len(wire.Data) == 0 {
			return nil, core.NewValidationError("data", "missing application command data")
		}
		var data ApplicationCommandData
		if err := json.Unmarshal(wire.Data, &data); err != nil {
			return nil, core.NewValidationError("data", fmt.Sprintf("malformed application command data: %v", err))
		}
		if data.Name == "" {
			return nil, core.NewValidationError("data.name", "missing command name")
		}
		if data.Options == nil {
			return nil, core.NewValidationError("data.options", "missing command options")
		}
		if wire.ChannelID == nil {
			return nil, core.NewValidationError("channel_id", "missing channel id")
		}
		if wire.Member == nil || wire.Member.User == nil {
			return nil, core.NewValidationError("member.user", "missing invoking user")
		}
		interaction.Command = &data
		return interaction, nil

	case InteractionTypeMessageComponent:
		if len(wire.Data) == 0 {
			return nil, core.NewValidationError("data", "missing message component data")
		}
		var data MessageComponentData
		if err := json.Unmarshal(wire.Data, &data); err != nil {
			return nil, core.NewValidationError("data", fmt.Sprintf("malformed message component data: %v", err))
		}
		if data.CustomID == "" {
			return nil, core.NewValidationError("data.custom_id", "missing component custom id")
		}
		if wire.Member == nil || wire.Member.User == nil {
			return nil, core.NewValidationError("member.user", "missing invoking user")
		}
		if wire.Message == nil {
			return nil, core.NewValidationError("message", "missing component source message")
		}
		interaction.Component = &data
		return interaction, nil

	default:
		return nil, core.NewValidationError("type", fmt.Sprintf("unknown interaction type %d", *wire.Type))
	}
}
