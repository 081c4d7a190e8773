package models

type InteractionCallbackType int

const (
	InteractionCallbackTypePong                             InteractionCallbackType = 1
	InteractionCallbackTypeChannelMessageWithSource         InteractionCallbackType = 4
	InteractionCallbackTypeDeferredChannelMessageWithSource InteractionCallbackType = 5
)

type InteractionCallbackData struct {
	Content string       `json:"content,omitempty"`
	Flags   MessageFlags `json:"flags,omitempty"`
}

// InteractionCallback is the single response sent back for an interaction.
// Construct it through Pong, ChannelMessageWithSource,
// EphemeralMessageWithSource or DeferredChannelMessageWithSource so a
// callback never carries both a message body and a defer flag.
type InteractionCallback struct {
	Type InteractionCallbackType  `json:"type"`
	Data *InteractionCallbackData `json:"data,omitempty"`
}

func Pong() *InteractionCallback {
	return &InteractionCallback{Type: InteractionCallbackTypePong}
}

func ChannelMessageWithSource(content string) *InteractionCallback {
	return &InteractionCallback{
		Type: InteractionCallbackTypeChannelMessageWithSource,
		Data: &InteractionCallbackData{Content: content},
	}
}

// EphemeralMessageWithSource responds with a message only the invoking user
// can see. Used for moderation button feedback.
func EphemeralMessageWithSource(content string) *InteractionCallback {
	return &InteractionCallback{
		Type: InteractionCallbackTypeChannelMessageWithSource,
		Data: &InteractionCallbackData{Content: content, Flags: MessageFlagEphemeral},
	}
}

func DeferredChannelMessageWithSource(flags MessageFlags) *InteractionCallback {
	return &InteractionCallback{
		Type: InteractionCallbackTypeDeferredChannelMessageWithSource,
		Data: &InteractionCallbackData{Flags: flags},
	}
}
