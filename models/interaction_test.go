package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spectrobackend/core"
)

const validCommandPayload = `{
	"id": "846462639134605312",
	"token": "interaction-token",
	"type": 2,
	"guild_id": "197038439483310086",
	"channel_id": "77016515331928064",
	"member": {"user": {"id": "53908232506183680", "username": "mason"}},
	"data": {"name": "confess", "options": [{"name": "content", "type": 3, "value": "hello"}]}
}`

func TestParseInteraction_Ping(t *testing.T) {
	interaction, err := ParseInteraction([]byte(`{"id":"1","token":"tok","type":1}`))

	require.NoError(t, err)
	assert.Equal(t, InteractionTypePing, interaction.Type)
	assert.Equal(t, Snowflake(1), interaction.ID)
	assert.Equal(t, "tok", interaction.Token)
	assert.Nil(t, interaction.Command)
	assert.Nil(t, interaction.Component)
}

func TestParseInteraction_ApplicationCommand(t *testing.T) {
	interaction, err := ParseInteraction([]byte(validCommandPayload))

	require.NoError(t, err)
	assert.Equal(t, InteractionTypeApplicationCommand, interaction.Type)
	require.NotNil(t, interaction.Command)
	assert.Equal(t, "confess", interaction.Command.Name)

	value, ok := interaction.Command.Option("content")
	require.True(t, ok)
	assert.Equal(t, "hello", value)

	_, ok = interaction.Command.Option("missing")
	assert.False(t, ok)

	require.NotNil(t, interaction.ChannelID)
	assert.Equal(t, Snowflake(77016515331928064), *interaction.ChannelID)
	require.NotNil(t, interaction.Invoker())
	assert.Equal(t, Snowflake(53908232506183680), interaction.Invoker().ID)
	require.NotNil(t, interaction.GuildID)
	assert.Equal(t, Snowflake(197038439483310086), *interaction.GuildID)
}

func TestParseInteraction_MessageComponent(t *testing.T) {
	payload := `{
		"id": "2",
		"token": "tok",
		"type": 3,
		"member": {"user": {"id": "42", "username": "mod"}},
		"message": {"id": "900", "channel_id": "901"},
		"data": {"custom_id": "publish:cf_01G0EZ1XTM37C5X11SQTDNCTM1", "component_type": 2}
	}`

	interaction, err := ParseInteraction([]byte(payload))

	require.NoError(t, err)
	assert.Equal(t, InteractionTypeMessageComponent, interaction.Type)
	require.NotNil(t, interaction.Component)
	assert.Equal(t, "publish:cf_01G0EZ1XTM37C5X11SQTDNCTM1", interaction.Component.CustomID)
	require.NotNil(t, interaction.Message)
	assert.Equal(t, Snowflake(900), interaction.Message.ID)
	assert.Equal(t, Snowflake(901), interaction.Message.ChannelID)
}

func TestParseInteraction_RejectionPaths(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		path    string
	}{
		{"not json", `{"id":`, "$"},
		{"missing id", `{"token":"tok","type":1}`, "id"},
		{"missing token", `{"id":"1","type":1}`, "token"},
		{"empty token", `{"id":"1","token":"","type":1}`, "token"},
		{"missing type", `{"id":"1","token":"tok"}`, "type"},
		{"unknown type", `{"id":"1","token":"tok","type":99}`, "type"},
		{
			"command without data",
			`{"id":"1","token":"tok","type":2}`,
			"data",
		},
		{
			"command without name",
			`{"id":"1","token":"tok","type":2,"channel_id":"5","member":{"user":{"id":"9"}},"data":{"options":[]}}`,
			"data.name",
		},
		{
			"command without options",
			`{"id":"1","token":"tok","type":2,"channel_id":"5","member":{"user":{"id":"9"}},"data":{"name":"confess"}}`,
			"data.options",
		},
		{
			"command without channel",
			`{"id":"1","token":"tok","type":2,"member":{"user":{"id":"9"}},"data":{"name":"confess","options":[]}}`,
			"channel_id",
		},
		{
			"command without invoker",
			`{"id":"1","token":"tok","type":2,"channel_id":"5","data":{"name":"confess","options":[]}}`,
			"member.user",
		},
		{
			"component without custom id",
			`{"id":"1","token":"tok","type":3,"member":{"user":{"id":"9"}},"message":{"id":"2","channel_id":"3"},"data":{"component_type":2}}`,
			"data.custom_id",
		},
		{
			"component without invoker",
			`{"id":"1","token":"tok","type":3,"message":{"id":"2","channel_id":"3"},"data":{"custom_id":"x:y"}}`,
			"member.user",
		},
		{
			"component without source message",
			`{"id":"1","token":"tok","type":3,"member":{"user":{"id":"9"}},"data":{"custom_id":"x:y"}}`,
			"message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interaction, err := ParseInteraction([]byte(tt.payload))

			assert.Nil(t, interaction)
			require.Error(t, err)
			var validationErr *core.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.path, validationErr.Path)
		})
	}
}

func TestInteraction_InvokerNilSafety(t *testing.T) {
	interaction := &Interaction{}
	assert.Nil(t, interaction.Invoker())

	interaction.Member = &GuildMember{}
	assert.Nil(t, interaction.Invoker())
}
