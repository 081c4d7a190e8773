package dispatcher

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spectrobackend/core"
	"spectrobackend/models"
	"spectrobackend/services/confessions"
)

func setupDispatcher(t *testing.T) (*InteractionDispatcher, *confessions.MockConfessionsService) {
	t.Helper()
	mockService := new(confessions.MockConfessionsService)
	return NewInteractionDispatcher(mockService), mockService
}

func commandInteraction(name string, options []models.CommandOption) *models.Interaction {
	channelID := models.Snowflake(100)
	return &models.Interaction{
		ID:        models.Snowflake(1),
		Token:     "tok",
		Type:      models.InteractionTypeApplicationCommand,
		ChannelID: &channelID,
		Member: &models.GuildMember{
			User: &models.InteractionUser{ID: models.Snowflake(42), Username: "mason"},
		},
		Command: &models.ApplicationCommandData{Name: name, Options: options},
	}
}

func componentInteraction(customID string) *models.Interaction {
	return &models.Interaction{
		ID:    models.Snowflake(2),
		Token: "tok",
		Type:  models.InteractionTypeMessageComponent,
		Member: &models.GuildMember{
			User: &models.InteractionUser{ID: models.Snowflake(77), Username: "mod"},
		},
		Component: &models.MessageComponentData{CustomID: customID},
		Message:   &models.InteractionMessage{ID: models.Snowflake(900), ChannelID: models.Snowflake(901)},
	}
}

func TestDispatchInteraction_PingAlwaysPongs(t *testing.T) {
	dispatcher, mockService := setupDispatcher(t)
	ping := &models.Interaction{ID: models.Snowflake(1), Token: "tok", Type: models.InteractionTypePing}

	// Ping handling touches no business logic and is repeatable
	for i := 0; i < 3; i++ {
		callback, err := dispatcher.DispatchInteraction(context.Background(), time.Now(), ping)
		require.NoError(t, err)
		assert.Equal(t, models.Pong(), callback)
	}

	mockService.AssertExpectations(t)
}

func TestDispatchInteraction_ConfessDelegatesToService(t *testing.T) {
	dispatcher, mockService := setupDispatcher(t)
	now := time.Now()
	options := []models.CommandOption{{Name: "content", Type: 3, Value: "hello"}}
	interaction := commandInteraction("confess", options)

	mockService.On("SubmitConfession",
		mock.Anything, now, models.Snowflake(100), interaction.Invoker(), options).
		Return("Confession #42 submitted.", nil)

	callback, err := dispatcher.DispatchInteraction(context.Background(), now, interaction)

	require.NoError(t, err)
	assert.Equal(t, models.ChannelMessageWithSource("Confession #42 submitted."), callback)
	mockService.AssertExpectations(t)
}

func TestDispatchInteraction_ConfessPropagatesServiceError(t *testing.T) {
	dispatcher, mockService := setupDispatcher(t)
	interaction := commandInteraction("confess", []models.CommandOption{})

	mockService.On("SubmitConfession", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", fmt.Errorf("database unreachable"))

	callback, err := dispatcher.DispatchInteraction(context.Background(), time.Now(), interaction)

	assert.Nil(t, callback)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database unreachable")
}

func TestDispatchInteraction_UnknownCommand(t *testing.T) {
	dispatcher, _ := setupDispatcher(t)
	interaction := commandInteraction("dance", []models.CommandOption{})

	callback, err := dispatcher.DispatchInteraction(context.Background(), time.Now(), interaction)

	assert.Nil(t, callback)
	var unknownErr *core.UnknownCommandError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "dance", unknownErr.Name)
}

func TestDispatchInteraction_UnsupportedType(t *testing.T) {
	dispatcher, _ := setupDispatcher(t)
	interaction := &models.Interaction{ID: models.Snowflake(1), Token: "tok", Type: models.InteractionType(4)}

	callback, err := dispatcher.DispatchInteraction(context.Background(), time.Now(), interaction)

	assert.Nil(t, callback)
	var typeErr *core.UnsupportedInteractionTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, 4, typeErr.Type)
}

func TestDispatchInteraction_CommandMissingDecodedFields(t *testing.T) {
	dispatcher, _ := setupDispatcher(t)
	interaction := commandInteraction("confess", []models.CommandOption{})
	interaction.ChannelID = nil

	callback, err := dispatcher.DispatchInteraction(context.Background(), time.Now(), interaction)

	assert.Nil(t, callback)
	var invariantErr *core.InvariantViolationError
	require.ErrorAs(t, err, &invariantErr)
}

func TestDispatchInteraction_ResendParsesConfessionNumber(t *testing.T) {
	dispatcher, mockService := setupDispatcher(t)
	now := time.Now()
	interaction := commandInteraction("resend",
		[]models.CommandOption{{Name: "confession", Type: 4, Value: "42"}})

	mockService.On("ResendConfession",
		mock.Anything, now, models.Snowflake(100), int64(42), interaction.Invoker()).
		Return("Confession #42 resent.", nil)

	callback, err := dispatcher.DispatchInteraction(context.Background(), now, interaction)

	require.NoError(t, err)
	assert.Equal(t, models.EphemeralMessageWithSource("Confession #42 resent."), callback)
	mockService.AssertExpectations(t)
}

func TestDispatchInteraction_ResendRejectsNonNumericOption(t *testing.T) {
	dispatcher, mockService := setupDispatcher(t)
	interaction := commandInteraction("resend",
		[]models.CommandOption{{Name: "confession", Type: 3, Value: "forty-two"}})

	callback, err := dispatcher.DispatchInteraction(context.Background(), time.Now(), interaction)

	require.NoError(t, err)
	require.NotNil(t, callback.Data)
	assert.Contains(t, callback.Data.Content, "forty-two")
	mockService.AssertNotCalled(t, "ResendConfession",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatchInteraction_PublishComponent(t *testing.T) {
	dispatcher, mockService := setupDispatcher(t)
	now := time.Now()
	internalID := core.NewID("cf")
	interaction := componentInteraction("publish:" + internalID)

	mockService.On("PublishConfession", mock.Anything, now, internalID, interaction.Invoker()).
		Return("Confession #7 published.", nil)

	callback, err := dispatcher.DispatchInteraction(context.Background(), now, interaction)

	require.NoError(t, err)
	assert.Equal(t, models.EphemeralMessageWithSource("Confession #7 published."), callback)
	mockService.AssertExpectations(t)
}

func TestDispatchInteraction_DeleteComponent(t *testing.T) {
	dispatcher, mockService := setupDispatcher(t)
	now := time.Now()
	internalID := core.NewID("cf")
	interaction := componentInteraction("delete:" + internalID)

	mockService.On("DeleteConfession", mock.Anything, now, internalID, interaction.Invoker()).
		Return("Confession deleted.", nil)

	callback, err := dispatcher.DispatchInteraction(context.Background(), now, interaction)

	require.NoError(t, err)
	assert.Equal(t, models.EphemeralMessageWithSource("Confession deleted."), callback)
	mockService.AssertExpectations(t)
}

func TestDispatchInteraction_MalformedCustomID(t *testing.T) {
	dispatcher, mockService := setupDispatcher(t)

	cases := []string{
		"publish",                      // no separator
		"publish:not-a-valid-id",       // payload fails ID validation
		"publish:cf_short",             // truncated ULID
		"detonate:" + core.NewID("cf"), // unknown action
	}

	for _, customID := range cases {
		callback, err := dispatcher.DispatchInteraction(
			context.Background(), time.Now(), componentInteraction(customID))

		assert.Nil(t, callback, "custom id %q", customID)
		var invariantErr *core.InvariantViolationError
		require.ErrorAs(t, err, &invariantErr, "custom id %q", customID)
	}

	mockService.AssertExpectations(t)
}
