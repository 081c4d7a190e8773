package confessions

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"spectrobackend/models"
)

// MockConfessionsService implements the services.ConfessionsService
// interface for testing
type MockConfessionsService struct {
	mock.Mock
}

func (m *MockConfessionsService) SubmitConfession(
	ctx context.Context,
	now time.Time,
	channelID models.Snowflake,
	author *models.InteractionUser,
	options []models.CommandOption,
) (string, error) {
	args := m.Called(ctx, now, channelID, author, options)
	return args.String(0), args.Error(1)
}

func (m *MockConfessionsService) PublishConfession(
	ctx context.Context,
	now time.Time,
	internalID string,
	moderator *models.InteractionUser,
) (string, error) {
	args := m.Called(ctx, now, internalID, moderator)
	return args.String(0), args.Error(1)
}

func (m *MockConfessionsService) DeleteConfession(
	ctx context.Context,
	now time.Time,
	internalID string,
	moderator *models.InteractionUser,
) (string, error) {
	args := m.Called(ctx, now, internalID, moderator)
	return args.String(0), args.Error(1)
}

func (m *MockConfessionsService) ResendConfession(
	ctx context.Context,
	now time.Time,
	channelID models.Snowflake,
	confessionNumber int64,
	moderator *models.InteractionUser,
) (string, error) {
	args := m.Called(ctx, now, channelID, confessionNumber, moderator)
	return args.String(0), args.Error(1)
}
