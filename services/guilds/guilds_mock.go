package guilds

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spectrobackend/models"
)

// MockGuildsService implements the services.GuildsService interface for
// testing
type MockGuildsService struct {
	mock.Mock
}

func (m *MockGuildsService) SyncGuildMetadata(ctx context.Context, guildID models.Snowflake) error {
	args := m.Called(ctx, guildID)
	return args.Error(0)
}
