package dispatcher

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"spectrobackend/models"
)

// MockDispatcherService implements the services.DispatcherService interface
// for testing
type MockDispatcherService struct {
	mock.Mock
}

func (m *MockDispatcherService) DispatchInteraction(
	ctx context.Context,
	now time.Time,
	interaction *models.Interaction,
) (*models.InteractionCallback, error) {
	args := m.Called(ctx, now, interaction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InteractionCallback), args.Error(1)
}
