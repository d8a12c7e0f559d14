package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/guildledger/internal/event"
)

// MockPublisher implements event.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, evt event.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}
