package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"module-owner-service/internal/domain"
)

// EventUseCase мок domain.EventUseCase.
type EventUseCase struct {
	mock.Mock
}

func (m *EventUseCase) HandleEvent(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// OwnerUseCase мок domain.OwnerUseCase.
type OwnerUseCase struct {
	mock.Mock
}

func (m *OwnerUseCase) OwnerStatus(ctx context.Context, changeID, revision, accountID string) (string, error) {
	args := m.Called(ctx, changeID, revision, accountID)
	return args.String(0), args.Error(1)
}

func (m *OwnerUseCase) CheckSubmit(ctx context.Context, changeID, revision, accountID string) error {
	args := m.Called(ctx, changeID, revision, accountID)
	return args.Error(0)
}

func (m *OwnerUseCase) ListOwners(ctx context.Context, project string) (map[string][]string, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]string), args.Error(1)
}

func (m *OwnerUseCase) InvalidateConfig(project, ref string) {
	m.Called(project, ref)
}
