package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"module-owner-service/internal/domain"
)

// AccountRepository мок domain.AccountRepository.
type AccountRepository struct {
	mock.Mock
}

func (m *AccountRepository) GetByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *AccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *AccountRepository) GetGroupByName(ctx context.Context, name string) (*domain.Group, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *AccountRepository) IsActive(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *AccountRepository) GroupsOf(ctx context.Context, accountID string) ([]string, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *AccountRepository) MembersOf(ctx context.Context, groupID string) ([]string, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// ChangeRepository мок domain.ChangeRepository.
type ChangeRepository struct {
	mock.Mock
}

func (m *ChangeRepository) GetByID(ctx context.Context, changeID string) (*domain.Change, error) {
	args := m.Called(ctx, changeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Change), args.Error(1)
}

func (m *ChangeRepository) GetPatchSet(ctx context.Context, changeID string, number int) (*domain.PatchSet, error) {
	args := m.Called(ctx, changeID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PatchSet), args.Error(1)
}

func (m *ChangeRepository) AddReviewer(ctx context.Context, changeID, accountID string) error {
	args := m.Called(ctx, changeID, accountID)
	return args.Error(0)
}

func (m *ChangeRepository) ListReviewerIDs(ctx context.Context, changeID string) ([]string, error) {
	args := m.Called(ctx, changeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// ApprovalRepository мок domain.ApprovalRepository.
type ApprovalRepository struct {
	mock.Mock
}

func (m *ApprovalRepository) ListByPatchSet(ctx context.Context, patchSetID string) ([]*domain.Approval, error) {
	args := m.Called(ctx, patchSetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Approval), args.Error(1)
}

func (m *ApprovalRepository) Apply(ctx context.Context, intents []domain.ApprovalIntent) error {
	args := m.Called(ctx, intents)
	return args.Error(0)
}

// ProjectRepository мок domain.ProjectRepository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) HasLabel(ctx context.Context, project, label string) (bool, error) {
	args := m.Called(ctx, project, label)
	return args.Bool(0), args.Error(1)
}

// DiffProvider мок domain.DiffProvider.
type DiffProvider struct {
	mock.Mock
}

func (m *DiffProvider) ChangedFiles(project, revision string) ([]string, error) {
	args := m.Called(project, revision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// ChangeIndexer мок domain.ChangeIndexer.
type ChangeIndexer struct {
	mock.Mock
}

func (m *ChangeIndexer) Refresh(change *domain.Change) error {
	args := m.Called(change)
	return args.Error(0)
}
