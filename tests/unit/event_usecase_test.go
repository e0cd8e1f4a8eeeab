package usecase_test

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"module-owner-service/internal/domain"
	"module-owner-service/internal/ownership"
	"module-owner-service/internal/usecase"
	"module-owner-service/tests/mocks"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// staticCache кэш с фиксированным снимком конфигурации для проекта.
func staticCache(project string, entries []ownership.Entry) *ownership.Cache {
	log := testLogger()
	return ownership.NewCache(func(_ context.Context, p string) (*ownership.Index, error) {
		return ownership.Build(p, entries, log), nil
	}, log)
}

func enableFeature(projects *mocks.ProjectRepository, project string) {
	projects.On("HasLabel", mock.Anything, project, domain.CodeReviewLabel).Return(true, nil)
	projects.On("HasLabel", mock.Anything, project, domain.ModuleOwnerLabel).Return(true, nil)
}

func TestEventUseCase_RevisionCreated_AssignsOwners(t *testing.T) {
	ctx := context.Background()
	accounts := &mocks.AccountRepository{}
	changes := &mocks.ChangeRepository{}
	approvals := &mocks.ApprovalRepository{}
	projects := &mocks.ProjectRepository{}
	diff := &mocks.DiffProvider{}
	indexer := &mocks.ChangeIndexer{}

	cache := staticCache("proj", []ownership.Entry{
		{Owner: ownership.UserKey("u2"), Patterns: []string{`^src/.*$`}},
	})
	uc := usecase.NewEventUseCase(cache, accounts, changes, approvals, projects, diff, indexer, 2, testLogger())

	enableFeature(projects, "proj")
	change := &domain.Change{ID: "c1", Project: "proj", OwnerID: "author", Status: domain.ChangeStatusNew}
	changes.On("GetByID", ctx, "c1").Return(change, nil)
	changes.On("ListReviewerIDs", ctx, "c1").Return(nil, nil)
	changes.On("AddReviewer", ctx, "c1", "u2").Return(nil)
	changes.On("GetPatchSet", ctx, "c1", 1).Return(&domain.PatchSet{ID: "ps1", ChangeID: "c1", Number: 1, Revision: "rev1"}, nil)
	diff.On("ChangedFiles", "proj", "rev1").Return([]string{"src/a.go"}, nil)
	accounts.On("IsActive", mock.Anything, "u2").Return(true, nil)
	approvals.On("ListByPatchSet", ctx, "ps1").Return(nil, nil)

	err := uc.HandleEvent(ctx, domain.Event{
		Type:           domain.EventRevisionCreated,
		Project:        "proj",
		ChangeID:       "c1",
		PatchSetNumber: 1,
		Revision:       "rev1",
	})

	assert.NoError(t, err)
	changes.AssertCalled(t, "AddReviewer", ctx, "c1", "u2")
	// Голосов нет, обновление поискового индекса не выполняется
	indexer.AssertNotCalled(t, "Refresh", mock.Anything)
}

func TestEventUseCase_RevisionCreated_DraftSkipsAssignment(t *testing.T) {
	ctx := context.Background()
	accounts := &mocks.AccountRepository{}
	changes := &mocks.ChangeRepository{}
	approvals := &mocks.ApprovalRepository{}
	projects := &mocks.ProjectRepository{}
	diff := &mocks.DiffProvider{}
	indexer := &mocks.ChangeIndexer{}

	cache := staticCache("proj", []ownership.Entry{
		{Owner: ownership.UserKey("u2"), Patterns: []string{`^src/.*$`}},
	})
	uc := usecase.NewEventUseCase(cache, accounts, changes, approvals, projects, diff, indexer, 2, testLogger())

	enableFeature(projects, "proj")
	change := &domain.Change{ID: "c1", Project: "proj", OwnerID: "author", Status: domain.ChangeStatusNew}
	changes.On("GetByID", ctx, "c1").Return(change, nil)
	changes.On("GetPatchSet", ctx, "c1", 1).Return(&domain.PatchSet{ID: "ps1", ChangeID: "c1", Number: 1, Revision: "rev1"}, nil)
	diff.On("ChangedFiles", "proj", "rev1").Return([]string{"src/a.go"}, nil)
	approvals.On("ListByPatchSet", ctx, "ps1").Return(nil, nil)

	err := uc.HandleEvent(ctx, domain.Event{
		Type:           domain.EventRevisionCreated,
		Project:        "proj",
		ChangeID:       "c1",
		PatchSetNumber: 1,
		Revision:       "rev1",
		IsDraft:        true,
	})

	assert.NoError(t, err)
	changes.AssertNotCalled(t, "AddReviewer", mock.Anything, mock.Anything, mock.Anything)
}

func TestEventUseCase_FeatureDisabledDoesNothing(t *testing.T) {
	ctx := context.Background()
	accounts := &mocks.AccountRepository{}
	changes := &mocks.ChangeRepository{}
	approvals := &mocks.ApprovalRepository{}
	projects := &mocks.ProjectRepository{}
	diff := &mocks.DiffProvider{}
	indexer := &mocks.ChangeIndexer{}

	cache := staticCache("proj", nil)
	uc := usecase.NewEventUseCase(cache, accounts, changes, approvals, projects, diff, indexer, 2, testLogger())

	// Метка Module-Owner на проекте не определена
	projects.On("HasLabel", mock.Anything, "proj", domain.CodeReviewLabel).Return(true, nil)
	projects.On("HasLabel", mock.Anything, "proj", domain.ModuleOwnerLabel).Return(false, nil)

	err := uc.HandleEvent(ctx, domain.Event{
		Type:           domain.EventRevisionCreated,
		Project:        "proj",
		ChangeID:       "c1",
		PatchSetNumber: 1,
		Revision:       "rev1",
	})

	assert.NoError(t, err)
	changes.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestEventUseCase_UnknownEventType(t *testing.T) {
	uc := usecase.NewEventUseCase(staticCache("proj", nil),
		&mocks.AccountRepository{}, &mocks.ChangeRepository{}, &mocks.ApprovalRepository{},
		&mocks.ProjectRepository{}, &mocks.DiffProvider{}, &mocks.ChangeIndexer{}, 2, testLogger())

	err := uc.HandleEvent(context.Background(), domain.Event{Type: "topic-changed"})
	assert.ErrorIs(t, err, domain.ErrInvalidEventType)
}

func TestEventUseCase_CommentAdded_SyncsOwnerVote(t *testing.T) {
	ctx := context.Background()
	accounts := &mocks.AccountRepository{}
	changes := &mocks.ChangeRepository{}
	approvals := &mocks.ApprovalRepository{}
	projects := &mocks.ProjectRepository{}
	diff := &mocks.DiffProvider{}
	indexer := &mocks.ChangeIndexer{}

	cache := staticCache("proj", []ownership.Entry{
		{Owner: ownership.UserKey("u2"), Patterns: []string{`^src/.*$`}},
	})
	uc := usecase.NewEventUseCase(cache, accounts, changes, approvals, projects, diff, indexer, 2, testLogger())

	enableFeature(projects, "proj")
	change := &domain.Change{ID: "c1", Project: "proj", OwnerID: "author", Status: domain.ChangeStatusNew}
	changes.On("GetByID", ctx, "c1").Return(change, nil)
	changes.On("GetPatchSet", ctx, "c1", 1).Return(&domain.PatchSet{ID: "ps1", ChangeID: "c1", Number: 1, Revision: "rev1"}, nil)
	diff.On("ChangedFiles", "proj", "rev1").Return([]string{"src/a.go"}, nil)
	approvals.On("ListByPatchSet", ctx, "ps1").Return([]*domain.Approval{
		{PatchSetID: "ps1", AccountID: "u2", Label: domain.CodeReviewLabel, Value: 1},
	}, nil)
	accounts.On("GroupsOf", mock.Anything, "u2").Return(nil, nil)
	approvals.On("Apply", ctx, mock.MatchedBy(func(intents []domain.ApprovalIntent) bool {
		return len(intents) == 1 &&
			intents[0].Op == domain.IntentInsert &&
			intents[0].Approval.Label == domain.ModuleOwnerLabel &&
			intents[0].Approval.Value == 1
	})).Return(nil)
	indexer.On("Refresh", change).Return(nil)

	err := uc.HandleEvent(ctx, domain.Event{
		Type:           domain.EventCommentAdded,
		Project:        "proj",
		ChangeID:       "c1",
		PatchSetNumber: 1,
	})

	assert.NoError(t, err)
	approvals.AssertExpectations(t)
	indexer.AssertCalled(t, "Refresh", change)
}

func TestEventUseCase_CommentAdded_PersistenceErrorIsolatedPerAccount(t *testing.T) {
	ctx := context.Background()
	accounts := &mocks.AccountRepository{}
	changes := &mocks.ChangeRepository{}
	approvals := &mocks.ApprovalRepository{}
	projects := &mocks.ProjectRepository{}
	diff := &mocks.DiffProvider{}
	indexer := &mocks.ChangeIndexer{}

	cache := staticCache("proj", []ownership.Entry{
		{Owner: ownership.UserKey("u2"), Patterns: []string{`^src/.*$`}},
		{Owner: ownership.UserKey("u3"), Patterns: []string{`^src/.*$`}},
	})
	uc := usecase.NewEventUseCase(cache, accounts, changes, approvals, projects, diff, indexer, 2, testLogger())

	enableFeature(projects, "proj")
	change := &domain.Change{ID: "c1", Project: "proj", OwnerID: "author", Status: domain.ChangeStatusNew}
	changes.On("GetByID", ctx, "c1").Return(change, nil)
	changes.On("GetPatchSet", ctx, "c1", 1).Return(&domain.PatchSet{ID: "ps1", ChangeID: "c1", Number: 1, Revision: "rev1"}, nil)
	diff.On("ChangedFiles", "proj", "rev1").Return([]string{"src/a.go"}, nil)
	approvals.On("ListByPatchSet", ctx, "ps1").Return([]*domain.Approval{
		{PatchSetID: "ps1", AccountID: "u2", Label: domain.CodeReviewLabel, Value: 1},
		{PatchSetID: "ps1", AccountID: "u3", Label: domain.CodeReviewLabel, Value: -1},
	}, nil)
	accounts.On("GroupsOf", mock.Anything, mock.Anything).Return(nil, nil)

	forAccount := func(accountID string) interface{} {
		return mock.MatchedBy(func(intents []domain.ApprovalIntent) bool {
			return len(intents) > 0 && intents[0].Approval.AccountID == accountID
		})
	}
	// Сбой записи для u2 не мешает синхронизации u3
	approvals.On("Apply", ctx, forAccount("u2")).Return(assert.AnError)
	approvals.On("Apply", ctx, forAccount("u3")).Return(nil)
	indexer.On("Refresh", change).Return(nil)

	err := uc.HandleEvent(ctx, domain.Event{
		Type:           domain.EventCommentAdded,
		Project:        "proj",
		ChangeID:       "c1",
		PatchSetNumber: 1,
	})

	assert.NoError(t, err)
	approvals.AssertExpectations(t)
	indexer.AssertCalled(t, "Refresh", change)
}

func TestEventUseCase_IndexerErrorIsNotFatal(t *testing.T) {
	ctx := context.Background()
	accounts := &mocks.AccountRepository{}
	changes := &mocks.ChangeRepository{}
	approvals := &mocks.ApprovalRepository{}
	projects := &mocks.ProjectRepository{}
	diff := &mocks.DiffProvider{}
	indexer := &mocks.ChangeIndexer{}

	cache := staticCache("proj", []ownership.Entry{
		{Owner: ownership.UserKey("u2"), Patterns: []string{`^src/.*$`}},
	})
	uc := usecase.NewEventUseCase(cache, accounts, changes, approvals, projects, diff, indexer, 2, testLogger())

	enableFeature(projects, "proj")
	change := &domain.Change{ID: "c1", Project: "proj", OwnerID: "author", Status: domain.ChangeStatusNew}
	changes.On("GetByID", ctx, "c1").Return(change, nil)
	changes.On("GetPatchSet", ctx, "c1", 1).Return(&domain.PatchSet{ID: "ps1", ChangeID: "c1", Number: 1, Revision: "rev1"}, nil)
	diff.On("ChangedFiles", "proj", "rev1").Return([]string{"src/a.go"}, nil)
	approvals.On("ListByPatchSet", ctx, "ps1").Return([]*domain.Approval{
		{PatchSetID: "ps1", AccountID: "u2", Label: domain.CodeReviewLabel, Value: 1},
	}, nil)
	accounts.On("GroupsOf", mock.Anything, "u2").Return(nil, nil)
	approvals.On("Apply", ctx, mock.Anything).Return(nil)
	indexer.On("Refresh", change).Return(assert.AnError)

	err := uc.HandleEvent(ctx, domain.Event{
		Type:           domain.EventCommentAdded,
		Project:        "proj",
		ChangeID:       "c1",
		PatchSetNumber: 1,
	})

	assert.NoError(t, err)
}
