package domain

import "context"

// Статусы изменения.
const (
	ChangeStatusNew       = "NEW"
	ChangeStatusMerged    = "MERGED"
	ChangeStatusAbandoned = "ABANDONED"
)

// Change представляет изменение (ревью) в системе.
type Change struct {
	ID      string
	Project string
	OwnerID string
	Subject string
	Status  string
}

// PatchSet представляет одну ревизию изменения.
type PatchSet struct {
	ID       string
	ChangeID string
	Number   int
	Revision string
	IsDraft  bool
}

// ChangeRepository определяет контракт для работы с изменениями и ревьюверами.
type ChangeRepository interface {
	GetByID(ctx context.Context, changeID string) (*Change, error)
	GetPatchSet(ctx context.Context, changeID string, number int) (*PatchSet, error)
	AddReviewer(ctx context.Context, changeID, accountID string) error
	ListReviewerIDs(ctx context.Context, changeID string) ([]string, error)
}

// ProjectRepository определяет контракт для проектной конфигурации меток.
type ProjectRepository interface {
	HasLabel(ctx context.Context, project, label string) (bool, error)
}
