package domain

import "context"

// Статусы владения для просмотра статуса ревизии.
const (
	OwnerStatusApproved = "approved"
	OwnerStatusDenied   = "denied"
	OwnerStatusNone     = "none"
)

// EventUseCase определяет бизнес-логику обработки событий изменений.
type EventUseCase interface {
	HandleEvent(ctx context.Context, event Event) error
}

// OwnerUseCase определяет бизнес-логику запросов о владении модулями.
type OwnerUseCase interface {
	OwnerStatus(ctx context.Context, changeID, revision, accountID string) (string, error)
	CheckSubmit(ctx context.Context, changeID, revision, accountID string) error
	ListOwners(ctx context.Context, project string) (map[string][]string, error)
	InvalidateConfig(project, ref string)
}

// DiffProvider возвращает список файлов, затронутых ревизией.
type DiffProvider interface {
	ChangedFiles(project, revision string) ([]string, error)
}

// ChangeIndexer обновляет поисковый индекс изменений после мутаций голосов.
type ChangeIndexer interface {
	Refresh(change *Change) error
}
