package domain

// EventType тип входящего события.
type EventType string

const (
	EventRevisionCreated EventType = "revision-created"
	EventCommentAdded    EventType = "comment-added"
)

// Event представляет событие жизненного цикла изменения.
// Закрытый набор вариантов с общей полезной нагрузкой; диспетчеризация
// выполняется по полю Type.
type Event struct {
	Type           EventType
	Project        string
	ChangeID       string
	PatchSetNumber int
	Revision       string
	// AuthorID: для revision-created автор ревизии, для comment-added
	// автор комментария.
	AuthorID string
	// IsDraft: черновым ревизиям ревьюверы не назначаются.
	IsDraft bool
}
