package domain

import (
	"context"
	"time"
)

// Метки, с которыми работает синхронизатор. Обе должны быть определены
// на проекте, иначе функциональность для него неактивна.
const (
	CodeReviewLabel  = "Code-Review"
	ModuleOwnerLabel = "Module-Owner"
)

// Approval представляет голос пользователя по метке на конкретной ревизии.
// На одну тройку (patch set, account, label) существует не более одной записи.
type Approval struct {
	PatchSetID string
	AccountID  string
	Label      string
	Value      int
	GrantedAt  time.Time
}

// IntentOp тип мутации хранилища голосов.
type IntentOp string

const (
	IntentInsert IntentOp = "INSERT"
	IntentUpdate IntentOp = "UPDATE"
	IntentDelete IntentOp = "DELETE"
)

// ApprovalIntent предлагаемая мутация хранилища голосов.
// Синхронизатор только формирует намерения, применяет их хранилище.
type ApprovalIntent struct {
	Op       IntentOp
	Approval Approval
}

// ApprovalRepository определяет контракт для работы с хранилищем голосов.
// Apply выполняет все намерения одного пользователя в одной транзакции.
type ApprovalRepository interface {
	ListByPatchSet(ctx context.Context, patchSetID string) ([]*Approval, error)
	Apply(ctx context.Context, intents []ApprovalIntent) error
}
