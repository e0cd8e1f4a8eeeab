package repository

import (
	"context"
	"database/sql"
	"fmt"

	"module-owner-service/internal/domain"
)

// ApprovalRepository реализует хранилище голосов в PostgreSQL.
type ApprovalRepository struct {
	db *sql.DB
}

// NewApprovalRepository создает новый экземпляр ApprovalRepository.
func NewApprovalRepository(db *sql.DB) domain.ApprovalRepository {
	return &ApprovalRepository{db: db}
}

// ListByPatchSet возвращает все голоса на ревизии.
func (r *ApprovalRepository) ListByPatchSet(ctx context.Context, patchSetID string) ([]*domain.Approval, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT patch_set_id, account_id, label, value, granted_at
		 FROM approvals WHERE patch_set_id = $1`,
		patchSetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query approvals: %w", err)
	}
	defer rows.Close()

	var approvals []*domain.Approval
	for rows.Next() {
		var a domain.Approval
		if err := rows.Scan(&a.PatchSetID, &a.AccountID, &a.Label, &a.Value, &a.GrantedAt); err != nil {
			return nil, fmt.Errorf("failed to scan approval: %w", err)
		}
		approvals = append(approvals, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate approvals: %w", err)
	}
	return approvals, nil
}

// Apply выполняет намерения мутаций в одной транзакции. Вызывающая
// сторона передает сюда намерения ровно одного пользователя: граница
// транзакции охватывает мутации одного аккаунта.
func (r *ApprovalRepository) Apply(ctx context.Context, intents []domain.ApprovalIntent) error {
	if len(intents) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, intent := range intents {
		if err = applyIntent(ctx, tx, intent); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrPersistence, err)
	}
	return nil
}

func applyIntent(ctx context.Context, tx *sql.Tx, intent domain.ApprovalIntent) error {
	a := intent.Approval
	switch intent.Op {
	case domain.IntentInsert:
		_, err := tx.ExecContext(ctx,
			`INSERT INTO approvals (patch_set_id, account_id, label, value, granted_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			a.PatchSetID, a.AccountID, a.Label, a.Value, a.GrantedAt)
		return err
	case domain.IntentUpdate:
		_, err := tx.ExecContext(ctx,
			`UPDATE approvals SET value = $4, granted_at = $5
			 WHERE patch_set_id = $1 AND account_id = $2 AND label = $3`,
			a.PatchSetID, a.AccountID, a.Label, a.Value, a.GrantedAt)
		return err
	case domain.IntentDelete:
		_, err := tx.ExecContext(ctx,
			`DELETE FROM approvals
			 WHERE patch_set_id = $1 AND account_id = $2 AND label = $3`,
			a.PatchSetID, a.AccountID, a.Label)
		return err
	default:
		return fmt.Errorf("unknown intent op: %s", intent.Op)
	}
}
