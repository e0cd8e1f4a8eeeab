package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"module-owner-service/internal/domain"
)

// ChangeRepository реализует доступ к изменениям и ревьюверам в PostgreSQL.
type ChangeRepository struct {
	db *sql.DB
}

// NewChangeRepository создает новый экземпляр ChangeRepository.
func NewChangeRepository(db *sql.DB) domain.ChangeRepository {
	return &ChangeRepository{db: db}
}

// GetByID возвращает изменение по ID.
func (r *ChangeRepository) GetByID(ctx context.Context, changeID string) (*domain.Change, error) {
	var change domain.Change
	err := r.db.QueryRowContext(ctx,
		`SELECT change_id, project, owner_id, subject, status FROM changes WHERE change_id = $1`,
		changeID).
		Scan(&change.ID, &change.Project, &change.OwnerID, &change.Subject, &change.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrChangeNotFound
		}
		return nil, fmt.Errorf("failed to get change: %w", err)
	}
	return &change, nil
}

// GetPatchSet возвращает ревизию изменения по номеру.
func (r *ChangeRepository) GetPatchSet(ctx context.Context, changeID string, number int) (*domain.PatchSet, error) {
	var ps domain.PatchSet
	err := r.db.QueryRowContext(ctx,
		`SELECT patch_set_id, change_id, number, revision, is_draft
		 FROM patch_sets WHERE change_id = $1 AND number = $2`,
		changeID, number).
		Scan(&ps.ID, &ps.ChangeID, &ps.Number, &ps.Revision, &ps.IsDraft)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPatchSetNotFound
		}
		return nil, fmt.Errorf("failed to get patch set: %w", err)
	}
	return &ps, nil
}

// AddReviewer прикрепляет пользователя к изменению как ревьювера.
// Повторное добавление уже назначенного ревьювера не является ошибкой.
func (r *ChangeRepository) AddReviewer(ctx context.Context, changeID, accountID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO change_reviewers (change_id, account_id) VALUES ($1, $2)
		 ON CONFLICT (change_id, account_id) DO NOTHING`,
		changeID, accountID)
	if err != nil {
		return fmt.Errorf("failed to add reviewer %s: %w", accountID, err)
	}
	return nil
}

// ListReviewerIDs возвращает пользователей, уже прикрепленных к изменению.
func (r *ChangeRepository) ListReviewerIDs(ctx context.Context, changeID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT account_id FROM change_reviewers WHERE change_id = $1`, changeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviewers: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan reviewer: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reviewers: %w", err)
	}
	return ids, nil
}
