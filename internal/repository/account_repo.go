package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"module-owner-service/internal/domain"
)

// AccountRepository реализует доступ к пользователям и группам в PostgreSQL.
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository создает новый экземпляр AccountRepository.
func NewAccountRepository(db *sql.DB) domain.AccountRepository {
	return &AccountRepository{db: db}
}

// GetByID возвращает пользователя по ID.
func (r *AccountRepository) GetByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.getAccount(ctx,
		`SELECT account_id, username, full_name, is_active FROM accounts WHERE account_id = $1`,
		accountID)
}

// GetByUsername возвращает пользователя по имени.
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.getAccount(ctx,
		`SELECT account_id, username, full_name, is_active FROM accounts WHERE username = $1`,
		username)
}

func (r *AccountRepository) getAccount(ctx context.Context, query, arg string) (*domain.Account, error) {
	var account domain.Account
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&account.ID, &account.Username, &account.FullName, &account.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// GetGroupByName возвращает группу по имени.
func (r *AccountRepository) GetGroupByName(ctx context.Context, name string) (*domain.Group, error) {
	var group domain.Group
	err := r.db.QueryRowContext(ctx,
		`SELECT group_id, name FROM groups WHERE name = $1`, name).
		Scan(&group.ID, &group.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return &group, nil
}

// IsActive сообщает, активен ли пользователь.
func (r *AccountRepository) IsActive(ctx context.Context, accountID string) (bool, error) {
	var active bool
	err := r.db.QueryRowContext(ctx,
		`SELECT is_active FROM accounts WHERE account_id = $1`, accountID).
		Scan(&active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, domain.ErrAccountNotFound
		}
		return false, fmt.Errorf("failed to get account status: %w", err)
	}
	return active, nil
}

// GroupsOf возвращает идентификаторы групп пользователя.
func (r *AccountRepository) GroupsOf(ctx context.Context, accountID string) ([]string, error) {
	return r.queryIDs(ctx,
		`SELECT group_id FROM group_members WHERE account_id = $1`, accountID)
}

// MembersOf возвращает идентификаторы участников группы.
// Порядок не значим: вызывающая сторона может его перемешивать.
func (r *AccountRepository) MembersOf(ctx context.Context, groupID string) ([]string, error) {
	return r.queryIDs(ctx,
		`SELECT account_id FROM group_members WHERE group_id = $1`, groupID)
}

func (r *AccountRepository) queryIDs(ctx context.Context, query, arg string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ids: %w", err)
	}
	return ids, nil
}
