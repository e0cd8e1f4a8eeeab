package domain

import "context"

// Account представляет зарегистрированного пользователя системы ревью.
type Account struct {
	ID       string
	Username string
	FullName string
	IsActive bool
}

// Group представляет именованную группу пользователей.
type Group struct {
	ID   string
	Name string
}

// AccountRepository определяет контракт для работы с пользователями и группами.
type AccountRepository interface {
	GetByID(ctx context.Context, accountID string) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
	GetGroupByName(ctx context.Context, name string) (*Group, error)
	IsActive(ctx context.Context, accountID string) (bool, error)
	GroupsOf(ctx context.Context, accountID string) ([]string, error)
	MembersOf(ctx context.Context, groupID string) ([]string, error)
}
