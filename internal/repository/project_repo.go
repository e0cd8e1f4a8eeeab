package repository

import (
	"context"
	"database/sql"
	"fmt"

	"module-owner-service/internal/domain"
)

// ProjectRepository реализует доступ к проектной конфигурации меток.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository создает новый экземпляр ProjectRepository.
func NewProjectRepository(db *sql.DB) domain.ProjectRepository {
	return &ProjectRepository{db: db}
}

// HasLabel сообщает, определена ли метка на проекте.
func (r *ProjectRepository) HasLabel(ctx context.Context, project, label string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM project_labels WHERE project = $1 AND label = $2)`,
		project, label).
		Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check project label: %w", err)
	}
	return exists, nil
}
