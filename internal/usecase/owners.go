package usecase

import (
	"context"

	"module-owner-service/internal/domain"
	"module-owner-service/internal/ownership"

	"github.com/sirupsen/logrus"
)

// OwnerUseCase реализует запросы о владении модулями: статус владельца
// для ревизии, проверку права на submit и карту владельцев проекта.
type OwnerUseCase struct {
	cache    *ownership.Cache
	accounts domain.AccountRepository
	changes  domain.ChangeRepository
	projects domain.ProjectRepository
	diff     domain.DiffProvider
	log      *logrus.Logger
}

// NewOwnerUseCase создает новый экземпляр OwnerUseCase.
func NewOwnerUseCase(
	cache *ownership.Cache,
	accounts domain.AccountRepository,
	changes domain.ChangeRepository,
	projects domain.ProjectRepository,
	diff domain.DiffProvider,
	log *logrus.Logger,
) domain.OwnerUseCase {
	return &OwnerUseCase{
		cache:    cache,
		accounts: accounts,
		changes:  changes,
		projects: projects,
		diff:     diff,
		log:      log,
	}
}

func (uc *OwnerUseCase) featureEnabled(ctx context.Context, project string) (bool, error) {
	for _, label := range []string{domain.CodeReviewLabel, domain.ModuleOwnerLabel} {
		ok, err := uc.projects.HasLabel(ctx, project, label)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// OwnerStatus возвращает статус владения пользователя для ревизии:
// approved, denied либо none (функциональность неактивна, изменение
// не открыто или пользователь неизвестен).
func (uc *OwnerUseCase) OwnerStatus(ctx context.Context, changeID, revision, accountID string) (string, error) {
	change, err := uc.changes.GetByID(ctx, changeID)
	if err != nil {
		return "", err
	}
	if change.Status != domain.ChangeStatusNew {
		return domain.OwnerStatusNone, nil
	}

	enabled, err := uc.featureEnabled(ctx, change.Project)
	if err != nil {
		return "", err
	}
	if !enabled {
		return domain.OwnerStatusNone, nil
	}

	if _, err := uc.accounts.GetByID(ctx, accountID); err != nil {
		return domain.OwnerStatusNone, nil
	}

	isOwner, err := uc.isOwner(ctx, change.Project, revision, accountID)
	if err != nil {
		return "", err
	}
	if isOwner {
		return domain.OwnerStatusApproved, nil
	}
	return domain.OwnerStatusDenied, nil
}

// CheckSubmit отклоняет submit, если функциональность активна для
// проекта, а отправитель не владеет файлами ревизии.
func (uc *OwnerUseCase) CheckSubmit(ctx context.Context, changeID, revision, accountID string) error {
	change, err := uc.changes.GetByID(ctx, changeID)
	if err != nil {
		return err
	}
	enabled, err := uc.featureEnabled(ctx, change.Project)
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}

	isOwner, err := uc.isOwner(ctx, change.Project, revision, accountID)
	if err != nil {
		return err
	}
	if !isOwner {
		return domain.ErrSubmitBlocked
	}

	uc.log.WithFields(logrus.Fields{
		"project":   change.Project,
		"change":    changeID,
		"submitter": accountID,
	}).Info("Submit allowed for module owner")
	return nil
}

func (uc *OwnerUseCase) isOwner(ctx context.Context, project, revision, accountID string) (bool, error) {
	idx, err := uc.cache.Get(ctx, project)
	if err != nil {
		return false, err
	}
	files, err := uc.diff.ChangedFiles(project, revision)
	if err != nil {
		return false, err
	}
	return idx.IsAccountOwner(ctx, uc.accounts, accountID, files)
}

// ListOwners возвращает карту владельцев проекта: пользователь - его
// шаблоны, включая шаблоны групп, раскрытые до текущих участников.
func (uc *OwnerUseCase) ListOwners(ctx context.Context, project string) (map[string][]string, error) {
	idx, err := uc.cache.Get(ctx, project)
	if err != nil {
		return nil, err
	}

	merged := make(map[string][]string)
	for _, owner := range idx.Owners() {
		patterns := idx.PatternsFor(owner)
		if owner.Kind == ownership.OwnerUser {
			merged[owner.ID] = append(merged[owner.ID], patterns...)
			continue
		}
		members, err := uc.accounts.MembersOf(ctx, owner.ID)
		if err != nil {
			uc.log.WithError(err).WithField("group", owner.ID).Warn("Cannot expand group owners")
			continue
		}
		for _, member := range members {
			merged[member] = append(merged[member], patterns...)
		}
	}

	// Шаблоны пользователя из разных источников дедуплицируются.
	result := make(map[string][]string, len(merged))
	for accountID, patterns := range merged {
		seen := make(map[string]bool, len(patterns))
		unique := make([]string, 0, len(patterns))
		for _, p := range patterns {
			if !seen[p] {
				seen[p] = true
				unique = append(unique, p)
			}
		}
		result[accountID] = unique
	}
	return result, nil
}

// InvalidateConfig обрабатывает уведомление об обновлении ссылки проекта.
func (uc *OwnerUseCase) InvalidateConfig(project, ref string) {
	uc.cache.OnRefUpdated(project, ref)
}
