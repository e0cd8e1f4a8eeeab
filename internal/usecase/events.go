package usecase

import (
	"context"
	"time"

	"module-owner-service/internal/domain"
	"module-owner-service/internal/ownership"

	"github.com/sirupsen/logrus"
)

// EventUseCase реализует обработку событий изменений: назначение
// ревьюверов-владельцев на новые ревизии и синхронизацию голоса
// Module-Owner с голосом Code-Review.
type EventUseCase struct {
	cache     *ownership.Cache
	selector  *ownership.Selector
	accounts  domain.AccountRepository
	changes   domain.ChangeRepository
	approvals domain.ApprovalRepository
	projects  domain.ProjectRepository
	diff      domain.DiffProvider
	indexer   domain.ChangeIndexer

	maxReviewers int
	log          *logrus.Logger
}

// NewEventUseCase создает новый экземпляр EventUseCase.
func NewEventUseCase(
	cache *ownership.Cache,
	accounts domain.AccountRepository,
	changes domain.ChangeRepository,
	approvals domain.ApprovalRepository,
	projects domain.ProjectRepository,
	diff domain.DiffProvider,
	indexer domain.ChangeIndexer,
	maxReviewers int,
	log *logrus.Logger,
) domain.EventUseCase {
	return &EventUseCase{
		cache:        cache,
		selector:     ownership.NewSelector(accounts, log),
		accounts:     accounts,
		changes:      changes,
		approvals:    approvals,
		projects:     projects,
		diff:         diff,
		indexer:      indexer,
		maxReviewers: maxReviewers,
		log:          log,
	}
}

// HandleEvent обрабатывает одно событие изменения.
func (uc *EventUseCase) HandleEvent(ctx context.Context, event domain.Event) error {
	switch event.Type {
	case domain.EventRevisionCreated:
		// Черновым ревизиям ревьюверы не назначаются
		if !event.IsDraft {
			if err := uc.assignReviewers(ctx, event); err != nil {
				return err
			}
		}
		return uc.syncApprovals(ctx, event)
	case domain.EventCommentAdded:
		return uc.syncApprovals(ctx, event)
	default:
		return domain.ErrInvalidEventType
	}
}

// featureEnabled сообщает, активна ли функциональность для проекта:
// обе метки должны быть определены. Отсутствие метки - состояние
// конфигурации, а не ошибка.
func (uc *EventUseCase) featureEnabled(ctx context.Context, project string) (bool, error) {
	for _, label := range []string{domain.CodeReviewLabel, domain.ModuleOwnerLabel} {
		ok, err := uc.projects.HasLabel(ctx, project, label)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// assignReviewers подбирает владельцев измененных файлов и назначает
// их ревьюверами в порядке релевантности.
func (uc *EventUseCase) assignReviewers(ctx context.Context, event domain.Event) error {
	if uc.maxReviewers <= 0 {
		return nil
	}
	enabled, err := uc.featureEnabled(ctx, event.Project)
	if err != nil || !enabled {
		return err
	}

	idx, err := uc.cache.Get(ctx, event.Project)
	if err != nil {
		return err
	}

	change, err := uc.changes.GetByID(ctx, event.ChangeID)
	if err != nil {
		return err
	}

	files, err := uc.diff.ChangedFiles(event.Project, event.Revision)
	if err != nil {
		return err
	}

	assigned, err := uc.changes.ListReviewerIDs(ctx, event.ChangeID)
	if err != nil {
		return err
	}

	selected := uc.selector.Select(ctx, idx, files, change.OwnerID, assigned, uc.maxReviewers)

	// Сбой одного кандидата не прерывает назначение остальных.
	for _, accountID := range selected {
		if err := uc.changes.AddReviewer(ctx, event.ChangeID, accountID); err != nil {
			uc.log.WithError(err).WithFields(logrus.Fields{
				"change":   event.ChangeID,
				"reviewer": accountID,
			}).Error("Failed to add reviewer")
			continue
		}
		uc.log.WithFields(logrus.Fields{
			"change":   event.ChangeID,
			"reviewer": accountID,
		}).Info("Module owner assigned as reviewer")
	}
	return nil
}

// approvalPair пара голосов одного пользователя на ревизии плюс число
// его прочих голосов.
type approvalPair struct {
	primary *domain.Approval
	owner   *domain.Approval
	others  int
}

// syncApprovals согласует голос Module-Owner каждого проголосовавшего
// пользователя с его голосом Code-Review. Мутации одного пользователя
// атомарны; сбой одного пользователя не мешает остальным.
func (uc *EventUseCase) syncApprovals(ctx context.Context, event domain.Event) error {
	enabled, err := uc.featureEnabled(ctx, event.Project)
	if err != nil || !enabled {
		return err
	}

	idx, err := uc.cache.Get(ctx, event.Project)
	if err != nil {
		return err
	}

	change, err := uc.changes.GetByID(ctx, event.ChangeID)
	if err != nil {
		return err
	}
	patchSet, err := uc.changes.GetPatchSet(ctx, event.ChangeID, event.PatchSetNumber)
	if err != nil {
		return err
	}

	files, err := uc.diff.ChangedFiles(event.Project, patchSet.Revision)
	if err != nil {
		return err
	}

	existing, err := uc.approvals.ListByPatchSet(ctx, patchSet.ID)
	if err != nil {
		return err
	}

	pairs := make(map[string]*approvalPair)
	for _, approval := range existing {
		pair := pairs[approval.AccountID]
		if pair == nil {
			pair = &approvalPair{}
			pairs[approval.AccountID] = pair
		}
		switch approval.Label {
		case domain.CodeReviewLabel:
			pair.primary = approval
		case domain.ModuleOwnerLabel:
			pair.owner = approval
		default:
			pair.others++
		}
	}

	mutated := false
	for accountID, pair := range pairs {
		isOwner, err := idx.IsAccountOwner(ctx, uc.accounts, accountID, files)
		if err != nil {
			uc.log.WithError(err).WithFields(logrus.Fields{
				"change":  event.ChangeID,
				"account": accountID,
			}).Error("Cannot resolve ownership, skipping account")
			continue
		}

		intents := ownership.Reconcile(patchSet.ID, accountID, isOwner,
			pair.primary, pair.owner, pair.others, time.Now())
		if len(intents) == 0 {
			continue
		}

		if err := uc.approvals.Apply(ctx, intents); err != nil {
			uc.log.WithError(err).WithFields(logrus.Fields{
				"change":  event.ChangeID,
				"account": accountID,
			}).Error("Approval update failed, skipping account")
			continue
		}
		mutated = true
		uc.log.WithFields(logrus.Fields{
			"change":  event.ChangeID,
			"account": accountID,
			"intents": len(intents),
		}).Info("Module owner approval synchronized")
	}

	if mutated {
		// Сбой обновления индекса не отменяет уже примененные мутации.
		if err := uc.indexer.Refresh(change); err != nil {
			uc.log.WithError(err).WithField("change", event.ChangeID).
				Error("Change index refresh failed")
		}
	}
	return nil
}
