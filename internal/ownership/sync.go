package ownership

import (
	"time"

	"module-owner-service/internal/domain"
)

// Reconcile приводит производный голос Module-Owner в соответствие с
// наблюдаемым голосом Code-Review для одной пары (patch set, account).
// Возвращает намерения мутаций; само хранилище не трогает.
//
// otherApprovals - число прочих голосов пользователя на этой ревизии,
// помимо primary и ownerApproval. Оно определяет, останется ли
// пользователь прикрепленным к ревью после удаления голоса владельца.
func Reconcile(patchSetID, accountID string, isOwner bool, primary, ownerApproval *domain.Approval, otherApprovals int, now time.Time) []domain.ApprovalIntent {
	// Голоса уже согласованы - делать нечего.
	if primary != nil && ownerApproval != nil && primary.Value == ownerApproval.Value {
		return nil
	}

	if isOwner {
		switch {
		case primary != nil && ownerApproval != nil:
			updated := *ownerApproval
			updated.Value = primary.Value
			updated.GrantedAt = now
			return []domain.ApprovalIntent{{Op: domain.IntentUpdate, Approval: updated}}

		case primary != nil:
			return []domain.ApprovalIntent{{Op: domain.IntentInsert, Approval: domain.Approval{
				PatchSetID: patchSetID,
				AccountID:  accountID,
				Label:      domain.ModuleOwnerLabel,
				Value:      primary.Value,
				GrantedAt:  now,
			}}}

		case ownerApproval != nil:
			// Голос Code-Review отсутствует: обнуляем голос владельца,
			// но не удаляем его, чтобы пользователь остался на ревью.
			if ownerApproval.Value == 0 {
				return nil
			}
			updated := *ownerApproval
			updated.Value = 0
			updated.GrantedAt = now
			return []domain.ApprovalIntent{{Op: domain.IntentUpdate, Approval: updated}}

		default:
			return nil
		}
	}

	if ownerApproval == nil {
		return nil
	}

	intents := []domain.ApprovalIntent{{Op: domain.IntentDelete, Approval: *ownerApproval}}
	if primary == nil && otherApprovals == 0 {
		// Голос владельца был единственным: вставляем нулевой Code-Review,
		// чтобы пользователь не исчез из ревью.
		intents = append(intents, domain.ApprovalIntent{Op: domain.IntentInsert, Approval: domain.Approval{
			PatchSetID: patchSetID,
			AccountID:  accountID,
			Label:      domain.CodeReviewLabel,
			Value:      0,
			GrantedAt:  now,
		}})
	}
	return intents
}
