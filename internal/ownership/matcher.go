package ownership

import "context"

// Directory разрешает пользователей и группы во время запроса.
// Членство в группах намеренно не кэшируется в индексе: оно меняется
// независимо от конфигурации путей.
type Directory interface {
	IsActive(ctx context.Context, accountID string) (bool, error)
	GroupsOf(ctx context.Context, accountID string) ([]string, error)
	MembersOf(ctx context.Context, groupID string) ([]string, error)
}

// EffectivePatterns возвращает объединение собственных шаблонов
// пользователя и шаблонов всех его групп. Пересчитывается на каждый
// вызов, без предвычисленного замыкания по пользователям.
func (idx *Index) EffectivePatterns(accountID string, groupIDs []string) []string {
	var patterns []string
	patterns = append(patterns, idx.ownerToPatterns[UserKey(accountID)]...)
	for _, groupID := range groupIDs {
		patterns = append(patterns, idx.ownerToPatterns[GroupKey(groupID)]...)
	}
	return patterns
}

// IsOwner сообщает, покрывают ли шаблоны каждый файл набора.
// Пустой набор файлов покрыт вакуумно; пустой набор шаблонов не
// покрывает ничего, кроме пустого набора файлов.
func (idx *Index) IsOwner(patterns []string, files []string) bool {
	for _, file := range files {
		matched := false
		for _, p := range patterns {
			if idx.matches(p, file) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// IsAccountOwner разрешает группы пользователя и проверяет владение
// файлами через эффективные шаблоны.
func (idx *Index) IsAccountOwner(ctx context.Context, dir Directory, accountID string, files []string) (bool, error) {
	groups, err := dir.GroupsOf(ctx, accountID)
	if err != nil {
		return false, err
	}
	return idx.IsOwner(idx.EffectivePatterns(accountID, groups), files), nil
}
