package ownership

import (
	"context"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"
)

// MatchStat аккумулятор релевантности одного кандидата.
type MatchStat struct {
	AccountID string
	// FileCount число файлов набора, покрытых шаблонами кандидата.
	FileCount int
	// Specificity сумма длин совпавших шаблонов, без учета Wildcard.
	Specificity int
}

// Selector подбирает ревьюверов-владельцев для набора измененных файлов.
type Selector struct {
	dir Directory
	log *logrus.Logger
}

// NewSelector создает новый экземпляр Selector.
func NewSelector(dir Directory, log *logrus.Logger) *Selector {
	return &Selector{dir: dir, log: log}
}

// MatchStats вычисляет статистику совпадений по каждому кандидату.
// Для каждого файла просматриваются все шаблоны индекса (скан не
// останавливается на первом совпадении), но кандидату файл засчитывается
// один раз - по первому совпавшему для него шаблону.
func (s *Selector) MatchStats(ctx context.Context, idx *Index, files []string) map[string]*MatchStat {
	stats := make(map[string]*MatchStat)
	groups := newGroupSnapshot(s.dir, s.log)

	for _, file := range files {
		// accountID -> первый совпавший шаблон для этого файла
		credited := make(map[string]string)
		for _, pattern := range idx.AllPatterns() {
			if !idx.matches(pattern, file) {
				continue
			}
			for _, owner := range idx.OwnersFor(pattern) {
				if owner.Kind == OwnerUser {
					if _, ok := credited[owner.ID]; !ok {
						credited[owner.ID] = pattern
					}
					continue
				}
				for _, member := range groups.members(ctx, owner.ID) {
					if _, ok := credited[member]; !ok {
						credited[member] = pattern
					}
				}
			}
		}

		for accountID, pattern := range credited {
			stat := stats[accountID]
			if stat == nil {
				stat = &MatchStat{AccountID: accountID}
				stats[accountID] = stat
			}
			stat.FileCount++
			if pattern != Wildcard {
				stat.Specificity += len(pattern)
			}
		}
	}

	return stats
}

// Select возвращает ранжированный список кандидатов-ревьюверов,
// усеченный до квоты. Автор изменения, неактивные пользователи и
// кандидаты, совпавшие только по Wildcard, исключаются. Уже назначенные
// кандидаты расходуют квоту, но в результат не попадают.
func (s *Selector) Select(ctx context.Context, idx *Index, files []string, excludeAccountID string, alreadyAssigned []string, quota int) []string {
	stats := s.MatchStats(ctx, idx, files)

	delete(stats, excludeAccountID)
	for accountID, stat := range stats {
		if stat.Specificity == 0 {
			// владелец только по ".*" - не кандидат
			delete(stats, accountID)
			continue
		}
		active, err := s.dir.IsActive(ctx, accountID)
		if err != nil {
			s.log.WithError(err).WithField("account", accountID).
				Warn("Skipping candidate: cannot resolve account")
			delete(stats, accountID)
			continue
		}
		if !active {
			delete(stats, accountID)
		}
	}

	ranked := rankByRelevance(stats)

	assigned := make(map[string]bool, len(alreadyAssigned))
	for _, accountID := range alreadyAssigned {
		assigned[accountID] = true
	}
	remaining := ranked[:0]
	for _, accountID := range ranked {
		if assigned[accountID] {
			quota--
			continue
		}
		remaining = append(remaining, accountID)
	}
	if quota <= 0 {
		return nil
	}
	if len(remaining) > quota {
		remaining = remaining[:quota]
	}
	return remaining
}

// rankByRelevance сортирует кандидатов по FileCount, затем по
// Specificity (по убыванию). Полностью равные кандидаты перемешиваются
// внутри своей группы, чтобы не отдавать систематическое предпочтение
// одному из эквивалентных владельцев.
func rankByRelevance(stats map[string]*MatchStat) []string {
	entries := make([]*MatchStat, 0, len(stats))
	for _, stat := range stats {
		entries = append(entries, stat)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].FileCount != entries[j].FileCount {
			return entries[i].FileCount > entries[j].FileCount
		}
		return entries[i].Specificity > entries[j].Specificity
	})

	ranked := make([]string, 0, len(entries))
	start := 0
	for i := 1; i <= len(entries); i++ {
		if i < len(entries) &&
			entries[i].FileCount == entries[start].FileCount &&
			entries[i].Specificity == entries[start].Specificity {
			continue
		}
		group := entries[start:i]
		rand.Shuffle(len(group), func(a, b int) {
			group[a], group[b] = group[b], group[a]
		})
		for _, stat := range group {
			ranked = append(ranked, stat.AccountID)
		}
		start = i
	}
	return ranked
}

// groupSnapshot кэширует состав групп на время одного подбора.
type groupSnapshot struct {
	dir     Directory
	log     *logrus.Logger
	byGroup map[string][]string
}

func newGroupSnapshot(dir Directory, log *logrus.Logger) *groupSnapshot {
	return &groupSnapshot{
		dir:     dir,
		log:     log,
		byGroup: make(map[string][]string),
	}
}

func (g *groupSnapshot) members(ctx context.Context, groupID string) []string {
	if members, ok := g.byGroup[groupID]; ok {
		return members
	}
	members, err := g.dir.MembersOf(ctx, groupID)
	if err != nil {
		g.log.WithError(err).WithField("group", groupID).Warn("Cannot load group members")
		members = nil
	}
	rand.Shuffle(len(members), func(a, b int) {
		members[a], members[b] = members[b], members[a]
	})
	g.byGroup[groupID] = members
	return members
}
