package ownership

import (
	"regexp"
	"sort"

	"github.com/sirupsen/logrus"
)

// Wildcard - универсальный шаблон "супер-владельца". Совпадение по нему
// не учитывается в специфичности и само по себе не делает пользователя
// кандидатом в ревьюверы.
const Wildcard = ".*"

// OwnerKind вид владельца шаблона.
type OwnerKind string

const (
	OwnerUser  OwnerKind = "user"
	OwnerGroup OwnerKind = "group"
)

// OwnerKey идентифицирует владельца: либо пользователь, либо группа.
type OwnerKey struct {
	Kind OwnerKind
	ID   string
}

// UserKey создает ключ владельца-пользователя.
func UserKey(accountID string) OwnerKey {
	return OwnerKey{Kind: OwnerUser, ID: accountID}
}

// GroupKey создает ключ владельца-группы.
func GroupKey(groupID string) OwnerKey {
	return OwnerKey{Kind: OwnerGroup, ID: groupID}
}

// Entry одна запись конфигурации: владелец и его шаблоны путей.
type Entry struct {
	Owner    OwnerKey
	Patterns []string
}

// Index неизменяемый снимок конфигурации владения для одного проекта.
// Строится один раз на поколение конфигурации и безопасен для
// конкурентного чтения.
type Index struct {
	project         string
	ownerToPatterns map[OwnerKey][]string
	patternToOwners map[string][]OwnerKey
	allPatterns     []string
	compiled        map[string]*regexp.Regexp
}

// Build строит индекс из записей конфигурации. Шаблоны каждого владельца
// сортируются от длинного к короткому (стабильно). Шаблон, который не
// компилируется как регулярное выражение, логируется и пропускается.
func Build(project string, entries []Entry, log *logrus.Logger) *Index {
	idx := &Index{
		project:         project,
		ownerToPatterns: make(map[OwnerKey][]string),
		patternToOwners: make(map[string][]OwnerKey),
		compiled:        make(map[string]*regexp.Regexp),
	}

	for _, entry := range entries {
		patterns := make([]string, 0, len(entry.Patterns))
		for _, p := range entry.Patterns {
			if _, ok := idx.compiled[p]; ok {
				patterns = append(patterns, p)
				continue
			}
			// Pattern.matches-семантика: шаблон должен покрывать путь целиком.
			re, err := regexp.Compile(`\A(?:` + p + `)\z`)
			if err != nil {
				log.WithError(err).WithFields(logrus.Fields{
					"project": project,
					"pattern": p,
				}).Warn("Skipping invalid path pattern")
				continue
			}
			idx.compiled[p] = re
			patterns = append(patterns, p)
		}

		key := entry.Owner
		merged := append(idx.ownerToPatterns[key], patterns...)
		sortPatterns(merged)
		idx.ownerToPatterns[key] = merged

		for _, p := range patterns {
			if !containsOwner(idx.patternToOwners[p], key) {
				if _, seen := idx.patternToOwners[p]; !seen {
					idx.allPatterns = append(idx.allPatterns, p)
				}
				idx.patternToOwners[p] = append(idx.patternToOwners[p], key)
			}
		}
	}

	// Порядок вставки сохраняется для шаблонов равной длины.
	sortPatterns(idx.allPatterns)

	return idx
}

// Project возвращает имя проекта, для которого построен снимок.
func (idx *Index) Project() string {
	return idx.project
}

// Empty сообщает, что в конфигурации нет ни одного владельца.
func (idx *Index) Empty() bool {
	return len(idx.ownerToPatterns) == 0
}

// AllPatterns возвращает все шаблоны индекса, от длинного к короткому.
func (idx *Index) AllPatterns() []string {
	return idx.allPatterns
}

// PatternsFor возвращает шаблоны, принадлежащие владельцу напрямую.
func (idx *Index) PatternsFor(owner OwnerKey) []string {
	return idx.ownerToPatterns[owner]
}

// OwnersFor возвращает владельцев шаблона.
func (idx *Index) OwnersFor(pattern string) []OwnerKey {
	return idx.patternToOwners[pattern]
}

// Owners возвращает всех владельцев индекса.
func (idx *Index) Owners() []OwnerKey {
	owners := make([]OwnerKey, 0, len(idx.ownerToPatterns))
	for key := range idx.ownerToPatterns {
		owners = append(owners, key)
	}
	return owners
}

// matches сообщает, покрывает ли шаблон путь целиком.
func (idx *Index) matches(pattern, file string) bool {
	re, ok := idx.compiled[pattern]
	if !ok {
		return false
	}
	return re.MatchString(file)
}

func containsOwner(owners []OwnerKey, key OwnerKey) bool {
	for _, o := range owners {
		if o == key {
			return true
		}
	}
	return false
}

// sortPatterns сортирует шаблоны от длинной строки к короткой.
func sortPatterns(patterns []string) {
	sort.SliceStable(patterns, func(i, j int) bool {
		return len(patterns[i]) > len(patterns[j])
	})
}
