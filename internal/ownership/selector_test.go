package ownership

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchStats_ScenarioOverlappingOwners(t *testing.T) {
	// U1 владеет ^src/.*\.java$; группа G2 (с участником U2) владеет
	// ^docs/.*$ и ".*"
	idx := Build("proj", []Entry{
		{Owner: UserKey("u1"), Patterns: []string{`^src/.*\.java$`}},
		{Owner: GroupKey("g2"), Patterns: []string{`^docs/.*$`, `.*`}},
	}, testLogger())
	dir := &fakeDirectory{members: map[string][]string{"g2": {"u2"}}}
	selector := NewSelector(dir, testLogger())

	files := []string{"src/Foo.java", "docs/readme.md"}
	stats := selector.MatchStats(context.Background(), idx, files)

	require.Len(t, stats, 2)
	assert.Equal(t, 1, stats["u1"].FileCount)
	assert.Equal(t, len(`^src/.*\.java$`), stats["u1"].Specificity)
	// U2 кредитуется за оба файла: docs через ^docs/.*$, src через ".*",
	// причем совпадение по ".*" специфичности не добавляет
	assert.Equal(t, 2, stats["u2"].FileCount)
	assert.Equal(t, len(`^docs/.*$`), stats["u2"].Specificity)

	ranked := selector.Select(context.Background(), idx, files, "", nil, 10)
	assert.Equal(t, []string{"u2", "u1"}, ranked)
}

func TestMatchStats_NonExclusiveAttribution(t *testing.T) {
	// Два пересекающихся шаблона на одном файле кредитуют обоих владельцев
	idx := Build("proj", []Entry{
		{Owner: UserKey("u1"), Patterns: []string{`^src/.*$`}},
		{Owner: UserKey("u2"), Patterns: []string{`^src/core/.*$`}},
	}, testLogger())
	selector := NewSelector(&fakeDirectory{}, testLogger())

	stats := selector.MatchStats(context.Background(), idx, []string{"src/core/main.go"})

	require.Len(t, stats, 2)
	assert.Equal(t, 1, stats["u1"].FileCount)
	assert.Equal(t, 1, stats["u2"].FileCount)
}

func TestMatchStats_CreditsIdentityOncePerFile(t *testing.T) {
	// Оба шаблона одного владельца совпадают с файлом; кредит - один,
	// по первому (более длинному) шаблону
	idx := Build("proj", []Entry{
		{Owner: UserKey("u1"), Patterns: []string{`^src/.*$`, `^src/core/.*$`}},
	}, testLogger())
	selector := NewSelector(&fakeDirectory{}, testLogger())

	stats := selector.MatchStats(context.Background(), idx, []string{"src/core/main.go"})

	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats["u1"].FileCount)
	assert.Equal(t, len(`^src/core/.*$`), stats["u1"].Specificity)
}

func TestSelect_ExcludesWildcardOnlyOwner(t *testing.T) {
	idx := Build("proj", []Entry{
		{Owner: UserKey("u1"), Patterns: []string{`^src/.*$`}},
		{Owner: UserKey("u2"), Patterns: []string{`.*`}},
	}, testLogger())
	selector := NewSelector(&fakeDirectory{}, testLogger())

	selected := selector.Select(context.Background(), idx, []string{"src/a.go"}, "", nil, 10)
	assert.Equal(t, []string{"u1"}, selected)
}

func TestSelect_ExcludesAuthorAndInactive(t *testing.T) {
	idx := Build("proj", []Entry{
		{Owner: UserKey("author"), Patterns: []string{`^src/.*$`, `^docs/.*$`}},
		{Owner: UserKey("inactive"), Patterns: []string{`^src/.*$`, `^docs/.*$`}},
		{Owner: UserKey("u3"), Patterns: []string{`^src/.*$`}},
	}, testLogger())
	dir := &fakeDirectory{active: map[string]bool{"inactive": false}}
	selector := NewSelector(dir, testLogger())

	files := []string{"src/a.go", "docs/readme.md"}
	selected := selector.Select(context.Background(), idx, files, "author", nil, 10)

	// Автор и неактивный пользователь исключены, хотя ранжируются выше
	assert.Equal(t, []string{"u3"}, selected)
}

func TestSelect_QuotaConsumedByAlreadyAssigned(t *testing.T) {
	// Ранжирование: u2 (3 файла), u1 (2 файла), u3 (1 файл)
	idx := Build("proj", []Entry{
		{Owner: UserKey("u2"), Patterns: []string{`^a/.*$`}},
		{Owner: UserKey("u1"), Patterns: []string{`^b/.*$`}},
		{Owner: UserKey("u3"), Patterns: []string{`^c/.*$`}},
	}, testLogger())
	selector := NewSelector(&fakeDirectory{}, testLogger())

	files := []string{"a/1", "a/2", "a/3", "b/1", "b/2", "c/1"}

	// u1 расходует слот квоты и не дублируется в результате
	selected := selector.Select(context.Background(), idx, files, "", []string{"u1"}, 3)
	assert.Equal(t, []string{"u2", "u3"}, selected)

	// При квоте 2 остается лишь один свободный слот
	selected = selector.Select(context.Background(), idx, files, "", []string{"u1"}, 2)
	assert.Equal(t, []string{"u2"}, selected)
}

func TestSelect_QuotaExhaustedByAssigned(t *testing.T) {
	idx := Build("proj", []Entry{
		{Owner: UserKey("u1"), Patterns: []string{`^a/.*$`}},
		{Owner: UserKey("u2"), Patterns: []string{`^a/b/.*$`}},
	}, testLogger())
	selector := NewSelector(&fakeDirectory{}, testLogger())

	files := []string{"a/b/1", "a/2"}
	selected := selector.Select(context.Background(), idx, files, "", []string{"u1", "u2"}, 2)
	assert.Empty(t, selected)
}

func TestSelect_TruncatesToQuota(t *testing.T) {
	idx := Build("proj", []Entry{
		{Owner: UserKey("u1"), Patterns: []string{`^a/.*$`}},
		{Owner: UserKey("u2"), Patterns: []string{`^b/.*$`}},
		{Owner: UserKey("u3"), Patterns: []string{`^c/.*$`}},
	}, testLogger())
	selector := NewSelector(&fakeDirectory{}, testLogger())

	files := []string{"a/1", "a/2", "a/3", "b/1", "b/2", "c/1"}
	selected := selector.Select(context.Background(), idx, files, "", nil, 2)
	assert.Equal(t, []string{"u1", "u2"}, selected)
}

func TestSelect_TieGroupIsRandomizedSet(t *testing.T) {
	// Полностью эквивалентные кандидаты образуют группу; порядок внутри
	// группы не гарантирован, состав - гарантирован
	idx := Build("proj", []Entry{
		{Owner: UserKey("u1"), Patterns: []string{`^src/.*$`}},
		{Owner: UserKey("u2"), Patterns: []string{`^swc/.*$`}},
		{Owner: UserKey("u3"), Patterns: []string{`^src/a/.*$`}},
	}, testLogger())
	selector := NewSelector(&fakeDirectory{}, testLogger())

	files := []string{"src/a/1", "swc/1"}
	selected := selector.Select(context.Background(), idx, files, "", nil, 10)

	require.Len(t, selected, 3)
	// u3 строго специфичнее и в ничьей не участвует; у u1 и u2 по одному
	// файлу и равная длина шаблона
	assert.Equal(t, "u3", selected[0])
	assert.ElementsMatch(t, []string{"u1", "u2"}, selected[1:])
}

func TestSelect_GroupMembersSnapshotPerCall(t *testing.T) {
	idx := Build("proj", []Entry{
		{Owner: GroupKey("g1"), Patterns: []string{`^src/.*$`}},
	}, testLogger())
	dir := &fakeDirectory{members: map[string][]string{"g1": {"u1", "u2"}}}
	selector := NewSelector(dir, testLogger())

	selected := selector.Select(context.Background(), idx, []string{"src/a.go", "src/b.go"}, "", nil, 10)
	assert.ElementsMatch(t, []string{"u1", "u2"}, selected)
}
