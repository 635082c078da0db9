package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infobot/internal/entities"
)

func treeSnapshot() entities.Snapshot {
	return entities.Snapshot{
		{ID: "root1", Text: "Клиника", Type: entities.TypeMenu},
		{ID: "root2", Text: "Инструкции", Type: entities.TypeMenu},
		{ID: "c1", Parent: "root1", Text: "Регистратура", Type: entities.TypePhone},
		{ID: "c2", Parent: "root1", Text: "Приёмное отделение", Type: entities.TypePhone},
		{ID: "dangling", Parent: "ghost", Text: "Черновик", Type: entities.TypeText},
	}
}

func TestFindByID(t *testing.T) {
	snap := treeSnapshot()

	item, ok := FindByID(snap, "c1")
	require.True(t, ok)
	assert.Equal(t, "Регистратура", item.Text)

	_, ok = FindByID(snap, "missing")
	assert.False(t, ok)
}

func TestFindByIDFirstMatchWins(t *testing.T) {
	snap := entities.Snapshot{
		{ID: "dup", Text: "первый"},
		{ID: "dup", Text: "второй"},
	}
	item, ok := FindByID(snap, "dup")
	require.True(t, ok)
	assert.Equal(t, "первый", item.Text)
}

func TestChildrenOfPreservesOrder(t *testing.T) {
	children := ChildrenOf(treeSnapshot(), "root1")
	require.Len(t, children, 2)
	assert.Equal(t, "c1", children[0].ID)
	assert.Equal(t, "c2", children[1].ID)
}

func TestChildrenOfNoChildren(t *testing.T) {
	assert.Empty(t, ChildrenOf(treeSnapshot(), "c1"))
}

func TestRoots(t *testing.T) {
	roots := Roots(treeSnapshot())
	require.Len(t, roots, 2)
	assert.Equal(t, "root1", roots[0].ID)
	assert.Equal(t, "root2", roots[1].ID)
}

func TestDanglingParentStillFindable(t *testing.T) {
	snap := treeSnapshot()

	// Not reachable from the root...
	for _, root := range Roots(snap) {
		for _, child := range ChildrenOf(snap, root.ID) {
			assert.NotEqual(t, "dangling", child.ID)
		}
	}

	// ...but still findable by id
	_, ok := FindByID(snap, "dangling")
	assert.True(t, ok)
}
