package federation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/nasab/internal/config"
	"github.com/agenthands/nasab/internal/core/model"
	"github.com/agenthands/nasab/internal/core/tree"
)

func member(group, gid, first, father, grandfather, relation string) model.PersonRecord {
	return model.PersonRecord{
		ID:              group + "-" + gid,
		GlobalID:        gid,
		GroupID:         group,
		FirstName:       first,
		FatherName:      father,
		GrandfatherName: grandfather,
		Relation:        relation,
	}
}

// Group A is Muhammad's family. Ali is a son in A and the head of B, which
// links to A as its parent group.
func linkedStore() *MockStore {
	return &MockStore{
		Members: map[string][]model.PersonRecord{
			"A": {
				member("A", "g-muhammad", "محمد", "حسن", "", "رب العائلة"),
				member("A", "g-ali", "علي", "محمد", "حسن", "ابن"),
				member("A", "g-omar", "عمر", "محمد", "حسن", "ابن"),
			},
			"B": {
				member("B", "g-ali", "علي", "محمد", "حسن", "رب العائلة"),
				member("B", "g-hasan", "حسن", "علي", "محمد", "ابن"),
				// Same name chain as Omar's son would have, but in another group.
				member("B", "g-stranger", "زيد", "عمر", "محمد", "ابن"),
			},
		},
		Parents: map[string]string{"B": "A"},
		Names:   map[string]string{"A": "آل محمد", "B": "آل علي"},
	}
}

func newTestFederator(store GroupStore) *Federator {
	cfg := config.Default()
	f := NewFederator(store, tree.NewAssemblerFromConfig(cfg.Tree), cfg, nil)
	f.NewRunID = func() string { return "run-1" }
	return f
}

func find(root *model.TreeNode, key string) *model.TreeNode {
	var found *model.TreeNode
	tree.Walk(root, func(n *model.TreeNode) bool {
		if found == nil && n.Key() == key {
			found = n
		}
		return found == nil
	})
	return found
}

func TestFindGlobalRoot(t *testing.T) {
	ctx := context.Background()

	t.Run("chain", func(t *testing.T) {
		walk, err := FindGlobalRoot(ctx, "C", lookupFunc{"C": "B", "B": "A"}.lookup, 10)
		require.NoError(t, err)
		assert.Equal(t, "A", walk.RootID)
		assert.Equal(t, 2, walk.Hops)
		assert.False(t, walk.Exhausted)
	})

	t.Run("self link", func(t *testing.T) {
		walk, err := FindGlobalRoot(ctx, "A", lookupFunc{"A": "A"}.lookup, 10)
		require.NoError(t, err)
		assert.Equal(t, "A", walk.RootID)
		assert.Equal(t, 0, walk.Hops)
	})

	t.Run("two cycle terminates", func(t *testing.T) {
		walk, err := FindGlobalRoot(ctx, "A", lookupFunc{"A": "B", "B": "A"}.lookup, 10)
		require.NoError(t, err)
		assert.True(t, walk.Cycle)
		assert.LessOrEqual(t, walk.Hops, 10)
		assert.Equal(t, "B", walk.RootID)
	})

	t.Run("hop budget", func(t *testing.T) {
		links := lookupFunc{}
		for i := 0; i < 20; i++ {
			links[fmt.Sprintf("g%d", i)] = fmt.Sprintf("g%d", i+1)
		}
		walk, err := FindGlobalRoot(ctx, "g0", links.lookup, 5)
		require.NoError(t, err)
		assert.True(t, walk.Exhausted)
		assert.Equal(t, "g5", walk.RootID)
		assert.Equal(t, 5, walk.Hops)
	})

	t.Run("lookup failure", func(t *testing.T) {
		_, err := FindGlobalRoot(ctx, "broken", lookupFunc{}.lookup, 10)
		assert.True(t, errors.Is(err, model.ErrExternalLoad))
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestCollectLinkedGroups(t *testing.T) {
	store := &MockStore{
		Members: map[string][]model.PersonRecord{
			"A": {member("A", "a", "a", "", "", "head")},
			"B": {member("B", "b", "b", "", "", "head")},
			"C": {member("C", "c", "c", "", "", "head")},
			"D": {member("D", "d", "d", "", "", "head")},
		},
		// A <- B <- D, A <- C
		Parents: map[string]string{"B": "A", "C": "A", "D": "B"},
	}
	f := newTestFederator(store)

	groups, err := f.CollectLinkedGroups(context.Background(), "A")
	require.NoError(t, err)

	var ids []string
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	assert.Equal(t, []string{"A", "B", "C", "D"}, ids)
	assert.Equal(t, "", groups[0].ParentGroupID)
	assert.Equal(t, "B", groups[3].ParentGroupID)
	assert.Len(t, store.Loads, 4)
}

func TestCollectLinkedGroups_LoadFailure(t *testing.T) {
	store := linkedStore()
	store.Err = fmt.Errorf("timeout")
	store.ErrGroup = "B"

	_, err := newTestFederator(store).CollectLinkedGroups(context.Background(), "A")
	assert.True(t, errors.Is(err, model.ErrExternalLoad))
}

func TestFederate_MultiRolePerson(t *testing.T) {
	res, err := newTestFederator(linkedStore()).Federate(context.Background(), "B")
	require.NoError(t, err)

	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, "A", res.RootGroupID)
	assert.Equal(t, []string{"A", "B"}, res.GroupIDs)
	assert.Equal(t, PhaseDone, res.Phase)

	root := res.Tree
	assert.Equal(t, "g-muhammad", root.GlobalID)
	assert.False(t, root.IsCrossGroup)

	ali := find(root, "g-ali")
	require.NotNil(t, ali)
	assert.Equal(t, 1, ali.Level)
	assert.False(t, ali.IsCrossGroup)
	assert.Equal(t, []string{"A", "B"}, ali.Groups)
	assert.ElementsMatch(t, []string{"ابن", "رب العائلة"}, ali.Roles)

	hasan := find(root, "g-hasan")
	require.NotNil(t, hasan)
	assert.Equal(t, 2, hasan.Level)
	assert.True(t, hasan.IsCrossGroup)
	assert.Same(t, hasan, ali.Children[0])

	// Zayd's chain matches Omar, but they live in different groups.
	assert.Nil(t, find(root, "g-stranger"))
	assert.Equal(t, 4, res.Stats.PersonCount)
}

func TestFederate_SingleGroupMatchesDirectBuild(t *testing.T) {
	store := linkedStore()
	store.Parents = map[string]string{}
	delete(store.Members, "B")

	res, err := newTestFederator(store).Federate(context.Background(), "A")
	require.NoError(t, err)

	members := store.Members["A"]
	head := members[0]
	direct, stats, err := tree.NewAssemblerFromConfig(config.Default().Tree).Build(members, &head)
	require.NoError(t, err)

	assert.Equal(t, direct, res.Tree)
	assert.Equal(t, stats, res.Stats)
}

func TestFederate_LoadFailureDiscardsResult(t *testing.T) {
	store := linkedStore()
	store.Err = fmt.Errorf("boom")

	res, err := newTestFederator(store).Federate(context.Background(), "A")
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, model.ErrExternalLoad))
}

func TestFederate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newTestFederator(linkedStore()).Federate(ctx, "A")
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBuildFederatedTree_MissingRoot(t *testing.T) {
	_, _, err := BuildFederatedTree(nil, "A", tree.NewAssembler(nil, tree.DefaultLimits()), nil)
	assert.True(t, errors.Is(err, model.ErrNoRoot))

	_, _, err = BuildFederatedTree([]model.GroupData{{ID: "A"}}, "A", tree.NewAssembler(nil, tree.DefaultLimits()), nil)
	assert.True(t, errors.Is(err, model.ErrNoRoot))
}

func TestMachine(t *testing.T) {
	m := NewMachine()
	assert.Equal(t, PhaseIdle, m.Phase())

	assert.Error(t, m.Advance(PhaseBuildingTree))
	require.NoError(t, m.Advance(PhaseFindingRoot))
	require.NoError(t, m.Advance(PhaseCollectingGroups))
	require.NoError(t, m.Advance(PhaseBuildingTree))
	require.NoError(t, m.Advance(PhaseDone))
	assert.True(t, m.Terminal())
	assert.Error(t, m.Advance(PhaseError))

	m = NewMachine()
	require.NoError(t, m.Advance(PhaseFindingRoot))
	m.Fail()
	assert.Equal(t, PhaseError, m.Phase())
	assert.Error(t, m.Advance(PhaseCollectingGroups))
}
