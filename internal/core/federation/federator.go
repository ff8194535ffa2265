package federation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/agenthands/nasab/internal/config"
	"github.com/agenthands/nasab/internal/core/model"
	"github.com/agenthands/nasab/internal/core/tree"
	"github.com/agenthands/nasab/internal/logger"
)

type Federator struct {
	Store           GroupStore
	Assembler       *tree.Assembler
	HeadRelations   []string
	MaxHops         int
	LoadConcurrency int
	Log             *logger.Logger
	NewRunID        func() string
}

func NewFederator(store GroupStore, assembler *tree.Assembler, cfg *config.Config, log *logger.Logger) *Federator {
	if log == nil {
		log = logger.Nop()
	}
	return &Federator{
		Store:           store,
		Assembler:       assembler,
		HeadRelations:   cfg.Tree.HeadRelations,
		MaxHops:         cfg.Federation.MaxHops,
		LoadConcurrency: cfg.Federation.LoadConcurrency,
		Log:             log.With("component", "Federator"),
		NewRunID:        func() string { return uuid.New().String() },
	}
}

type Result struct {
	RunID       string          `json:"run_id"`
	RootGroupID string          `json:"root_group_id"`
	Walk        RootWalk        `json:"walk"`
	GroupIDs    []string        `json:"group_ids"`
	Tree        *model.TreeNode `json:"tree"`
	Stats       tree.Stats      `json:"stats"`
	Phase       Phase           `json:"phase"`
}

// Federate builds one tree from every group linked to startGroupID. On error
// nothing is returned; partial federations are discarded.
func (f *Federator) Federate(ctx context.Context, startGroupID string) (*Result, error) {
	runID := f.NewRunID()
	log := f.Log.With("run_id", runID, "start_group", startGroupID)
	m := NewMachine()

	fail := func(err error) (*Result, error) {
		from := m.Phase()
		m.Fail()
		log.Warn("federation failed", "phase", from, "error", err)
		return nil, err
	}
	step := func(next Phase) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.Advance(next); err != nil {
			return err
		}
		log.Debug("federation phase", "phase", next)
		return nil
	}

	if err := step(PhaseFindingRoot); err != nil {
		return fail(err)
	}
	walk, err := FindGlobalRoot(ctx, startGroupID, f.Store.LoadGroupParentLink, f.MaxHops)
	if err != nil {
		return fail(err)
	}
	if walk.Exhausted || walk.Cycle {
		log.Warn("group parent links did not resolve, using last valid group",
			"root_group", walk.RootID, "hops", walk.Hops, "cycle", walk.Cycle)
	}

	if err := step(PhaseCollectingGroups); err != nil {
		return fail(err)
	}
	groups, err := f.CollectLinkedGroups(ctx, walk.RootID)
	if err != nil {
		return fail(err)
	}

	if err := step(PhaseBuildingTree); err != nil {
		return fail(err)
	}
	root, stats, err := BuildFederatedTree(groups, walk.RootID, f.Assembler, f.HeadRelations)
	if err != nil {
		return fail(err)
	}
	if stats.Truncated {
		log.Info("federated tree truncated by limits",
			"person_count", stats.PersonCount, "truncated_branches", stats.TruncatedBranches)
	}

	if err := step(PhaseDone); err != nil {
		return fail(err)
	}

	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	log.Info("federation complete", "root_group", walk.RootID, "groups", len(ids), "person_count", stats.PersonCount)

	return &Result{
		RunID:       runID,
		RootGroupID: walk.RootID,
		Walk:        walk,
		GroupIDs:    ids,
		Tree:        root,
		Stats:       stats,
		Phase:       m.Phase(),
	}, nil
}

// BuildFederatedTree flattens groups into one member set, merges identities
// across groups and assembles the tree under the root group's head. Parentage
// is only inferred between records of the same group.
func BuildFederatedTree(groups []model.GroupData, rootGroupID string, assembler *tree.Assembler, headRelations []string) (*model.TreeNode, tree.Stats, error) {
	var rootGroup *model.GroupData
	var flat []model.PersonRecord
	for i := range groups {
		g := &groups[i]
		if g.ID == rootGroupID && rootGroup == nil {
			rootGroup = g
		}
		for _, m := range g.Members {
			m.GroupID = g.ID
			flat = append(flat, m)
		}
	}
	if rootGroup == nil {
		return nil, tree.Stats{}, fmt.Errorf("root group %q not loaded: %w", rootGroupID, model.ErrNoRoot)
	}

	rootMembers := make([]model.PersonRecord, 0, len(rootGroup.Members))
	for _, m := range rootGroup.Members {
		m.GroupID = rootGroup.ID
		rootMembers = append(rootMembers, m)
	}
	head, ok := tree.SelectHead(rootMembers, rootGroup.Name, headRelations)
	if !ok {
		return nil, tree.Stats{}, fmt.Errorf("root group %q has no members: %w", rootGroupID, model.ErrNoRoot)
	}

	people, _ := model.MergeIdentities(flat)
	scoped := &tree.Assembler{
		IsParent: tree.SameGroup(assembler.IsParent),
		Limits:   assembler.Limits,
	}
	return scoped.BuildInput(tree.Input{Members: flat, People: people, Origin: rootGroupID}, head)
}
