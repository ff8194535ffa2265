package federation

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/agenthands/nasab/internal/core/model"
)

type loadResult struct {
	name     string
	members  []model.PersonRecord
	children []string
}

// CollectLinkedGroups walks child-group links breadth-first from rootGroupID
// and loads every reachable group once. Loads within one BFS level run
// concurrently up to LoadConcurrency; results are merged in discovery order
// after the level completes, so output order does not depend on timing.
func (f *Federator) CollectLinkedGroups(ctx context.Context, rootGroupID string) ([]model.GroupData, error) {
	processed := map[string]bool{rootGroupID: true}
	parentOf := map[string]string{}
	level := []string{rootGroupID}
	var groups []model.GroupData

	for len(level) > 0 {
		results := make([]loadResult, len(level))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(f.loadConcurrency())
		for i, id := range level {
			i, id := i, id
			g.Go(func() error {
				res, err := f.loadGroup(gctx, id)
				if err != nil {
					return err
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		var next []string
		for i, id := range level {
			groups = append(groups, model.GroupData{
				ID:            id,
				Name:          results[i].name,
				ParentGroupID: parentOf[id],
				Members:       results[i].members,
			})
			for _, child := range results[i].children {
				if child == "" || processed[child] {
					continue
				}
				processed[child] = true
				parentOf[child] = id
				next = append(next, child)
			}
		}
		level = next
	}

	return groups, nil
}

func (f *Federator) loadGroup(ctx context.Context, id string) (loadResult, error) {
	var res loadResult

	members, err := f.Store.LoadGroupMembers(ctx, id)
	if err != nil {
		return res, fmt.Errorf("%w: members of group %q: %w", model.ErrExternalLoad, id, err)
	}
	children, err := f.Store.LoadChildGroupIDs(ctx, id)
	if err != nil {
		return res, fmt.Errorf("%w: child groups of %q: %w", model.ErrExternalLoad, id, err)
	}
	if namer, ok := f.Store.(GroupNamer); ok {
		name, err := namer.LoadGroupName(ctx, id)
		if err != nil {
			return res, fmt.Errorf("%w: name of group %q: %w", model.ErrExternalLoad, id, err)
		}
		res.name = name
	}

	res.members = members
	res.children = children
	return res, nil
}

func (f *Federator) loadConcurrency() int {
	if f.LoadConcurrency < 1 {
		return 1
	}
	return f.LoadConcurrency
}
