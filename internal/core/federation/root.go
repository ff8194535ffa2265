package federation

import (
	"context"
	"fmt"

	"github.com/agenthands/nasab/internal/core/model"
)

const DefaultMaxHops = 10

// RootWalk describes how the global root was reached. Exhausted means the hop
// budget ran out; Cycle means a group was revisited. In both cases RootID is
// the last valid group reached.
type RootWalk struct {
	StartID   string `json:"start_id"`
	RootID    string `json:"root_id"`
	Hops      int    `json:"hops"`
	Exhausted bool   `json:"exhausted"`
	Cycle     bool   `json:"cycle"`
}

// FindGlobalRoot follows parent links upward from startGroupID until a group
// has no parent, links to itself, revisits a group or maxHops is spent.
func FindGlobalRoot(ctx context.Context, startGroupID string, lookup ParentLookup, maxHops int) (RootWalk, error) {
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}
	walk := RootWalk{StartID: startGroupID, RootID: startGroupID}
	seen := map[string]bool{startGroupID: true}

	for walk.Hops < maxHops {
		if err := ctx.Err(); err != nil {
			return walk, err
		}
		parent, ok, err := lookup(ctx, walk.RootID)
		if err != nil {
			return walk, fmt.Errorf("%w: parent link of group %q: %w", model.ErrExternalLoad, walk.RootID, err)
		}
		if !ok || parent == "" || parent == walk.RootID {
			return walk, nil
		}
		if seen[parent] {
			walk.Cycle = true
			return walk, nil
		}
		seen[parent] = true
		walk.RootID = parent
		walk.Hops++
	}

	walk.Exhausted = true
	return walk, nil
}
