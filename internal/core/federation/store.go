package federation

import (
	"context"

	"github.com/agenthands/nasab/internal/core/model"
)

// GroupStore is the record store the federator reads from.
type GroupStore interface {
	LoadGroupMembers(ctx context.Context, groupID string) ([]model.PersonRecord, error)
	// LoadGroupParentLink returns ok=false when the group links to no parent.
	LoadGroupParentLink(ctx context.Context, groupID string) (parentID string, ok bool, err error)
	// LoadChildGroupIDs returns the groups whose parent link is groupID.
	LoadChildGroupIDs(ctx context.Context, groupID string) ([]string, error)
}

// GroupNamer is optionally implemented by stores that know display names for
// groups. Names are used to break ties between several heads.
type GroupNamer interface {
	LoadGroupName(ctx context.Context, groupID string) (string, error)
}

type ParentLookup func(ctx context.Context, groupID string) (string, bool, error)
