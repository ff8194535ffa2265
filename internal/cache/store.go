package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/agenthands/nasab/internal/core/federation"
	"github.com/agenthands/nasab/internal/core/model"
	"github.com/agenthands/nasab/internal/logger"
)

const membersKeyPrefix = "nasab:members:"

func MembersKey(groupID string) string {
	return membersKeyPrefix + groupID
}

// CachedStore is a read-through cache over a group store. Only member lists
// are cached; group links are cheap and change independently.
type CachedStore struct {
	Next  federation.GroupStore
	Cache Cache
	TTL   time.Duration
	Log   *logger.Logger
}

func NewCachedStore(next federation.GroupStore, c Cache, ttl time.Duration, log *logger.Logger) *CachedStore {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedStore{
		Next:  next,
		Cache: c,
		TTL:   ttl,
		Log:   log.With("component", "CachedStore"),
	}
}

func (s *CachedStore) LoadGroupMembers(ctx context.Context, groupID string) ([]model.PersonRecord, error) {
	key := MembersKey(groupID)

	raw, err := s.Cache.Get(ctx, key)
	switch {
	case err == nil:
		var members []model.PersonRecord
		if err := json.Unmarshal(raw, &members); err == nil {
			return members, nil
		}
		s.Log.Warn("dropping undecodable cache entry", "key", key)
	case !errors.Is(err, ErrMiss):
		s.Log.Warn("cache read failed", "key", key, "error", err)
	}

	members, err := s.Next.LoadGroupMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(members); err == nil {
		if err := s.Cache.Set(ctx, key, raw, s.TTL); err != nil {
			s.Log.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return members, nil
}

func (s *CachedStore) LoadGroupParentLink(ctx context.Context, groupID string) (string, bool, error) {
	return s.Next.LoadGroupParentLink(ctx, groupID)
}

func (s *CachedStore) LoadChildGroupIDs(ctx context.Context, groupID string) ([]string, error) {
	return s.Next.LoadChildGroupIDs(ctx, groupID)
}

// LoadGroupName forwards to the wrapped store when it knows group names.
func (s *CachedStore) LoadGroupName(ctx context.Context, groupID string) (string, error) {
	if namer, ok := s.Next.(federation.GroupNamer); ok {
		return namer.LoadGroupName(ctx, groupID)
	}
	return "", nil
}

// Invalidate drops the cached member lists for the given groups.
func (s *CachedStore) Invalidate(ctx context.Context, groupIDs ...string) error {
	keys := make([]string, 0, len(groupIDs))
	for _, id := range groupIDs {
		keys = append(keys, MembersKey(id))
	}
	return s.Cache.Delete(ctx, keys...)
}
