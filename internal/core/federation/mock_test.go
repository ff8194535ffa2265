package federation

import (
	"context"
	"fmt"
	"sync"

	"github.com/agenthands/nasab/internal/core/model"
)

type MockStore struct {
	mu       sync.Mutex
	Members  map[string][]model.PersonRecord
	Parents  map[string]string
	Names    map[string]string
	Err      error
	ErrGroup string
	Loads    []string
}

func (m *MockStore) LoadGroupMembers(ctx context.Context, groupID string) ([]model.PersonRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Loads = append(m.Loads, groupID)
	if m.Err != nil && (m.ErrGroup == "" || m.ErrGroup == groupID) {
		return nil, m.Err
	}
	return m.Members[groupID], nil
}

func (m *MockStore) LoadGroupParentLink(ctx context.Context, groupID string) (string, bool, error) {
	parent, ok := m.Parents[groupID]
	return parent, ok, nil
}

func (m *MockStore) LoadChildGroupIDs(ctx context.Context, groupID string) ([]string, error) {
	var ids []string
	// Sorted discovery keeps the tests deterministic.
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		if m.Parents[id] == groupID && id != groupID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *MockStore) LoadGroupName(ctx context.Context, groupID string) (string, error) {
	return m.Names[groupID], nil
}

type lookupFunc map[string]string

func (l lookupFunc) lookup(ctx context.Context, groupID string) (string, bool, error) {
	if groupID == "broken" {
		return "", false, fmt.Errorf("connection reset")
	}
	p, ok := l[groupID]
	return p, ok, nil
}
