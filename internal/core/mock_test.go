package core

import (
	"context"
	"fmt"

	"github.com/agenthands/nasab/internal/core/model"
)

type MockStore struct {
	Members     map[string][]model.PersonRecord
	Parents     map[string]string
	Names       map[string]string
	Groups      map[string]string
	Err         error
	Saved       []model.PersonRecord
	Invalidated []string
	nextID      int
}

func NewMockStore() *MockStore {
	return &MockStore{
		Members: map[string][]model.PersonRecord{},
		Parents: map[string]string{},
		Names:   map[string]string{},
		Groups:  map[string]string{},
	}
}

func (m *MockStore) LoadGroupMembers(ctx context.Context, groupID string) ([]model.PersonRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Members[groupID], nil
}

func (m *MockStore) LoadGroupParentLink(ctx context.Context, groupID string) (string, bool, error) {
	p, ok := m.Parents[groupID]
	return p, ok, nil
}

func (m *MockStore) LoadChildGroupIDs(ctx context.Context, groupID string) ([]string, error) {
	var ids []string
	for _, id := range []string{"A", "B", "C"} {
		if m.Parents[id] == groupID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *MockStore) LoadGroupName(ctx context.Context, groupID string) (string, error) {
	return m.Names[groupID], nil
}

func (m *MockStore) SavePerson(ctx context.Context, p model.PersonRecord) (model.PersonRecord, error) {
	if p.ID == "" {
		m.nextID++
		p.ID = fmt.Sprintf("p-%d", m.nextID)
	}
	m.Saved = append(m.Saved, p)
	m.Members[p.GroupID] = append(m.Members[p.GroupID], p)
	return p, nil
}

func (m *MockStore) SaveGroup(ctx context.Context, id, name string) error {
	m.Groups[id] = name
	m.Names[id] = name
	return nil
}

func (m *MockStore) LinkGroup(ctx context.Context, groupID, parentID string) error {
	m.Parents[groupID] = parentID
	return nil
}

func (m *MockStore) Invalidate(ctx context.Context, groupIDs ...string) error {
	m.Invalidated = append(m.Invalidated, groupIDs...)
	return nil
}
