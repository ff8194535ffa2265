package server

import (
	"context"
	"fmt"

	"github.com/agenthands/nasab/internal/core/model"
)

type MockStore struct {
	Members map[string][]model.PersonRecord
	Parents map[string]string
	Err     error
	Saved   []model.PersonRecord
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
	for child, parent := range m.Parents {
		if parent == groupID {
			ids = append(ids, child)
		}
	}
	return ids, nil
}

func (m *MockStore) SavePerson(ctx context.Context, p model.PersonRecord) (model.PersonRecord, error) {
	if p.ID == "" {
		p.ID = fmt.Sprintf("p-%d", len(m.Saved)+1)
	}
	m.Saved = append(m.Saved, p)
	return p, nil
}

func (m *MockStore) SaveGroup(ctx context.Context, id, name string) error {
	return nil
}

func (m *MockStore) LinkGroup(ctx context.Context, groupID, parentID string) error {
	if m.Parents == nil {
		m.Parents = map[string]string{}
	}
	m.Parents[groupID] = parentID
	return nil
}
