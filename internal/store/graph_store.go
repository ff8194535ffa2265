package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/nasab/internal/core/model"
	"github.com/agenthands/nasab/internal/driver"
)

// GraphStore keeps groups and person records in the graph database. Groups
// are :Group nodes linked to their parent group by LINKED_TO; person records
// are :Person nodes scoped by group_id.
type GraphStore struct {
	Driver        driver.GraphDriver
	UUIDGenerator func() string
	Now           func() time.Time
}

func NewGraphStore(d driver.GraphDriver) *GraphStore {
	return &GraphStore{
		Driver:        d,
		UUIDGenerator: func() string { return uuid.New().String() },
		Now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *GraphStore) BuildIndices(ctx context.Context) error {
	return s.Driver.BuildIndices(ctx)
}

func (s *GraphStore) SaveGroup(ctx context.Context, id, name string) error {
	params := map[string]interface{}{
		"id":         id,
		"name":       name,
		"created_at": s.Now().Format(time.RFC3339Nano),
	}
	if _, err := s.Driver.ExecuteQuery(ctx, driver.SaveGroupQuery, params); err != nil {
		return fmt.Errorf("save group %q: %w", id, err)
	}
	return nil
}

// LinkGroup points groupID at parentID, replacing any previous parent link.
// An empty parentID removes the link.
func (s *GraphStore) LinkGroup(ctx context.Context, groupID, parentID string) error {
	query := driver.LinkGroupQuery
	if parentID == "" {
		query = driver.UnlinkGroupQuery
	}
	params := map[string]interface{}{
		"group_id":  groupID,
		"parent_id": parentID,
	}
	if _, err := s.Driver.ExecuteQuery(ctx, query, params); err != nil {
		return fmt.Errorf("link group %q to %q: %w", groupID, parentID, err)
	}
	return nil
}

// SavePerson upserts a record, assigning an id and global id when missing.
func (s *GraphStore) SavePerson(ctx context.Context, p model.PersonRecord) (model.PersonRecord, error) {
	if p.GroupID == "" {
		return p, fmt.Errorf("save person: group id required: %w", model.ErrInvalidInput)
	}
	if p.ID == "" {
		p.ID = s.UUIDGenerator()
	}
	if p.GlobalID == "" {
		p.GlobalID = s.UUIDGenerator()
	}
	if p.Gender == "" {
		p.Gender = model.GenderUnknown
	}

	birthDate := ""
	if p.BirthDate != nil {
		birthDate = p.BirthDate.Format(dateLayout)
	}

	params := map[string]interface{}{
		"id":               p.ID,
		"global_id":        p.GlobalID,
		"group_id":         p.GroupID,
		"first_name":       p.FirstName,
		"father_name":      p.FatherName,
		"grandfather_name": p.GrandfatherName,
		"family_name":      p.FamilyName,
		"gender":           string(p.Gender),
		"relation":         p.Relation,
		"birth_date":       birthDate,
		"avatar_ref":       p.AvatarRef,
		"position":         s.Now().UnixNano(),
	}
	if _, err := s.Driver.ExecuteQuery(ctx, driver.SavePersonQuery, params); err != nil {
		return p, fmt.Errorf("save person %q: %w", p.ID, err)
	}
	return p, nil
}

func (s *GraphStore) LoadGroupMembers(ctx context.Context, groupID string) ([]model.PersonRecord, error) {
	res, err := s.Driver.ExecuteQuery(ctx, driver.GetGroupMembersQuery, map[string]interface{}{"group_id": groupID})
	if err != nil {
		return nil, err
	}

	members := make([]model.PersonRecord, 0, len(res.Records))
	for _, rec := range res.Records {
		members = append(members, decodePerson(rec))
	}
	return members, nil
}

func (s *GraphStore) LoadGroupParentLink(ctx context.Context, groupID string) (string, bool, error) {
	res, err := s.Driver.ExecuteQuery(ctx, driver.GetGroupParentQuery, map[string]interface{}{"group_id": groupID})
	if err != nil {
		return "", false, err
	}
	if len(res.Records) == 0 {
		return "", false, nil
	}
	parent := getString(res.Records[0], "parent_id")
	return parent, parent != "", nil
}

func (s *GraphStore) LoadChildGroupIDs(ctx context.Context, groupID string) ([]string, error) {
	res, err := s.Driver.ExecuteQuery(ctx, driver.GetChildGroupsQuery, map[string]interface{}{"group_id": groupID})
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, rec := range res.Records {
		if id := getString(rec, "id"); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *GraphStore) LoadGroupName(ctx context.Context, groupID string) (string, error) {
	res, err := s.Driver.ExecuteQuery(ctx, driver.GetGroupQuery, map[string]interface{}{"group_id": groupID})
	if err != nil {
		return "", err
	}
	if len(res.Records) == 0 {
		return "", nil
	}
	return getString(res.Records[0], "name"), nil
}

const dateLayout = "2006-01-02"

func decodePerson(rec *neo4j.Record) model.PersonRecord {
	p := model.PersonRecord{
		ID:              getString(rec, "id"),
		GlobalID:        getString(rec, "global_id"),
		GroupID:         getString(rec, "group_id"),
		FirstName:       getString(rec, "first_name"),
		FatherName:      getString(rec, "father_name"),
		GrandfatherName: getString(rec, "grandfather_name"),
		FamilyName:      getString(rec, "family_name"),
		Gender:          model.ParseGender(getString(rec, "gender")),
		Relation:        getString(rec, "relation"),
		AvatarRef:       getString(rec, "avatar_ref"),
	}
	if raw := strings.TrimSpace(getString(rec, "birth_date")); raw != "" {
		if t, err := time.Parse(dateLayout, raw); err == nil {
			p.BirthDate = &t
		} else if t, err := time.Parse(time.RFC3339, raw); err == nil {
			p.BirthDate = &t
		}
	}
	return p
}

func getString(rec *neo4j.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
