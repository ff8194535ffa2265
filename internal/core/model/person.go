package model

import (
	"strings"
	"time"
)

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// ParseGender maps free-form input onto the enum, defaulting to unknown.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "ذكر":
		return GenderMale
	case "female", "f", "أنثى", "انثى":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// PersonRecord is one entry describing an individual as known within one group.
type PersonRecord struct {
	ID              string     `json:"id"`
	GlobalID        string     `json:"global_id"`
	GroupID         string     `json:"group_id"`
	FirstName       string     `json:"first_name"`
	FatherName      string     `json:"father_name"`
	GrandfatherName string     `json:"grandfather_name"`
	FamilyName      string     `json:"family_name"`
	Gender          Gender     `json:"gender"`
	Relation        string     `json:"relation"`
	BirthDate       *time.Time `json:"birth_date,omitempty"`
	AvatarRef       string     `json:"avatar_ref,omitempty"`

	// Set during tree assembly.
	Depth         int `json:"depth"`
	ChildrenCount int `json:"children_count"`
}

// DisplayName joins the non-empty parts of the name chain.
func (p PersonRecord) DisplayName() string {
	parts := make([]string, 0, 4)
	for _, s := range []string{p.FirstName, p.FatherName, p.GrandfatherName, p.FamilyName} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Key identifies the logical individual. Records without a global id fall
// back to a group-scoped key so they never collide across groups.
func (p PersonRecord) Key() string {
	if p.GlobalID != "" {
		return p.GlobalID
	}
	return p.GroupID + "/" + p.ID
}

// HasName reports whether any of the four name fields is non-blank.
func (p PersonRecord) HasName() bool {
	for _, s := range []string{p.FirstName, p.FatherName, p.GrandfatherName, p.FamilyName} {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

// LogicalPerson merges every record sharing one global id across groups.
type LogicalPerson struct {
	Key     string         `json:"key"`
	Records []PersonRecord `json:"records"`
	Roles   []string       `json:"roles"`
	Groups  []string       `json:"groups"`
}

// Add folds another record of the same individual into the aggregate,
// keeping first-seen order for roles and groups.
func (lp *LogicalPerson) Add(r PersonRecord) {
	lp.Records = append(lp.Records, r)
	if r.Relation != "" && !contains(lp.Roles, r.Relation) {
		lp.Roles = append(lp.Roles, r.Relation)
	}
	if r.GroupID != "" && !contains(lp.Groups, r.GroupID) {
		lp.Groups = append(lp.Groups, r.GroupID)
	}
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

// MergeIdentities groups records by Key, preserving first-seen order.
// The input records are not modified.
func MergeIdentities(records []PersonRecord) (map[string]*LogicalPerson, []string) {
	people := make(map[string]*LogicalPerson, len(records))
	var order []string
	for _, r := range records {
		key := r.Key()
		lp, ok := people[key]
		if !ok {
			lp = &LogicalPerson{Key: key}
			people[key] = lp
			order = append(order, key)
		}
		lp.Add(r)
	}
	return people, order
}
