package tree

import (
	"github.com/agenthands/nasab/internal/config"
	"github.com/agenthands/nasab/internal/core/model"
	"github.com/agenthands/nasab/internal/core/normalize"
)

// ParentPredicate decides whether child is a direct child of parent. The
// assembler hands it records whose name fields and relation are already
// normalized.
type ParentPredicate func(parent, child model.PersonRecord) bool

func DefaultChildRelations() []string {
	return config.Default().Tree.ChildRelations
}

// NameChainPredicate infers parentage from the child's name chain: the
// child's father must be the parent's first name and the child's grandfather
// the parent's father, and the child's relation must be a child label.
func NameChainPredicate(childRelations []string) ParentPredicate {
	labels := labelSet(childRelations)
	return func(parent, child model.PersonRecord) bool {
		if !labels[child.Relation] {
			return false
		}
		if child.FatherName == "" {
			return false
		}
		return child.FatherName == parent.FirstName && child.GrandfatherName == parent.FatherName
	}
}

// SameGroup restricts a predicate to records of the same group, so that name
// collisions across groups are never read as parentage.
func SameGroup(next ParentPredicate) ParentPredicate {
	return func(parent, child model.PersonRecord) bool {
		return parent.GroupID == child.GroupID && next(parent, child)
	}
}

func labelSet(labels []string) map[string]bool {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		if n := normalize.Normalize(l); n != "" {
			set[n] = true
		}
	}
	return set
}

func normalizedRecord(p model.PersonRecord) model.PersonRecord {
	p.FirstName = normalize.Normalize(p.FirstName)
	p.FatherName = normalize.Normalize(p.FatherName)
	p.GrandfatherName = normalize.Normalize(p.GrandfatherName)
	p.FamilyName = normalize.Normalize(p.FamilyName)
	p.Relation = normalize.Normalize(p.Relation)
	return p
}
