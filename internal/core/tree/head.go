package tree

import (
	"github.com/agenthands/nasab/internal/core/model"
	"github.com/agenthands/nasab/internal/core/normalize"
	"github.com/agenthands/nasab/internal/core/similarity"
)

// SelectHead picks a group's head: the member carrying a head relation label.
// Several heads are ranked by how closely their family name matches the group
// name, then by input order. Without any labelled head the first member is
// used. It returns false only for an empty member list.
func SelectHead(members []model.PersonRecord, groupName string, headRelations []string) (model.PersonRecord, bool) {
	if len(members) == 0 {
		return model.PersonRecord{}, false
	}

	labels := labelSet(headRelations)
	best, bestScore := -1, -1
	for i, m := range members {
		if !labels[normalize.Normalize(m.Relation)] {
			continue
		}
		score := 0
		if groupName != "" {
			score = similarity.StringSimilarity(m.FamilyName, groupName)
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 {
		return members[0], true
	}
	return members[best], true
}
