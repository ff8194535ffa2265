package tree

import (
	"fmt"

	"github.com/agenthands/nasab/internal/config"
	"github.com/agenthands/nasab/internal/core/model"
)

type Limits struct {
	MaxDepth int `json:"max_depth"`
	MaxTotal int `json:"max_total"`
}

func DefaultLimits() Limits {
	return Limits{MaxDepth: 15, MaxTotal: 2000}
}

// Stats are advisory; they never change the shape of the tree.
type Stats struct {
	PersonCount     int `json:"person_count"`
	MaxDepthReached int `json:"max_depth_reached"`
	// Truncated is set when a depth or size ceiling cut off at least one
	// matching child. TruncatedBranches counts the nodes that lost children.
	Truncated         bool `json:"truncated"`
	TruncatedBranches int  `json:"truncated_branches"`
}

type Assembler struct {
	IsParent ParentPredicate
	Limits   Limits
}

func NewAssembler(isParent ParentPredicate, limits Limits) *Assembler {
	if isParent == nil {
		isParent = NameChainPredicate(DefaultChildRelations())
	}
	return &Assembler{
		IsParent: isParent,
		Limits:   limits,
	}
}

func NewAssemblerFromConfig(cfg config.TreeConfig) *Assembler {
	isParent := NameChainPredicate(cfg.ChildRelations)
	if cfg.SameGroupParentage {
		isParent = SameGroup(isParent)
	}
	return NewAssembler(isParent, Limits{MaxDepth: cfg.MaxDepth, MaxTotal: cfg.MaxTotal})
}

// Input is the member set handed to BuildInput. People is the identity view
// keyed by PersonRecord.Key; when nil it is derived from Members. Origin
// names the group whose nodes are not cross-group; empty disables tagging.
type Input struct {
	Members []model.PersonRecord
	People  map[string]*model.LogicalPerson
	Origin  string
}

// Build assembles the tree below head.
func (a *Assembler) Build(members []model.PersonRecord, head *model.PersonRecord) (*model.TreeNode, Stats, error) {
	if head == nil {
		return nil, Stats{}, model.ErrNoRoot
	}
	return a.BuildInput(Input{Members: members}, *head)
}

// BuildFromHeadID looks the head up among members by identity key.
func (a *Assembler) BuildFromHeadID(members []model.PersonRecord, headKey string) (*model.TreeNode, Stats, error) {
	if headKey == "" {
		return nil, Stats{}, model.ErrNoRoot
	}
	for i := range members {
		if members[i].Key() == headKey {
			return a.BuildInput(Input{Members: members}, members[i])
		}
	}
	return nil, Stats{}, fmt.Errorf("head %q: %w", headKey, model.ErrHeadNotFound)
}

// walk is the traversal state of one Build call. It is never shared.
type walk struct {
	members []model.PersonRecord
	norm    []model.PersonRecord
	aliases map[string][]model.PersonRecord
	people  map[string]*model.LogicalPerson
	visited map[string]bool
	origin  string
	stats   Stats
}

func (a *Assembler) BuildInput(in Input, head model.PersonRecord) (*model.TreeNode, Stats, error) {
	people := in.People
	if people == nil {
		people, _ = model.MergeIdentities(in.Members)
	}

	w := &walk{
		members: in.Members,
		norm:    make([]model.PersonRecord, len(in.Members)),
		aliases: make(map[string][]model.PersonRecord, len(people)),
		people:  people,
		visited: make(map[string]bool),
		origin:  in.Origin,
	}
	for i, m := range in.Members {
		n := normalizedRecord(m)
		w.norm[i] = n
		w.aliases[m.Key()] = append(w.aliases[m.Key()], n)
	}

	headKey := head.Key()
	if _, ok := w.aliases[headKey]; !ok {
		w.aliases[headKey] = []model.PersonRecord{normalizedRecord(head)}
	}

	root := w.node(head, 0)
	w.visited[headKey] = true
	a.grow(w, root)

	w.stats.PersonCount = len(w.visited)
	w.stats.MaxDepthReached = MaxLevel(root)
	return root, w.stats, nil
}

func (w *walk) node(p model.PersonRecord, level int) *model.TreeNode {
	p.Depth = level
	n := &model.TreeNode{
		PersonRecord: p,
		Level:        level,
		IsCrossGroup: w.origin != "" && p.GroupID != w.origin,
		Children:     []*model.TreeNode{},
	}
	if lp, ok := w.people[p.Key()]; ok {
		n.Roles = append([]string(nil), lp.Roles...)
		n.Groups = append([]string(nil), lp.Groups...)
	} else {
		if p.Relation != "" {
			n.Roles = []string{p.Relation}
		}
		if p.GroupID != "" {
			n.Groups = []string{p.GroupID}
		}
	}
	return n
}

// grow claims every unvisited member matching node before descending, so a
// person is attached under the shallowest parent that matches it.
func (a *Assembler) grow(w *walk, node *model.TreeNode) {
	parentKey := node.Key()
	parents := w.aliases[parentKey]
	atDepthLimit := node.Level >= a.Limits.MaxDepth

	var claimed []model.PersonRecord
	for i, m := range w.members {
		key := m.Key()
		if key == parentKey || w.visited[key] {
			continue
		}
		if !a.matchesAny(parents, w.norm[i]) {
			continue
		}
		if atDepthLimit || len(w.visited) >= a.Limits.MaxTotal {
			w.stats.Truncated = true
			w.stats.TruncatedBranches++
			break
		}
		w.visited[key] = true
		claimed = append(claimed, m)
	}

	for _, m := range claimed {
		child := w.node(m, node.Level+1)
		node.Children = append(node.Children, child)
		a.grow(w, child)
	}
	node.ChildrenCount = len(node.Children)
}

func (a *Assembler) matchesAny(parents []model.PersonRecord, child model.PersonRecord) bool {
	for _, p := range parents {
		if a.IsParent(p, child) {
			return true
		}
	}
	return false
}
