package dedupe

import (
	"fmt"
	"sort"

	"github.com/agenthands/nasab/internal/config"
	"github.com/agenthands/nasab/internal/core/model"
	"github.com/agenthands/nasab/internal/core/normalize"
	"github.com/agenthands/nasab/internal/core/similarity"
)

// Policy is the confidence tier table. Scores at or above LinkThreshold
// suggest a link, scores in [ConfirmThreshold, LinkThreshold) need explicit
// confirmation, and scores in [ResolveThreshold, ConfirmThreshold) are
// reported as a blocking duplicate warning.
type Policy struct {
	FindThreshold    int
	ResolveThreshold int
	ConfirmThreshold int
	LinkThreshold    int
	MaxAlternatives  int
}

func DefaultPolicy() Policy {
	return PolicyFromConfig(config.Default().Matching)
}

func PolicyFromConfig(cfg config.MatchingConfig) Policy {
	return Policy{
		FindThreshold:    cfg.FindThreshold,
		ResolveThreshold: cfg.ResolveThreshold,
		ConfirmThreshold: cfg.ConfirmThreshold,
		LinkThreshold:    cfg.LinkThreshold,
		MaxAlternatives:  cfg.MaxAlternatives,
	}
}

// Resolver ranks candidate records against a target. It never merges
// anything; callers act on the returned decision.
type Resolver struct {
	Scorer *similarity.Scorer
	Policy Policy
}

func NewResolver(scorer *similarity.Scorer, policy Policy) *Resolver {
	if scorer == nil {
		scorer = similarity.NewScorer(nil)
	}
	return &Resolver{
		Scorer: scorer,
		Policy: policy,
	}
}

func NewResolverFromConfig(cfg config.MatchingConfig) *Resolver {
	return NewResolver(similarity.NewScorer(similarity.WeightsFromConfig(cfg.Weights)), PolicyFromConfig(cfg))
}

// FindSimilar returns pool members scoring at least threshold against target,
// best first. Equal scores keep pool order. The target itself is skipped by id.
func (r *Resolver) FindSimilar(target model.PersonRecord, pool []model.PersonRecord, threshold int) []model.MatchCandidate {
	var matches []model.MatchCandidate
	for _, candidate := range pool {
		if target.ID != "" && candidate.ID == target.ID {
			continue
		}
		score, breakdown := r.Scorer.Compare(target, candidate)
		if score < threshold {
			continue
		}
		matches = append(matches, model.MatchCandidate{
			Candidate:      candidate,
			Similarity:     score,
			FieldBreakdown: breakdown,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches
}

// Resolve classifies the best match for target into a confidence tier.
func (r *Resolver) Resolve(target model.PersonRecord, pool []model.PersonRecord) (model.ResolutionDecision, error) {
	if !hasComparableName(target) {
		return model.ResolutionDecision{}, fmt.Errorf("resolve %q: all name fields are empty: %w", target.ID, model.ErrInvalidInput)
	}

	matches := r.FindSimilar(target, pool, r.Policy.ResolveThreshold)
	if len(matches) == 0 {
		return model.ResolutionDecision{Kind: model.DecisionCreated}, nil
	}

	best := matches[0]
	candidate := best.Candidate
	decision := model.ResolutionDecision{
		Candidate:  &candidate,
		Similarity: best.Similarity,
	}

	switch {
	case best.Similarity >= r.Policy.LinkThreshold:
		decision.Kind = model.DecisionSuggestLink
	case best.Similarity >= r.Policy.ConfirmThreshold:
		decision.Kind = model.DecisionConfirmNeeded
	default:
		decision.Kind = model.DecisionDuplicateFound
		n := r.Policy.MaxAlternatives
		if n > len(matches) {
			n = len(matches)
		}
		if n > 0 {
			decision.Alternatives = append([]model.MatchCandidate(nil), matches[:n]...)
		}
	}

	return decision, nil
}

func hasComparableName(p model.PersonRecord) bool {
	for _, f := range model.Fields {
		if normalize.Normalize(p.Value(f)) != "" {
			return true
		}
	}
	return false
}
