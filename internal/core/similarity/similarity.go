package similarity

import (
	"math"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/agenthands/nasab/internal/config"
	"github.com/agenthands/nasab/internal/core/model"
	"github.com/agenthands/nasab/internal/core/normalize"
)

// StringSimilarity scores two names 0-100 by normalized Levenshtein distance
// over runes. Two empty names score 100, one empty name scores 0.
func StringSimilarity(a, b string) int {
	return normalizedSimilarity(normalize.Normalize(a), normalize.Normalize(b))
}

func normalizedSimilarity(a, b string) int {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 && lb == 0 {
		return 100
	}
	if la == 0 || lb == 0 {
		return 0
	}
	if a == b {
		return 100
	}

	longest := la
	if lb > longest {
		longest = lb
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round((1 - float64(dist)/float64(longest)) * 100))
}

type Weights map[model.Field]int

func DefaultWeights() Weights {
	return Weights{
		model.FieldFirstName:       40,
		model.FieldFatherName:      35,
		model.FieldGrandfatherName: 15,
		model.FieldFamilyName:      10,
	}
}

func WeightsFromConfig(cfg config.WeightsConfig) Weights {
	return Weights{
		model.FieldFirstName:       cfg.FirstName,
		model.FieldFatherName:      cfg.FatherName,
		model.FieldGrandfatherName: cfg.GrandfatherName,
		model.FieldFamilyName:      cfg.FamilyName,
	}
}

// Scorer computes the weighted composite similarity of two person records.
type Scorer struct {
	Weights Weights
}

func NewScorer(weights Weights) *Scorer {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &Scorer{Weights: weights}
}

// Compare returns the composite score and the per-field scores that fed it.
//
// A field empty on both sides carries no information and is left out of the
// weighting entirely. A field empty on one side counts its full weight against
// the score. Records with no comparable field score 0.
func (s *Scorer) Compare(p1, p2 model.PersonRecord) (int, map[model.Field]int) {
	breakdown := make(map[model.Field]int, len(model.Fields))
	var numerator, denominator float64

	for _, f := range model.Fields {
		w := s.Weights[f]
		if w <= 0 {
			continue
		}
		a := normalize.Normalize(p1.Value(f))
		b := normalize.Normalize(p2.Value(f))

		switch {
		case a == "" && b == "":
			continue
		case a == "" || b == "":
			breakdown[f] = 0
			denominator += float64(w)
		default:
			sim := normalizedSimilarity(a, b)
			breakdown[f] = sim
			numerator += float64(sim) * float64(w) / 100
			denominator += float64(w)
		}
	}

	if denominator == 0 {
		return 0, breakdown
	}
	return int(math.Round(numerator / denominator * 100)), breakdown
}

func (s *Scorer) RecordSimilarity(p1, p2 model.PersonRecord) int {
	score, _ := s.Compare(p1, p2)
	return score
}

var defaultScorer = NewScorer(nil)

// RecordSimilarity scores two records with the default 40/35/15/10 weights.
func RecordSimilarity(p1, p2 model.PersonRecord) int {
	return defaultScorer.RecordSimilarity(p1, p2)
}
