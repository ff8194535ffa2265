package model

type Field string

const (
	FieldFirstName       Field = "first_name"
	FieldFatherName      Field = "father_name"
	FieldGrandfatherName Field = "grandfather_name"
	FieldFamilyName      Field = "family_name"
)

// Fields lists the name-chain fields in scoring order.
var Fields = []Field{FieldFirstName, FieldFatherName, FieldGrandfatherName, FieldFamilyName}

// Value returns the record's value for a name field.
func (p PersonRecord) Value(f Field) string {
	switch f {
	case FieldFirstName:
		return p.FirstName
	case FieldFatherName:
		return p.FatherName
	case FieldGrandfatherName:
		return p.GrandfatherName
	case FieldFamilyName:
		return p.FamilyName
	}
	return ""
}

type MatchCandidate struct {
	Candidate      PersonRecord  `json:"candidate"`
	Similarity     int           `json:"similarity"`
	FieldBreakdown map[Field]int `json:"field_breakdown"`
}

type DecisionKind string

const (
	DecisionCreated        DecisionKind = "created"
	DecisionSuggestLink    DecisionKind = "suggest_link"
	DecisionConfirmNeeded  DecisionKind = "confirm_needed"
	DecisionDuplicateFound DecisionKind = "duplicate_found"
)

// ResolutionDecision is advisory; the caller performs any create or merge.
type ResolutionDecision struct {
	Kind         DecisionKind     `json:"kind"`
	Candidate    *PersonRecord    `json:"candidate,omitempty"`
	Similarity   int              `json:"similarity,omitempty"`
	Alternatives []MatchCandidate `json:"alternatives,omitempty"`
}
