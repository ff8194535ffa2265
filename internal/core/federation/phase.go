package federation

import "fmt"

type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseFindingRoot      Phase = "finding_root"
	PhaseCollectingGroups Phase = "collecting_groups"
	PhaseBuildingTree     Phase = "building_tree"
	PhaseDone             Phase = "done"
	PhaseError            Phase = "error"
)

var transitions = map[Phase]Phase{
	PhaseIdle:             PhaseFindingRoot,
	PhaseFindingRoot:      PhaseCollectingGroups,
	PhaseCollectingGroups: PhaseBuildingTree,
	PhaseBuildingTree:     PhaseDone,
}

// Machine tracks one federation run. Steps are never skipped; Error is
// reachable from every non-terminal phase; Done and Error are terminal.
type Machine struct {
	phase Phase
}

func NewMachine() *Machine {
	return &Machine{phase: PhaseIdle}
}

func (m *Machine) Phase() Phase { return m.phase }

func (m *Machine) Terminal() bool {
	return m.phase == PhaseDone || m.phase == PhaseError
}

func (m *Machine) Advance(next Phase) error {
	if m.Terminal() {
		return fmt.Errorf("federation already %s, cannot move to %s", m.phase, next)
	}
	if next == PhaseError || transitions[m.phase] == next {
		m.phase = next
		return nil
	}
	return fmt.Errorf("invalid federation transition %s -> %s", m.phase, next)
}

// Fail moves to Error unless the run already finished.
func (m *Machine) Fail() {
	if !m.Terminal() {
		m.phase = PhaseError
	}
}
