package navigator

import "github.com/manno/inflow/internal/selection"

// State is the mutable part of a session the engine works on.
type State struct {
	Index      int
	History    []int
	Selections *selection.Store
}

// NewState returns a state positioned on the first step.
func NewState() State {
	return State{Selections: selection.New()}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	c := State{
		Index:   s.Index,
		History: append([]int(nil), s.History...),
	}
	if s.Selections != nil {
		c.Selections = s.Selections.Clone()
	} else {
		c.Selections = selection.New()
	}
	return c
}

// Reset moves back to the first step and forgets everything.
func (s *State) Reset() {
	s.Index = 0
	s.History = nil
	s.Selections = selection.New()
}
