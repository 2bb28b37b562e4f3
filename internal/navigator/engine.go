// Package navigator moves a session through a workflow definition one
// button press at a time.
package navigator

import (
	"fmt"
	"log/slog"

	"github.com/manno/inflow/internal/flow"
)

// Outcome describes an accepted transition.
type Outcome struct {
	From     int
	To       int
	Moved    bool
	Finished bool
	Button   *flow.Button // nil for done and back
}

// Engine applies actions to session state. It holds no per-session data and
// is safe for concurrent use; callers serialize access to each State.
type Engine struct {
	def             *flow.Definition
	logger          *slog.Logger
	preselectRadios bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithPreselectRadios makes Prepare select the first button of every
// unselected radio group when a manual step is shown.
func WithPreselectRadios(enabled bool) Option {
	return func(e *Engine) {
		e.preselectRadios = enabled
	}
}

// New creates an engine for def.
func New(def *flow.Definition, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		def:    def,
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Definition returns the workflow the engine navigates.
func (e *Engine) Definition() *flow.Definition {
	return e.def
}

// Finished reports whether st is past the last step.
func (e *Engine) Finished(st *State) bool {
	return st.Index >= e.def.Len()
}

// CurrentStep returns the step st is positioned on.
func (e *Engine) CurrentStep(st *State) (*flow.Step, bool) {
	return e.def.Step(st.Index)
}

// CanGoBack reports whether a back action would be accepted.
func (e *Engine) CanGoBack(st *State) bool {
	step, ok := e.CurrentStep(st)
	return ok && step.HasBack() && len(st.History) > 0
}

// Prepare seeds lazily initialized selections for the current step before
// it is rendered: toggles get their initial state and, when enabled, radio
// groups on manual steps get their first option.
func (e *Engine) Prepare(st *State) {
	step, ok := e.CurrentStep(st)
	if !ok {
		return
	}
	step.Buttons(func(_, _ int, b *flow.Button) {
		switch b.Kind {
		case flow.KindToggle:
			st.Selections.SeedToggle(flow.FormatValue(b.Value), b.InitialState)
		case flow.KindRadio:
			if !e.preselectRadios || !step.IsManual() {
				return
			}
			if _, ok := st.Selections.Radio(b.RadioGroup); !ok {
				st.Selections.RecordRadio(b.RadioGroup, b.Value)
				e.logger.Debug("preselected radio option",
					"step", step.Key,
					"group", b.RadioGroup,
					"button", b.Label)
			}
		}
	})
}

// Apply performs a on st. A rejected action returns an error and leaves st
// exactly as it was.
func (e *Engine) Apply(st *State, a Action) (Outcome, error) {
	if e.Finished(st) {
		return Outcome{}, ErrFinished
	}
	step, ok := e.CurrentStep(st)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: step index %d out of range", ErrInvalidState, st.Index)
	}
	if a.StepKey != step.Key {
		return Outcome{}, &StaleError{Pressed: a.StepKey, Current: step.Key}
	}

	next := st.Clone()
	var (
		out Outcome
		err error
	)
	switch a.Kind {
	case ActionPress:
		out, err = e.press(&next, step, a.Row, a.Col)
	case ActionDone:
		out, err = e.done(&next, step)
	case ActionBack:
		out, err = e.back(&next, step)
	default:
		err = fmt.Errorf("%w: unknown action kind %d", ErrValidation, a.Kind)
	}
	if err != nil {
		return Outcome{}, err
	}

	out.From = st.Index
	out.To = next.Index
	out.Moved = out.From != out.To
	out.Finished = e.Finished(&next)
	*st = next
	return out, nil
}

func (e *Engine) press(st *State, step *flow.Step, row, col int) (Outcome, error) {
	b, ok := step.Button(row, col)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: step %q has no button at [%d][%d]", ErrUnknownButton, step.Key, row, col)
	}
	out := Outcome{Button: b}

	switch b.Kind {
	case flow.KindDefault:
		st.Selections.RecordDefault(step.Key, b.Value)
		if !step.IsManual() {
			e.advance(st, 1)
		}
	case flow.KindRadio:
		st.Selections.RecordRadio(b.RadioGroup, b.Value)
	case flow.KindCheckbox:
		st.Selections.ToggleCheckbox(step.Key, flow.FormatValue(b.Value))
	case flow.KindToggle:
		st.Selections.FlipToggle(flow.FormatValue(b.Value), b.InitialState)
	case flow.KindSkip:
		st.Selections.RecordDefault(step.Key, b.Value)
		e.advance(st, 1+b.SkipCount)
	case flow.KindFinish:
		st.Selections.RecordDefault(step.Key, b.Value)
		e.advance(st, e.def.Len())
	default:
		return Outcome{}, fmt.Errorf("%w: button kind %q", ErrUnknownButton, b.Kind)
	}
	return out, nil
}

func (e *Engine) done(st *State, step *flow.Step) (Outcome, error) {
	if !step.IsManual() {
		return Outcome{}, ErrNotManual
	}

	var missing []string
	for _, group := range step.RadioGroups() {
		if _, ok := st.Selections.Radio(group); !ok {
			missing = append(missing, group)
		}
	}
	if len(missing) > 0 {
		return Outcome{}, &IncompleteError{Step: step.Key, Groups: missing}
	}

	e.advance(st, 1)
	return Outcome{}, nil
}

func (e *Engine) back(st *State, step *flow.Step) (Outcome, error) {
	if !step.HasBack() {
		return Outcome{}, ErrNoBackButton
	}
	if len(st.History) == 0 {
		return Outcome{}, ErrNoHistory
	}

	last := len(st.History) - 1
	st.Index = st.History[last]
	st.History = st.History[:last]
	return Outcome{}, nil
}

// advance pushes the current index and moves forward by n. Landing past the
// last step finishes the workflow.
func (e *Engine) advance(st *State, n int) {
	st.History = append(st.History, st.Index)
	target := st.Index + n
	if target > e.def.Len() {
		target = e.def.Len()
	}
	st.Index = target
}
