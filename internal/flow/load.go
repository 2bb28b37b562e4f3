package flow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDefinition is matched by every *ValidationError.
var ErrInvalidDefinition = errors.New("invalid workflow definition")

// Problem locates one validation failure. Row and Col are -1 when the
// problem concerns the whole step.
type Problem struct {
	Step    string
	Row     int
	Col     int
	Message string
}

func (p Problem) String() string {
	switch {
	case p.Step == "":
		return p.Message
	case p.Row < 0:
		return fmt.Sprintf("step %q: %s", p.Step, p.Message)
	case p.Col < 0:
		return fmt.Sprintf("step %q row %d: %s", p.Step, p.Row, p.Message)
	default:
		return fmt.Sprintf("step %q button [%d][%d]: %s", p.Step, p.Row, p.Col, p.Message)
	}
}

// ValidationError reports every blocking problem found in a definition.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidDefinition, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidDefinition }

type result struct {
	errors   []Problem
	warnings []string
}

func (r *result) fail(step string, row, col int, format string, args ...any) {
	r.errors = append(r.errors, Problem{Step: step, Row: row, Col: col, Message: fmt.Sprintf(format, args...)})
}

func (r *result) warn(step string, format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf("step %q: %s", step, fmt.Sprintf(format, args...)))
}

// Load validates raw and builds the immutable Definition. The engine never
// sees a definition that did not pass Load.
func Load(raw RawWorkflow) (*Definition, error) {
	r := &result{}
	if len(raw.Ignored) > 0 {
		r.warnings = append(r.warnings, fmt.Sprintf(
			"document has %d extra top-level keys %v; using %q", len(raw.Ignored), raw.Ignored, raw.Name))
	}
	if len(raw.Steps) == 0 {
		r.fail("", -1, -1, "workflow %q has no steps", raw.Name)
		return nil, &ValidationError{Problems: r.errors}
	}

	def := &Definition{
		name:  raw.Name,
		steps: make([]Step, 0, len(raw.Steps)),
		index: make(map[string]int, len(raw.Steps)),
	}

	for i, rs := range raw.Steps {
		if rs.Key == "" {
			r.fail("", -1, -1, "step %d has an empty key", i)
			continue
		}
		if strings.Contains(rs.Key, ":") {
			r.fail(rs.Key, -1, -1, "step key must not contain ':'")
			continue
		}
		if _, dup := def.index[rs.Key]; dup {
			r.fail(rs.Key, -1, -1, "duplicate step key")
			continue
		}
		step := buildStep(rs, i, len(raw.Steps), r)
		def.index[rs.Key] = len(def.steps)
		def.steps = append(def.steps, step)
	}

	checkSelectionKeys(def.steps, r)

	if len(r.errors) > 0 {
		return nil, &ValidationError{Problems: r.errors}
	}
	def.warnings = r.warnings
	return def, nil
}

func buildStep(rs RawStep, index, total int, r *result) Step {
	step := Step{
		Key:         rs.Key,
		Description: rs.Description,
		Completion:  CompletionType(rs.CompletionType),
	}
	if step.Description == "" {
		step.Description = DefaultDescription
	}

	switch step.Completion {
	case "":
		step.Completion = CompletionAuto
	case CompletionAuto, CompletionManual:
	default:
		r.fail(rs.Key, -1, -1, "completionType %q is not valid (must be \"auto\" or \"manual\")", rs.CompletionType)
	}

	switch back := rs.BackButton.(type) {
	case nil:
	case bool:
		if back {
			step.BackLabel = DefaultBackLabel
		}
	case string:
		step.BackLabel = strings.TrimSpace(back)
		if step.BackLabel == "" {
			r.fail(rs.Key, -1, -1, "backButton label must not be blank")
		}
	default:
		r.fail(rs.Key, -1, -1, "backButton must be a bool or a label string")
	}

	last := index == total-1
	if len(rs.Options) == 0 && !(last && step.Completion == CompletionManual) {
		r.fail(rs.Key, -1, -1, "step has no buttons")
	}

	step.Rows = make([][]Button, len(rs.Options))
	for ri, row := range rs.Options {
		if len(row) == 0 {
			r.fail(rs.Key, ri, -1, "row has no buttons")
			continue
		}
		step.Rows[ri] = make([]Button, len(row))
		for ci, rb := range row {
			step.Rows[ri][ci] = buildButton(rs.Key, ri, ci, rb, &step, index, total, r)
		}
	}
	return step
}

func buildButton(stepKey string, row, col int, rb RawButton, step *Step, index, total int, r *result) Button {
	b := Button{
		Label:      rb.ButtonName,
		Value:      rb.Value,
		Kind:       Kind(rb.Type),
		RadioGroup: rb.RadioGroup,
	}
	if b.Kind == "" {
		b.Kind = KindDefault
	}
	if b.Label == "" {
		r.fail(stepKey, row, col, "buttonName is required")
	}
	switch rb.Value.(type) {
	case string, bool:
	case nil:
		r.fail(stepKey, row, col, "value is required")
	default:
		r.fail(stepKey, row, col, "value must be a string or a bool, got %T", rb.Value)
	}

	switch b.Kind {
	case KindDefault, KindCheckbox, KindToggle, KindFinish:
	case KindRadio:
		if b.RadioGroup == "" {
			r.fail(stepKey, row, col, "radio button requires radioGroup")
		}
		if step.Completion != CompletionManual {
			r.fail(stepKey, row, col, "radio buttons are only allowed on manual steps")
		}
	case KindSkip:
		if rb.SkipSteps == nil || *rb.SkipSteps < 1 {
			r.fail(stepKey, row, col, "skip button requires skipSteps >= 1")
		} else {
			b.SkipCount = *rb.SkipSteps
			if index+1+b.SkipCount > total {
				r.warn(stepKey, "skip button %q jumps past the last step and will finish the workflow", b.Label)
			}
		}
	default:
		r.fail(stepKey, row, col, "unknown button type %q", rb.Type)
	}

	if b.Kind != KindRadio && b.RadioGroup != "" {
		r.warn(stepKey, "radioGroup on %s button %q is ignored", b.Kind, b.Label)
		b.RadioGroup = ""
	}
	if b.Kind != KindSkip && rb.SkipSteps != nil {
		r.warn(stepKey, "skipSteps on %s button %q is ignored", b.Kind, b.Label)
	}
	if rb.InitialState != nil {
		if b.Kind == KindToggle {
			b.InitialState = *rb.InitialState
		} else {
			r.warn(stepKey, "initialState on %s button %q is ignored", b.Kind, b.Label)
		}
	}
	if (b.Kind == KindCheckbox || b.Kind == KindToggle) && step.Completion == CompletionAuto {
		r.warn(stepKey, "%s button %q on an auto step never advances", b.Kind, b.Label)
	}
	return b
}

// checkSelectionKeys rejects a name that would be recorded by two kinds of
// selection: step values, radio groups, checkboxes and toggles share one
// summary.
func checkSelectionKeys(steps []Step, r *result) {
	owner := make(map[string]string)
	reported := make(map[string]bool)
	claim := func(stepKey, name, kind string) {
		if name == "" {
			return
		}
		prev, ok := owner[name]
		if !ok {
			owner[name] = kind
			return
		}
		if prev != kind && !reported[name] {
			reported[name] = true
			r.fail(stepKey, -1, -1, "selection key %q is used both as %s and as %s", name, prev, kind)
		}
	}

	for i := range steps {
		step := &steps[i]
		step.Buttons(func(_, _ int, b *Button) {
			switch b.Kind {
			case KindDefault, KindSkip, KindFinish:
				claim(step.Key, step.Key, "step value")
			case KindRadio:
				claim(step.Key, b.RadioGroup, "radio group")
			case KindCheckbox:
				// same composite key the selection store records
				claim(step.Key, step.Key+"/"+FormatValue(b.Value), "checkbox")
			case KindToggle:
				claim(step.Key, FormatValue(b.Value), "toggle")
			}
		})
	}
}
