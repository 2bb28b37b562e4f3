// Package render turns session state into an abstract screen: text plus a
// button grid that a transport can draw as an inline keyboard.
package render

import (
	"github.com/manno/inflow/internal/flow"
	"github.com/manno/inflow/internal/navigator"
	"github.com/manno/inflow/internal/selection"
)

// Selection markers prefixed to stateful button labels.
const (
	RadioSelected      = "🟢"
	RadioUnselected    = "🔘"
	CheckboxSelected   = "✅"
	CheckboxUnselected = "⬜"
	ToggleOn           = "🟢"
	ToggleOff          = "🔴"
	BackMarker         = "⬅️"
	DoneMarker         = "✅"
)

// Button kinds for the synthesized navigation buttons.
const (
	KindDone = "done"
	KindBack = "back"
)

// Labels holds the configurable texts of synthesized elements.
type Labels struct {
	Done         string
	Back         string // replaces the stock back label of steps using `backButton: true`
	SummaryTitle string
}

// DefaultLabels returns the stock texts.
func DefaultLabels() Labels {
	return Labels{
		Done:         "Done / Next",
		Back:         flow.DefaultBackLabel,
		SummaryTitle: "Workflow completed! Here are your selections:",
	}
}

// Button is one rendered key. Data is the callback data the transport
// sends back when it is pressed.
type Button struct {
	Label    string `json:"label"`
	Data     string `json:"data"`
	Kind     string `json:"kind"`
	Selected bool   `json:"selected,omitempty"`
}

// Screen is everything a transport needs to draw one message. Text is raw;
// NeedsEscaping tells the transport to escape it for its markup dialect.
type Screen struct {
	StepKey       string            `json:"step,omitempty"`
	Text          string            `json:"text"`
	NeedsEscaping bool              `json:"needsEscaping"`
	Rows          [][]Button        `json:"rows,omitempty"`
	Finished      bool              `json:"finished"`
	Summary       []selection.Entry `json:"summary,omitempty"`
	Notice        string            `json:"notice,omitempty"`
}

// Planner builds screens.
type Planner struct {
	labels Labels
}

// NewPlanner returns a planner; empty label fields fall back to defaults.
func NewPlanner(labels Labels) *Planner {
	def := DefaultLabels()
	if labels.Done == "" {
		labels.Done = def.Done
	}
	if labels.Back == "" {
		labels.Back = def.Back
	}
	if labels.SummaryTitle == "" {
		labels.SummaryTitle = def.SummaryTitle
	}
	return &Planner{labels: labels}
}

// ForState renders whatever st is positioned on: the current step or the
// completion summary.
func (p *Planner) ForState(e *navigator.Engine, st *navigator.State) Screen {
	step, ok := e.CurrentStep(st)
	if !ok {
		return p.Finished(st.Selections)
	}
	return p.Plan(step, st.Selections, e.CanGoBack(st))
}

// Plan renders a step. canGoBack adds the back row when the step declares
// a back button.
func (p *Planner) Plan(step *flow.Step, sel *selection.Store, canGoBack bool) Screen {
	screen := Screen{
		StepKey:       step.Key,
		Text:          step.Description,
		NeedsEscaping: true,
		Rows:          make([][]Button, 0, len(step.Rows)+2),
	}

	for r, row := range step.Rows {
		keys := make([]Button, 0, len(row))
		for c := range row {
			keys = append(keys, p.option(step, &row[c], r, c, sel))
		}
		screen.Rows = append(screen.Rows, keys)
	}

	if step.IsManual() {
		screen.Rows = append(screen.Rows, []Button{{
			Label: DoneMarker + " " + p.labels.Done,
			Data:  navigator.EncodeCallback(navigator.Action{Kind: navigator.ActionDone, StepKey: step.Key}),
			Kind:  KindDone,
		}})
	}
	if canGoBack && step.HasBack() {
		label := step.BackLabel
		if label == flow.DefaultBackLabel {
			label = p.labels.Back
		}
		screen.Rows = append(screen.Rows, []Button{{
			Label: BackMarker + " " + label,
			Data:  navigator.EncodeCallback(navigator.Action{Kind: navigator.ActionBack, StepKey: step.Key}),
			Kind:  KindBack,
		}})
	}
	return screen
}

// Finished renders the completion summary. It has no buttons.
func (p *Planner) Finished(sel *selection.Store) Screen {
	return Screen{
		Text:          p.labels.SummaryTitle,
		NeedsEscaping: true,
		Finished:      true,
		Summary:       sel.Snapshot(),
	}
}

func (p *Planner) option(step *flow.Step, b *flow.Button, row, col int, sel *selection.Store) Button {
	out := Button{
		Label: b.Label,
		Data:  navigator.EncodeCallback(navigator.Action{Kind: navigator.ActionPress, StepKey: step.Key, Row: row, Col: col}),
		Kind:  string(b.Kind),
	}

	var marker string
	switch b.Kind {
	case flow.KindRadio:
		v, ok := sel.Radio(b.RadioGroup)
		out.Selected = ok && v == b.Value
		marker = pick(out.Selected, RadioSelected, RadioUnselected)
	case flow.KindCheckbox:
		out.Selected = sel.Checked(step.Key, flow.FormatValue(b.Value))
		marker = pick(out.Selected, CheckboxSelected, CheckboxUnselected)
	case flow.KindToggle:
		out.Selected = sel.Toggle(flow.FormatValue(b.Value), b.InitialState)
		marker = pick(out.Selected, ToggleOn, ToggleOff)
	}
	if marker != "" {
		out.Label = marker + " " + b.Label
	}
	return out
}

func pick(on bool, yes, no string) string {
	if on {
		return yes
	}
	return no
}
