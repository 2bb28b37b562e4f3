package flow

// CompletionType decides whether a step advances on any click or waits for
// an explicit done action.
type CompletionType string

const (
	CompletionAuto   CompletionType = "auto"
	CompletionManual CompletionType = "manual"
)

// Kind discriminates button behavior.
type Kind string

const (
	KindDefault  Kind = "default"
	KindRadio    Kind = "radio"
	KindCheckbox Kind = "checkbox"
	KindToggle   Kind = "toggle"
	KindSkip     Kind = "skip"
	KindFinish   Kind = "finish"
)

// DefaultDescription is shown for steps that do not declare a description.
const DefaultDescription = "Please make a selection:"

// DefaultBackLabel is used when a step enables its back button with `true`.
const DefaultBackLabel = "Go Back"

// Definition is a validated workflow. It is never mutated after Load and is
// shared by every session.
type Definition struct {
	name     string
	steps    []Step
	index    map[string]int
	warnings []string
}

// Step is one navigable screen.
type Step struct {
	Key         string
	Description string
	Completion  CompletionType
	Rows        [][]Button
	BackLabel   string // empty when the step has no back button
}

// Button is a single option on a step. Value holds a string or a bool.
type Button struct {
	Label        string
	Value        any
	Kind         Kind
	RadioGroup   string
	SkipCount    int
	InitialState bool
}

// Name returns the workflow name.
func (d *Definition) Name() string { return d.name }

// Len returns the number of steps. An index equal to Len is the finished
// position.
func (d *Definition) Len() int { return len(d.steps) }

// Step returns the step at index i.
func (d *Definition) Step(i int) (*Step, bool) {
	if i < 0 || i >= len(d.steps) {
		return nil, false
	}
	return &d.steps[i], true
}

// Lookup returns the index and step for a step key.
func (d *Definition) Lookup(key string) (int, *Step, bool) {
	i, ok := d.index[key]
	if !ok {
		return 0, nil, false
	}
	return i, &d.steps[i], true
}

// Keys returns the step keys in navigation order.
func (d *Definition) Keys() []string {
	keys := make([]string, len(d.steps))
	for i := range d.steps {
		keys[i] = d.steps[i].Key
	}
	return keys
}

// Warnings returns the non-blocking problems found during Load.
func (d *Definition) Warnings() []string {
	return append([]string(nil), d.warnings...)
}

// IsManual reports whether the step needs an explicit done action.
func (s *Step) IsManual() bool { return s.Completion == CompletionManual }

// HasBack reports whether the step declares a back button.
func (s *Step) HasBack() bool { return s.BackLabel != "" }

// Button returns the button at the given grid position.
func (s *Step) Button(row, col int) (*Button, bool) {
	if row < 0 || row >= len(s.Rows) {
		return nil, false
	}
	if col < 0 || col >= len(s.Rows[row]) {
		return nil, false
	}
	return &s.Rows[row][col], true
}

// RadioGroups returns the distinct radio groups on the step in the order
// they first appear.
func (s *Step) RadioGroups() []string {
	var groups []string
	seen := make(map[string]bool)
	for _, row := range s.Rows {
		for _, b := range row {
			if b.Kind != KindRadio || seen[b.RadioGroup] {
				continue
			}
			seen[b.RadioGroup] = true
			groups = append(groups, b.RadioGroup)
		}
	}
	return groups
}

// Buttons calls fn for every button on the step in grid order.
func (s *Step) Buttons(fn func(row, col int, b *Button)) {
	for r := range s.Rows {
		for c := range s.Rows[r] {
			fn(r, c, &s.Rows[r][c])
		}
	}
}
