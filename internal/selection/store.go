// Package selection records the values a user picked while walking a
// workflow. It performs no I/O and is not safe for concurrent use; callers
// serialize access per session.
package selection

type slot int

const (
	slotStep slot = iota
	slotRadio
	slotCheckbox
	slotToggle
)

// prefix qualifies a name that another namespace already shows.
func (s slot) prefix() string {
	switch s {
	case slotRadio:
		return "group:"
	case slotCheckbox:
		return "checkbox:"
	case slotToggle:
		return "toggle:"
	default:
		return "step:"
	}
}

type key struct {
	slot slot
	name string
}

// Entry is one recorded selection as shown to users.
type Entry struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Store maps selection keys to values. Step values, radio groups, checkbox
// members and toggles live in separate namespaces so that a radio group
// never clobbers a step value of the same name.
type Store struct {
	order  []key
	values map[key]any
}

// New returns an empty store.
func New() *Store {
	return &Store{values: make(map[key]any)}
}

// CheckboxKey is the composite key a checked box is recorded under.
func CheckboxKey(stepKey, value string) string {
	return stepKey + "/" + value
}

func (s *Store) set(k key, v any) {
	if _, ok := s.values[k]; !ok {
		s.order = append(s.order, k)
	}
	s.values[k] = v
}

func (s *Store) del(k key) {
	if _, ok := s.values[k]; !ok {
		return
	}
	delete(s.values, k)
	for i, o := range s.order {
		if o == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// RecordDefault stores value under the step key, replacing any earlier value.
func (s *Store) RecordDefault(stepKey string, value any) {
	s.set(key{slotStep, stepKey}, value)
}

// Value returns the value recorded under a step key.
func (s *Store) Value(stepKey string) (any, bool) {
	v, ok := s.values[key{slotStep, stepKey}]
	return v, ok
}

// RecordRadio stores value for a radio group. Last write wins.
func (s *Store) RecordRadio(group string, value any) {
	s.set(key{slotRadio, group}, value)
}

// Radio returns the selected value of a radio group.
func (s *Store) Radio(group string) (any, bool) {
	v, ok := s.values[key{slotRadio, group}]
	return v, ok
}

// ToggleCheckbox flips membership of value in the step's checkbox set and
// returns the new membership.
func (s *Store) ToggleCheckbox(stepKey, value string) bool {
	k := key{slotCheckbox, CheckboxKey(stepKey, value)}
	if _, ok := s.values[k]; ok {
		s.del(k)
		return false
	}
	s.set(k, true)
	return true
}

// Checked reports whether value is in the step's checkbox set.
func (s *Store) Checked(stepKey, value string) bool {
	_, ok := s.values[key{slotCheckbox, CheckboxKey(stepKey, value)}]
	return ok
}

// FlipToggle inverts the toggle recorded under name, seeding it with
// initialIfAbsent first, and returns the new state.
func (s *Store) FlipToggle(name string, initialIfAbsent bool) bool {
	next := !s.Toggle(name, initialIfAbsent)
	s.set(key{slotToggle, name}, next)
	return next
}

// SeedToggle records initial for name unless a state already exists.
func (s *Store) SeedToggle(name string, initial bool) {
	k := key{slotToggle, name}
	if _, ok := s.values[k]; !ok {
		s.set(k, initial)
	}
}

// Toggle returns the toggle state, or initial when none is recorded.
func (s *Store) Toggle(name string, initial bool) bool {
	if v, ok := s.values[key{slotToggle, name}].(bool); ok {
		return v
	}
	return initial
}

// Snapshot returns every selection in the order it was first recorded. Keys
// are unique: a name already shown for another namespace gets that
// namespace's prefix, e.g. "group:size".
func (s *Store) Snapshot() []Entry {
	out := make([]Entry, 0, len(s.order))
	seen := make(map[string]bool, len(s.order))
	for _, k := range s.order {
		name := k.name
		if seen[name] {
			name = k.slot.prefix() + name
		}
		seen[name] = true
		out = append(out, Entry{Key: name, Value: s.values[k]})
	}
	return out
}

// Len returns the number of recorded selections.
func (s *Store) Len() int { return len(s.order) }

// Clear removes every selection.
func (s *Store) Clear() {
	s.order = nil
	s.values = make(map[key]any)
}

// Clone returns an independent copy.
func (s *Store) Clone() *Store {
	c := &Store{
		order:  append([]key(nil), s.order...),
		values: make(map[key]any, len(s.values)),
	}
	for k, v := range s.values {
		c.values[k] = v
	}
	return c
}
