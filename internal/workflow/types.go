package workflow

import (
	"time"

	"github.com/manno/inflow/internal/navigator"
)

// Session is one user's walk through the workflow
type Session struct {
	ID        string
	State     navigator.State
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Recorder receives counters for handled sessions and actions.
type Recorder interface {
	Action(kind, outcome string)
	SessionStarted()
	SessionFinished()
}

type nopRecorder struct{}

func (nopRecorder) Action(string, string) {}
func (nopRecorder) SessionStarted()       {}
func (nopRecorder) SessionFinished()      {}

// Action outcomes reported to the Recorder.
const (
	OutcomeAccepted     = "accepted"
	OutcomeValidation   = "validation"
	OutcomeInvalidState = "invalid_state"
	OutcomeStale        = "stale"
)
