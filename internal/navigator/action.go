package navigator

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionKind says what the user did.
type ActionKind int

const (
	ActionPress ActionKind = iota
	ActionDone
	ActionBack
)

func (k ActionKind) String() string {
	switch k {
	case ActionPress:
		return "press"
	case ActionDone:
		return "done"
	case ActionBack:
		return "back"
	default:
		return "unknown"
	}
}

// Action is one user input. StepKey is the step whose keyboard produced it;
// Row and Col locate the button for presses.
type Action struct {
	Kind    ActionKind
	StepKey string
	Row     int
	Col     int
}

// EncodeCallback renders an action as compact callback data:
// "step:row:col", "done:step" or "back:step".
func EncodeCallback(a Action) string {
	switch a.Kind {
	case ActionDone:
		return "done:" + a.StepKey
	case ActionBack:
		return "back:" + a.StepKey
	default:
		return fmt.Sprintf("%s:%d:%d", a.StepKey, a.Row, a.Col)
	}
}

// DecodeCallback parses data produced by EncodeCallback.
func DecodeCallback(data string) (Action, error) {
	parts := strings.Split(data, ":")
	switch {
	case len(parts) == 2 && parts[0] == "done" && parts[1] != "":
		return Action{Kind: ActionDone, StepKey: parts[1]}, nil
	case len(parts) == 2 && parts[0] == "back" && parts[1] != "":
		return Action{Kind: ActionBack, StepKey: parts[1]}, nil
	case len(parts) == 3 && parts[0] != "":
		row, err := strconv.Atoi(parts[1])
		if err != nil {
			return Action{}, fmt.Errorf("%w: %q", ErrBadCallback, data)
		}
		col, err := strconv.Atoi(parts[2])
		if err != nil {
			return Action{}, fmt.Errorf("%w: %q", ErrBadCallback, data)
		}
		return Action{Kind: ActionPress, StepKey: parts[0], Row: row, Col: col}, nil
	default:
		return Action{}, fmt.Errorf("%w: %q", ErrBadCallback, data)
	}
}
