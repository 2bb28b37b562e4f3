package flow

import (
	"fmt"
	"strconv"
)

// RawWorkflow is the decoded, not yet validated form of a definition
// document. Steps keep document order.
type RawWorkflow struct {
	Name  string
	Steps []RawStep
	// Ignored lists extra top-level keys; only the first workflow is used.
	Ignored []string
}

// RawStep mirrors one step object of the definition document.
type RawStep struct {
	Key            string        `yaml:"-" json:"-"`
	Description    string        `yaml:"description" json:"description"`
	CompletionType string        `yaml:"completionType" json:"completionType"`
	BackButton     any           `yaml:"backButton" json:"backButton"`
	Options        [][]RawButton `yaml:"options" json:"options"`
}

// RawButton mirrors one button object of the definition document.
type RawButton struct {
	ButtonName   string `yaml:"buttonName" json:"buttonName"`
	Value        any    `yaml:"value" json:"value"`
	Type         string `yaml:"type" json:"type"`
	RadioGroup   string `yaml:"radioGroup" json:"radioGroup"`
	SkipSteps    *int   `yaml:"skipSteps" json:"skipSteps"`
	InitialState *bool  `yaml:"initialState" json:"initialState"`
}

// FormatValue renders a button value for keys and callback data.
func FormatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
