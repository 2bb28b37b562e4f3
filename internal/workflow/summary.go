package workflow

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/manno/inflow/internal/selection"
)

// Summary formats selections as an indented JSON object, keeping the order
// in which they were first recorded.
func Summary(entries []selection.Entry) string {
	if len(entries) == 0 {
		return "{}"
	}

	var builder strings.Builder
	builder.WriteString("{\n")
	for i, e := range entries {
		key, _ := json.Marshal(e.Key)
		value, err := json.Marshal(e.Value)
		if err != nil {
			value, _ = json.Marshal(fmt.Sprint(e.Value))
		}
		builder.WriteString("  ")
		builder.Write(key)
		builder.WriteString(": ")
		builder.Write(value)
		if i < len(entries)-1 {
			builder.WriteString(",")
		}
		builder.WriteString("\n")
	}
	builder.WriteString("}")
	return builder.String()
}
