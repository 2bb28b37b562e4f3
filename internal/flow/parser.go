package flow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads, decodes and validates a definition file.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}

	raw, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse workflow file: %w", err)
	}

	return Load(raw)
}

// Decode turns a YAML or JSON document of the form
// {workflowName: {stepKey: {...}, ...}} into a RawWorkflow, keeping the
// document order of the steps.
func Decode(data []byte) (RawWorkflow, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return RawWorkflow{}, fmt.Errorf("empty document")
	}
	if trimmed[0] == '{' {
		return decodeJSON(trimmed)
	}
	return decodeYAML(trimmed)
}

func decodeYAML(data []byte) (RawWorkflow, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return RawWorkflow{}, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return RawWorkflow{}, fmt.Errorf("empty document")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode || len(root.Content) == 0 {
		return RawWorkflow{}, fmt.Errorf("document must be a mapping of workflow name to steps")
	}

	var raw RawWorkflow
	raw.Name = root.Content[0].Value
	for i := 2; i < len(root.Content); i += 2 {
		raw.Ignored = append(raw.Ignored, root.Content[i].Value)
	}

	steps := root.Content[1]
	if steps.Kind != yaml.MappingNode {
		return RawWorkflow{}, fmt.Errorf("workflow %q must be a mapping of step keys", raw.Name)
	}
	for i := 0; i+1 < len(steps.Content); i += 2 {
		step := RawStep{}
		if err := decodeYAMLStrict(steps.Content[i+1], &step); err != nil {
			return RawWorkflow{}, fmt.Errorf("step %q: %w", steps.Content[i].Value, err)
		}
		step.Key = steps.Content[i].Value
		raw.Steps = append(raw.Steps, step)
	}
	return raw, nil
}

// decodeYAMLStrict rejects unknown fields; yaml.Node.Decode has no
// KnownFields switch so the node is re-encoded first.
func decodeYAMLStrict(node *yaml.Node, out any) error {
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}

func decodeJSON(data []byte) (RawWorkflow, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return RawWorkflow{}, err
	}

	var raw RawWorkflow
	first := true
	for dec.More() {
		name, err := stringToken(dec)
		if err != nil {
			return RawWorkflow{}, err
		}
		if !first {
			raw.Ignored = append(raw.Ignored, name)
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return RawWorkflow{}, err
			}
			continue
		}
		first = false
		raw.Name = name
		if raw.Steps, err = decodeJSONSteps(dec); err != nil {
			return RawWorkflow{}, fmt.Errorf("workflow %q: %w", name, err)
		}
	}
	if first {
		return RawWorkflow{}, fmt.Errorf("document must be a mapping of workflow name to steps")
	}
	if err := expectDelim(dec, '}'); err != nil {
		return RawWorkflow{}, err
	}
	return raw, nil
}

func decodeJSONSteps(dec *json.Decoder) ([]RawStep, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var steps []RawStep
	for dec.More() {
		key, err := stringToken(dec)
		if err != nil {
			return nil, err
		}
		var body json.RawMessage
		if err := dec.Decode(&body); err != nil {
			return nil, fmt.Errorf("step %q: %w", key, err)
		}
		step := RawStep{}
		strict := json.NewDecoder(bytes.NewReader(body))
		strict.DisallowUnknownFields()
		if err := strict.Decode(&step); err != nil {
			return nil, fmt.Errorf("step %q: %w", key, err)
		}
		step.Key = key
		steps = append(steps, step)
	}
	return steps, expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err == io.EOF {
		return fmt.Errorf("unexpected end of document, want %q", want)
	}
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("unexpected token %v, want %q", tok, want)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("unexpected token %v, want object key", tok)
	}
	return s, nil
}
