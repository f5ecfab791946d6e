package scene

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func decodeYAML(name string, data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: name, Message: err.Error(), Err: err}
	}
	return &doc, nil
}

// UnmarshalYAML accepts either a plain string or a sequence of spans.
func (r *RowDoc) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*r = Text(s)
		return nil
	case yaml.SequenceNode:
		var spans []SpanDoc
		if err := value.Decode(&spans); err != nil {
			return err
		}
		*r = spans
		return nil
	default:
		return fmt.Errorf("line %d: row must be a string or a list of spans", value.Line)
	}
}
