package scene

import (
	"fmt"
	"math"
)

// documentFromMap converts a generically decoded tree (as produced by the
// TOML decoder or a Lua table walk) into a Document.
func documentFromMap(name string, m map[string]any) (*Document, error) {
	doc := &Document{}
	var err error
	if doc.Width, err = intField(m, "width"); err != nil {
		return nil, &ParseError{Path: name, Message: err.Error(), Err: err}
	}
	if doc.Height, err = intField(m, "height"); err != nil {
		return nil, &ParseError{Path: name, Message: err.Error(), Err: err}
	}

	raw, ok := m["layers"]
	if !ok {
		return doc, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &ParseError{Path: name, Message: fmt.Sprintf("layers: expected list, got %T", raw)}
	}
	for i, item := range list {
		lm, ok := item.(map[string]any)
		if !ok {
			return nil, &ParseError{Path: name, Message: fmt.Sprintf("layers[%d]: expected table, got %T", i, item)}
		}
		ld, err := layerFromMap(lm)
		if err != nil {
			return nil, &ParseError{Path: name, Layer: ld.ID, Message: err.Error(), Err: err}
		}
		doc.Layers = append(doc.Layers, ld)
	}
	return doc, nil
}

func layerFromMap(m map[string]any) (LayerDoc, error) {
	var ld LayerDoc
	var err error

	if ld.ID, err = stringField(m, "id"); err != nil {
		return ld, err
	}
	for _, f := range []struct {
		key string
		dst *int
	}{
		{"x", &ld.X},
		{"y", &ld.Y},
		{"width", &ld.Width},
		{"height", &ld.Height},
		{"z", &ld.Z},
	} {
		if *f.dst, err = intField(m, f.key); err != nil {
			return ld, err
		}
	}

	raw, ok := m["rows"]
	if !ok {
		return ld, nil
	}
	rows, ok := raw.([]any)
	if !ok {
		return ld, fmt.Errorf("rows: expected list, got %T", raw)
	}
	for i, r := range rows {
		row, err := rowFromValue(r)
		if err != nil {
			return ld, fmt.Errorf("rows[%d]: %w", i, err)
		}
		ld.Rows = append(ld.Rows, row)
	}
	return ld, nil
}

func rowFromValue(v any) (RowDoc, error) {
	switch v := v.(type) {
	case string:
		return Text(v), nil
	case []any:
		row := make(RowDoc, 0, len(v))
		for i, item := range v {
			sm, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("span %d: expected table, got %T", i, item)
			}
			sp, err := spanFromMap(sm)
			if err != nil {
				return nil, fmt.Errorf("span %d: %w", i, err)
			}
			row = append(row, sp)
		}
		return row, nil
	default:
		return nil, fmt.Errorf("expected string or list of spans, got %T", v)
	}
}

func spanFromMap(m map[string]any) (SpanDoc, error) {
	var sp SpanDoc
	var err error
	if sp.Text, err = stringField(m, "text"); err != nil {
		return sp, err
	}
	if sp.FG, err = stringField(m, "fg"); err != nil {
		return sp, err
	}
	if sp.BG, err = stringField(m, "bg"); err != nil {
		return sp, err
	}
	if raw, ok := m["control"]; ok {
		b, ok := raw.(bool)
		if !ok {
			return sp, fmt.Errorf("control: expected bool, got %T", raw)
		}
		sp.Control = b
	}
	if raw, ok := m["attrs"]; ok {
		list, ok := raw.([]any)
		if !ok {
			return sp, fmt.Errorf("attrs: expected list, got %T", raw)
		}
		for _, a := range list {
			s, ok := a.(string)
			if !ok {
				return sp, fmt.Errorf("attrs: expected string, got %T", a)
			}
			sp.Attrs = append(sp.Attrs, s)
		}
	}
	return sp, nil
}

func stringField(m map[string]any, key string) (string, error) {
	raw, ok := m[key]
	if !ok {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected string, got %T", key, raw)
	}
	return s, nil
}

func intField(m map[string]any, key string) (int, error) {
	raw, ok := m[key]
	if !ok {
		return 0, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%s: expected integer, got %v", key, v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("%s: expected integer, got %T", key, raw)
	}
}
