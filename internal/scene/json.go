package scene

import (
	"fmt"

	"github.com/tidwall/gjson"
)

func decodeJSON(name string, data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: name, Message: "invalid JSON"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &ParseError{Path: name, Message: "top level must be an object"}
	}

	doc := &Document{
		Width:  int(root.Get("width").Int()),
		Height: int(root.Get("height").Int()),
	}

	var err error
	root.Get("layers").ForEach(func(_, lv gjson.Result) bool {
		var ld LayerDoc
		ld, err = layerFromJSON(lv)
		if err != nil {
			err = &ParseError{Path: name, Layer: ld.ID, Message: err.Error(), Err: err}
			return false
		}
		doc.Layers = append(doc.Layers, ld)
		return true
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func layerFromJSON(v gjson.Result) (LayerDoc, error) {
	ld := LayerDoc{
		ID:     v.Get("id").String(),
		X:      int(v.Get("x").Int()),
		Y:      int(v.Get("y").Int()),
		Width:  int(v.Get("width").Int()),
		Height: int(v.Get("height").Int()),
		Z:      int(v.Get("z").Int()),
	}
	if !v.IsObject() {
		return ld, fmt.Errorf("layer must be an object")
	}

	for i, rv := range v.Get("rows").Array() {
		switch {
		case rv.Type == gjson.String:
			ld.Rows = append(ld.Rows, Text(rv.String()))
		case rv.IsArray():
			var row RowDoc
			for _, sv := range rv.Array() {
				if !sv.IsObject() {
					return ld, fmt.Errorf("rows[%d]: span must be an object", i)
				}
				sp := SpanDoc{
					Text:    sv.Get("text").String(),
					FG:      sv.Get("fg").String(),
					BG:      sv.Get("bg").String(),
					Control: sv.Get("control").Bool(),
				}
				for _, a := range sv.Get("attrs").Array() {
					sp.Attrs = append(sp.Attrs, a.String())
				}
				row = append(row, sp)
			}
			ld.Rows = append(ld.Rows, row)
		default:
			return ld, fmt.Errorf("rows[%d]: expected string or list of spans", i)
		}
	}
	return ld, nil
}
