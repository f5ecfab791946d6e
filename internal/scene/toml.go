package scene

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// decodeTOML decodes a TOML scene. Rows mix strings and span tables, so the
// file is decoded generically first.
func decodeTOML(name string, data []byte) (*Document, error) {
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		pe := &ParseError{Path: name, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			pe.Message = fmt.Sprintf("line %d, column %d: %s", row, col, derr.Error())
		}
		return nil, pe
	}
	return documentFromMap(name, m)
}
