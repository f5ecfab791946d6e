// Package scene loads layer lists from files.
//
// A scene describes one frame: an optional screen size and the layers to
// composite. Scenes can be written as JSON, YAML, TOML or as a Lua script
// that builds the layer list with the screen{} and layer{} builtins.
//
// Every format decodes to the same document:
//
//	width, height        optional screen size
//	layers[]             id, x, y, width, height, z, rows
//	rows[]               a string, or a list of spans
//	span                 text, fg, bg, attrs[], control
package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/dshills/tessera/internal/renderer/compositor"
	"github.com/dshills/tessera/internal/renderer/core"
	"github.com/dshills/tessera/internal/renderer/segment"
)

// Scene is a decoded scene file.
type Scene struct {
	// Width and Height are the requested screen size. Zero means the
	// caller picks.
	Width, Height int

	// Layers in file order. Equal Z values stack in this order.
	Layers []compositor.Layer
}

// Size returns the scene size, falling back to the given defaults for
// dimensions the scene leaves unset.
func (s *Scene) Size(defWidth, defHeight int) (int, int) {
	w, h := s.Width, s.Height
	if w <= 0 {
		w = defWidth
	}
	if h <= 0 {
		h = defHeight
	}
	return w, h
}

// Document is the format-neutral form every decoder produces.
type Document struct {
	Width  int        `yaml:"width" toml:"width"`
	Height int        `yaml:"height" toml:"height"`
	Layers []LayerDoc `yaml:"layers" toml:"layers"`
}

// LayerDoc describes one layer.
type LayerDoc struct {
	ID     string   `yaml:"id"`
	X      int      `yaml:"x"`
	Y      int      `yaml:"y"`
	Width  int      `yaml:"width"`
	Height int      `yaml:"height"`
	Z      int      `yaml:"z"`
	Rows   []RowDoc `yaml:"rows"`
}

// RowDoc is the content of one layer row.
type RowDoc []SpanDoc

// SpanDoc is a run of text sharing one style.
type SpanDoc struct {
	Text    string   `yaml:"text"`
	FG      string   `yaml:"fg"`
	BG      string   `yaml:"bg"`
	Attrs   []string `yaml:"attrs"`
	Control bool     `yaml:"control"`
}

// Load reads and decodes the scene at path, choosing the decoder by file
// extension.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes scene data. The name's extension selects the format.
func Parse(name string, data []byte) (*Scene, error) {
	var (
		doc *Document
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".json":
		doc, err = decodeJSON(name, data)
	case ".yaml", ".yml":
		doc, err = decodeYAML(name, data)
	case ".toml":
		doc, err = decodeTOML(name, data)
	case ".lua":
		doc, err = decodeLua(name, data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	return Build(name, doc)
}

// Build converts a decoded document into compositor layers.
func Build(name string, doc *Document) (*Scene, error) {
	if doc.Width < 0 || doc.Height < 0 {
		return nil, &ParseError{Path: name, Message: fmt.Sprintf("negative screen size %dx%d", doc.Width, doc.Height)}
	}

	s := &Scene{
		Width:  doc.Width,
		Height: doc.Height,
		Layers: make([]compositor.Layer, 0, len(doc.Layers)),
	}
	for _, ld := range doc.Layers {
		l, err := buildLayer(name, ld)
		if err != nil {
			return nil, err
		}
		s.Layers = append(s.Layers, l)
	}
	return s, nil
}

func buildLayer(name string, ld LayerDoc) (compositor.Layer, error) {
	id := ld.ID
	if id == "" {
		id = uuid.NewString()
	}
	if ld.Width < 0 || ld.Height < 0 {
		return compositor.Layer{}, &ParseError{
			Path:    name,
			Layer:   id,
			Message: fmt.Sprintf("negative size %dx%d", ld.Width, ld.Height),
		}
	}

	l := compositor.NewLayer(id, core.NewRegion(ld.X, ld.Y, ld.Width, ld.Height), ld.Z)
	l.Content = make([][]segment.Segment, 0, len(ld.Rows))
	for _, row := range ld.Rows {
		segs := make([]segment.Segment, 0, len(row))
		for _, sp := range row {
			seg, err := buildSpan(sp)
			if err != nil {
				return compositor.Layer{}, &ParseError{Path: name, Layer: id, Message: err.Error(), Err: err}
			}
			segs = append(segs, seg)
		}
		l.Content = append(l.Content, segs)
	}
	return l, nil
}

func buildSpan(sp SpanDoc) (segment.Segment, error) {
	if sp.Control {
		return segment.Control(sp.Text), nil
	}

	style := core.DefaultStyle()
	fg, err := core.ParseColor(sp.FG)
	if err != nil {
		return segment.Segment{}, err
	}
	bg, err := core.ParseColor(sp.BG)
	if err != nil {
		return segment.Segment{}, err
	}
	style = style.WithForeground(fg).WithBackground(bg)
	for _, name := range sp.Attrs {
		attr, err := core.ParseAttribute(name)
		if err != nil {
			return segment.Segment{}, err
		}
		style.Attributes = style.Attributes.With(attr)
	}

	// Decomposed sequences compose first so width math sees one cluster.
	return segment.New(norm.NFC.String(sp.Text), style), nil
}

// Text returns a single-span row holding plain text.
func Text(s string) RowDoc {
	return RowDoc{{Text: s}}
}
