// Package backend provides terminal backend abstraction for the renderer.
//
// The compositor produces a list of CellChange values per frame; a Backend
// turns them into output. Backends know nothing about layers.
package backend

import "github.com/dshills/tessera/internal/renderer/core"

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventInterrupt
)

// Key represents a keyboard key.
type Key int

// Keys the frame loop cares about. Everything else arrives as KeyRune or
// KeyOther.
const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyCtrlC
	KeyOther
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune

	// Resize event fields
	Width, Height int
}

// Backend defines the interface for terminal/display backends.
type Backend interface {
	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	Shutdown()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// OnResize registers a callback for terminal resize events.
	OnResize(callback func(width, height int))

	// Apply writes a frame's cell changes. Positions outside the
	// terminal are silently ignored.
	Apply(changes []CellChange)

	// Show flushes applied changes to the display.
	Show()

	// PollEvent waits for and returns the next terminal event.
	// This is a blocking call.
	PollEvent() Event

	// PostEvent posts a synthetic event to the event queue.
	PostEvent(event Event)
}

// NullBackend is an in-memory backend for tests and headless rendering.
type NullBackend struct {
	width, height int
	grid          *ScreenBuffer
	resizeHandler func(width, height int)
	events        chan Event

	applied    int
	shows      int
	lastFrame  []CellChange
	frameSizes []int
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		grid:   NewScreenBuffer(width, height),
		events: make(chan Event, 100),
	}
}

func (b *NullBackend) Init() error {
	b.grid.Resize(b.width, b.height)
	return nil
}

func (b *NullBackend) Shutdown() {}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) OnResize(callback func(width, height int)) {
	b.resizeHandler = callback
}

// Apply writes the changes into the backend's grid verbatim, continuation
// cells included, so the grid mirrors what a terminal would hold.
func (b *NullBackend) Apply(changes []CellChange) {
	for _, ch := range changes {
		if c := b.grid.At(ch.X, ch.Y); c != nil {
			*c = ch.Cell
		}
	}
	b.applied += len(changes)
	b.lastFrame = changes
	b.frameSizes = append(b.frameSizes, len(changes))
}

func (b *NullBackend) Show() {
	b.shows++
}

func (b *NullBackend) PollEvent() Event {
	return <-b.events
}

func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
		// Event dropped if queue is full (non-blocking for testing)
	}
}

// Cell returns the cell the backend currently holds at (x, y).
func (b *NullBackend) Cell(x, y int) core.Cell {
	c, ok := b.grid.Get(x, y)
	if !ok {
		return core.BlankCell()
	}
	return c
}

// Grid returns the backend's mirrored screen contents.
func (b *NullBackend) Grid() *ScreenBuffer {
	return b.grid
}

// AppliedCount returns the total number of changes applied.
func (b *NullBackend) AppliedCount() int {
	return b.applied
}

// ShowCount returns the number of Show calls.
func (b *NullBackend) ShowCount() int {
	return b.shows
}

// LastFrame returns the changes passed to the most recent Apply.
func (b *NullBackend) LastFrame() []CellChange {
	return b.lastFrame
}

// FrameSizes returns the change count of every Apply call in order.
func (b *NullBackend) FrameSizes() []int {
	return b.frameSizes
}

// Resize simulates a terminal resize for testing.
func (b *NullBackend) Resize(width, height int) {
	b.width = width
	b.height = height
	b.grid.Resize(width, height)
	if b.resizeHandler != nil {
		b.resizeHandler(width, height)
	}
}
