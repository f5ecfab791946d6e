// Package renderer provides the frame loop of the tessera compositor.
//
// Each frame, layers are flattened into a screen buffer one row at a time,
// the result is diffed against the previous frame, and only the changed
// cells are handed to the backend.
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│           Renderer (frame loop)         │
//	├─────────────────────────────────────────┤
//	│  Compositor: cuts │ z-order │ compose   │
//	├─────────────────────────────────────────┤
//	│  Segment / Chopper │ ScreenBuffer, Diff │
//	├─────────────────────────────────────────┤
//	│  Backend: Terminal (tcell) │ Null       │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	be, _ := backend.NewTerminal()
//	_ = be.Init()
//	r := renderer.New(be, renderer.DefaultOptions(), logger)
//	r.RenderFrame(layers)
package renderer
