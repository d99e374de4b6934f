package render

import "github.com/1broseidon/xwin/internal/platform"

// Renderer establishes a drawing context on one native window.
//
// Setup is called exactly once before any draw and Kill exactly once at
// teardown. StartDraw and FinishDraw bracket every frame.
type Renderer interface {
	// Setup binds the renderer to a native window. shared, when non-nil, is
	// another window's renderer whose resources may be read but not drawn to.
	Setup(handle platform.WindowID, shared Renderer) error
	StartDraw()
	FinishDraw()
	Kill()
}

// Factory creates a fresh renderer for a new window.
type Factory func() Renderer
