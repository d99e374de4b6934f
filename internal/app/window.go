package app

import (
	"github.com/1broseidon/xwin/internal/platform"
	"github.com/1broseidon/xwin/internal/render"
	"github.com/1broseidon/xwin/internal/signal"
)

type (
	KeyEvent   = platform.KeyEvent
	MouseEvent = platform.MouseEvent
)

// ResizeEvent carries the new client size.
type ResizeEvent struct {
	Size platform.Size
}

// MoveEvent carries the new window position.
type MoveEvent struct {
	Pos      platform.Point
	Dragging bool
}

// FocusEvent reports keyboard focus changes.
type FocusEvent struct {
	Focused bool
}

// CloseEvent is emitted when the window manager asks to close the window.
// Setting Cancel keeps the window open.
type CloseEvent struct {
	Cancel bool
}

// Window is the application-facing handle of a native window.
//
// A Window is reference counted: the platform holds one reference until the
// window is torn down and CreateWindow returns another to the caller. Close
// consumes the caller's reference. Signals emit synchronously in connection
// order on the event loop goroutine.
type Window struct {
	native *NativeWindow
	refs   int

	Draw   signal.Signal[*Window]
	Resize signal.Signal[ResizeEvent]
	Move   signal.Signal[MoveEvent]
	Close  signal.Signal[*CloseEvent]
	Focus  signal.Signal[FocusEvent]

	// Key and mouse emission stops at the first callback that sets Handled.
	KeyDown    signal.Signal[*KeyEvent]
	KeyUp      signal.Signal[*KeyEvent]
	MouseDown  signal.Signal[*MouseEvent]
	MouseUp    signal.Signal[*MouseEvent]
	MouseMove  signal.Signal[*MouseEvent]
	MouseDrag  signal.Signal[*MouseEvent]
	MouseWheel signal.Signal[*MouseEvent]
}

func newWindow(nw *NativeWindow, refs int) *Window {
	return &Window{native: nw, refs: refs}
}

// Retain adds a reference.
func (w *Window) Retain() *Window {
	w.refs++
	return w
}

// Release drops a reference. When the last reference goes every signal is
// disconnected.
func (w *Window) Release() {
	if w.refs == 0 {
		return
	}
	w.refs--
	if w.refs > 0 {
		return
	}
	w.Draw.Clear()
	w.Resize.Clear()
	w.Move.Clear()
	w.Close.Clear()
	w.Focus.Clear()
	w.KeyDown.Clear()
	w.KeyUp.Clear()
	w.MouseDown.Clear()
	w.MouseUp.Clear()
	w.MouseMove.Clear()
	w.MouseDrag.Clear()
	w.MouseWheel.Clear()
}

// Refs returns the current reference count.
func (w *Window) Refs() int { return w.refs }

// Native returns the platform implementation behind the handle.
func (w *Window) Native() *NativeWindow { return w.native }

// ID returns the native window handle.
func (w *Window) ID() platform.WindowID { return w.native.id }

// Renderer returns the renderer drawing the window.
func (w *Window) Renderer() render.Renderer { return w.native.renderer }

// Display returns the display holding the window centre.
func (w *Window) Display() platform.Display { return w.native.display }

// Title returns the stored title.
func (w *Window) Title() string { return w.native.Title() }

// SetTitle sets the title, truncated to TitleCapacity-1 bytes.
func (w *Window) SetTitle(title string) { w.native.SetTitle(title) }

// Size returns the client size.
func (w *Window) Size() platform.Size { return w.native.size }

// SetSize resizes the window within its display.
func (w *Window) SetSize(size platform.Size) { w.native.SetSize(size) }

// Pos returns the window position in root coordinates.
func (w *Window) Pos() platform.Point { return w.native.pos }

// SetPos moves the window.
func (w *Window) SetPos(pos platform.Point) { w.native.SetPos(pos) }

// IsFullScreen reports whether the window is fullscreen.
func (w *Window) IsFullScreen() bool { return w.native.fullScreen }

// SetFullScreen enters or leaves fullscreen, optionally on another display.
func (w *Window) SetFullScreen(fullScreen bool, opts FullScreenOptions) {
	w.native.SetFullScreen(fullScreen, opts)
}

// IsHidden reports whether the window is unmapped.
func (w *Window) IsHidden() bool { return w.native.hidden }

// Hide unmaps the window. Hidden windows are not drawn.
func (w *Window) Hide() { w.native.Hide() }

// Show maps a hidden window.
func (w *Window) Show() { w.native.Show() }

// IsResizable reports whether the user may resize the window.
func (w *Window) IsResizable() bool { return w.native.resizable }

// SetResizable updates the size hints.
func (w *Window) SetResizable(resizable bool) { w.native.SetResizable(resizable) }

// IsAlwaysOnTop reports whether the window stays above others.
func (w *Window) IsAlwaysOnTop() bool { return w.native.alwaysOnTop }

// SetAlwaysOnTop keeps the window above others.
func (w *Window) SetAlwaysOnTop(onTop bool) { w.native.SetAlwaysOnTop(onTop) }

// IsBorderless reports whether decorations are off.
func (w *Window) IsBorderless() bool { return w.native.borderless }

// SetBorderless turns window manager decorations off or on.
func (w *Window) SetBorderless(borderless bool) { w.native.SetBorderless(borderless) }

// IsFocused reports whether the window has keyboard focus.
func (w *Window) IsFocused() bool { return w.native.focused }

// IsDragging reports whether the user is moving the window.
func (w *Window) IsDragging() bool { return w.native.dragging }

// Activate asks the window manager to focus the window.
func (w *Window) Activate() { w.native.Activate() }

// Redraw requests an expose, which draws the window on the event loop.
func (w *Window) Redraw() { w.native.Redraw() }

// IsClosed reports whether the window has left the platform registry.
func (w *Window) IsClosed() bool { return w.native.closing }

// CloseWindow closes the window and consumes the caller's reference. The
// handle must not be used afterwards.
func (w *Window) CloseWindow() {
	w.native.Close()
	w.Release()
}
