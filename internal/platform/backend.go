package platform

import "context"

// WindowID is a platform-neutral native window handle.
type WindowID uint32

// Point is a position in screen coordinates.
type Point struct {
	X int
	Y int
}

// Size is a width/height pair in window pixels.
type Size struct {
	Width  int
	Height int
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Pos returns the rect origin.
func (r Rect) Pos() Point { return Point{X: r.X, Y: r.Y} }

// Contains reports whether the point lies inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Size returns the rect dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Insets are per-edge decoration sizes.
type Insets struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID      int
	Name    string
	Bounds  Rect
	Usable  Rect
	Primary bool
}

// Size returns the full display size.
func (d Display) Size() Size { return d.Bounds.Size() }

// WindowSpec is the native part of a window request.
type WindowSpec struct {
	Bounds      Rect
	Title       string
	Class       string
	Resizable   bool
	AlwaysOnTop bool
	Borderless  bool
}

// Handler receives native events for windows created by a Backend.
// HandleEvent is always called on the event loop goroutine.
type Handler interface {
	HandleEvent(id WindowID, ev Event)
}

// Backend abstracts window-system operations.
//
// Methods other than Post and Quit must only be called from the goroutine
// running Run, or before Run starts.
type Backend interface {
	Displays() ([]Display, error)
	PrimaryDisplay() (Display, error)

	SetHandler(h Handler)
	CreateWindow(spec WindowSpec) (WindowID, error)
	DestroyWindow(id WindowID) error

	SetTitle(id WindowID, title string) error
	SetVisible(id WindowID, visible bool) error
	MoveResize(id WindowID, bounds Rect) error
	SetFullScreen(id WindowID, fullScreen bool) error
	SetAlwaysOnTop(id WindowID, onTop bool) error
	SetBorderless(id WindowID, borderless bool) error
	SetResizable(id WindowID, resizable bool, size Size) error
	FrameExtents(id WindowID) (Insets, error)
	Redraw(id WindowID) error
	Focus(id WindowID) error

	SetCursorVisible(visible bool) error

	// Run processes native events and posted tasks until ctx is done or Quit
	// is called.
	Run(ctx context.Context) error
	// Post queues fn to run on the event loop goroutine. It is safe to call
	// from any goroutine.
	Post(fn func()) bool
	Quit()
	Disconnect()
}
