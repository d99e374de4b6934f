package app

import (
	"strings"
	"unicode/utf8"

	"github.com/1broseidon/xwin/internal/platform"
	"github.com/1broseidon/xwin/internal/render"
)

// Default window geometry used when a Format leaves it unset.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
	DefaultTitle  = "xwin"

	// WindowClass is the WM_CLASS of every window.
	WindowClass = "xwin"
)

// Format is the set of attributes a window is created with.
type Format struct {
	Title string
	Size  platform.Size
	// Pos is the top-left corner in screen coordinates. Nil centres the
	// window on Display.
	Pos         *platform.Point
	FullScreen  bool
	Resizable   bool
	AlwaysOnTop bool
	Borderless  bool
	// Display selects the target monitor; nil uses the primary display.
	Display *platform.Display

	// Renderer draws this window. Nil asks the platform's renderer factory.
	Renderer render.Renderer
	// SharedRenderer is passed read-only to Renderer.Setup.
	SharedRenderer render.Renderer
}

// DefaultFormat returns a resizable, centred 640x480 window.
func DefaultFormat() Format {
	return Format{
		Title:     DefaultTitle,
		Size:      platform.Size{Width: DefaultWidth, Height: DefaultHeight},
		Resizable: true,
	}
}

// FullScreenOptions tune a switch into fullscreen.
type FullScreenOptions struct {
	// Display moves the window to this monitor before going fullscreen.
	Display *platform.Display
}

// Program is the application driven by a Platform.
type Program interface {
	// Setup runs once on the event loop before any draw or update. Windows
	// are normally created here.
	Setup(p *Platform) error
	// Update runs once per frame before windows are drawn.
	Update()
	// Cleanup runs once at shutdown after every window is closed.
	Cleanup()
}

// Funcs adapts plain functions to Program. Nil fields are skipped.
type Funcs struct {
	SetupFunc   func(p *Platform) error
	UpdateFunc  func()
	CleanupFunc func()
}

func (f Funcs) Setup(p *Platform) error {
	if f.SetupFunc == nil {
		return nil
	}
	return f.SetupFunc(p)
}

func (f Funcs) Update() {
	if f.UpdateFunc != nil {
		f.UpdateFunc()
	}
}

func (f Funcs) Cleanup() {
	if f.CleanupFunc != nil {
		f.CleanupFunc()
	}
}

// TitleCapacity is the size of a window's title buffer including the
// terminating NUL.
const TitleCapacity = 1024

// titleBuffer stores a NUL terminated title of at most TitleCapacity-1 bytes.
type titleBuffer struct {
	buf [TitleCapacity]byte
	n   int
}

// set copies s, truncating on a UTF-8 boundary. An embedded NUL ends the title.
func (t *titleBuffer) set(s string) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	n := min(len(s), TitleCapacity-1)
	for n > 0 && n < len(s) && !utf8.RuneStart(s[n]) {
		n--
	}
	copy(t.buf[:], s[:n])
	t.buf[n] = 0
	t.n = n
}

func (t *titleBuffer) String() string {
	return string(t.buf[:t.n])
}

// bytes returns the stored title including its terminating NUL.
func (t *titleBuffer) bytes() []byte {
	return t.buf[:t.n+1]
}

// centre returns the position that centres size on d.
func centre(d platform.Display, size platform.Size) platform.Point {
	ds := d.Size()
	return platform.Point{
		X: d.Bounds.X + (ds.Width-size.Width)/2,
		Y: d.Bounds.Y + (ds.Height-size.Height)/2,
	}
}

// clampSize bounds size to at least 1x1 and at most area minus the frame
// extents.
func clampSize(size platform.Size, area platform.Rect, frame platform.Insets) platform.Size {
	maxW := max(area.Width-frame.Left-frame.Right, 1)
	maxH := max(area.Height-frame.Top-frame.Bottom, 1)
	return platform.Size{
		Width:  min(max(size.Width, 1), maxW),
		Height: min(max(size.Height, 1), maxH),
	}
}
