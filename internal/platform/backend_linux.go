//go:build linux

package platform

import (
	"context"
	"fmt"
	"sort"

	"github.com/1broseidon/xwin/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// LinuxBackend implements Backend on an X11 connection.
type LinuxBackend struct {
	conn    *x11.Connection
	handler Handler
	windows map[WindowID]*linuxWindow
}

type linuxWindow struct {
	win    *xwindow.Window
	mapped bool
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{
		conn:    conn,
		windows: make(map[WindowID]*linuxWindow),
	}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection. An empty display
// uses $DISPLAY.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn), nil
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Run starts the X11 main loop (blocking).
func (b *LinuxBackend) Run(ctx context.Context) error {
	return b.conn.Run(ctx)
}

// Post queues fn on the main loop.
func (b *LinuxBackend) Post(fn func()) bool {
	return b.conn.Post(fn)
}

// Quit stops the main loop.
func (b *LinuxBackend) Quit() {
	b.conn.Quit()
}

// SetHandler sets the receiver of native window events.
func (b *LinuxBackend) SetHandler(h Handler) {
	b.handler = h
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}
	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})
	return displays, nil
}

// PrimaryDisplay returns the RandR primary display.
func (b *LinuxBackend) PrimaryDisplay() (Display, error) {
	m, err := b.conn.PrimaryMonitor()
	if err != nil {
		return Display{}, err
	}
	return displayFromMonitor(m), nil
}

// CreateWindow creates the native window, publishes its hints and attaches
// event callbacks. The window is mapped before returning.
func (b *LinuxBackend) CreateWindow(spec WindowSpec) (WindowID, error) {
	r := spec.Bounds
	win, err := b.conn.CreateWindow(r.X, r.Y, r.Width, r.Height)
	if err != nil {
		return 0, err
	}
	id := WindowID(win.Id)

	setup := []func() error{
		func() error { return b.conn.SetTitle(win.Id, spec.Title) },
		func() error { return b.conn.SetClass(win.Id, spec.Class) },
		func() error { return b.conn.SetSizeHints(win.Id, r.X, r.Y, r.Width, r.Height, spec.Resizable) },
		func() error { return b.conn.SetDecorated(win.Id, !spec.Borderless) },
		func() error { return b.conn.SetWMState(win.Id, false, x11.StateAbove, spec.AlwaysOnTop) },
	}
	for _, step := range setup {
		if err := step(); err != nil {
			win.Destroy()
			return 0, err
		}
	}

	lw := &linuxWindow{win: win}
	b.windows[id] = lw
	b.attach(id, win)

	win.Map()
	lw.mapped = true
	return id, nil
}

// DestroyWindow detaches callbacks and destroys the window.
func (b *LinuxBackend) DestroyWindow(id WindowID) error {
	lw, err := b.window(id)
	if err != nil {
		return err
	}
	delete(b.windows, id)
	xevent.Detach(b.conn.XUtil, lw.win.Id)
	lw.win.Destroy()
	return nil
}

// SetTitle updates the window title.
func (b *LinuxBackend) SetTitle(id WindowID, title string) error {
	if _, err := b.window(id); err != nil {
		return err
	}
	return b.conn.SetTitle(xproto.Window(id), title)
}

// SetVisible maps or unmaps the window.
func (b *LinuxBackend) SetVisible(id WindowID, visible bool) error {
	lw, err := b.window(id)
	if err != nil {
		return err
	}
	if visible {
		lw.win.Map()
	} else {
		lw.win.Unmap()
	}
	lw.mapped = visible
	return nil
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(id WindowID, bounds Rect) error {
	lw, err := b.window(id)
	if err != nil {
		return err
	}
	lw.win.MoveResize(bounds.X, bounds.Y, bounds.Width, bounds.Height)
	return nil
}

// SetFullScreen requests _NET_WM_STATE_FULLSCREEN.
func (b *LinuxBackend) SetFullScreen(id WindowID, fullScreen bool) error {
	lw, err := b.window(id)
	if err != nil {
		return err
	}
	return b.conn.SetWMState(lw.win.Id, lw.mapped, x11.StateFullScreen, fullScreen)
}

// SetAlwaysOnTop requests _NET_WM_STATE_ABOVE.
func (b *LinuxBackend) SetAlwaysOnTop(id WindowID, onTop bool) error {
	lw, err := b.window(id)
	if err != nil {
		return err
	}
	return b.conn.SetWMState(lw.win.Id, lw.mapped, x11.StateAbove, onTop)
}

// SetBorderless toggles window manager decorations.
func (b *LinuxBackend) SetBorderless(id WindowID, borderless bool) error {
	if _, err := b.window(id); err != nil {
		return err
	}
	return b.conn.SetDecorated(xproto.Window(id), !borderless)
}

// SetResizable updates WM_NORMAL_HINTS for the given size.
func (b *LinuxBackend) SetResizable(id WindowID, resizable bool, size Size) error {
	if _, err := b.window(id); err != nil {
		return err
	}
	x, y, err := b.conn.RootPosition(xproto.Window(id))
	if err != nil {
		x, y = 0, 0
	}
	return b.conn.SetSizeHints(xproto.Window(id), x, y, size.Width, size.Height, resizable)
}

// FrameExtents returns the decoration sizes the window manager reports.
func (b *LinuxBackend) FrameExtents(id WindowID) (Insets, error) {
	if _, err := b.window(id); err != nil {
		return Insets{}, err
	}
	left, right, top, bottom, err := b.conn.GetFrameExtents(xproto.Window(id))
	if err != nil {
		return Insets{}, err
	}
	return Insets{Left: left, Right: right, Top: top, Bottom: bottom}, nil
}

// Redraw requests an Expose event.
func (b *LinuxBackend) Redraw(id WindowID) error {
	if _, err := b.window(id); err != nil {
		return err
	}
	return b.conn.RequestExpose(xproto.Window(id))
}

// Focus activates and raises the window.
func (b *LinuxBackend) Focus(id WindowID) error {
	if _, err := b.window(id); err != nil {
		return err
	}
	return b.conn.FocusWindow(xproto.Window(id))
}

// SetCursorVisible shows or hides the pointer.
func (b *LinuxBackend) SetCursorVisible(visible bool) error {
	return b.conn.SetCursorVisible(visible)
}

func (b *LinuxBackend) window(id WindowID) (*linuxWindow, error) {
	lw, ok := b.windows[id]
	if !ok {
		return nil, fmt.Errorf("window %d not found", id)
	}
	return lw, nil
}

func (b *LinuxBackend) dispatch(id WindowID, ev Event) {
	if b.handler != nil {
		b.handler.HandleEvent(id, ev)
	}
}

// attach connects the xevent callbacks for a window. Every callback only
// carries the WindowID; the handler maps it back to its owner.
func (b *LinuxBackend) attach(id WindowID, win *xwindow.Window) {
	xu := b.conn.XUtil

	win.WMGracefulClose(func(*xwindow.Window) {
		b.dispatch(id, CloseRequestEvent{})
	})

	xevent.ExposeFun(func(_ *xgbutil.XUtil, ev xevent.ExposeEvent) {
		// Only the last of a run of exposures triggers a repaint.
		if ev.Count == 0 {
			b.dispatch(id, ExposeEvent{})
		}
	}).Connect(xu, win.Id)

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		x, y, err := b.conn.RootPosition(win.Id)
		if err != nil {
			x, y = int(ev.X), int(ev.Y)
		}
		b.dispatch(id, ConfigureEvent{
			Bounds:   Rect{X: x, Y: y, Width: int(ev.Width), Height: int(ev.Height)},
			Dragging: b.conn.PointerButtonsHeld(),
		})
	}).Connect(xu, win.Id)

	xevent.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		b.dispatch(id, keyEvent(xu, true, ev.Detail, ev.State))
	}).Connect(xu, win.Id)

	xevent.KeyReleaseFun(func(xu *xgbutil.XUtil, ev xevent.KeyReleaseEvent) {
		b.dispatch(id, keyEvent(xu, false, ev.Detail, ev.State))
	}).Connect(xu, win.Id)

	xevent.ButtonPressFun(func(_ *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		if e, ok := buttonEvent(true, byte(ev.Detail), int(ev.EventX), int(ev.EventY), ev.State); ok {
			b.dispatch(id, e)
		}
	}).Connect(xu, win.Id)

	xevent.ButtonReleaseFun(func(_ *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		if e, ok := buttonEvent(false, byte(ev.Detail), int(ev.EventX), int(ev.EventY), ev.State); ok {
			b.dispatch(id, e)
		}
	}).Connect(xu, win.Id)

	xevent.MotionNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		b.dispatch(id, MouseEvent{
			Action: MouseMotion,
			X:      int(ev.EventX),
			Y:      int(ev.EventY),
			Held:   heldButtons(ev.State),
			Mods:   modifiersFromState(ev.State),
		})
	}).Connect(xu, win.Id)

	xevent.FocusInFun(func(_ *xgbutil.XUtil, ev xevent.FocusInEvent) {
		if ev.Detail != xproto.NotifyDetailPointer {
			b.dispatch(id, FocusEvent{Focused: true})
		}
	}).Connect(xu, win.Id)

	xevent.FocusOutFun(func(_ *xgbutil.XUtil, ev xevent.FocusOutEvent) {
		if ev.Detail != xproto.NotifyDetailPointer {
			b.dispatch(id, FocusEvent{Focused: false})
		}
	}).Connect(xu, win.Id)
}

func keyEvent(xu *xgbutil.XUtil, pressed bool, code xproto.Keycode, state uint16) KeyEvent {
	sym := keybind.LookupString(xu, state, code)
	return KeyEvent{
		Pressed: pressed,
		Code:    uint32(code),
		Sym:     sym,
		Char:    charForSym(sym),
		Mods:    modifiersFromState(state),
	}
}

func displayFromMonitor(m x11.Monitor) Display {
	return Display{
		ID:   m.ID,
		Name: m.Name,
		Bounds: Rect{
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
		},
		Usable: Rect{
			X:      m.UsableX,
			Y:      m.UsableY,
			Width:  m.UsableWidth,
			Height: m.UsableHeight,
		},
		Primary: m.Primary,
	}
}
