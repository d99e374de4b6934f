package app

import (
	"errors"
	"fmt"
	"slices"

	"github.com/1broseidon/xwin/internal/platform"
	"github.com/1broseidon/xwin/internal/render"
	"github.com/1broseidon/xwin/internal/signal"
)

// NativeWindow owns one native window and its renderer and translates native
// events into Window signals. All methods run on the event loop goroutine.
type NativeWindow struct {
	platform *Platform
	window   *Window
	id       platform.WindowID
	renderer render.Renderer
	display  platform.Display
	title    titleBuffer

	size platform.Size
	pos  platform.Point
	// windowed is restored when leaving fullscreen.
	windowed platform.Rect

	fullScreen  bool
	resizable   bool
	alwaysOnTop bool
	borderless  bool
	hidden      bool
	focused     bool
	dragging    bool

	// busy counts dispatches in progress; teardown waits for zero.
	busy    int
	closing bool
	closed  bool
}

func newNativeWindow(p *Platform, f Format) (*NativeWindow, error) {
	display, err := p.resolveDisplay(f.Display)
	if err != nil {
		return nil, err
	}

	size := f.Size
	if size.Width == 0 {
		size.Width = DefaultWidth
	}
	if size.Height == 0 {
		size.Height = DefaultHeight
	}
	size = clampSize(size, display.Usable, platform.Insets{})

	var pos platform.Point
	if f.Pos != nil {
		pos = *f.Pos
	} else {
		pos = centre(display, size)
	}

	nw := &NativeWindow{
		platform:    p,
		display:     display,
		size:        size,
		pos:         pos,
		resizable:   f.Resizable,
		alwaysOnTop: f.AlwaysOnTop,
		borderless:  f.Borderless,
	}
	nw.title.set(f.Title)

	renderer := f.Renderer
	if renderer == nil && p.newRenderer != nil {
		renderer = p.newRenderer()
	}
	if renderer == nil {
		return nil, errors.New("no renderer available")
	}

	id, err := p.backend.CreateWindow(platform.WindowSpec{
		Bounds:      platform.Rect{X: pos.X, Y: pos.Y, Width: size.Width, Height: size.Height},
		Title:       nw.title.String(),
		Class:       WindowClass,
		Resizable:   nw.resizable,
		AlwaysOnTop: nw.alwaysOnTop,
		Borderless:  nw.borderless,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create native window: %w", err)
	}
	if err := renderer.Setup(id, f.SharedRenderer); err != nil {
		if derr := p.backend.DestroyWindow(id); derr != nil {
			p.log.Warn("failed to destroy window after renderer setup failure", "window_id", id, "error", derr)
		}
		return nil, fmt.Errorf("failed to set up renderer: %w", err)
	}
	nw.id = id
	nw.renderer = renderer
	nw.window = newWindow(nw, 2)

	if f.FullScreen {
		nw.toggleFullScreen(FullScreenOptions{})
	}
	return nw, nil
}

// Title returns the stored, possibly truncated, title.
func (nw *NativeWindow) Title() string {
	return nw.title.String()
}

// TitleBytes returns the title buffer contents including the terminating NUL.
func (nw *NativeWindow) TitleBytes() []byte {
	return slices.Clone(nw.title.bytes())
}

// SetTitle stores the title and updates the native window.
func (nw *NativeWindow) SetTitle(title string) {
	nw.title.set(title)
	if err := nw.platform.backend.SetTitle(nw.id, nw.title.String()); err != nil {
		nw.warn("failed to set title", err)
	}
}

// SetFullScreen switches to the target state. It does nothing when the window
// is already there.
func (nw *NativeWindow) SetFullScreen(fullScreen bool, opts FullScreenOptions) {
	if nw.fullScreen == fullScreen {
		return
	}
	nw.toggleFullScreen(opts)
}

func (nw *NativeWindow) toggleFullScreen(opts FullScreenOptions) {
	backend := nw.platform.backend
	if nw.fullScreen {
		if err := backend.SetFullScreen(nw.id, false); err != nil {
			nw.warn("failed to leave fullscreen", err)
		}
		nw.fullScreen = false
		nw.pos = nw.windowed.Pos()
		nw.size = nw.windowed.Size()
		if err := backend.MoveResize(nw.id, nw.windowed); err != nil {
			nw.warn("failed to restore windowed geometry", err)
		}
		nw.refreshDisplay()
		return
	}

	nw.windowed = platform.Rect{X: nw.pos.X, Y: nw.pos.Y, Width: nw.size.Width, Height: nw.size.Height}
	if opts.Display != nil {
		nw.display = withUsable(*opts.Display)
		// The window manager fullscreens on the monitor holding the window.
		if err := backend.MoveResize(nw.id, nw.display.Bounds); err != nil {
			nw.warn("failed to move window to display", err)
		}
	}
	if err := backend.SetFullScreen(nw.id, true); err != nil {
		nw.warn("failed to enter fullscreen", err)
	}
	nw.fullScreen = true
	nw.pos = nw.display.Bounds.Pos()
	nw.size = nw.display.Bounds.Size()
}

// Hide unmaps the window. It does nothing when already hidden.
func (nw *NativeWindow) Hide() {
	if nw.hidden {
		return
	}
	nw.hidden = true
	if err := nw.platform.backend.SetVisible(nw.id, false); err != nil {
		nw.warn("failed to hide window", err)
	}
}

// Show maps the window. It does nothing when already visible.
func (nw *NativeWindow) Show() {
	if !nw.hidden {
		return
	}
	nw.hidden = false
	if err := nw.platform.backend.SetVisible(nw.id, true); err != nil {
		nw.warn("failed to show window", err)
	}
}

// refreshDisplay rebinds the window to the display holding its centre. The
// current display is kept when none does.
func (nw *NativeWindow) refreshDisplay() {
	displays, err := nw.platform.backend.Displays()
	if err != nil {
		nw.platform.log.Debug("displays unavailable", "window_id", nw.id, "error", err)
		return
	}
	cx := nw.pos.X + nw.size.Width/2
	cy := nw.pos.Y + nw.size.Height/2
	for _, d := range displays {
		if !d.Bounds.Contains(cx, cy) {
			continue
		}
		d = withUsable(d)
		if d.ID != nw.display.ID || d.Bounds != nw.display.Bounds {
			nw.platform.log.Debug("window changed display", "window_id", nw.id, "display", d.Name)
		}
		nw.display = d
		return
	}
}

// getScreenSize bounds size to what fits in the display's usable area once
// the window manager frame is added.
func (nw *NativeWindow) getScreenSize(size platform.Size) platform.Size {
	frame, err := nw.platform.backend.FrameExtents(nw.id)
	if err != nil {
		nw.platform.log.Debug("frame extents unavailable", "window_id", nw.id, "error", err)
		frame = platform.Insets{}
	}
	return clampSize(size, nw.display.Usable, frame)
}

// SetSize resizes the window within the display bounds. While fullscreen only
// the size restored on leaving fullscreen changes.
func (nw *NativeWindow) SetSize(size platform.Size) {
	size = nw.getScreenSize(size)
	if nw.fullScreen {
		nw.windowed.Width, nw.windowed.Height = size.Width, size.Height
		return
	}
	nw.size = size
	nw.applyGeometry()
}

// SetPos moves the window. While fullscreen only the position restored on
// leaving fullscreen changes.
func (nw *NativeWindow) SetPos(pos platform.Point) {
	if nw.fullScreen {
		nw.windowed.X, nw.windowed.Y = pos.X, pos.Y
		return
	}
	nw.pos = pos
	nw.applyGeometry()
}

func (nw *NativeWindow) applyGeometry() {
	bounds := platform.Rect{X: nw.pos.X, Y: nw.pos.Y, Width: nw.size.Width, Height: nw.size.Height}
	if err := nw.platform.backend.MoveResize(nw.id, bounds); err != nil {
		nw.warn("failed to move or resize window", err)
	}
}

// SetResizable pins or frees the size hints at the current size.
func (nw *NativeWindow) SetResizable(resizable bool) {
	nw.resizable = resizable
	if err := nw.platform.backend.SetResizable(nw.id, resizable, nw.size); err != nil {
		nw.warn("failed to update resizable hint", err)
	}
}

// SetAlwaysOnTop toggles _NET_WM_STATE_ABOVE.
func (nw *NativeWindow) SetAlwaysOnTop(onTop bool) {
	nw.alwaysOnTop = onTop
	if err := nw.platform.backend.SetAlwaysOnTop(nw.id, onTop); err != nil {
		nw.warn("failed to update always-on-top state", err)
	}
}

// SetBorderless toggles window manager decorations.
func (nw *NativeWindow) SetBorderless(borderless bool) {
	nw.borderless = borderless
	if err := nw.platform.backend.SetBorderless(nw.id, borderless); err != nil {
		nw.warn("failed to update decorations", err)
	}
}

// Redraw requests an expose.
func (nw *NativeWindow) Redraw() {
	if err := nw.platform.backend.Redraw(nw.id); err != nil {
		nw.warn("failed to request redraw", err)
	}
}

// Activate asks the window manager to focus the window.
func (nw *NativeWindow) Activate() {
	if err := nw.platform.backend.Focus(nw.id); err != nil {
		nw.warn("failed to focus window", err)
	}
}

// Close removes the window from its platform. The window is torn down once
// any dispatch in progress for it returns.
func (nw *NativeWindow) Close() {
	nw.platform.closeWindow(nw)
}

// privateClose releases the renderer. The platform calls it once.
func (nw *NativeWindow) privateClose() {
	nw.renderer.Kill()
}

func (nw *NativeWindow) enter() {
	nw.busy++
}

func (nw *NativeWindow) leave() {
	nw.busy--
	if nw.busy == 0 && nw.closing {
		nw.platform.teardown(nw)
	}
}

func (nw *NativeWindow) handle(ev platform.Event) {
	switch ev.(type) {
	case platform.KeyEvent, platform.MouseEvent, platform.FocusEvent:
		// The window manager holds the pointer grab for a whole interactive
		// move, so input reaching the window means the move has ended.
		if nw.dragging {
			nw.endDrag()
			if nw.closing {
				return
			}
		}
	}

	switch e := ev.(type) {
	case platform.CloseRequestEvent:
		nw.closeRequested()
	case platform.ExposeEvent:
		nw.draw()
	case platform.ConfigureEvent:
		nw.configure(e)
	case platform.KeyEvent:
		if e.Pressed {
			nw.keyDown(e)
		} else {
			nw.keyUp(e)
		}
	case platform.MouseEvent:
		switch {
		case e.Action == platform.MousePress:
			nw.mouseDown(e)
		case e.Action == platform.MouseRelease:
			nw.mouseUp(e)
		case e.Action == platform.MouseWheel:
			nw.mouseWheel(e)
		case e.IsDrag():
			nw.mouseDrag(e)
		default:
			nw.mouseMove(e)
		}
	case platform.FocusEvent:
		nw.focus(e)
	}
}

// draw runs the draw callbacks inside a renderer draw bracket. Hidden windows
// and windows of a platform still in setup are skipped.
func (nw *NativeWindow) draw() {
	if nw.closing || nw.hidden || !nw.platform.setupDone {
		return
	}
	nw.enter()
	defer nw.leave()

	nw.platform.setWindow(nw.window)
	nw.renderer.StartDraw()
	nw.window.Draw.Emit(nw.window)
	nw.renderer.FinishDraw()
}

// resize notifies callbacks of the current size; the native window has
// already changed.
func (nw *NativeWindow) resize() {
	nw.enter()
	defer nw.leave()

	nw.platform.setWindow(nw.window)
	nw.window.Resize.Emit(ResizeEvent{Size: nw.size})
}

func (nw *NativeWindow) move() {
	nw.enter()
	defer nw.leave()

	nw.platform.setWindow(nw.window)
	nw.window.Move.Emit(MoveEvent{Pos: nw.pos, Dragging: nw.dragging})
}

// endDrag clears the dragging flag and reports the final position.
func (nw *NativeWindow) endDrag() {
	nw.dragging = false
	nw.move()
}

func (nw *NativeWindow) configure(e platform.ConfigureEvent) {
	nw.dragging = e.Dragging
	moved := e.Bounds.Pos() != nw.pos
	size := e.Bounds.Size()
	resized := size != nw.size && size.Width > 0 && size.Height > 0
	if moved {
		nw.pos = e.Bounds.Pos()
	}
	if resized {
		nw.size = size
	}
	if moved || resized {
		nw.refreshDisplay()
	}
	if moved {
		nw.move()
	}
	if resized && !nw.closing {
		nw.resize()
	}
}

func (nw *NativeWindow) closeRequested() {
	nw.enter()
	defer nw.leave()

	nw.platform.setWindow(nw.window)
	ev := &CloseEvent{}
	nw.window.Close.EmitWhile(ev, func() bool { return !ev.Cancel })
	if !ev.Cancel {
		nw.platform.closeWindow(nw)
	}
}

func (nw *NativeWindow) focus(e platform.FocusEvent) {
	nw.focused = e.Focused
	nw.enter()
	defer nw.leave()

	nw.platform.setWindow(nw.window)
	nw.window.Focus.Emit(FocusEvent{Focused: e.Focused})
}

func (nw *NativeWindow) keyDown(e platform.KeyEvent) {
	emitInput(nw, &nw.window.KeyDown, e, func(ev *KeyEvent) bool { return ev.Handled })
}

func (nw *NativeWindow) keyUp(e platform.KeyEvent) {
	emitInput(nw, &nw.window.KeyUp, e, func(ev *KeyEvent) bool { return ev.Handled })
}

func (nw *NativeWindow) mouseDown(e platform.MouseEvent) {
	emitInput(nw, &nw.window.MouseDown, copyMouse(e), mouseHandled)
}

func (nw *NativeWindow) mouseUp(e platform.MouseEvent) {
	emitInput(nw, &nw.window.MouseUp, copyMouse(e), mouseHandled)
}

func (nw *NativeWindow) mouseMove(e platform.MouseEvent) {
	emitInput(nw, &nw.window.MouseMove, copyMouse(e), mouseHandled)
}

func (nw *NativeWindow) mouseDrag(e platform.MouseEvent) {
	emitInput(nw, &nw.window.MouseDrag, copyMouse(e), mouseHandled)
}

func (nw *NativeWindow) mouseWheel(e platform.MouseEvent) {
	emitInput(nw, &nw.window.MouseWheel, copyMouse(e), mouseHandled)
}

func mouseHandled(ev *MouseEvent) bool { return ev.Handled }

// copyMouse detaches the held-button slice from the native event.
func copyMouse(e platform.MouseEvent) platform.MouseEvent {
	e.Held = slices.Clone(e.Held)
	return e
}

// emitInput emits a private copy of e until a callback marks it handled.
func emitInput[E any](nw *NativeWindow, sig *signal.Signal[*E], e E, handled func(*E) bool) {
	nw.enter()
	defer nw.leave()

	nw.platform.setWindow(nw.window)
	ev := e
	sig.EmitWhile(&ev, func() bool { return !handled(&ev) })
}

func (nw *NativeWindow) warn(msg string, err error) {
	nw.platform.log.Warn(msg, "window_id", nw.id, "error", err)
}
