package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/1broseidon/xwin/internal/dialog"
	"github.com/1broseidon/xwin/internal/platform"
	"github.com/1broseidon/xwin/internal/render"
	"github.com/1broseidon/xwin/internal/resource"
)

// ErrStopped is returned by Do when the event loop no longer accepts work.
var ErrStopped = errors.New("event loop stopped")

// Options configure a Platform.
type Options struct {
	Backend platform.Backend
	// Renderers creates a renderer for windows whose Format has none.
	Renderers render.Factory
	// Dialogs presents file dialogs. Nil auto-detects on first use.
	Dialogs dialog.Backend
	// Resources loads bundled resources. Nil uses <AppPath>/resources.
	Resources *resource.Loader
	Logger    *slog.Logger

	// FrameRate is the number of Update/draw passes per second. Zero draws
	// on expose only.
	FrameRate             int
	QuitOnLastWindowClose bool
}

// Platform owns every native window of the process and runs the event loop.
// Its state is only touched on the event loop goroutine; other goroutines use
// Post, Do and Quit.
type Platform struct {
	program     Program
	backend     platform.Backend
	newRenderer render.Factory
	dialogs     dialog.Backend
	resources   *resource.Loader
	log         *slog.Logger

	frameRate       int
	quitOnLastClose bool

	windows map[platform.WindowID]*NativeWindow
	order   []platform.WindowID
	current *Window

	setupStarted bool
	setupDone    bool
	cursorHidden bool
	shutdown     bool
	running      atomic.Bool
}

var _ platform.Handler = (*Platform)(nil)

// NewPlatform creates a platform driving program on opts.Backend.
func NewPlatform(program Program, opts Options) (*Platform, error) {
	if program == nil {
		return nil, errors.New("program is required")
	}
	if opts.Backend == nil {
		return nil, errors.New("backend is required")
	}
	if opts.FrameRate < 0 {
		return nil, fmt.Errorf("invalid frame rate %d", opts.FrameRate)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	p := &Platform{
		program:         program,
		backend:         opts.Backend,
		newRenderer:     opts.Renderers,
		dialogs:         opts.Dialogs,
		resources:       opts.Resources,
		log:             logger,
		frameRate:       opts.FrameRate,
		quitOnLastClose: opts.QuitOnLastWindowClose,
		windows:         make(map[platform.WindowID]*NativeWindow),
	}
	if p.resources == nil {
		p.resources = defaultResources(p.AppPath())
	}
	return p, nil
}

// Logger returns the platform logger.
func (p *Platform) Logger() *slog.Logger { return p.log }

// Backend returns the native backend.
func (p *Platform) Backend() platform.Backend { return p.backend }

// SetupDone reports whether Program.Setup has returned successfully.
func (p *Platform) SetupDone() bool { return p.setupDone }

// Run sets up the program, runs the event loop until ctx is done, Quit is
// called or the last window closes, then shuts down.
func (p *Platform) Run(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return errors.New("platform is already running")
	}
	defer p.running.Store(false)

	p.backend.SetHandler(p)
	p.setupStarted = true
	if err := p.program.Setup(p); err != nil {
		p.Shutdown()
		return fmt.Errorf("setup failed: %w", err)
	}
	p.setupDone = true

	if p.quitOnLastClose && len(p.windows) == 0 {
		p.log.Info("no windows open after setup, exiting")
		p.Shutdown()
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if p.frameRate > 0 {
		go p.tick(ctx)
	}

	p.log.Debug("event loop started", "windows", len(p.windows), "frame_rate", p.frameRate)
	err := p.backend.Run(ctx)
	p.Shutdown()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Quit stops the event loop. Safe from any goroutine.
func (p *Platform) Quit() {
	p.backend.Quit()
}

// Post queues fn on the event loop. Safe from any goroutine.
func (p *Platform) Post(fn func()) bool {
	return p.backend.Post(fn)
}

// Do runs fn on the event loop and waits for its result. It must not be
// called from the event loop goroutine, where it blocks until ctx is done;
// Program and signal callbacks already run there and call fn directly.
func (p *Platform) Do(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	if !p.backend.Post(func() { done <- fn() }) {
		return ErrStopped
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown closes every window, restores the cursor and runs Program.Cleanup.
// Later calls do nothing.
func (p *Platform) Shutdown() {
	if p.shutdown {
		return
	}
	p.shutdown = true
	for _, id := range slices.Clone(p.order) {
		if nw, ok := p.windows[id]; ok {
			p.closeWindow(nw)
		}
	}
	if p.cursorHidden {
		p.ShowCursor()
	}
	if p.setupStarted {
		p.program.Cleanup()
	}
	p.log.Debug("platform shut down")
}

// CreateWindow creates and registers a window. The returned handle carries
// the caller's reference.
func (p *Platform) CreateWindow(f Format) (*Window, error) {
	if p.shutdown {
		return nil, errors.New("platform is shut down")
	}
	nw, err := newNativeWindow(p, f)
	if err != nil {
		return nil, err
	}
	p.windows[nw.id] = nw
	p.order = append(p.order, nw.id)
	p.setWindow(nw.window)
	p.log.Debug("window created", "window_id", nw.id, "title", nw.Title(),
		"x", nw.pos.X, "y", nw.pos.Y, "width", nw.size.Width, "height", nw.size.Height)
	return nw.window, nil
}

// Windows returns the open windows in creation order.
func (p *Platform) Windows() []*Window {
	out := make([]*Window, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.windows[id].window)
	}
	return out
}

// Window looks up an open window by native handle.
func (p *Platform) Window(id platform.WindowID) (*Window, bool) {
	nw, ok := p.windows[id]
	if !ok {
		return nil, false
	}
	return nw.window, true
}

// Displays lists the connected displays.
func (p *Platform) Displays() ([]platform.Display, error) {
	return p.backend.Displays()
}

// CurrentWindow returns the window most recently made current.
func (p *Platform) CurrentWindow() *Window {
	return p.current
}

// setWindow makes w the target of subsequent renderer calls.
func (p *Platform) setWindow(w *Window) {
	p.current = w
}

// HandleEvent routes a native event to its window.
func (p *Platform) HandleEvent(id platform.WindowID, ev platform.Event) {
	nw, ok := p.windows[id]
	if !ok {
		p.log.Debug("event for unknown window", "window_id", id, "event", fmt.Sprintf("%T", ev))
		return
	}
	nw.handle(ev)
}

// closeWindow removes nw from the registry and tears it down, or marks it for
// teardown when a dispatch for it is in progress.
func (p *Platform) closeWindow(nw *NativeWindow) {
	if nw == nil || nw.closing {
		return
	}
	nw.closing = true
	delete(p.windows, nw.id)
	if i := slices.Index(p.order, nw.id); i >= 0 {
		p.order = slices.Delete(p.order, i, i+1)
	}
	if p.current == nw.window {
		p.setWindow(nil)
	}
	if nw.busy == 0 {
		p.teardown(nw)
	}
	p.log.Debug("window closed", "window_id", nw.id, "deferred", nw.busy > 0)

	if p.quitOnLastClose && p.setupDone && !p.shutdown && len(p.windows) == 0 {
		p.log.Info("last window closed, exiting")
		p.Quit()
	}
}

func (p *Platform) teardown(nw *NativeWindow) {
	if nw.closed {
		return
	}
	nw.closed = true
	nw.privateClose()
	if err := p.backend.DestroyWindow(nw.id); err != nil {
		p.log.Warn("failed to destroy window", "window_id", nw.id, "error", err)
	}
	nw.window.Release()
}

func (p *Platform) resolveDisplay(d *platform.Display) (platform.Display, error) {
	var display platform.Display
	if d != nil {
		display = *d
	} else {
		primary, err := p.backend.PrimaryDisplay()
		if err != nil {
			return platform.Display{}, fmt.Errorf("failed to get primary display: %w", err)
		}
		display = primary
	}
	return withUsable(display), nil
}

// withUsable defaults a missing work area to the full display bounds.
func withUsable(d platform.Display) platform.Display {
	if d.Usable.Width <= 0 || d.Usable.Height <= 0 {
		d.Usable = d.Bounds
	}
	return d
}

// tick posts a frame at the configured rate. At most one frame is queued.
func (p *Platform) tick(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(p.frameRate))
	defer ticker.Stop()

	var pending atomic.Bool
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !pending.CompareAndSwap(false, true) {
				continue
			}
			if !p.backend.Post(func() {
				pending.Store(false)
				p.frame()
			}) {
				pending.Store(false)
			}
		}
	}
}

// frame runs Program.Update and draws every visible window.
func (p *Platform) frame() {
	if !p.setupDone || p.shutdown {
		return
	}
	p.program.Update()
	for _, id := range slices.Clone(p.order) {
		if nw, ok := p.windows[id]; ok {
			nw.draw()
		}
	}
}
