package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/1broseidon/xwin/internal/dialog"
	"github.com/1broseidon/xwin/internal/platform"
	"github.com/1broseidon/xwin/internal/render"
)

var testDisplay = platform.Display{
	ID:      0,
	Name:    "DP-1",
	Bounds:  platform.Rect{X: 100, Y: 50, Width: 1920, Height: 1080},
	Usable:  platform.Rect{X: 100, Y: 80, Width: 1920, Height: 1050},
	Primary: true,
}

type fakeBackend struct {
	displays []platform.Display
	handler  platform.Handler
	nextID   platform.WindowID
	specs    map[platform.WindowID]platform.WindowSpec
	frame    platform.Insets

	createErr error
	frameErr  error

	visibleCalls    []bool
	fullScreenCalls []bool
	moveResizes     []platform.Rect
	titles          []string
	cursorCalls     []bool
	destroyed       []platform.WindowID
	redraws         int
	focuses         int
	quits           int

	tasks    chan func()
	quit     chan struct{}
	quitOnce sync.Once
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		displays: []platform.Display{testDisplay},
		nextID:   0x200000,
		specs:    make(map[platform.WindowID]platform.WindowSpec),
		tasks:    make(chan func(), 64),
		quit:     make(chan struct{}),
	}
}

func (b *fakeBackend) Displays() ([]platform.Display, error) { return b.displays, nil }

func (b *fakeBackend) PrimaryDisplay() (platform.Display, error) {
	if len(b.displays) == 0 {
		return platform.Display{}, errors.New("no displays")
	}
	return b.displays[0], nil
}

func (b *fakeBackend) SetHandler(h platform.Handler) { b.handler = h }

func (b *fakeBackend) CreateWindow(spec platform.WindowSpec) (platform.WindowID, error) {
	if b.createErr != nil {
		return 0, b.createErr
	}
	b.nextID++
	b.specs[b.nextID] = spec
	return b.nextID, nil
}

func (b *fakeBackend) DestroyWindow(id platform.WindowID) error {
	if _, ok := b.specs[id]; !ok {
		return fmt.Errorf("window %d not found", id)
	}
	delete(b.specs, id)
	b.destroyed = append(b.destroyed, id)
	return nil
}

func (b *fakeBackend) SetTitle(_ platform.WindowID, title string) error {
	b.titles = append(b.titles, title)
	return nil
}

func (b *fakeBackend) SetVisible(_ platform.WindowID, visible bool) error {
	b.visibleCalls = append(b.visibleCalls, visible)
	return nil
}

func (b *fakeBackend) MoveResize(_ platform.WindowID, bounds platform.Rect) error {
	b.moveResizes = append(b.moveResizes, bounds)
	return nil
}

func (b *fakeBackend) SetFullScreen(_ platform.WindowID, fullScreen bool) error {
	b.fullScreenCalls = append(b.fullScreenCalls, fullScreen)
	return nil
}

func (b *fakeBackend) SetAlwaysOnTop(platform.WindowID, bool) error { return nil }

func (b *fakeBackend) SetBorderless(platform.WindowID, bool) error {
	return errors.New("borderless not supported")
}

func (b *fakeBackend) SetResizable(platform.WindowID, bool, platform.Size) error { return nil }

func (b *fakeBackend) FrameExtents(platform.WindowID) (platform.Insets, error) {
	return b.frame, b.frameErr
}

func (b *fakeBackend) Redraw(platform.WindowID) error {
	b.redraws++
	return nil
}

func (b *fakeBackend) Focus(platform.WindowID) error {
	b.focuses++
	return nil
}

func (b *fakeBackend) SetCursorVisible(visible bool) error {
	b.cursorCalls = append(b.cursorCalls, visible)
	return nil
}

func (b *fakeBackend) Run(ctx context.Context) error {
	for {
		select {
		case fn := <-b.tasks:
			fn()
		case <-b.quit:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *fakeBackend) Post(fn func()) bool {
	select {
	case <-b.quit:
		return false
	default:
	}
	select {
	case b.tasks <- fn:
		return true
	default:
		return false
	}
}

func (b *fakeBackend) Quit() {
	b.quitOnce.Do(func() {
		b.quits++
		close(b.quit)
	})
}

func (b *fakeBackend) Disconnect() {}

// fakeRenderer records renderer calls into a shared log.
type fakeRenderer struct {
	log      *[]string
	setupErr error
	setups   int
	kills    int
	handle   platform.WindowID
	shared   render.Renderer
}

func (r *fakeRenderer) Setup(handle platform.WindowID, shared render.Renderer) error {
	r.setups++
	r.handle = handle
	r.shared = shared
	*r.log = append(*r.log, "setup")
	return r.setupErr
}

func (r *fakeRenderer) StartDraw()  { *r.log = append(*r.log, "start") }
func (r *fakeRenderer) FinishDraw() { *r.log = append(*r.log, "finish") }

func (r *fakeRenderer) Kill() {
	r.kills++
	*r.log = append(*r.log, "kill")
}

type fakeDialogs struct {
	path string
	err  error
	reqs []dialog.Request
}

func (d *fakeDialogs) Name() string { return "fake" }

func (d *fakeDialogs) OpenFile(req dialog.Request) (string, error) {
	d.reqs = append(d.reqs, req)
	return d.path, d.err
}

func (d *fakeDialogs) SaveFile(req dialog.Request) (string, error) {
	d.reqs = append(d.reqs, req)
	return d.path, d.err
}

func (d *fakeDialogs) Folder(req dialog.Request) (string, error) {
	d.reqs = append(d.reqs, req)
	return d.path, d.err
}

type testEnv struct {
	platform *Platform
	backend  *fakeBackend
	log      []string
	renderer *fakeRenderer
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEnv returns a platform whose setup has completed, so draws run.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{backend: newFakeBackend()}
	p, err := NewPlatform(Funcs{}, Options{
		Backend: env.backend,
		Renderers: func() render.Renderer {
			env.renderer = &fakeRenderer{log: &env.log}
			return env.renderer
		},
		Dialogs: &fakeDialogs{},
		Logger:  discardLogger(),
	})
	if err != nil {
		t.Fatalf("new platform: %v", err)
	}
	env.backend.SetHandler(p)
	p.setupDone = true
	env.platform = p
	return env
}

func (env *testEnv) create(t *testing.T, f Format) *Window {
	t.Helper()
	w, err := env.platform.CreateWindow(f)
	if err != nil {
		t.Fatalf("create window: %v", err)
	}
	return w
}
