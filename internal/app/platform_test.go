package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"testing/fstest"
	"time"

	"github.com/1broseidon/xwin/internal/dialog"
	"github.com/1broseidon/xwin/internal/platform"
	"github.com/1broseidon/xwin/internal/render"
	"github.com/1broseidon/xwin/internal/resource"
)

func TestNewPlatform_Validation(t *testing.T) {
	if _, err := NewPlatform(nil, Options{Backend: newFakeBackend()}); err == nil {
		t.Fatalf("expected nil program to fail")
	}
	if _, err := NewPlatform(Funcs{}, Options{}); err == nil {
		t.Fatalf("expected missing backend to fail")
	}
	if _, err := NewPlatform(Funcs{}, Options{Backend: newFakeBackend(), FrameRate: -1}); err == nil {
		t.Fatalf("expected negative frame rate to fail")
	}
}

func TestCloseWindow_RemovesAndTearsDownOnce(t *testing.T) {
	env := newTestEnv(t)
	w := env.create(t, DefaultFormat())
	keep := env.create(t, DefaultFormat())
	r := env.platform.windows[w.ID()].renderer.(*fakeRenderer)
	id := w.ID()

	w.CloseWindow()
	if _, ok := env.platform.Window(id); ok {
		t.Fatalf("expected window to leave the registry")
	}
	if got := env.platform.Windows(); len(got) != 1 || got[0] != keep {
		t.Fatalf("expected only the other window to remain, got %v", got)
	}
	if r.kills != 1 {
		t.Fatalf("expected one renderer kill, got %d", r.kills)
	}
	if !reflect.DeepEqual(env.backend.destroyed, []platform.WindowID{id}) {
		t.Fatalf("expected native window destroyed, got %v", env.backend.destroyed)
	}
	if w.Refs() != 0 {
		t.Fatalf("expected every reference released, got %d", w.Refs())
	}

	env.platform.closeWindow(w.Native())
	env.platform.Shutdown()
	if r.kills != 1 {
		t.Fatalf("expected privateClose exactly once, got %d", r.kills)
	}
}

func TestCloseWindow_DuringDispatchDefersTeardown(t *testing.T) {
	env := newTestEnv(t)
	w := env.create(t, DefaultFormat())
	r := env.platform.windows[w.ID()].renderer.(*fakeRenderer)
	id := w.ID()

	var registeredInside bool
	var killsInside int
	w.KeyDown.Connect(func(*KeyEvent) {
		w.CloseWindow()
		_, registeredInside = env.platform.Window(id)
		killsInside = r.kills
	})
	after := 0
	w.KeyDown.Connect(func(*KeyEvent) { after++ })

	env.platform.HandleEvent(id, platform.KeyEvent{Pressed: true})

	if registeredInside {
		t.Fatalf("expected registry removal to happen immediately")
	}
	if killsInside != 0 {
		t.Fatalf("expected teardown to wait for the dispatch to unwind")
	}
	if r.kills != 1 || len(env.backend.destroyed) != 1 {
		t.Fatalf("expected teardown after dispatch, kills=%d destroyed=%v", r.kills, env.backend.destroyed)
	}
	if after != 1 {
		t.Fatalf("expected remaining callbacks of the dispatch to run, got %d", after)
	}
}

func TestCloseWindow_DuringDrawFinishesBracket(t *testing.T) {
	env := newTestEnv(t)
	w := env.create(t, DefaultFormat())
	w.Draw.Connect(func(w *Window) {
		w.CloseWindow()
		env.log = append(env.log, "draw")
	})

	env.platform.HandleEvent(w.ID(), platform.ExposeEvent{})

	want := []string{"setup", "start", "draw", "finish", "kill"}
	if !reflect.DeepEqual(env.log, want) {
		t.Fatalf("expected %v, got %v", want, env.log)
	}
}

func TestCloseRequest(t *testing.T) {
	env := newTestEnv(t)
	w := env.create(t, DefaultFormat())
	cancel := true
	w.Close.Connect(func(e *CloseEvent) { e.Cancel = cancel })

	env.platform.HandleEvent(w.ID(), platform.CloseRequestEvent{})
	if w.IsClosed() {
		t.Fatalf("expected cancelled close request to keep the window")
	}

	cancel = false
	env.platform.HandleEvent(w.ID(), platform.CloseRequestEvent{})
	if !w.IsClosed() {
		t.Fatalf("expected window to close")
	}
	if w.Refs() != 1 {
		t.Fatalf("expected creator reference to survive, got %d", w.Refs())
	}
	w.Release()
	if w.Refs() != 0 || w.Draw.Len() != 0 {
		t.Fatalf("expected last release to disconnect signals")
	}
}

func TestCloseWindow_QuitsOnLastWindow(t *testing.T) {
	env := newTestEnv(t)
	env.platform.quitOnLastClose = true
	a := env.create(t, DefaultFormat())
	b := env.create(t, DefaultFormat())

	a.CloseWindow()
	if env.backend.quits != 0 {
		t.Fatalf("expected no quit while windows remain")
	}
	b.CloseWindow()
	if env.backend.quits != 1 {
		t.Fatalf("expected quit after the last window closed")
	}
}

func TestCloseWindow_ClearsCurrent(t *testing.T) {
	env := newTestEnv(t)
	w := env.create(t, DefaultFormat())
	w.CloseWindow()
	if env.platform.CurrentWindow() != nil {
		t.Fatalf("expected closed window to stop being current")
	}
}

func TestCursor_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	p := env.platform

	p.HideCursor()
	p.HideCursor()
	if !p.CursorHidden() {
		t.Fatalf("expected cursor hidden")
	}
	p.ShowCursor()
	p.ShowCursor()
	if p.CursorHidden() {
		t.Fatalf("expected cursor shown")
	}
	if !reflect.DeepEqual(env.backend.cursorCalls, []bool{false, true}) {
		t.Fatalf("expected one native change per transition, got %v", env.backend.cursorCalls)
	}
}

func TestFileDialogs_CancelReturnsEmpty(t *testing.T) {
	env := newTestEnv(t)
	d := &fakeDialogs{err: dialog.ErrCancelled}
	env.platform.dialogs = d

	if got := env.platform.OpenFilePath("/tmp", []string{"png"}); got != "" {
		t.Fatalf("expected empty open path, got %q", got)
	}
	if got := env.platform.SaveFilePath("/tmp/out.png", nil); got != "" {
		t.Fatalf("expected empty save path, got %q", got)
	}
	if got := env.platform.FolderPath("/tmp"); got != "" {
		t.Fatalf("expected empty folder path, got %q", got)
	}
	if len(d.reqs) != 3 || d.reqs[0].Extensions[0] != "png" || d.reqs[1].InitialPath != "/tmp/out.png" {
		t.Fatalf("unexpected requests %+v", d.reqs)
	}

	d.err = errors.New("zenity failed: cannot open display")
	if got := env.platform.OpenFilePath("", nil); got != "" {
		t.Fatalf("expected empty path on failure, got %q", got)
	}

	d.err = nil
	d.path = "/home/u/a.png"
	if got := env.platform.OpenFilePath("", nil); got != d.path {
		t.Fatalf("expected %q, got %q", d.path, got)
	}
}

func TestAppPath(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "xwin")
	if err := os.WriteFile(exe, nil, 0755); err != nil {
		t.Fatalf("write: %v", err)
	}
	link := filepath.Join(t.TempDir(), "xwin-link")
	if err := os.Symlink(exe, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	resolvedDir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got := appPath(func() (string, error) { return link, nil }); got != resolvedDir {
		t.Fatalf("expected %q, got %q", resolvedDir, got)
	}
	if got := appPath(func() (string, error) { return "", errors.New("unsupported") }); got != "" {
		t.Fatalf("expected empty path on failure, got %q", got)
	}
	if newTestEnv(t).platform.AppPath() == "" {
		t.Fatalf("expected test binary path to resolve")
	}
}

func TestLoadResource(t *testing.T) {
	env := newTestEnv(t)
	env.platform.resources = resource.NewLoader(fstest.MapFS{
		"shaders/quad.vert": {Data: []byte("void main() {}")},
	})

	data, err := env.platform.LoadResource("shaders/quad", "vert")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(data) != "void main() {}" {
		t.Fatalf("unexpected data %q", data)
	}
	data, err = env.platform.LoadResource("shaders/missing", "vert")
	if !errors.Is(err, resource.ErrNotFound) || data != nil {
		t.Fatalf("expected ErrNotFound and no data, got %v %q", err, data)
	}
}

func TestRun_SetupLoopAndShutdown(t *testing.T) {
	backend := newFakeBackend()
	var log []string
	var cleanups int
	var created *Window
	prog := Funcs{
		SetupFunc: func(p *Platform) error {
			w, err := p.CreateWindow(DefaultFormat())
			created = w
			return err
		},
		CleanupFunc: func() { cleanups++ },
	}
	p, err := NewPlatform(prog, Options{
		Backend:   backend,
		Renderers: func() render.Renderer { return &fakeRenderer{log: &log} },
		Logger:    discardLogger(),
	})
	if err != nil {
		t.Fatalf("new platform: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- p.Run(ctx) }()

	var count int
	var setupDone bool
	if err := p.Do(ctx, func() error {
		count = len(p.Windows())
		setupDone = p.SetupDone()
		return nil
	}); err != nil {
		t.Fatalf("do: %v", err)
	}
	if count != 1 || !setupDone {
		t.Fatalf("expected one window after setup, got %d (setup done %v)", count, setupDone)
	}

	p.Quit()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not return after quit")
	}

	if cleanups != 1 {
		t.Fatalf("expected cleanup once, got %d", cleanups)
	}
	if !created.IsClosed() || len(backend.destroyed) != 1 {
		t.Fatalf("expected shutdown to close the window")
	}
	if err := p.Do(context.Background(), func() error { return nil }); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped after quit, got %v", err)
	}
}

func TestRun_SetupFailure(t *testing.T) {
	var cleanups int
	p, err := NewPlatform(Funcs{
		SetupFunc:   func(*Platform) error { return errors.New("no assets") },
		CleanupFunc: func() { cleanups++ },
	}, Options{Backend: newFakeBackend(), Logger: discardLogger()})
	if err != nil {
		t.Fatalf("new platform: %v", err)
	}
	if err := p.Run(context.Background()); err == nil {
		t.Fatalf("expected setup error")
	}
	if cleanups != 1 || p.SetupDone() {
		t.Fatalf("expected cleanup after failed setup and setup not done")
	}
}

func TestRun_NoWindowsExits(t *testing.T) {
	p, err := NewPlatform(Funcs{}, Options{Backend: newFakeBackend(), Logger: discardLogger(), QuitOnLastWindowClose: true})
	if err != nil {
		t.Fatalf("new platform: %v", err)
	}
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRun_FrameTicker(t *testing.T) {
	updates := make(chan struct{}, 1)
	var log []string
	drawn := make(chan struct{}, 1)
	prog := Funcs{
		SetupFunc: func(p *Platform) error {
			w, err := p.CreateWindow(DefaultFormat())
			if err != nil {
				return err
			}
			w.Draw.Connect(func(*Window) {
				select {
				case drawn <- struct{}{}:
				default:
				}
			})
			return nil
		},
		UpdateFunc: func() {
			select {
			case updates <- struct{}{}:
			default:
			}
		},
	}
	p, err := NewPlatform(prog, Options{
		Backend:   newFakeBackend(),
		Renderers: func() render.Renderer { return &fakeRenderer{log: &log} },
		Logger:    discardLogger(),
		FrameRate: 200,
	})
	if err != nil {
		t.Fatalf("new platform: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- p.Run(ctx) }()

	for _, ch := range []chan struct{}{updates, drawn} {
		select {
		case <-ch:
		case <-time.After(5 * time.Second):
			cancel()
			t.Fatalf("frame ticker did not run")
		}
	}
	cancel()
	if err := <-errc; err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestFrame_UpdatesThenDrawsVisibleWindows(t *testing.T) {
	env := newTestEnv(t)
	var order []string
	env.platform.program = Funcs{UpdateFunc: func() { order = append(order, "update") }}
	a := env.create(t, DefaultFormat())
	b := env.create(t, DefaultFormat())
	a.Draw.Connect(func(*Window) { order = append(order, "a") })
	b.Draw.Connect(func(*Window) { order = append(order, "b") })
	b.Hide()

	env.platform.frame()
	if want := []string{"update", "a"}; !reflect.DeepEqual(order, want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
}
