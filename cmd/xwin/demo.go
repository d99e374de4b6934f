package main

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/1broseidon/xwin/internal/app"
	"github.com/1broseidon/xwin/internal/config"
	"github.com/1broseidon/xwin/internal/platform"
	"github.com/1broseidon/xwin/internal/render"
)

// demo opens the configured windows and animates a marker in each.
//
// Keys: Escape closes, F11 toggles fullscreen, c toggles the cursor,
// t toggles always-on-top, b toggles decorations, o/s/d show the open, save
// and folder dialogs and put the result in the title.
type demo struct {
	cfg   *config.Config
	log   *slog.Logger
	start time.Time
	phase float64

	platform *app.Platform
	windows  map[*app.Window]*windowState
}

type windowState struct {
	pointer platform.Point
	trail   []platform.Point
}

const maxTrail = 64

func newDemo(cfg *config.Config, logger *slog.Logger) *demo {
	return &demo{
		cfg:     cfg,
		log:     logger,
		windows: make(map[*app.Window]*windowState),
	}
}

func (d *demo) Setup(p *app.Platform) error {
	d.platform = p
	d.start = time.Now()

	displays, err := p.Displays()
	if err != nil {
		return fmt.Errorf("failed to list displays: %w", err)
	}
	for i, wc := range d.cfg.Windows {
		f, err := formatFromConfig(wc, displays)
		if err != nil {
			return fmt.Errorf("windows[%d]: %w", i, err)
		}
		w, err := p.CreateWindow(f)
		if err != nil {
			return fmt.Errorf("windows[%d]: %w", i, err)
		}
		d.attach(w)
	}
	if d.cfg.CursorHidden {
		p.HideCursor()
	}
	d.log.Info("xwin started", "windows", len(d.windows), "app_path", p.AppPath())
	return nil
}

func (d *demo) Update() {
	d.phase = time.Since(d.start).Seconds()
}

func (d *demo) Cleanup() {
	for w := range d.windows {
		w.Release()
	}
	clear(d.windows)
}

func (d *demo) attach(w *app.Window) {
	st := &windowState{}
	d.windows[w] = st

	w.Draw.Connect(func(w *app.Window) { d.draw(w, st) })
	w.Resize.Connect(func(e app.ResizeEvent) {
		d.log.Debug("window resized", "window_id", w.ID(), "width", e.Size.Width, "height", e.Size.Height)
	})
	w.MouseMove.Connect(func(e *app.MouseEvent) {
		st.pointer = platform.Point{X: e.X, Y: e.Y}
	})
	w.MouseDrag.Connect(func(e *app.MouseEvent) {
		st.pointer = platform.Point{X: e.X, Y: e.Y}
		st.trail = append(st.trail, st.pointer)
		if len(st.trail) > maxTrail {
			st.trail = st.trail[len(st.trail)-maxTrail:]
		}
		e.Handled = true
	})
	w.MouseUp.Connect(func(*app.MouseEvent) { st.trail = st.trail[:0] })
	w.KeyDown.Connect(func(e *app.KeyEvent) { d.key(w, e) })
	w.Close.Connect(func(*app.CloseEvent) {
		d.log.Info("window close requested", "window_id", w.ID())
	})
}

func (d *demo) key(w *app.Window, e *app.KeyEvent) {
	e.Handled = true
	switch e.Sym {
	case "Escape":
		delete(d.windows, w)
		w.CloseWindow()
	case "F11":
		w.SetFullScreen(!w.IsFullScreen(), app.FullScreenOptions{})
	case "c":
		if d.platform.CursorHidden() {
			d.platform.ShowCursor()
		} else {
			d.platform.HideCursor()
		}
	case "t":
		w.SetAlwaysOnTop(!w.IsAlwaysOnTop())
	case "b":
		w.SetBorderless(!w.IsBorderless())
	case "o":
		d.retitle(w, d.platform.OpenFilePath("", nil))
	case "s":
		d.retitle(w, d.platform.SaveFilePath("", nil))
	case "d":
		d.retitle(w, d.platform.FolderPath(""))
	default:
		e.Handled = false
	}
}

func (d *demo) retitle(w *app.Window, path string) {
	if path == "" {
		return
	}
	w.SetTitle(path)
	w.Redraw()
}

func (d *demo) draw(w *app.Window, st *windowState) {
	sw, ok := w.Renderer().(*render.Software)
	if !ok {
		return
	}
	dc := sw.Canvas()
	if dc == nil {
		return
	}
	width, height := float64(dc.Width()), float64(dc.Height())
	r := math.Min(width, height) / 10

	cx := width/2 + math.Cos(d.phase)*width/4
	cy := height/2 + math.Sin(d.phase*1.3)*height/4
	dc.SetHexColor("#f5a623")
	dc.DrawCircle(cx, cy, r)
	_ = dc.Fill()

	dc.SetHexColor("#7fdbca")
	for _, p := range st.trail {
		dc.DrawCircle(float64(p.X), float64(p.Y), 3)
	}
	_ = dc.Fill()

	dc.SetHexColor("#e6e6e6")
	dc.DrawRectangle(float64(st.pointer.X)-4, float64(st.pointer.Y)-4, 8, 8)
	_ = dc.Fill()
}

// formatFromConfig converts a configured window to a Format. A display index
// of -1 or unset selects the primary display.
func formatFromConfig(wc config.WindowConfig, displays []platform.Display) (app.Format, error) {
	wc = wc.WithWindowDefaults()
	f := app.Format{
		Title:       wc.Title,
		Size:        platform.Size{Width: wc.Width, Height: wc.Height},
		FullScreen:  wc.FullScreen,
		Resizable:   wc.IsResizable(),
		AlwaysOnTop: wc.AlwaysOnTop,
		Borderless:  wc.Borderless,
	}
	if wc.X != nil && wc.Y != nil {
		f.Pos = &platform.Point{X: *wc.X, Y: *wc.Y}
	}
	if wc.Display != nil && *wc.Display >= 0 {
		if *wc.Display >= len(displays) {
			return app.Format{}, fmt.Errorf("display %d not connected (have %d)", *wc.Display, len(displays))
		}
		display := displays[*wc.Display]
		f.Display = &display
	}
	return f, nil
}
