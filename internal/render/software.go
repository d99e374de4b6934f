package render

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/1broseidon/xwin/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"github.com/gogpu/gg"
)

// DefaultBackground is the clear colour used when none is configured.
const DefaultBackground = "#1f2933"

// Software renders each frame into a gg canvas and copies it to the window
// through an xgraphics pixmap.
type Software struct {
	xu         *xgbutil.XUtil
	win        xproto.Window
	background gg.RGBA
	explicitBg bool

	canvas  *gg.Context
	frame   *xgraphics.Image
	drawing bool
	ready   bool

	// surfaceSize and present are the native edges of the renderer.
	surfaceSize func() (int, int, error)
	present     func(img image.Image) error
}

var _ Renderer = (*Software)(nil)

// SoftwareOption configures a Software renderer.
type SoftwareOption func(*Software)

// WithBackground sets the colour each frame is cleared to ("#rrggbb").
func WithBackground(hex string) SoftwareOption {
	return func(s *Software) {
		if hex == "" {
			return
		}
		s.background = gg.Hex(hex)
		s.explicitBg = true
	}
}

// NewSoftware creates a software renderer bound to an X connection.
func NewSoftware(xu *xgbutil.XUtil, opts ...SoftwareOption) *Software {
	s := &Software{
		xu:         xu,
		background: gg.Hex(DefaultBackground),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SoftwareFactory returns a Factory producing Software renderers.
func SoftwareFactory(xu *xgbutil.XUtil, opts ...SoftwareOption) Factory {
	return func() Renderer {
		return NewSoftware(xu, opts...)
	}
}

// Setup binds the renderer to handle. A shared Software renderer lends its
// background colour unless one was set explicitly.
func (s *Software) Setup(handle platform.WindowID, shared Renderer) error {
	if s.ready {
		return errors.New("renderer already set up")
	}
	if handle == 0 {
		return errors.New("renderer setup: invalid window handle")
	}
	s.win = xproto.Window(handle)

	if other, ok := shared.(*Software); ok && other != nil && !s.explicitBg {
		s.background = other.background
	}

	if s.surfaceSize == nil {
		if s.xu == nil {
			return errors.New("renderer setup: no X connection")
		}
		s.surfaceSize = s.windowSize
		s.present = s.blit
	}
	s.ready = true
	return nil
}

// Canvas returns the frame canvas. It is only valid between StartDraw and
// FinishDraw.
func (s *Software) Canvas() *gg.Context {
	if !s.drawing {
		return nil
	}
	return s.canvas
}

// StartDraw sizes the canvas to the window and clears it.
func (s *Software) StartDraw() {
	if !s.ready {
		return
	}
	w, h, err := s.surfaceSize()
	if err != nil || w < 1 || h < 1 {
		w, h = 1, 1
	}
	if s.canvas == nil || s.canvas.Width() != w || s.canvas.Height() != h {
		if s.canvas != nil {
			_ = s.canvas.Close()
		}
		s.canvas = gg.NewContext(w, h)
	}
	s.canvas.ClearWithColor(s.background)
	s.drawing = true
}

// FinishDraw presents the canvas.
func (s *Software) FinishDraw() {
	if !s.drawing {
		return
	}
	s.drawing = false
	if s.present != nil {
		// A failed present leaves the previous frame on screen.
		_ = s.present(s.canvas.Image())
	}
}

// Kill releases the canvas and the X pixmap.
func (s *Software) Kill() {
	if s.canvas != nil {
		_ = s.canvas.Close()
		s.canvas = nil
	}
	if s.frame != nil {
		s.frame.Destroy()
		s.frame = nil
	}
	s.drawing = false
	s.ready = false
}

func (s *Software) windowSize() (int, int, error) {
	geom, err := xproto.GetGeometry(s.xu.Conn(), xproto.Drawable(s.win)).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get window geometry: %w", err)
	}
	return int(geom.Width), int(geom.Height), nil
}

func (s *Software) blit(img image.Image) error {
	bounds := img.Bounds()
	if s.frame == nil || !s.frame.Bounds().Eq(bounds) {
		if s.frame != nil {
			s.frame.Destroy()
		}
		s.frame = xgraphics.New(s.xu, bounds)
		if err := s.frame.XSurfaceSet(s.win); err != nil {
			s.frame.Destroy()
			s.frame = nil
			return fmt.Errorf("failed to create frame surface: %w", err)
		}
	}
	draw.Draw(s.frame, bounds, img, bounds.Min, draw.Src)
	s.frame.XDraw()
	s.frame.XPaint(s.win)
	return nil
}
