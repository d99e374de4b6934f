package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gg"
)

func newTestSoftware(w, h int, presented *[]image.Image, opts ...SoftwareOption) *Software {
	s := NewSoftware(nil, opts...)
	s.surfaceSize = func() (int, int, error) { return w, h, nil }
	s.present = func(img image.Image) error {
		*presented = append(*presented, img)
		return nil
	}
	return s
}

func TestSoftware_SetupOnce(t *testing.T) {
	var presented []image.Image
	s := newTestSoftware(10, 10, &presented)

	if err := s.Setup(42, nil); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := s.Setup(42, nil); err == nil {
		t.Fatalf("expected second setup to fail")
	}
}

func TestSoftware_SetupRejectsZeroHandle(t *testing.T) {
	var presented []image.Image
	s := newTestSoftware(10, 10, &presented)
	if err := s.Setup(0, nil); err == nil {
		t.Fatalf("expected setup with zero handle to fail")
	}
}

func TestSoftware_SetupWithoutConnectionFails(t *testing.T) {
	if err := NewSoftware(nil).Setup(7, nil); err == nil {
		t.Fatalf("expected setup without X connection to fail")
	}
}

func TestSoftware_DrawBracketPresentsClearedFrame(t *testing.T) {
	var presented []image.Image
	s := newTestSoftware(4, 3, &presented, WithBackground("#ff0000"))
	if err := s.Setup(1, nil); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if s.Canvas() != nil {
		t.Fatalf("expected no canvas outside a draw bracket")
	}
	s.StartDraw()
	if s.Canvas() == nil {
		t.Fatalf("expected canvas inside a draw bracket")
	}
	s.FinishDraw()

	if len(presented) != 1 {
		t.Fatalf("expected 1 presented frame, got %d", len(presented))
	}
	img := presented[0]
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Fatalf("expected 4x3 frame, got %v", img.Bounds())
	}
	r, g, b, _ := img.At(1, 1).RGBA()
	if r>>8 != 0xff || g != 0 || b != 0 {
		t.Fatalf("expected red background, got %v", img.At(1, 1))
	}
}

func TestSoftware_FinishWithoutStartIsNoop(t *testing.T) {
	var presented []image.Image
	s := newTestSoftware(4, 4, &presented)
	if err := s.Setup(1, nil); err != nil {
		t.Fatalf("setup: %v", err)
	}
	s.FinishDraw()
	if len(presented) != 0 {
		t.Fatalf("expected nothing presented, got %d frames", len(presented))
	}
}

func TestSoftware_SharedBackground(t *testing.T) {
	var presented []image.Image
	shared := newTestSoftware(2, 2, &presented, WithBackground("#00ff00"))
	if err := shared.Setup(1, nil); err != nil {
		t.Fatalf("setup shared: %v", err)
	}

	inherits := newTestSoftware(2, 2, &presented)
	if err := inherits.Setup(2, shared); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if inherits.background != gg.Hex("#00ff00") {
		t.Fatalf("expected background from shared renderer, got %+v", inherits.background)
	}

	own := newTestSoftware(2, 2, &presented, WithBackground("#0000ff"))
	if err := own.Setup(3, shared); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if own.background != gg.Hex("#0000ff") {
		t.Fatalf("expected explicit background to win, got %+v", own.background)
	}
}

func TestSoftware_CanvasFollowsWindowSize(t *testing.T) {
	var presented []image.Image
	w, h := 5, 5
	s := NewSoftware(nil)
	s.surfaceSize = func() (int, int, error) { return w, h, nil }
	s.present = func(img image.Image) error {
		presented = append(presented, img)
		return nil
	}
	if err := s.Setup(1, nil); err != nil {
		t.Fatalf("setup: %v", err)
	}

	s.StartDraw()
	s.Canvas().SetColor(color.White)
	s.FinishDraw()

	w, h = 8, 2
	s.StartDraw()
	s.FinishDraw()

	if got := presented[1].Bounds(); got.Dx() != 8 || got.Dy() != 2 {
		t.Fatalf("expected resized 8x2 frame, got %v", got)
	}

	s.Kill()
	if s.canvas != nil {
		t.Fatalf("expected canvas to be released on kill")
	}
}
