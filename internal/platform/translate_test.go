package platform

import (
	"reflect"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestModifiersFromState(t *testing.T) {
	state := uint16(xproto.ModMaskShift | xproto.ModMaskControl | xproto.ModMask4)
	got := modifiersFromState(state)
	want := ModShift | ModCtrl | ModSuper
	if got != want {
		t.Fatalf("expected %b, got %b", want, got)
	}
	if modifiersFromState(0) != 0 {
		t.Fatalf("expected no modifiers for empty state")
	}
}

func TestButtonEvent(t *testing.T) {
	tests := []struct {
		name    string
		pressed bool
		detail  byte
		want    MouseEvent
		ok      bool
	}{
		{"left press", true, 1, MouseEvent{Action: MousePress, Button: ButtonLeft, X: 3, Y: 4}, true},
		{"right release", false, 3, MouseEvent{Action: MouseRelease, Button: ButtonRight, X: 3, Y: 4}, true},
		{"wheel up", true, 4, MouseEvent{Action: MouseWheel, Wheel: 1, X: 3, Y: 4}, true},
		{"wheel down", true, 5, MouseEvent{Action: MouseWheel, Wheel: -1, X: 3, Y: 4}, true},
		{"wheel left", true, 6, MouseEvent{Action: MouseWheel, WheelX: -1, X: 3, Y: 4}, true},
		{"wheel right", true, 7, MouseEvent{Action: MouseWheel, WheelX: 1, X: 3, Y: 4}, true},
		{"horizontal wheel release dropped", false, 7, MouseEvent{}, false},
		{"wheel release dropped", false, 5, MouseEvent{}, false},
		{"extra button dropped", true, 9, MouseEvent{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := buttonEvent(tt.pressed, tt.detail, 3, 4, 0)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestHeldButtonsAndDrag(t *testing.T) {
	held := heldButtons(uint16(xproto.KeyButMaskButton1 | xproto.KeyButMaskButton3))
	if want := []MouseButton{ButtonLeft, ButtonRight}; !reflect.DeepEqual(held, want) {
		t.Fatalf("expected %v, got %v", want, held)
	}

	if !(MouseEvent{Action: MouseMotion, Held: held}).IsDrag() {
		t.Fatalf("expected motion with held buttons to be a drag")
	}
	if (MouseEvent{Action: MouseMotion}).IsDrag() {
		t.Fatalf("expected plain motion not to be a drag")
	}
}

func TestCharForSym(t *testing.T) {
	tests := map[string]rune{
		"a":      'a',
		"Z":      'Z',
		"space":  ' ',
		"Return": '\r',
		"é":      'é',
		"Escape": 0,
		"":       0,
	}
	for sym, want := range tests {
		if got := charForSym(sym); got != want {
			t.Fatalf("charForSym(%q): expected %q, got %q", sym, want, got)
		}
	}
}

func TestRectAccessors(t *testing.T) {
	r := Rect{X: 1, Y: 2, Width: 30, Height: 40}
	if r.Pos() != (Point{X: 1, Y: 2}) {
		t.Fatalf("unexpected pos %+v", r.Pos())
	}
	if r.Size() != (Size{Width: 30, Height: 40}) {
		t.Fatalf("unexpected size %+v", r.Size())
	}
	d := Display{Bounds: r}
	if d.Size() != r.Size() {
		t.Fatalf("expected display size to match bounds")
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 100, Y: 50, Width: 10, Height: 10}
	for _, tt := range []struct {
		x, y int
		want bool
	}{
		{100, 50, true},
		{109, 59, true},
		{110, 55, false},
		{105, 60, false},
		{99, 55, false},
	} {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Fatalf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
