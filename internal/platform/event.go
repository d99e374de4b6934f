package platform

// Event is a native event routed to a single window.
type Event interface {
	isEvent()
}

// Modifiers is a bit set of held modifier keys.
type Modifiers uint16

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
	ModCapsLock
)

// MouseButton identifies a pointer button.
type MouseButton int

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// CloseRequestEvent is sent when the window manager asks the window to close.
type CloseRequestEvent struct{}

// ExposeEvent is sent when window contents need repainting.
type ExposeEvent struct{}

// ConfigureEvent reports a new window geometry.
type ConfigureEvent struct {
	Bounds Rect
	// Dragging is set while the user is interactively moving or resizing.
	Dragging bool
}

// KeyEvent is a key press or release.
type KeyEvent struct {
	Pressed bool
	Code    uint32
	Sym     string
	Char    rune
	Mods    Modifiers
	Handled bool
}

// MouseAction is the kind of a MouseEvent.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseMotion
	MouseWheel
)

// MouseEvent is a pointer button, motion or wheel event in window coordinates.
type MouseEvent struct {
	Action MouseAction
	Button MouseButton
	X      int
	Y      int
	// Held is the set of buttons down during a motion event.
	Held   []MouseButton
	// Wheel is +1 per click scrolled up and -1 per click down.
	Wheel  int
	// WheelX is +1 per click scrolled right and -1 per click left.
	WheelX int
	Mods   Modifiers

	Handled bool
}

// IsDrag reports whether a motion happened with a button held.
func (e MouseEvent) IsDrag() bool {
	return e.Action == MouseMotion && len(e.Held) > 0
}

// FocusEvent reports keyboard focus changes.
type FocusEvent struct {
	Focused bool
}

func (CloseRequestEvent) isEvent() {}
func (ExposeEvent) isEvent()       {}
func (ConfigureEvent) isEvent()    {}
func (KeyEvent) isEvent()          {}
func (MouseEvent) isEvent()        {}
func (FocusEvent) isEvent()        {}
