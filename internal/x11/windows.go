package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// EWMH state atoms used for window modes.
const (
	StateFullScreen = "_NET_WM_STATE_FULLSCREEN"
	StateAbove      = "_NET_WM_STATE_ABOVE"
)

// ClientEventMask is the set of events an application window listens to.
const ClientEventMask = xproto.EventMaskExposure |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskFocusChange

// CreateWindow creates an unmapped top-level InputOutput window.
func (c *Connection) CreateWindow(x, y, width, height int) (*xwindow.Window, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window id: %w", err)
	}

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	// Value list order follows the bit positions of the mask (low → high).
	err = win.CreateChecked(c.Root, x, y, width, height,
		xproto.CwBackPixel|xproto.CwEventMask,
		0, ClientEventMask)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	return win, nil
}

// SetTitle sets both the EWMH (UTF-8) and ICCCM window names.
func (c *Connection) SetTitle(windowID xproto.Window, title string) error {
	if err := ewmh.WmNameSet(c.XUtil, windowID, title); err != nil {
		return fmt.Errorf("failed to set _NET_WM_NAME: %w", err)
	}
	if err := icccm.WmNameSet(c.XUtil, windowID, title); err != nil {
		return fmt.Errorf("failed to set WM_NAME: %w", err)
	}
	return nil
}

// SetClass sets WM_CLASS so window managers can match the application.
func (c *Connection) SetClass(windowID xproto.Window, class string) error {
	return icccm.WmClassSet(c.XUtil, windowID, &icccm.WmClass{
		Instance: class,
		Class:    class,
	})
}

// SetWMState adds or removes an EWMH state atom.
//
// Mapped windows must ask the window manager with a client message; for
// unmapped windows the property is written directly and read by the WM on map.
func (c *Connection) SetWMState(windowID xproto.Window, mapped bool, state string, enabled bool) error {
	if mapped {
		action := ewmh.StateRemove
		if enabled {
			action = ewmh.StateAdd
		}
		return ewmh.WmStateReq(c.XUtil, windowID, action, state)
	}

	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		// No property yet.
		states = nil
	}
	next := make([]string, 0, len(states)+1)
	for _, s := range states {
		if s != state {
			next = append(next, s)
		}
	}
	if enabled {
		next = append(next, state)
	}
	return ewmh.WmStateSet(c.XUtil, windowID, next)
}

// SetDecorated toggles window manager decorations via _MOTIF_WM_HINTS.
func (c *Connection) SetDecorated(windowID xproto.Window, decorated bool) error {
	decoration := uint(motif.DecorationNone)
	if decorated {
		decoration = motif.DecorationAll
	}
	return motif.WmHintsSet(c.XUtil, windowID, &motif.Hints{
		Flags:      motif.HintDecorations,
		Decoration: decoration,
	})
}

// SetSizeHints publishes WM_NORMAL_HINTS. A fixed window gets min == max
// size so the window manager refuses interactive resizing.
func (c *Connection) SetSizeHints(windowID xproto.Window, x, y, width, height int, resizable bool) error {
	hints := &icccm.NormalHints{
		Flags:  icccm.SizeHintUSPosition | icccm.SizeHintUSSize,
		X:      x,
		Y:      y,
		Width:  uint(width),
		Height: uint(height),
	}
	if !resizable {
		hints.Flags |= icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize
		hints.MinWidth, hints.MaxWidth = uint(width), uint(width)
		hints.MinHeight, hints.MaxHeight = uint(height), uint(height)
	}
	return icccm.WmNormalHintsSet(c.XUtil, windowID, hints)
}

// RequestExpose asks the server to send an Expose event for the whole window.
func (c *Connection) RequestExpose(windowID xproto.Window) error {
	return xproto.ClearAreaChecked(c.XUtil.Conn(), true, windowID, 0, 0, 0, 0).Check()
}

// GetFrameExtents returns the window decoration sizes (if available)
func (c *Connection) GetFrameExtents(windowID xproto.Window) (left, right, top, bottom int, err error) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		// No frame extents available, return zeros
		return 0, 0, 0, 0, nil
	}

	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom), nil
}

// RootPosition translates a window's origin to root coordinates.
func (c *Connection) RootPosition(windowID xproto.Window) (int, int, error) {
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(translate.DstX), int(translate.DstY), nil
}

// PointerButtonsHeld reports whether any pointer button is down.
func (c *Connection) PointerButtonsHeld() bool {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return false
	}
	const buttons = xproto.KeyButMaskButton1 | xproto.KeyButMaskButton2 | xproto.KeyButMaskButton3
	return pointer.Mask&buttons != 0
}
