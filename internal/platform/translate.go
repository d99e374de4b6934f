package platform

import (
	"unicode/utf8"

	"github.com/BurntSushi/xgb/xproto"
)

// X11 pointer buttons 4-7 are wheel clicks.
const (
	x11WheelUp    = 4
	x11WheelDown  = 5
	x11WheelLeft  = 6
	x11WheelRight = 7
)

func modifiersFromState(state uint16) Modifiers {
	var mods Modifiers
	if state&xproto.ModMaskShift != 0 {
		mods |= ModShift
	}
	if state&xproto.ModMaskControl != 0 {
		mods |= ModCtrl
	}
	if state&xproto.ModMask1 != 0 {
		mods |= ModAlt
	}
	if state&xproto.ModMask4 != 0 {
		mods |= ModSuper
	}
	if state&xproto.ModMaskLock != 0 {
		mods |= ModCapsLock
	}
	return mods
}

func heldButtons(state uint16) []MouseButton {
	var held []MouseButton
	if state&xproto.KeyButMaskButton1 != 0 {
		held = append(held, ButtonLeft)
	}
	if state&xproto.KeyButMaskButton2 != 0 {
		held = append(held, ButtonMiddle)
	}
	if state&xproto.KeyButMaskButton3 != 0 {
		held = append(held, ButtonRight)
	}
	return held
}

// buttonEvent converts an X button event. Wheel clicks become MouseWheel
// events on press; their releases are dropped.
func buttonEvent(pressed bool, detail byte, x, y int, state uint16) (MouseEvent, bool) {
	e := MouseEvent{X: x, Y: y, Mods: modifiersFromState(state)}

	switch detail {
	case x11WheelUp, x11WheelDown, x11WheelLeft, x11WheelRight:
		if !pressed {
			return MouseEvent{}, false
		}
		e.Action = MouseWheel
		switch detail {
		case x11WheelUp:
			e.Wheel = 1
		case x11WheelDown:
			e.Wheel = -1
		case x11WheelLeft:
			e.WheelX = -1
		case x11WheelRight:
			e.WheelX = 1
		}
		return e, true
	case 1:
		e.Button = ButtonLeft
	case 2:
		e.Button = ButtonMiddle
	case 3:
		e.Button = ButtonRight
	default:
		return MouseEvent{}, false
	}

	if pressed {
		e.Action = MousePress
	} else {
		e.Action = MouseRelease
	}
	return e, true
}

// charForSym maps a keysym name to the character it types, or 0.
func charForSym(sym string) rune {
	switch sym {
	case "space":
		return ' '
	case "Return", "KP_Enter":
		return '\r'
	case "Tab":
		return '\t'
	}
	if utf8.RuneCountInString(sym) == 1 {
		r, _ := utf8.DecodeRuneInString(sym)
		return r
	}
	return 0
}
