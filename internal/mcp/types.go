package mcp

// WindowInfo describes an open window.
type WindowInfo struct {
	ID          uint32 `json:"id"`
	Title       string `json:"title"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	FullScreen  bool   `json:"fullscreen"`
	Hidden      bool   `json:"hidden"`
	Focused     bool   `json:"focused"`
	Resizable   bool   `json:"resizable"`
	AlwaysOnTop bool   `json:"always_on_top"`
	Borderless  bool   `json:"borderless"`
	Display     string `json:"display"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

// SetFullScreenInput is the input for the set_fullscreen tool.
type SetFullScreenInput struct {
	WindowID   uint32 `json:"window_id" jsonschema:"required,Native id of the window (see list_windows)"`
	FullScreen bool   `json:"fullscreen" jsonschema:"required,True to enter fullscreen, false to restore the windowed geometry"`
	Display    *int   `json:"display,omitempty" jsonschema:"Optional display index to go fullscreen on (default: the window's current display)"`
}

// SetVisibleInput is the input for the set_visible tool.
type SetVisibleInput struct {
	WindowID uint32 `json:"window_id" jsonschema:"required,Native id of the window"`
	Visible  bool   `json:"visible" jsonschema:"required,True to show the window, false to hide it"`
}

// SetTitleInput is the input for the set_title tool.
type SetTitleInput struct {
	WindowID uint32 `json:"window_id" jsonschema:"required,Native id of the window"`
	Title    string `json:"title" jsonschema:"required,New title; titles over 1023 bytes are truncated"`
}

// SetSizeInput is the input for the set_size tool.
type SetSizeInput struct {
	WindowID uint32 `json:"window_id" jsonschema:"required,Native id of the window"`
	Width    int    `json:"width" jsonschema:"required,Requested client width in pixels"`
	Height   int    `json:"height" jsonschema:"required,Requested client height in pixels"`
}

// SetPositionInput is the input for the set_position tool.
type SetPositionInput struct {
	WindowID uint32 `json:"window_id" jsonschema:"required,Native id of the window"`
	X        int    `json:"x" jsonschema:"required,Left edge in screen coordinates"`
	Y        int    `json:"y" jsonschema:"required,Top edge in screen coordinates"`
}

// WindowRefInput is the input for tools that only name a window.
type WindowRefInput struct {
	WindowID uint32 `json:"window_id" jsonschema:"required,Native id of the window"`
}

// WindowOutput reports the window state after a change.
type WindowOutput struct {
	Window WindowInfo `json:"window"`
}

// CloseWindowOutput is the output for the close_window tool.
type CloseWindowOutput struct {
	WindowID uint32 `json:"window_id"`
	Closed   bool   `json:"closed"`
}
