package config

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	DefaultFrameRate  = 60
	DefaultWidth      = 640
	DefaultHeight     = 480
	DefaultBackground = "#1f2933"
	DefaultTitle      = "xwin"
)

// WindowConfig describes a window opened at startup.
type WindowConfig struct {
	Title       string `yaml:"title,omitempty"`
	Width       int    `yaml:"width,omitempty"`
	Height      int    `yaml:"height,omitempty"`
	X           *int   `yaml:"x,omitempty"` // unset = centred on the display
	Y           *int   `yaml:"y,omitempty"`
	FullScreen  bool   `yaml:"fullscreen,omitempty"`
	Resizable   *bool  `yaml:"resizable,omitempty"` // default true
	AlwaysOnTop bool   `yaml:"always_on_top,omitempty"`
	Borderless  bool   `yaml:"borderless,omitempty"`
	// Display is the RandR monitor index; -1 or unset selects the primary.
	Display *int `yaml:"display,omitempty"`
}

// IsResizable returns the effective value, defaulting to true.
func (w WindowConfig) IsResizable() bool {
	if w.Resizable == nil {
		return true
	}
	return *w.Resizable
}

// DialogConfig selects the file dialog backend.
type DialogConfig struct {
	// Backend is one of: auto, zenity, kdialog, terminal.
	Backend string `yaml:"backend,omitempty"`
}

// ResourcesConfig locates bundled resources.
type ResourcesConfig struct {
	// Dir defaults to <executable dir>/resources.
	Dir string `yaml:"dir,omitempty"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	// Level controls verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
}

// Config is the effective xwin configuration.
type Config struct {
	// Display is the X display name; empty uses $DISPLAY.
	Display string `yaml:"display,omitempty"`
	// FrameRate is the number of update/draw passes per second; 0 draws on
	// expose only.
	FrameRate             int             `yaml:"frame_rate"`
	QuitOnLastWindowClose *bool           `yaml:"quit_on_last_window_close,omitempty"`
	CursorHidden          bool            `yaml:"cursor_hidden,omitempty"`
	Background            string          `yaml:"background,omitempty"`
	Dialog                DialogConfig    `yaml:"dialog,omitempty"`
	Resources             ResourcesConfig `yaml:"resources,omitempty"`
	Logging               LoggingConfig   `yaml:"logging,omitempty"`
	Windows               []WindowConfig  `yaml:"windows,omitempty"`
}

// GetQuitOnLastWindowClose returns the effective value, defaulting to true.
func (c *Config) GetQuitOnLastWindowClose() bool {
	if c == nil || c.QuitOnLastWindowClose == nil {
		return true
	}
	return *c.QuitOnLastWindowClose
}

// DefaultConfig returns the built-in configuration: one centred window.
func DefaultConfig() *Config {
	return &Config{
		FrameRate:  DefaultFrameRate,
		Background: DefaultBackground,
		Dialog:     DialogConfig{Backend: "auto"},
		Logging:    LoggingConfig{Level: "info"},
		Windows: []WindowConfig{
			{Title: DefaultTitle, Width: DefaultWidth, Height: DefaultHeight},
		},
	}
}

// ValidationError reports an invalid value at a YAML path.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.FrameRate < 0 || c.FrameRate > 1000 {
		return &ValidationError{Path: "frame_rate", Err: fmt.Errorf("frame_rate must be between 0 and 1000")}
	}
	if c.Background != "" && !hexColor.MatchString(c.Background) {
		return &ValidationError{Path: "background", Err: fmt.Errorf("background must be a hex colour like #1f2933")}
	}
	switch strings.ToLower(c.Dialog.Backend) {
	case "", "auto", "zenity", "kdialog", "terminal":
	default:
		return &ValidationError{Path: "dialog.backend", Err: fmt.Errorf("dialog.backend must be one of: auto, zenity, kdialog, terminal")}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("logging.level must be one of: debug, info, warn, error")}
	}
	for i, w := range c.Windows {
		path := fmt.Sprintf("windows[%d]", i)
		if w.Width < 0 || w.Height < 0 {
			return &ValidationError{Path: path, Err: fmt.Errorf("width and height must not be negative")}
		}
		if (w.X == nil) != (w.Y == nil) {
			return &ValidationError{Path: path, Err: fmt.Errorf("x and y must be set together")}
		}
		if w.Display != nil && *w.Display < -1 {
			return &ValidationError{Path: path + ".display", Err: fmt.Errorf("display must be -1 (primary) or a monitor index")}
		}
	}
	return nil
}

// WithWindowDefaults fills zero sizes and titles.
func (w WindowConfig) WithWindowDefaults() WindowConfig {
	if w.Width == 0 {
		w.Width = DefaultWidth
	}
	if w.Height == 0 {
		w.Height = DefaultHeight
	}
	if w.Title == "" {
		w.Title = DefaultTitle
	}
	return w
}
