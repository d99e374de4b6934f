package dialog

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// ErrCancelled is returned when the user closes the dialog without choosing.
var ErrCancelled = errors.New("dialog cancelled")

// Request describes a file selection.
type Request struct {
	Title string
	// InitialPath is a directory or file the dialog starts at.
	InitialPath string
	// Extensions filters selectable files ("png", ".jpg"). Empty allows all.
	Extensions []string
}

// Backend presents blocking file selection dialogs.
type Backend interface {
	Name() string
	OpenFile(req Request) (string, error)
	SaveFile(req Request) (string, error)
	Folder(req Request) (string, error)
}

// DetectBackend returns the first available dialog backend, in priority
// order: zenity, kdialog, terminal.
func DetectBackend() (string, error) {
	if _, err := exec.LookPath("zenity"); err == nil {
		return "zenity", nil
	}
	if _, err := exec.LookPath("kdialog"); err == nil {
		return "kdialog", nil
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return "terminal", nil
	}
	return "", fmt.Errorf("no dialog backend found (looked for: zenity, kdialog, terminal)")
}

// AutoDetect selects the first available backend.
func AutoDetect() (Backend, error) {
	name, err := DetectBackend()
	if err != nil {
		return nil, err
	}
	return NewBackend(name)
}

// NewBackend creates a backend by name.
//
// Supported names: auto, zenity, kdialog, terminal.
func NewBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return AutoDetect()
	case "zenity":
		if _, err := exec.LookPath("zenity"); err != nil {
			return nil, fmt.Errorf("dialog backend %q not found in PATH", "zenity")
		}
		return NewZenityBackend(), nil
	case "kdialog":
		if _, err := exec.LookPath("kdialog"); err != nil {
			return nil, fmt.Errorf("dialog backend %q not found in PATH", "kdialog")
		}
		return NewKDialogBackend(), nil
	case "terminal":
		return NewTerminalBackend(), nil
	default:
		return nil, fmt.Errorf("unknown dialog backend: %q (expected: auto, zenity, kdialog, terminal)", name)
	}
}

// normalizeExtensions lower-cases extensions and strips leading dots and globs.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		ext = strings.TrimPrefix(ext, "*")
		ext = strings.TrimPrefix(ext, ".")
		if ext == "" {
			continue
		}
		out = append(out, strings.ToLower(ext))
	}
	return out
}
