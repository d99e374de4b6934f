package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/1broseidon/xwin/internal/dialog"
	"github.com/1broseidon/xwin/internal/resource"
)

// ResourceDirName is the resource directory next to the executable.
const ResourceDirName = "resources"

// AppPath returns the directory holding the running executable, or "" when it
// cannot be resolved.
func (p *Platform) AppPath() string {
	return appPath(os.Executable)
}

func appPath(executable func() (string, error)) string {
	exe, err := executable()
	if err != nil || exe == "" {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func defaultResources(appDir string) *resource.Loader {
	if appDir == "" {
		return nil
	}
	return resource.NewDirLoader(filepath.Join(appDir, ResourceDirName))
}

// LoadResource returns the complete contents of a bundled resource. Errors
// wrap resource.ErrNotFound when id and typ do not resolve.
func (p *Platform) LoadResource(id, typ string) ([]byte, error) {
	data, err := p.resources.Load(id, typ)
	if err != nil {
		return nil, fmt.Errorf("load resource %q: %w", id, err)
	}
	return data, nil
}

// OpenFilePath asks for an existing file. It blocks the event loop and
// returns "" when the user cancels or no dialog can be shown.
func (p *Platform) OpenFilePath(initialPath string, extensions []string) string {
	return p.askPath("open", func(b dialog.Backend) (string, error) {
		return b.OpenFile(dialog.Request{InitialPath: initialPath, Extensions: extensions})
	})
}

// SaveFilePath asks for a file to write. It blocks the event loop and
// returns "" when the user cancels or no dialog can be shown.
func (p *Platform) SaveFilePath(initialPath string, extensions []string) string {
	return p.askPath("save", func(b dialog.Backend) (string, error) {
		return b.SaveFile(dialog.Request{InitialPath: initialPath, Extensions: extensions})
	})
}

// FolderPath asks for a directory. It blocks the event loop and returns ""
// when the user cancels or no dialog can be shown.
func (p *Platform) FolderPath(initialPath string) string {
	return p.askPath("folder", func(b dialog.Backend) (string, error) {
		return b.Folder(dialog.Request{InitialPath: initialPath})
	})
}

func (p *Platform) askPath(kind string, show func(dialog.Backend) (string, error)) string {
	if p.dialogs == nil {
		b, err := dialog.AutoDetect()
		if err != nil {
			p.log.Warn("no file dialog available", "error", err)
			return ""
		}
		p.dialogs = b
	}
	path, err := show(p.dialogs)
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			p.log.Debug("file dialog cancelled", "dialog", kind, "backend", p.dialogs.Name())
		} else {
			p.log.Warn("file dialog failed", "dialog", kind, "backend", p.dialogs.Name(), "error", err)
		}
		return ""
	}
	return path
}

// HideCursor hides the pointer over every window.
func (p *Platform) HideCursor() {
	if p.cursorHidden {
		return
	}
	p.cursorHidden = true
	if err := p.backend.SetCursorVisible(false); err != nil {
		p.log.Warn("failed to hide cursor", "error", err)
	}
}

// ShowCursor restores the pointer.
func (p *Platform) ShowCursor() {
	if !p.cursorHidden {
		return
	}
	p.cursorHidden = false
	if err := p.backend.SetCursorVisible(true); err != nil {
		p.log.Warn("failed to show cursor", "error", err)
	}
}

// CursorHidden reports whether HideCursor is in effect.
func (p *Platform) CursorHidden() bool { return p.cursorHidden }
