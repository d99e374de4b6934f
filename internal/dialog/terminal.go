package dialog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
)

// terminalBackend asks for paths on the controlling terminal. It is the
// fallback when no desktop dialog program is installed.
type terminalBackend struct {
	run func(form *huh.Form) error
}

// NewTerminalBackend creates a backend that runs huh forms on the terminal.
func NewTerminalBackend() Backend {
	return &terminalBackend{run: func(form *huh.Form) error { return form.Run() }}
}

func (b *terminalBackend) Name() string { return "terminal" }

func (b *terminalBackend) OpenFile(req Request) (string, error) {
	var path string
	picker := huh.NewFilePicker().
		Title(titleOr(req.Title, "Open file")).
		CurrentDirectory(startDir(req.InitialPath)).
		FileAllowed(true).
		DirAllowed(false).
		Value(&path)
	if exts := normalizeExtensions(req.Extensions); len(exts) > 0 {
		allowed := make([]string, len(exts))
		for i, ext := range exts {
			allowed[i] = "." + ext
		}
		picker = picker.AllowedTypes(allowed)
	}
	return b.ask(huh.NewForm(huh.NewGroup(picker)), &path)
}

func (b *terminalBackend) SaveFile(req Request) (string, error) {
	path := req.InitialPath
	exts := normalizeExtensions(req.Extensions)
	input := huh.NewInput().
		Title(titleOr(req.Title, "Save as")).
		Value(&path).
		Validate(func(s string) error {
			s = strings.TrimSpace(s)
			if s == "" {
				return errors.New("path is required")
			}
			if len(exts) == 0 {
				return nil
			}
			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(s), "."))
			for _, allowed := range exts {
				if ext == allowed {
					return nil
				}
			}
			return fmt.Errorf("extension must be one of: %s", strings.Join(exts, ", "))
		})
	return b.ask(huh.NewForm(huh.NewGroup(input)), &path)
}

func (b *terminalBackend) Folder(req Request) (string, error) {
	var path string
	picker := huh.NewFilePicker().
		Title(titleOr(req.Title, "Choose folder")).
		CurrentDirectory(startDir(req.InitialPath)).
		FileAllowed(false).
		DirAllowed(true).
		Value(&path)
	return b.ask(huh.NewForm(huh.NewGroup(picker)), &path)
}

func (b *terminalBackend) ask(form *huh.Form, path *string) (string, error) {
	if err := b.run(form); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("terminal dialog failed: %w", err)
	}
	selection := strings.TrimSpace(*path)
	if selection == "" {
		return "", ErrCancelled
	}
	return selection, nil
}

func titleOr(title, fallback string) string {
	if title != "" {
		return title
	}
	return fallback
}

// startDir returns a directory for the picker to open in.
func startDir(initial string) string {
	if initial != "" {
		if info, err := os.Stat(initial); err == nil {
			if info.IsDir() {
				return initial
			}
			return filepath.Dir(initial)
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
