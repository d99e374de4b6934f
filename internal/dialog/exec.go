package dialog

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Exit codes shared by zenity and kdialog.
const (
	ExitNormal    = 0
	ExitCancelled = 1
)

type toolKind int

const (
	kindZenity toolKind = iota
	kindKDialog
)

type mode int

const (
	modeOpen mode = iota
	modeSave
	modeFolder
)

// execBackend runs an external dialog program and reads the path it prints.
type execBackend struct {
	command string
	kind    toolKind

	// run is exec.Command(...).Output by default; tests replace it.
	run func(name string, args ...string) ([]byte, []byte, error)
}

// NewZenityBackend creates a backend using zenity (GTK).
func NewZenityBackend() Backend {
	return &execBackend{command: "zenity", kind: kindZenity, run: runCommand}
}

// NewKDialogBackend creates a backend using kdialog (KDE).
func NewKDialogBackend() Backend {
	return &execBackend{command: "kdialog", kind: kindKDialog, run: runCommand}
}

func (b *execBackend) Name() string { return b.command }

func (b *execBackend) OpenFile(req Request) (string, error) {
	return b.show(modeOpen, req)
}

func (b *execBackend) SaveFile(req Request) (string, error) {
	return b.show(modeSave, req)
}

func (b *execBackend) Folder(req Request) (string, error) {
	return b.show(modeFolder, req)
}

func (b *execBackend) show(m mode, req Request) (string, error) {
	args := b.buildArgs(m, req)
	out, stderr, err := b.run(b.command, args...)
	selection := strings.TrimSpace(string(out))

	if err != nil {
		if selection == "" && isCancelExit(err) {
			return "", ErrCancelled
		}
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return "", fmt.Errorf("%s failed: %s", b.command, msg)
		}
		return "", fmt.Errorf("%s failed: %w", b.command, err)
	}

	if selection == "" {
		return "", ErrCancelled
	}
	// Only the first line is a path; zenity may append GTK warnings.
	if i := strings.IndexByte(selection, '\n'); i >= 0 {
		selection = strings.TrimSpace(selection[:i])
	}
	return selection, nil
}

func (b *execBackend) buildArgs(m mode, req Request) []string {
	exts := normalizeExtensions(req.Extensions)

	switch b.kind {
	case kindZenity:
		args := []string{"--file-selection"}
		if req.Title != "" {
			args = append(args, "--title="+req.Title)
		}
		switch m {
		case modeSave:
			args = append(args, "--save", "--confirm-overwrite")
		case modeFolder:
			args = append(args, "--directory")
		}
		if req.InitialPath != "" {
			args = append(args, "--filename="+zenityStartPath(req.InitialPath))
		}
		if m != modeFolder && len(exts) > 0 {
			args = append(args, "--file-filter="+zenityFilter(exts))
		}
		return args
	case kindKDialog:
		var args []string
		if req.Title != "" {
			args = append(args, "--title", req.Title)
		}
		start := req.InitialPath
		if start == "" {
			start = "."
		}
		switch m {
		case modeOpen:
			args = append(args, "--getopenfilename", start)
		case modeSave:
			args = append(args, "--getsavefilename", start)
		case modeFolder:
			return append(args, "--getexistingdirectory", start)
		}
		if len(exts) > 0 {
			args = append(args, globList(exts))
		}
		return args
	default:
		return nil
	}
}

// zenityStartPath keeps directories navigable: zenity treats a path without a
// trailing slash as a file name to preselect.
func zenityStartPath(p string) string {
	if filepath.Ext(p) == "" && !strings.HasSuffix(p, "/") {
		return p + "/"
	}
	return p
}

func zenityFilter(exts []string) string {
	return strings.Join(exts, ", ") + " | " + globList(exts)
}

func globList(exts []string) string {
	globs := make([]string, len(exts))
	for i, ext := range exts {
		globs[i] = "*." + ext
	}
	return strings.Join(globs, " ")
}

func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	code := exitErr.ExitCode()
	return code == ExitCancelled || code == 130
}

func runCommand(name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	return out, stderr.Bytes(), err
}
