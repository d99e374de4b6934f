package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotFound is returned when a resource id/type pair does not resolve.
var ErrNotFound = errors.New("resource not found")

// Loader reads bundled resources from a file tree.
type Loader struct {
	fsys fs.FS
}

// NewLoader returns a Loader over fsys.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// NewDirLoader returns a Loader over a directory on disk.
func NewDirLoader(dir string) *Loader {
	return NewLoader(os.DirFS(dir))
}

// Load returns the full contents of resource id.
//
// typ narrows the match and may be empty, a file extension ("png", ".png")
// or a MIME type ("image/png"). A MIME type is checked against the content.
func (l *Loader) Load(id, typ string) ([]byte, error) {
	if l == nil || l.fsys == nil {
		return nil, fmt.Errorf("%w: %s (no resource directory)", ErrNotFound, id)
	}
	name := path.Clean(strings.TrimPrefix(id, "/"))
	if !fs.ValidPath(name) || name == "." {
		return nil, fmt.Errorf("%w: invalid id %q", ErrNotFound, id)
	}

	typ = strings.TrimSpace(typ)
	isMIME := strings.Contains(typ, "/")
	if typ != "" && !isMIME {
		ext := "." + strings.TrimPrefix(strings.ToLower(typ), ".")
		if !strings.EqualFold(path.Ext(name), ext) {
			name += ext
		}
	}

	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read resource %s: %w", name, err)
	}

	if isMIME {
		if detected := mimetype.Detect(data); !detected.Is(typ) {
			return nil, fmt.Errorf("%w: %s is %s, not %s", ErrNotFound, name, detected.String(), typ)
		}
	}
	return data, nil
}
