package resource

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"icon.png":         {Data: pngHeader},
		"shaders/blit.txt": {Data: []byte("void main() {}\n")},
		"notes":            {Data: []byte("plain text")},
	}
}

func TestLoad(t *testing.T) {
	l := NewLoader(testFS())

	tests := []struct {
		name string
		id   string
		typ  string
		want string
	}{
		{"exact name", "icon.png", "", string(pngHeader)},
		{"extension type", "shaders/blit", "txt", "void main() {}\n"},
		{"dotted extension already in id", "shaders/blit.txt", ".txt", "void main() {}\n"},
		{"mime type", "icon.png", "image/png", string(pngHeader)},
		{"leading slash", "/notes", "", "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := l.Load(tt.id, tt.typ)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if string(data) != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, data)
			}
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	l := NewLoader(testFS())

	tests := []struct {
		name string
		id   string
		typ  string
	}{
		{"missing", "missing.png", ""},
		{"wrong extension", "icon", "jpg"},
		{"wrong mime", "notes", "image/png"},
		{"escaping id", "../etc/passwd", ""},
		{"empty id", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := l.Load(tt.id, tt.typ)
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if data != nil {
				t.Fatalf("expected no data, got %d bytes", len(data))
			}
		})
	}
}

func TestLoad_NilLoader(t *testing.T) {
	var l *Loader
	if _, err := l.Load("x", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from nil loader, got %v", err)
	}
}

func TestNewDirLoader(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "data.json"), []byte(`{"a":1}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := NewDirLoader(dir).Load("data", "json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Fatalf("unexpected data %q", data)
	}
}
