package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/1broseidon/xwin/internal/dialog"
)

func runDialog(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage: xwin dialog <open|save|folder> [--backend NAME] [--path PATH] [--ext png,jpg] [--title TITLE]")
		return 2
	}
	kind := args[0]
	switch kind {
	case "open", "save", "folder":
	default:
		fmt.Fprintf(os.Stderr, "Unknown dialog: %s\n", kind)
		return 2
	}

	fs := flag.NewFlagSet("dialog "+kind, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	backendName := fs.String("backend", "", "Dialog backend: auto, zenity, kdialog, terminal (default: from config)")
	path := fs.String("path", "", "Initial file or directory")
	exts := fs.String("ext", "", "Comma-separated file extensions to allow")
	title := fs.String("title", "", "Dialog title")
	configPath := fs.String("config", "", "Config file path (default: ~/.config/xwin/config.yaml)")
	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	name := *backendName
	if name == "" {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		name = cfg.Dialog.Backend
	}
	backend, err := dialog.NewBackend(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	req := dialog.Request{Title: *title, InitialPath: *path, Extensions: splitList(*exts)}
	var selected string
	switch kind {
	case "open":
		selected, err = backend.OpenFile(req)
	case "save":
		selected, err = backend.SaveFile(req)
	case "folder":
		selected, err = backend.Folder(req)
	}
	if errors.Is(err, dialog.ErrCancelled) {
		return 1
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(selected)
	return 0
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
