package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/xwin/internal/app"
	"github.com/1broseidon/xwin/internal/dialog"
	"github.com/1broseidon/xwin/internal/mcp"
	"github.com/1broseidon/xwin/internal/platform"
	"github.com/1broseidon/xwin/internal/render"
	"github.com/1broseidon/xwin/internal/resource"
)

func runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: xwin run [--config PATH] [--mcp] [--frame-rate N] [--fullscreen]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the configured windows and run until the last one closes.")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "Config file path (default: ~/.config/xwin/config.yaml)")
	serveMCP := fs.Bool("mcp", false, "Serve window control tools over MCP on stdio")
	frameRate := fs.Int("frame-rate", -1, "Frames per second; 0 draws on expose only (default: from config)")
	fullScreen := fs.Bool("fullscreen", false, "Open every window fullscreen")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *frameRate >= 0 {
		cfg.FrameRate = *frameRate
	}
	if *fullScreen {
		for i := range cfg.Windows {
			cfg.Windows[i].FullScreen = true
		}
	}
	logger := newLogger(os.Stderr, cfg.Logging.Level)

	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		logger.Error("failed to connect to display", "display", cfg.Display, "error", err)
		return 1
	}
	defer backend.Disconnect()

	var dialogs dialog.Backend
	if cfg.Dialog.Backend != "" && cfg.Dialog.Backend != "auto" {
		if dialogs, err = dialog.NewBackend(cfg.Dialog.Backend); err != nil {
			logger.Warn("configured dialog backend unavailable, detecting on first use", "backend", cfg.Dialog.Backend, "error", err)
		}
	}
	var resources *resource.Loader
	if cfg.Resources.Dir != "" {
		resources = resource.NewDirLoader(cfg.Resources.Dir)
	}

	p, err := app.NewPlatform(newDemo(cfg, logger), app.Options{
		Backend:               backend,
		Renderers:             render.SoftwareFactory(backend.XUtil(), render.WithBackground(cfg.Background)),
		Dialogs:               dialogs,
		Resources:             resources,
		Logger:                logger,
		FrameRate:             cfg.FrameRate,
		QuitOnLastWindowClose: cfg.GetQuitOnLastWindowClose(),
	})
	if err != nil {
		logger.Error("failed to create platform", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serveMCP {
		srv := mcp.NewServer(p, logger)
		go func() {
			if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("mcp server stopped", "error", err)
			}
		}()
		logger.Info("mcp server listening on stdio")
	}

	if err := p.Run(ctx); err != nil {
		logger.Error("xwin stopped with error", "error", err)
		return 1
	}
	return 0
}

func runDisplays(args []string) int {
	fs := flag.NewFlagSet("displays", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON")
	display := fs.String("display", "", "X display name (default: $DISPLAY)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	backend, err := platform.NewLinuxBackendFromDisplay(*display)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer backend.Disconnect()

	displays, err := backend.Displays()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(displays); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	for i, d := range displays {
		primary := ""
		if d.Primary {
			primary = " (primary)"
		}
		fmt.Printf("%d: %s %dx%d+%d+%d usable %dx%d+%d+%d%s\n", i, d.Name,
			d.Bounds.Width, d.Bounds.Height, d.Bounds.X, d.Bounds.Y,
			d.Usable.Width, d.Usable.Height, d.Usable.X, d.Usable.Y, primary)
	}
	return 0
}
