package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runRun(os.Args[2:]))
	case "displays":
		os.Exit(runDisplays(os.Args[2:]))
	case "dialog":
		os.Exit(runDialog(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: xwin <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Open the configured windows and run the event loop")
	fmt.Fprintln(w, "  displays            List connected displays")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  dialog open         Ask for a file to open and print its path")
	fmt.Fprintln(w, "  dialog save         Ask for a file to save and print its path")
	fmt.Fprintln(w, "  dialog folder       Ask for a folder and print its path")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'xwin <command> --help' for command-specific options.")
}

func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	lvl, err := parseLogLevel(level)
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	if err != nil {
		logger.Warn("falling back to info logging", "error", err)
	}
	return logger
}
