package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/xwin/internal/app"
	"github.com/1broseidon/xwin/internal/platform"
)

func windowInfo(w *app.Window) WindowInfo {
	pos, size := w.Pos(), w.Size()
	return WindowInfo{
		ID:          uint32(w.ID()),
		Title:       w.Title(),
		X:           pos.X,
		Y:           pos.Y,
		Width:       size.Width,
		Height:      size.Height,
		FullScreen:  w.IsFullScreen(),
		Hidden:      w.IsHidden(),
		Focused:     w.IsFocused(),
		Resizable:   w.IsResizable(),
		AlwaysOnTop: w.IsAlwaysOnTop(),
		Borderless:  w.IsBorderless(),
		Display:     w.Display().Name,
	}
}

// withWindow runs fn for window id on the event loop.
func (s *Server) withWindow(ctx context.Context, id uint32, fn func(w *app.Window) error) error {
	return s.platform.Do(ctx, func() error {
		w, ok := s.platform.Window(platform.WindowID(id))
		if !ok {
			return fmt.Errorf("window %d not found", id)
		}
		return fn(w)
	})
}

// updateWindow applies fn and reports the resulting window state.
func (s *Server) updateWindow(ctx context.Context, tool string, id uint32, fn func(w *app.Window) error) (*mcpsdk.CallToolResult, WindowOutput, error) {
	var out WindowOutput
	err := s.withWindow(ctx, id, func(w *app.Window) error {
		if err := fn(w); err != nil {
			return err
		}
		out.Window = windowInfo(w)
		return nil
	})
	if err != nil {
		s.logger.Warn("mcp tool failed", "tool", tool, "window_id", id, "error", err)
		return nil, WindowOutput{}, err
	}
	s.logger.Debug("mcp tool", "tool", tool, "window_id", id)
	return nil, out, nil
}

func (s *Server) handleListWindows(ctx context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	out := ListWindowsOutput{Windows: []WindowInfo{}}
	err := s.platform.Do(ctx, func() error {
		for _, w := range s.platform.Windows() {
			out.Windows = append(out.Windows, windowInfo(w))
		}
		return nil
	})
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleSetFullScreen(ctx context.Context, _ *mcpsdk.CallToolRequest, args SetFullScreenInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.updateWindow(ctx, "set_fullscreen", args.WindowID, func(w *app.Window) error {
		var opts app.FullScreenOptions
		if args.Display != nil {
			displays, err := s.platform.Displays()
			if err != nil {
				return fmt.Errorf("failed to list displays: %w", err)
			}
			if *args.Display < 0 || *args.Display >= len(displays) {
				return fmt.Errorf("display %d out of range (have %d)", *args.Display, len(displays))
			}
			opts.Display = &displays[*args.Display]
		}
		w.SetFullScreen(args.FullScreen, opts)
		return nil
	})
}

func (s *Server) handleSetVisible(ctx context.Context, _ *mcpsdk.CallToolRequest, args SetVisibleInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.updateWindow(ctx, "set_visible", args.WindowID, func(w *app.Window) error {
		if args.Visible {
			w.Show()
		} else {
			w.Hide()
		}
		return nil
	})
}

func (s *Server) handleSetTitle(ctx context.Context, _ *mcpsdk.CallToolRequest, args SetTitleInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.updateWindow(ctx, "set_title", args.WindowID, func(w *app.Window) error {
		w.SetTitle(args.Title)
		return nil
	})
}

func (s *Server) handleSetSize(ctx context.Context, _ *mcpsdk.CallToolRequest, args SetSizeInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if args.Width <= 0 || args.Height <= 0 {
		return nil, WindowOutput{}, fmt.Errorf("width and height must be positive")
	}
	return s.updateWindow(ctx, "set_size", args.WindowID, func(w *app.Window) error {
		w.SetSize(platform.Size{Width: args.Width, Height: args.Height})
		return nil
	})
}

func (s *Server) handleSetPosition(ctx context.Context, _ *mcpsdk.CallToolRequest, args SetPositionInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.updateWindow(ctx, "set_position", args.WindowID, func(w *app.Window) error {
		w.SetPos(platform.Point{X: args.X, Y: args.Y})
		return nil
	})
}

func (s *Server) handleRedrawWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args WindowRefInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.updateWindow(ctx, "redraw_window", args.WindowID, func(w *app.Window) error {
		w.Redraw()
		return nil
	})
}

func (s *Server) handleCloseWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args WindowRefInput) (*mcpsdk.CallToolResult, CloseWindowOutput, error) {
	err := s.withWindow(ctx, args.WindowID, func(w *app.Window) error {
		// Only the registry reference goes; the creator keeps its handle.
		w.Native().Close()
		return nil
	})
	if err != nil {
		s.logger.Warn("mcp tool failed", "tool", "close_window", "window_id", args.WindowID, "error", err)
		return nil, CloseWindowOutput{}, err
	}
	return nil, CloseWindowOutput{WindowID: args.WindowID, Closed: true}, nil
}
