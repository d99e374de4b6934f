package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/xwin/internal/app"
)

const (
	ServerName    = "xwin"
	ServerVersion = "0.1.0"
)

// Server exposes window control over MCP. Every tool call is marshalled onto
// the platform event loop.
type Server struct {
	mcpServer *mcpsdk.Server
	platform  *app.Platform
	logger    *slog.Logger
}

// NewServer creates an MCP server controlling the windows of p.
func NewServer(p *app.Platform, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		platform: p,
		logger:   logger,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves MCP on stdio, blocking until ctx is done or the client leaves.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the open windows with their native id, title, geometry and state flags.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_fullscreen",
		Description: "Enter or leave fullscreen. Does nothing when the window is already in the requested state. Leaving fullscreen restores the previous windowed geometry.",
	}, s.handleSetFullScreen)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_visible",
		Description: "Show or hide a window. Hidden windows are not drawn.",
	}, s.handleSetVisible)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_title",
		Description: "Change a window title.",
	}, s.handleSetTitle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_size",
		Description: "Resize a window. The size is clamped to the usable area of its display; the applied size is returned.",
	}, s.handleSetSize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_position",
		Description: "Move a window to screen coordinates.",
	}, s.handleSetPosition)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "redraw_window",
		Description: "Request a redraw of a window.",
	}, s.handleRedrawWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window and release its renderer. The application may exit when the last window closes.",
	}, s.handleCloseWindow)
}
