package mcpsurface

import (
	"github.com/mark3labs/mcp-go/server"

	"homai-zigbee/internal/controller"
)

// Server wraps an MCP server exposing the gateway's node cache and ZCL
// submit operations as tools.
type Server struct {
	mcpServer *server.MCPServer
	ctrl      *controller.Controller
}

// NewServer creates an MCP server bound to ctrl and registers its tools.
func NewServer(ctrl *controller.Controller) *Server {
	s := &Server{ctrl: ctrl}

	s.mcpServer = server.NewMCPServer(
		"homai-zigbee",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()

	return s
}

// ServeStdio starts the MCP server over stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
