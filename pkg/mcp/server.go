package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/denysvitali/meshscan/pkg/scanner"
)

// Server wraps an mcp-go server exposing the mesh scanner as a tool
type Server struct {
	logger    *logrus.Logger
	scanner   *scanner.Scanner
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server with the scan tools registered
func NewServer(logger *logrus.Logger, sc *scanner.Scanner, version string) *Server {
	mcpServer := server.NewMCPServer(
		"meshscan",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &Server{
		logger:    logger,
		scanner:   sc,
		mcpServer: mcpServer,
	}
	s.registerTools()

	return s
}

// MCPServer returns the underlying mcp-go server
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects
func (s *Server) ServeStdio() error {
	s.logger.Info("Serving MCP over stdio")
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	scanTool := mcp.NewTool("scan_meshes",
		mcp.WithDescription("Recursively list mesh files under a directory"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Root directory to scan"),
		),
		mcp.WithString("extension",
			mcp.Description(fmt.Sprintf("File extension to match, defaults to %q", s.scanner.Extension())),
		),
	)
	s.mcpServer.AddTool(scanTool, s.handleScanMeshes)
}

func (s *Server) handleScanMeshes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("path parameter error: %v", err)), nil
	}

	sc, err := s.scanner.WithExtension(request.GetString("extension", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("extension parameter error: %v", err)), nil
	}

	meshes, err := sc.Scan(ctx, root)
	if err != nil {
		s.logger.Errorf("MCP scan of %s failed: %v", root, err)
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}

	s.logger.Debugf("MCP scan of %s found %d meshes", root, len(meshes))
	if len(meshes) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No .%s files found under %s", sc.Extension(), root)), nil
	}
	return mcp.NewToolResultText(strings.Join(meshes, "\n")), nil
}
