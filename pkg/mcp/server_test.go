package mcp

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denysvitali/meshscan/pkg/scanner"
)

func newTestServer(t *testing.T) *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	sc, err := scanner.New(scanner.DefaultExtension, logger)
	require.NoError(t, err)

	return NewServer(logger, sc, "test")
}

func callScan(t *testing.T, s *Server, args map[string]any) (*mcp.CallToolResult, string) {
	req := mcp.CallToolRequest{}
	req.Params.Name = "scan_meshes"
	req.Params.Arguments = args

	result, err := s.handleScanMeshes(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return result, text.Text
}

func TestHandleScanMeshes(t *testing.T) {
	s := newTestServer(t)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "meshes"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "meshes", "a.dae"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "meshes", "b.dae"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "meshes", "c.obj"), []byte("x"), 0644))

	t.Run("default extension", func(t *testing.T) {
		result, text := callScan(t, s, map[string]any{"path": root})
		assert.False(t, result.IsError)
		assert.Equal(t, filepath.Join(root, "meshes", "a.dae")+"\n"+filepath.Join(root, "meshes", "b.dae"), text)
	})

	t.Run("custom extension", func(t *testing.T) {
		result, text := callScan(t, s, map[string]any{"path": root, "extension": "obj"})
		assert.False(t, result.IsError)
		assert.Equal(t, filepath.Join(root, "meshes", "c.obj"), text)
	})

	t.Run("no matches", func(t *testing.T) {
		result, text := callScan(t, s, map[string]any{"path": t.TempDir()})
		assert.False(t, result.IsError)
		assert.Contains(t, text, "No .dae files found")
	})
}

func TestHandleScanMeshes_InvalidArguments(t *testing.T) {
	s := newTestServer(t)

	t.Run("missing path", func(t *testing.T) {
		result, text := callScan(t, s, map[string]any{})
		assert.True(t, result.IsError)
		assert.Contains(t, text, "path parameter error")
	})

	t.Run("empty extension", func(t *testing.T) {
		result, text := callScan(t, s, map[string]any{"path": "/", "extension": "."})
		assert.True(t, result.IsError)
		assert.Contains(t, text, "extension parameter error")
	})
}
