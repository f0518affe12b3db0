package app

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStdioClient connects a client to the app's MCP server over pipes, the
// path `stockbrief mcp` serves on stdin/stdout.
func newStdioClient(t *testing.T, a *App) *client.Client {
	t.Helper()

	serverIn, clientOut := io.Pipe()
	clientIn, serverOut := io.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.NewStdioServer(a.MCPServer).Listen(ctx, serverIn, serverOut)
	}()

	tr := transport.NewIO(clientIn, clientOut, io.NopCloser(strings.NewReader("")))
	require.NoError(t, tr.Start(context.Background()))
	c := client.NewClient(tr)

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "stdio-test", Version: "1.0.0"}
	initCtx, initCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer initCancel()
	_, err := c.Initialize(initCtx, initReq)
	require.NoError(t, err)

	t.Cleanup(func() {
		c.Close()
		cancel()
		serverIn.Close()
		select {
		case <-errCh:
		case <-time.After(2 * time.Second):
		}
	})
	return c
}

func TestStdio_VersionAndSearch(t *testing.T) {
	a := newTestApp(t)
	c := newStdioClient(t, a)

	text, isErr := callTool(t, c, "get_version", nil)
	assert.False(t, isErr)
	assert.Contains(t, text, "stockbrief MCP Server")

	text, _ = callTool(t, c, "search_stocks", map[string]any{"query": "삼성"})
	assert.Equal(t, "삼성전자 (005930)\n", text)
}
