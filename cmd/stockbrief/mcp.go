package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

type mcpCmd struct{}

func (*mcpCmd) Name() string     { return "mcp" }
func (*mcpCmd) Synopsis() string { return "serve the MCP tools over stdio" }
func (*mcpCmd) Usage() string {
	return `stockbrief mcp

  Serves the stockbrief MCP tools as newline-delimited JSON-RPC on
  stdin/stdout for MCP clients that launch a local process. Logs go to stderr.
`
}

func (*mcpCmd) SetFlags(*flag.FlagSet) {}

func (*mcpCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Logger.Info().Msg("Serving MCP over stdio")
	if err := mcpserver.NewStdioServer(a.MCPServer).Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		a.Logger.Error().Err(err).Msg("MCP stdio server stopped")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
