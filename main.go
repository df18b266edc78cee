package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tldrx/cmdref/internal/logging"
	"github.com/tldrx/cmdref/tools"
)

const (
	version     = "0.1.0"
	serverName  = "tldrx-mcp-server"
	description = "MCP server for looking up shell commands in the tldrx catalog"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("%s version %s\n", serverName, version)
		os.Exit(0)
	}

	// Log to stderr only (MCP uses stdout for protocol)
	logger, err := logging.Setup(logging.Options{Level: os.Getenv("TLDRX_LOG_LEVEL"), Timestamp: true})
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	logger.Infof("%s v%s starting...", serverName, version)

	server := createMCPServer()

	if err := registerTools(server); err != nil {
		logger.Fatalf("Failed to register tools: %v", err)
	}

	logger.Info("✓ Server ready and waiting for connections")

	defer func() {
		if err := tools.CloseCatalog(); err != nil {
			logger.Errorf("Error closing catalog: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Run server with stdio transport
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Errorf("Server error: %v", err)
	}
}

// createMCPServer initializes the MCP server
func createMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: version,
		},
		&mcp.ServerOptions{
			Instructions: description,
		},
	)

	log.Infof("Server initialized: %s v%s", serverName, version)
	return server
}

// registerTools registers all MCP tools
func registerTools(server *mcp.Server) error {
	if err := tools.RegisterCatalogTools(server); err != nil {
		return fmt.Errorf("failed to register catalog tools: %w", err)
	}

	log.Info("✓ All tools registered: 6 tools (search, lookup, listing, validation, reload)")
	return nil
}
