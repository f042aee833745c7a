package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	servicekit "github.com/lvsoft/service-kit"
	"github.com/lvsoft/service-kit/internal/demo"
	"github.com/lvsoft/service-kit/internal/logging"
	"github.com/lvsoft/service-kit/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the built-in demo service as an MCP server",
	Long: `Starts the bundled demo service as a Model Context Protocol server: every
contract operation becomes an MCP tool, and the contract itself is exposed
as a resource. Tools and REST routes are projected from the same registry
snapshot, so an agent and an HTTP client always see the same API.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Logs go to stderr so they never corrupt JSON-RPC framing on stdout.
		logger := logging.New(logging.Level(logLevel()))

		reg := demo.NewRegistry(logger)
		c, err := reg.Contract()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error assembling contract: %v\n", err)
			os.Exit(1)
		}

		srv := mcp.NewServer(c, reg.Registry, servicekit.Version, mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			log.SetOutput(os.Stderr)
			logger.Info("starting MCP server", "transport", "stdio")
			if err := srv.ServeStdio(); err != nil {
				logger.Error("MCP server execution failed", "error", err)
				os.Exit(1)
			}
		case "sse":
			logger.Info("starting MCP server", "transport", "sse", "port", port)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil {
				if err != http.ErrServerClosed {
					logger.Error("MCP server execution failed", "error", err)
					os.Exit(1)
				}
			}
			logger.Info("MCP server stopped gracefully")
		default:
			fmt.Fprintf(os.Stderr, "Unknown transport: %s. Supported: stdio, sse\n", transport)
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8081, "Port to listen on (only for SSE)")
}
