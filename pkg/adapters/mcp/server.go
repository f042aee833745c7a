// Package mcp projects a contract plus a registry onto an MCP tool server.
//
// Every contract operation becomes one tool: name from the operation
// identifier, description from its summary, input schema drawn directly from
// its parameter specs. Tool calls route through the same registry lookup as
// the REST projection, so the two surfaces always agree on shape.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/lvsoft/service-kit/internal/logging"
	"github.com/lvsoft/service-kit/pkg/contract"
	"github.com/lvsoft/service-kit/pkg/registry"
)

// Server exposes the contract's operations as MCP tools.
type Server struct {
	contract  *contract.Contract
	registry  *registry.Registry
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the projection.
type Option func(*Server)

// WithLogger sets the fault logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer builds the MCP projection from the same contract and registry
// snapshot the REST projection reads.
func NewServer(c *contract.Contract, reg *registry.Registry, version string, opts ...Option) *Server {
	s := &Server{
		contract:  c,
		registry:  reg,
		mcpServer: server.NewMCPServer("service-kit", version),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: sseServer,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	for _, op := range s.contract.Operations() {
		op := op
		s.mcpServer.AddTool(toolForOperation(op), s.handlerFor(op))
	}
}

// toolForOperation emits the tool definition for one operation, its input
// schema drawn directly from the parameter specs.
func toolForOperation(op contract.Operation) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(toolDescription(op))}

	for _, p := range op.Parameters {
		var propOpts []mcp.PropertyOption
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		desc := p.Description
		if p.In == contract.InBody && desc == "" {
			desc = "JSON request body, passed through verbatim"
		}
		if desc != "" {
			propOpts = append(propOpts, mcp.Description(desc))
		}

		switch p.Type {
		case "integer", "number":
			opts = append(opts, mcp.WithNumber(p.Name, propOpts...))
		case "boolean":
			opts = append(opts, mcp.WithBoolean(p.Name, propOpts...))
		default:
			opts = append(opts, mcp.WithString(p.Name, propOpts...))
		}
	}

	return mcp.NewTool(op.ID, opts...)
}

func toolDescription(op contract.Operation) string {
	doc := op.Doc()
	if doc == "" {
		return fmt.Sprintf("%s %s", op.Method, op.Path)
	}
	return fmt.Sprintf("%s (%s %s)", doc, op.Method, op.Path)
}

// handlerFor builds the tool handler: registry lookup, entry point
// invocation, result translated into the MCP envelope.
func (s *Server) handlerFor(op contract.Operation) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if args == nil {
			args = map[string]any{}
		}

		result, err := s.registry.Invoke(ctx, op.ID, args)
		if err != nil {
			var fault *registry.ConsistencyFault
			if errors.As(err, &fault) {
				return mcp.NewToolResultError(fmt.Sprintf("internal: operation %q is not wired to an implementation", op.ID)), nil
			}
			return mcp.NewToolResultError(err.Error()), nil
		}

		payload, err := json.Marshal(result)
		if err != nil {
			s.logger.Error("tool result serialization failed", "operation", op.ID, "error", err)
			return mcp.NewToolResultError(fmt.Sprintf("result serialization failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
}

func (s *Server) registerResources() {
	// The contract itself is a resource, so tool clients can introspect shapes.
	s.mcpServer.AddResource(mcp.NewResource("servicekit://contract", "API Contract",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.contract.Document())
		if err != nil {
			return nil, fmt.Errorf("failed to render contract: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "servicekit://contract",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
