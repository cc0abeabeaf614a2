package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/funnelkit"
	"github.com/aretw0/funnelkit/internal/logging"
	"github.com/aretw0/funnelkit/pkg/registry"
	"github.com/aretw0/funnelkit/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ResourceScheme prefixes funnel resource URIs.
const ResourceScheme = "funnel://"

// Server exposes editor sessions as an MCP Server.
type Server struct {
	sessions  *session.Manager
	kinds     *registry.Registry
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithRegistry sets the kind registry served by list_kinds.
func WithRegistry(r *registry.Registry) Option {
	return func(s *Server) { s.kinds = r }
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		sessions:  sessions,
		kinds:     registry.Default(),
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("funnelkit-mcp", strings.TrimSpace(funnelkit.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
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

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Baggage, Sentry-Trace")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// editFunc runs against an editor and returns an optional created item.
type editFunc func(ed *funnelkit.Editor, request mcp.CallToolRequest) (any, error)

// EditResult is the structured payload of every editing tool.
type EditResult struct {
	Created any                `json:"created,omitempty" jsonschema_description:"The step or component created by the edit, if any"`
	Applied *bool              `json:"applied,omitempty" jsonschema_description:"Whether undo or redo changed anything"`
	State   funnelkit.Snapshot `json:"state" jsonschema_description:"Editor state after the edit"`
}

// editTool wraps fn in a tool handler that opens the funnel, runs fn under
// the session lock and reports the resulting state.
func (s *Server) editTool(fn editFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("funnel_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		var result EditResult
		err = s.sessions.Do(ctx, id, func(ed *funnelkit.Editor) error {
			created, err := fn(ed, request)
			if err != nil {
				return err
			}
			if applied, ok := created.(bool); ok {
				result.Applied = &applied
			} else {
				result.Created = created
			}
			result.State = ed.State()
			return nil
		})
		if err != nil {
			s.logger.Debug("MCP tool rejected", "tool", request.Params.Name, "funnel", id, "err", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(result)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultStructured(v, string(jsonBytes)), nil
}

// objectArg reads an object argument given either as a JSON object or as
// a JSON encoded string.
func objectArg(request mcp.CallToolRequest, key string) (map[string]any, error) {
	switch v := request.GetArguments()[key].(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		var out map[string]any
		if err := json.Unmarshal([]byte(v), &out); err != nil {
			return nil, fmt.Errorf("argument %q is not a JSON object: %w", key, err)
		}
		return out, nil
	default:
		return nil, errors.New("argument " + key + " must be an object")
	}
}
