package handlers

import (
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/plane-mcp/pkg/config"
	"github.com/ekaya-inc/plane-mcp/pkg/mcp"
	"github.com/ekaya-inc/plane-mcp/pkg/middleware"
)

// MCPHandler handles MCP protocol requests over HTTP.
type MCPHandler struct {
	httpServer *server.StreamableHTTPServer
	logger     *zap.Logger
	mcpConfig  config.MCPConfig
}

// NewMCPHandler creates a new MCP handler from an MCP server.
func NewMCPHandler(mcpServer *mcp.Server, logger *zap.Logger, mcpConfig config.MCPConfig) *MCPHandler {
	return &MCPHandler{
		httpServer: mcpServer.NewStreamableHTTPServer(),
		logger:     logger,
		mcpConfig:  mcpConfig,
	}
}

// RegisterRoutes registers the MCP endpoint at /mcp.
func (h *MCPHandler) RegisterRoutes(mux *http.ServeMux) {
	// 1. JSON-RPC logging (innermost, only when MCP_LOG_REQUESTS is set)
	// 2. Method check (outermost, rejects non-POST before any parsing)
	var rpcLogger *zap.Logger
	if h.mcpConfig.LogRequests {
		rpcLogger = h.logger.Named("mcp-rpc")
	}
	loggedHandler := middleware.MCPRequestLogger(rpcLogger)(h.httpServer)
	mux.Handle("/mcp", h.requirePOST(loggedHandler))
}

// requirePOST returns 405 Method Not Allowed for non-POST requests.
// MCP over HTTP Streaming requires POST for JSON-RPC requests.
func (h *MCPHandler) requirePOST(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			if err := MethodNotAllowed(w, "MCP requests must use POST", http.MethodPost); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewRouter builds the HTTP handler tree: health, ping and MCP, wrapped in
// request logging.
func NewRouter(cfg *config.Config, mcpServer *mcp.Server, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	NewMCPHandler(mcpServer, logger, cfg.MCP).RegisterRoutes(mux)
	return middleware.RequestLogger(logger.Named("http"))(mux)
}
