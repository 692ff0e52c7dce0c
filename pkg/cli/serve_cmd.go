package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ekaya-inc/plane-mcp/pkg/config"
	"github.com/ekaya-inc/plane-mcp/pkg/handlers"
	"github.com/ekaya-inc/plane-mcp/pkg/mcp"
	mcptools "github.com/ekaya-inc/plane-mcp/pkg/mcp/tools"
	"github.com/ekaya-inc/plane-mcp/pkg/tools"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	transport string
	addr      string
}

func (o *serveOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.transport, "transport", "", `"stdio" or "http" (overrides MCP_TRANSPORT)`)
	fs.StringVar(&o.addr, "addr", "", "listen address for the http transport, host:port")
}

// apply overrides cfg with the flags that were set.
func (o *serveOptions) apply(cfg *config.Config) error {
	if o.transport != "" {
		cfg.MCP.Transport = strings.ToLower(o.transport)
	}
	if o.addr != "" {
		host, port, ok := strings.Cut(o.addr, ":")
		if !ok || port == "" {
			return fmt.Errorf("invalid --addr %q: expected host:port", o.addr)
		}
		cfg.MCP.BindAddr = host
		cfg.MCP.Port = port
	}
	return cfg.Validate()
}

func newServeCmd(app *App) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio or streamable HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := app.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if err := opts.apply(cfg); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			mcpServer := buildMCPServer(cfg, logger)

			logger.Info("Starting plane-mcp",
				zap.String("version", cfg.Version),
				zap.String("env", cfg.Env),
				zap.String("transport", cfg.MCP.Transport),
				zap.String("workspace", cfg.Plane.WorkspaceSlug))

			if cfg.MCP.Transport == config.TransportHTTP {
				return serveHTTP(ctx, cfg, mcpServer, logger)
			}
			return mcpServer.ServeStdio(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	opts.addFlags(cmd.Flags())

	return cmd
}

// buildMCPServer wires the Plane operations and the health tool into an MCP server.
func buildMCPServer(cfg *config.Config, logger *zap.Logger) *mcp.Server {
	ts := tools.New(&cfg.Plane, logger)
	s := mcp.NewServer(mcp.ServerName, cfg.Version, logger)
	mcptools.RegisterPlaneTools(s.MCP(), ts, logger)
	mcptools.RegisterHealthTool(s.MCP(), cfg.Version, ts.Workspace())
	return s
}

func serveHTTP(ctx context.Context, cfg *config.Config, mcpServer *mcp.Server, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              cfg.MCP.Addr(),
		Handler:           handlers.NewRouter(cfg, mcpServer, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
