// Package cli is the plane-mcp command line: the MCP server and direct
// invocation of each Plane operation.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/plane-mcp/pkg/config"
	"github.com/ekaya-inc/plane-mcp/pkg/logging"
)

// App holds what the commands need from the outside world. Tests replace
// LoadConfig and NewLogger.
type App struct {
	Version    string
	ConfigPath string

	LoadConfig func(version, path string) (*config.Config, error)
	NewLogger  func(cfg *config.Config) (*zap.Logger, error)
}

// NewApp returns an App that reads real configuration.
func NewApp(version string) *App {
	return &App{
		Version:    version,
		ConfigPath: config.DefaultConfigPath,
		LoadConfig: config.Load,
		NewLogger: func(cfg *config.Config) (*zap.Logger, error) {
			return logging.New(cfg.LogLevel, cfg.Env)
		},
	}
}

// ExitError carries a process exit code without an extra message; the
// command has already written its output.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewRootCmd creates the top-level "plane-mcp" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "plane-mcp",
		Short:         "MCP server and CLI for the Plane project-management API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&app.ConfigPath, "config", app.ConfigPath, "path to a YAML config file")

	root.AddCommand(
		newServeCmd(app),
		newCallCmd(app),
		newToolsCmd(),
		newVersionCmd(app),
	)

	return root
}

// load reads configuration and builds the logger.
func (a *App) load() (*config.Config, *zap.Logger, error) {
	cfg, err := a.LoadConfig(a.Version, a.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := a.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "plane-mcp %s\n", app.Version)
			return nil
		},
	}
}
