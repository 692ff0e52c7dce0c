package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/plane-mcp/pkg/tools"
)

func newCallCmd(app *App) *cobra.Command {
	var (
		paramsFile string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "call <tool> [json]",
		Short: "Run one Plane operation and print its result",
		Long: `Run one Plane operation. Parameters are a JSON object given as the second
argument, or a YAML/JSON file given with --params-file ("-" reads stdin).`,
		Example: `  plane-mcp call list_plane_projects
  plane-mcp call create_plane_issue '{"project_id":"...","name":"Bug Fix"}'
  plane-mcp call update_plane_issue --params-file update.yaml`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !knownTool(name) {
				return fmt.Errorf("unknown tool %q (run \"plane-mcp tools\" for the list)", name)
			}

			params := ""
			switch {
			case len(args) == 2 && paramsFile != "":
				return errors.New("pass parameters as an argument or with --params-file, not both")
			case len(args) == 2:
				params = args[1]
			case paramsFile != "":
				p, err := readParamsFile(paramsFile, cmd.InOrStdin())
				if err != nil {
					return err
				}
				params = p
			}

			cfg, logger, err := app.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ts := tools.New(&cfg.Plane, logger)
			result := ts.Invoke(cmd.Context(), name, params)

			if asJSON {
				return writeResultJSON(cmd.OutOrStdout(), result)
			}
			if !result.OK() {
				printError(cmd.ErrOrStderr(), result.String())
				return &ExitError{Code: 1}
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&paramsFile, "params-file", "f", "", `YAML or JSON parameter file ("-" for stdin)`)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as a JSON object")

	return cmd
}

// readParamsFile loads a YAML or JSON mapping and re-encodes it as JSON.
func readParamsFile(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read parameters: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "{}", nil
	}

	var params map[string]any
	if err := yaml.Unmarshal(data, &params); err != nil {
		return "", fmt.Errorf("failed to parse parameters from %s: %w", path, err)
	}
	if params == nil {
		params = map[string]any{}
	}

	out, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to encode parameters: %w", err)
	}
	return string(out), nil
}

type resultJSON struct {
	OK         bool   `json:"ok"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	Data       any    `json:"data,omitempty"`
}

func writeResultJSON(w io.Writer, r tools.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resultJSON{
		OK:         r.OK(),
		Kind:       string(r.Kind),
		Message:    r.Message,
		StatusCode: r.StatusCode,
		Data:       r.Data,
	}); err != nil {
		return err
	}
	if !r.OK() {
		return &ExitError{Code: 1}
	}
	return nil
}

func knownTool(name string) bool {
	for _, def := range tools.Catalog() {
		if def.Name == name {
			return true
		}
	}
	return false
}
