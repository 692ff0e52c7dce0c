package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ekaya-inc/plane-mcp/pkg/tools"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the available Plane operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tHINTS\tDESCRIPTION")
			for _, def := range tools.Catalog() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", def.Name, hints(def), firstLine(def.Description))
			}
			return w.Flush()
		},
	}
}

func hints(def tools.Definition) string {
	var h []string
	if def.ReadOnly {
		h = append(h, "read-only")
	}
	if def.Destructive {
		h = append(h, "destructive")
	}
	if def.Idempotent {
		h = append(h, "idempotent")
	}
	if len(h) == 0 {
		return "-"
	}
	return strings.Join(h, ",")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
