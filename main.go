package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ekaya-inc/plane-mcp/pkg/cli"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	root := cli.NewRootCmd(cli.NewApp(Version))
	if err := root.Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
