package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// isTerminal reports whether w is a terminal. Buffers and pipes are not.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printError writes msg in red when w is a terminal, plain otherwise.
func printError(w io.Writer, msg string) {
	if isTerminal(w) {
		c := color.New(color.FgRed)
		c.EnableColor()
		c.Fprintln(w, msg)
		return
	}
	fmt.Fprintln(w, msg)
}
