// Command mycelium walks a repository and emits a codebase map: file and
// folder structure, symbols, imports, calls, communities, and processes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mycelium",
		Short: "Build a codebase map from a repository's structure, symbols, and call graph",
	}
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newVersionCmd())
	return root
}
