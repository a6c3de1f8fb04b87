// Command scriptbridge runs JavaScript files against a small host API and
// prints the JSON schemas of its configuration and binding tables.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "scriptbridge",
		Short:         "Run scripts with Go host functions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newRunCmd(), newSchemaCmd())
	return cmd
}
