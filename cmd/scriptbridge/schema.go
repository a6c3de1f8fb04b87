package main

import (
	"fmt"

	"github.com/reglet-dev/scriptbridge/application/schema"
	"github.com/spf13/cobra"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema config|bindings",
		Short:     "Print a JSON schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"config", "bindings"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				out []byte
				err error
			)
			switch args[0] {
			case "config":
				out, err = schema.ConfigSchema()
			default:
				out, err = schema.BindingsSchema()
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}
