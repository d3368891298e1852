package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <tree>...",
		Short: "Check trees for structural issues",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(cmd)
			if err != nil {
				return err
			}
			defer engine.Close()
			for _, location := range args {
				root, err := engine.LoadTree(cmd.Context(), treeURL(location))
				if err != nil {
					return err
				}
				if err = engine.Validate(root); err != nil {
					return fmt.Errorf("%v is invalid: %w", location, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%v is valid\n", location)
			}
			return nil
		},
	}
}
