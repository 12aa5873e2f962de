package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [file]",
	Short: "Build the hierarchy and check its invariants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, tree, err := loadTree(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := tree.Validate(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "OK: %d triangles\n", tree.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
