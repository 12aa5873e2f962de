package main

import (
	"github.com/spf13/cobra"
)

var boxesCmd = &cobra.Command{
	Use:   "boxes [file]",
	Short: "Print every node box in traversal order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, tree, err := loadTree(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return tree.Print(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(boxesCmd)
}
