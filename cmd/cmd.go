// Package cmd wires the stylegen command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewCLI builds the root command.
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "stylegen",
		Short:         "Style-conditioned image synthesis",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.AddCommand(newGenerateCmd())

	return rootCmd
}
