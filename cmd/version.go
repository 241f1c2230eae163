package cmd

import (
	"fmt"

	"github.com/bitrise-io/bitrise-plugins-gpt2code/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the version of gpt2code`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gpt2code v%s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
