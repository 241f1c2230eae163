package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/bitrise-io/bitrise-plugins-gpt2code/common"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/request"
	"github.com/spf13/cobra"
)

const descriptionWidth = 60

var temperaturesCmd = &cobra.Command{
	Use:   "temperatures",
	Short: "Show recommended temperature and top_p values",
	Long:  `Display temperature and top_p values that suit common use cases.`,
	Run: func(cmd *cobra.Command, args []string) {
		printRecommendations(cmd.OutOrStdout(), request.Recommendations())
	},
}

func printRecommendations(w io.Writer, recommendations []request.Recommendation) {
	useCaseWidth := len("Use Case")
	for _, r := range recommendations {
		useCaseWidth = max(useCaseWidth, len(r.UseCase))
	}

	row := fmt.Sprintf("%%-%ds | %%-11s | %%-5s | %%s\n", useCaseWidth)
	fmt.Fprintf(w, row, "Use Case", "Temperature", "Top_p", "Description")
	fmt.Fprintln(w, strings.Repeat("-", useCaseWidth+24+descriptionWidth))

	indent := strings.Repeat(" ", useCaseWidth+25)
	for _, r := range recommendations {
		description := common.IndentLines(common.WrapString(r.Description, descriptionWidth), indent)
		fmt.Fprintf(w, row, r.UseCase, fmt.Sprint(r.Temperature), fmt.Sprint(r.TopP), description)
	}
}

func init() {
	rootCmd.AddCommand(temperaturesCmd)
}
