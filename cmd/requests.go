package cmd

import (
	"fmt"
	"strconv"

	"github.com/bitrise-io/bitrise-plugins-gpt2code/common"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/request"
	"github.com/spf13/cobra"
)

var requestsCmd = &cobra.Command{
	Use:   "requests [id...]",
	Short: "List the available code requests",
	Long: `List the built-in code requests and the ones loaded from the file named by
GPT2CODE_EXTERNAL_FILE_CODE_REQUESTS. Pass ids to show only those.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := make([]int, 0, len(args))
		for _, arg := range args {
			id, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("invalid code request id %q: %w", arg, err)
			}
			filter = append(filter, id)
		}

		env, err := common.LoadEnvironment()
		if err != nil {
			return err
		}
		entries, err := request.LoadExternalFile(env.ExternalRequestsFile)
		if err != nil {
			return err
		}
		catalog, err := request.NewCatalog(entries)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), catalog.Describe("\n", filter...))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(requestsCmd)
}
