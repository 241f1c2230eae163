package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitrise-io/bitrise-plugins-gpt2code/logger"
	"github.com/spf13/cobra"
)

var (
	// Command line flags
	logLevel string
	debug    bool
)

var rootCmd = &cobra.Command{
	Use:   "gpt2code",
	Short: "gpt2code - Rewrite a source tree file by file using an LLM",
	Long: `gpt2code walks a source directory, sends every matching file to an LLM together
with a code request (unit tests, documentation, UML, ...) and writes the generated
code into a mirrored destination directory.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			logLevel = "debug"
		}
		logger.Init(logLevel)
		logger.Debugf("Log level set to: %s", logLevel)
	},
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior when no subcommands are provided
		cmd.Help()
	},
}

// Execute runs the root command; SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Set the logging level (debug, info, warn, error, dpanic, panic, fatal)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Set logging to debug")
}
