package cmd

import (
	"fmt"

	"github.com/bitrise-io/bitrise-plugins-gpt2code/common"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/filetype"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/llm"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/logger"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/output"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/request"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/walker"
	"github.com/spf13/cobra"
)

var processOpts processOptions

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process a source tree with a code request",
	Long: `Walk the source directory and send every file matching the selected language
to the LLM with the selected code request. Generated code is written to the
destination directory, mirroring the source layout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("Running gpt2code...")

		opts := processOpts
		flags := cmd.Flags()
		opts.commentStringSet = flags.Changed("force-comment-string")
		opts.temperatureSet = flags.Changed("force-temperature")
		opts.topPSet = flags.Changed("force-top-p")
		opts.providerSet = flags.Changed("provider")
		opts.modelSet = flags.Changed("model-name")

		settings, err := common.WithYamlFile(opts.ConfigFile)
		if err != nil {
			return err
		}
		opts.merge(settings)
		logger.Debugf("Using settings: %+v", settings)

		env, err := common.LoadEnvironment()
		if err != nil {
			return err
		}

		entries, err := request.LoadExternalFile(env.ExternalRequestsFile)
		if err != nil {
			return err
		}
		base, err := request.NewCatalog(entries)
		if err != nil {
			return err
		}

		if err := opts.validate(base, env); err != nil {
			return err
		}

		catalog := opts.catalog(base)
		req, err := catalog.Lookup(opts.CodeRequest)
		if err != nil {
			return err
		}
		policy, err := opts.policy(req)
		if err != nil {
			return err
		}
		if err := opts.checkDestination(policy); err != nil {
			return err
		}

		client, err := opts.client(settings, env)
		if err != nil {
			return fmt.Errorf("failed to create client for provider: %w", err)
		}

		logger.Infof("Code request %d: %s", req.ID, req.Name)
		logger.Infof("Source file types: %v, destination language: %s", policy.SourcePatterns(), policy.DestinationLabel())

		orchestrator := walker.New(opts.walkerConfig(settings, req), catalog, policy, llm.NewGateway(client), output.NewFileSink())
		orchestrator.Process(cmd.Context())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	flags := processCmd.Flags()
	// Tree
	flags.StringVarP(&processOpts.FromDirectory, "from-directory", "f", "", "Directory to read source files from")
	flags.StringVarP(&processOpts.ToDirectory, "to-directory", "t", "", "Directory where generated files are stored")
	flags.StringSliceVar(&processOpts.SkipFiles, "skip-files", nil, "Comma separated list of files to skip, relative to the source directory")
	flags.StringVarP(&processOpts.LanguageName, "language-name", "l", "", fmt.Sprintf("Language name: %v", filetype.Languages()))
	flags.IntVarP(&processOpts.CodeRequest, "code-request", "r", 0, "Code request to process, see the requests command")
	flags.StringVar(&processOpts.ConfigFile, "config", "", "Settings file (default: gpt2code.yml in the working directory tree)")
	// LLM
	flags.StringVarP(&processOpts.Provider, "provider", "p", common.ProviderOpenAI, "LLM provider (openai, anthropic)")
	flags.StringVarP(&processOpts.ModelName, "model-name", "m", common.DefaultModelName, "LLM model to use")
	flags.Float64Var(&processOpts.ForceTemperature, "force-temperature", request.DefaultTemperature, "Higher temperature increases creativity, lower yields focused and predictable results")
	flags.Float64Var(&processOpts.ForceTopP, "force-top-p", request.DefaultTopP, "Increases diversity from various probable outputs in results")
	flags.BoolVar(&processOpts.SimulateCallsOnly, "simulate-calls-only", false, "Do not call the LLM, write the outgoing requests instead (implies --force-full-output so the dump is kept as comments)")
	flags.BoolVar(&processOpts.SkipOversized, "skip-oversized", false, "Skip files exceeding the model context window instead of stopping")
	// Output
	flags.StringSliceVar(&processOpts.ForceSourceFileTypes, "force-source-file-types", nil, "Comma separated source file types as regular expressions")
	flags.StringVar(&processOpts.ForceDestinationFileType, "force-destination-file-type", "", "Extension appended to generated files")
	flags.StringVar(&processOpts.ForceCommentString, "force-comment-string", "", "String used to start comments in generated files")
	flags.StringVar(&processOpts.ForceDestinationLanguageName, "force-destination-language-name", "", "Destination language name used in prompts")
	flags.BoolVar(&processOpts.ForceFullOutput, "force-full-output", false, "Keep the whole LLM answer, text outside code blocks becomes comments")

	_ = processCmd.MarkFlagRequired("from-directory")
}
