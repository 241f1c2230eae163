package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitrise-io/bitrise-plugins-gpt2code/common"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/filetype"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/llm"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/request"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/walker"
)

// processOptions holds the process flags. The *Set fields record which
// optional flags were given on the command line.
type processOptions struct {
	FromDirectory string
	ToDirectory   string
	SkipFiles     []string
	LanguageName  string
	CodeRequest   int
	Provider      string
	ModelName     string
	ConfigFile    string

	ForceSourceFileTypes         []string
	ForceDestinationFileType     string
	ForceCommentString           string
	ForceDestinationLanguageName string
	ForceTemperature             float64
	ForceTopP                    float64
	ForceFullOutput              bool
	SimulateCallsOnly            bool
	SkipOversized                bool

	commentStringSet bool
	temperatureSet   bool
	topPSet          bool
	providerSet      bool
	modelSet         bool
}

// merge fills the options not given as flags from the settings file.
func (o *processOptions) merge(settings common.Settings) {
	if !o.providerSet && settings.LLM.Provider != "" {
		o.Provider = settings.LLM.Provider
	}
	if !o.modelSet && settings.LLM.Model != "" {
		o.ModelName = settings.LLM.Model
	}
	if o.LanguageName == "" {
		o.LanguageName = settings.Language
	}
}

func (o *processOptions) validate(catalog *request.Catalog, env common.Environment) error {
	if o.FromDirectory == "" {
		return errors.New("a source directory is required (--from-directory)")
	}
	info, err := os.Stat(o.FromDirectory)
	if err != nil {
		return fmt.Errorf("source directory %s: %w", o.FromDirectory, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source directory %s is not a directory", o.FromDirectory)
	}
	if o.ToDirectory == "" {
		return errors.New("a destination directory is required (--to-directory)")
	}

	if !catalog.Validate(o.CodeRequest) {
		return fmt.Errorf("the selected code request %d is not valid, available requests: %s", o.CodeRequest, catalog.Describe(", "))
	}
	if o.temperatureSet && !request.ValidSampling(o.ForceTemperature) {
		return fmt.Errorf("temperature must be within [0, 1], got %v", o.ForceTemperature)
	}
	if o.topPSet && !request.ValidSampling(o.ForceTopP) {
		return fmt.Errorf("top_p must be within [0, 1], got %v", o.ForceTopP)
	}

	if o.SimulateCallsOnly {
		return nil
	}
	if _, err := env.APIKey(o.Provider); err != nil {
		return err
	}
	return nil
}

// checkDestination rejects a destination that would overwrite the sources.
func (o *processOptions) checkDestination(policy *filetype.Policy) error {
	if policy.GeneratedExtension() != "" {
		return nil
	}
	from, err := filepath.Abs(o.FromDirectory)
	if err != nil {
		return err
	}
	to, err := filepath.Abs(o.ToDirectory)
	if err != nil {
		return err
	}
	if from == to {
		return fmt.Errorf("destination directory %s is the source directory and generated files keep the source names, set --force-destination-file-type or another --to-directory", o.ToDirectory)
	}
	return nil
}

// catalog applies the sampling overrides to base.
func (o *processOptions) catalog(base *request.Catalog) *request.Catalog {
	catalog := base
	if o.temperatureSet {
		catalog = catalog.WithTemperature(o.ForceTemperature)
	}
	if o.topPSet {
		catalog = catalog.WithTopP(o.ForceTopP)
	}
	return catalog
}

// policy resolves the file type for req: flags first, then the request's own
// output overrides, then the language defaults.
func (o *processOptions) policy(req request.Request) (*filetype.Policy, error) {
	opts := filetype.Options{
		Language:             o.LanguageName,
		SourcePatterns:       common.CleanList(o.ForceSourceFileTypes),
		DestinationExtension: o.ForceDestinationFileType,
		DestinationLabel:     o.ForceDestinationLanguageName,
	}
	if o.commentStringSet {
		comment := o.ForceCommentString
		opts.CommentString = &comment
	}

	policy, err := filetype.New(opts)
	if err != nil {
		return nil, err
	}
	return policy.WithRequestOverrides(req), nil
}

// fullOutput is forced in simulation so the request dump lands in the files.
func (o *processOptions) fullOutput(req request.Request) bool {
	if o.ForceFullOutput || o.SimulateCallsOnly {
		return true
	}
	return req.FullOutput != nil && *req.FullOutput
}

func (o *processOptions) client(settings common.Settings, env common.Environment) (llm.LLM, error) {
	if o.SimulateCallsOnly {
		return llm.NewSimulator(), nil
	}
	return llm.NewLLM(o.Provider, o.ModelName, env,
		llm.WithMaxTokens(settings.LLM.MaxTokens),
		llm.WithAPITimeout(settings.LLM.APITimeout),
		llm.WithRetryConfig(common.RetryConfigFromSettings(settings.LLM.HTTPRetry)),
	)
}

func (o *processOptions) walkerConfig(settings common.Settings, req request.Request) walker.Config {
	return walker.Config{
		SourceDirectory:      o.FromDirectory,
		DestinationDirectory: o.ToDirectory,
		SkipFiles:            common.CleanList(o.SkipFiles),
		ExcludeDirectories:   settings.Walk.ExcludeDirectories,
		RequestID:            o.CodeRequest,
		FullOutput:           o.fullOutput(req),
		ContinueOnOverflow:   o.SkipOversized,
	}
}
