package common

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/bitrise-io/bitrise-plugins-gpt2code/logger"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Environment carries credentials and endpoints that never go on the command line.
type Environment struct {
	OpenAIAPIKey     string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `envconfig:"OPENAI_BASE_URL"`
	AnthropicAPIKey  string `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string `envconfig:"ANTHROPIC_BASE_URL"`
	// ExternalRequestsFile points at a JSON array of additional code requests.
	ExternalRequestsFile string `envconfig:"GPT2CODE_EXTERNAL_FILE_CODE_REQUESTS"`
}

// LoadEnvironment reads the given .env files (".env" when none given, missing
// files are ignored) and then the process environment.
func LoadEnvironment(dotEnvFiles ...string) (Environment, error) {
	if len(dotEnvFiles) == 0 {
		dotEnvFiles = []string{".env"}
	}
	for _, file := range dotEnvFiles {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Environment{}, fmt.Errorf("failed to load %s: %w", file, err)
		}
		logger.Debugf("Loaded environment from %s", file)
	}

	var env Environment
	if err := envconfig.Process("", &env); err != nil {
		return Environment{}, fmt.Errorf("failed to process environment: %w", err)
	}
	return env, nil
}

// APIKey returns the credential for the given provider.
func (e Environment) APIKey(provider string) (string, error) {
	switch provider {
	case ProviderOpenAI:
		if e.OpenAIAPIKey == "" {
			return "", errors.New("OPENAI_API_KEY environment variable is not set")
		}
		return e.OpenAIAPIKey, nil
	case ProviderAnthropic:
		if e.AnthropicAPIKey == "" {
			return "", errors.New("ANTHROPIC_API_KEY environment variable is not set")
		}
		return e.AnthropicAPIKey, nil
	}
	return "", fmt.Errorf("unsupported provider: %s", provider)
}

// BaseURL returns the endpoint override for the given provider, if any.
func (e Environment) BaseURL(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return e.OpenAIBaseURL
	case ProviderAnthropic:
		return e.AnthropicBaseURL
	}
	return ""
}
