package llm

import (
	"context"
	"fmt"

	"github.com/bitrise-io/bitrise-plugins-gpt2code/common"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/logger"
)

// OptionType defines the type of option
type OptionType string

// Available option types
const (
	ModelNameOption   OptionType = "model"
	MaxTokensOption   OptionType = "max_tokens"
	APITimeoutOption  OptionType = "api_timeout"
	BaseURLOption     OptionType = "base_url"
	RetryConfigOption OptionType = "retry_config"
)

// Option represents a generic configuration option for any LLM provider
type Option struct {
	Type  OptionType
	Value any
}

// WithModel creates an option to set the model name
func WithModel(model string) Option {
	return Option{
		Type:  ModelNameOption,
		Value: model,
	}
}

// WithMaxTokens creates an option to set the max tokens
func WithMaxTokens(maxTokens int) Option {
	return Option{
		Type:  MaxTokensOption,
		Value: maxTokens,
	}
}

// WithAPITimeout creates an option to set the API timeout in seconds. Zero disables the timeout.
func WithAPITimeout(timeout int) Option {
	return Option{
		Type:  APITimeoutOption,
		Value: timeout,
	}
}

// WithBaseURL points the client at an OpenAI compatible or proxy endpoint
func WithBaseURL(baseURL string) Option {
	return Option{
		Type:  BaseURLOption,
		Value: baseURL,
	}
}

// WithRetryConfig tunes the HTTP level retries of the client
func WithRetryConfig(config common.RetryConfig) Option {
	return Option{
		Type:  RetryConfigOption,
		Value: config,
	}
}

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one chat message sent to the model
type Message struct {
	Role    Role   `yaml:"role"`
	Content string `yaml:"content"`
}

// Request is a single chat completion exchange
type Request struct {
	Name        string
	Messages    []Message
	Temperature float64
	TopP        float64
}

// Response represents the response from the LLM
type Response struct {
	Content string
	Error   error
}

// LLM defines the interface for language model prompting
type LLM interface {
	// Prompt sends a request to the language model and returns its response.
	// Errors are classified as *ProviderError where the backend can tell.
	Prompt(ctx context.Context, req Request) Response
}

// clientConfig collects the options shared by every backend
type clientConfig struct {
	modelName   string
	maxTokens   int
	apiTimeout  int // in seconds
	baseURL     string
	retryConfig common.RetryConfig
}

func applyOptions(config *clientConfig, opts []Option) {
	for _, opt := range opts {
		switch opt.Type {
		case ModelNameOption:
			if modelName, ok := opt.Value.(string); ok && modelName != "" {
				config.modelName = modelName
			}
		case MaxTokensOption:
			if maxTokens, ok := opt.Value.(int); ok {
				config.maxTokens = maxTokens
			}
		case APITimeoutOption:
			if timeout, ok := opt.Value.(int); ok {
				config.apiTimeout = timeout
			}
		case BaseURLOption:
			if baseURL, ok := opt.Value.(string); ok {
				config.baseURL = baseURL
			}
		case RetryConfigOption:
			if retryConfig, ok := opt.Value.(common.RetryConfig); ok {
				config.retryConfig = retryConfig
			}
		}
	}
}

// NewLLM creates the client for providerName with credentials from env.
func NewLLM(providerName, modelName string, env common.Environment, opts ...Option) (LLM, error) {
	apiKey, err := env.APIKey(providerName)
	if err != nil {
		return nil, err
	}

	options := []Option{
		WithModel(modelName),
		WithBaseURL(env.BaseURL(providerName)),
	}
	options = append(options, opts...)

	var llmClient LLM
	switch providerName {
	case common.ProviderOpenAI:
		llmClient, err = NewOpenAI(apiKey, options...)
	case common.ProviderAnthropic:
		llmClient, err = NewAnthropic(apiKey, options...)
	default:
		err = fmt.Errorf("unsupported provider: %s", providerName)
	}

	if err == nil {
		logger.Infof("Using LLM provider %s with model %s", providerName, modelName)
	}

	return llmClient, err
}
