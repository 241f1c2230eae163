package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/common"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/logger"
)

const providerNameAnthropic = "anthropic"

// AnthropicModel implements the LLM interface using Anthropic's API
type AnthropicModel struct {
	client     anthropic.Client
	modelName  string
	maxTokens  int
	apiTimeout int // in seconds
}

// NewAnthropic creates a new Anthropic client
func NewAnthropic(apiKey string, opts ...Option) (*AnthropicModel, error) {
	if apiKey == "" {
		return nil, errors.New("Anthropic API key cannot be empty")
	}

	cfg := clientConfig{
		modelName:   "claude-3.7-sonnet",
		maxTokens:   4000,
		retryConfig: common.DefaultRetryConfig(),
	}
	applyOptions(&cfg, opts)

	retryClient := common.NewRetryableClient(cfg.retryConfig)
	requestOptions := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(retryClient.StandardClient()),
		// Retries already happen in the retryable HTTP client
		option.WithMaxRetries(0),
	}
	if cfg.baseURL != "" {
		requestOptions = append(requestOptions, option.WithBaseURL(cfg.baseURL))
	}

	model := &AnthropicModel{
		client:     anthropic.NewClient(requestOptions...),
		modelName:  cfg.modelName,
		maxTokens:  cfg.maxTokens,
		apiTimeout: cfg.apiTimeout,
	}

	logger.Debugf("Anthropic client initialized with model: %s, max tokens: %d, timeout: %d seconds",
		model.modelName, model.maxTokens, model.apiTimeout)

	return model, nil
}

// Convert model name string to anthropic.Model
func (a *AnthropicModel) model() anthropic.Model {
	switch a.modelName {
	case "claude-3.7-sonnet":
		return anthropic.ModelClaude3_7SonnetLatest
	case "claude-3.5-haiku":
		return anthropic.ModelClaude3_5HaikuLatest
	}
	return anthropic.Model(a.modelName)
}

// Prompt sends a request to Anthropic and returns the response
func (a *AnthropicModel) Prompt(ctx context.Context, req Request) Response {
	if a.apiTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(a.apiTimeout)*time.Second)
		defer cancel()
	}

	// System messages go to the dedicated field, user messages become
	// text blocks of a single user turn, in order.
	var system []anthropic.TextBlockParam
	var blocks []anthropic.ContentBlockParamUnion
	for _, msg := range req.Messages {
		if msg.Role == RoleSystem {
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
			continue
		}
		blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
	}

	messageParams := anthropic.MessageNewParams{
		Model:       a.model(),
		MaxTokens:   int64(a.maxTokens),
		System:      system,
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
		Temperature: anthropic.Float(req.Temperature),
		TopP:        anthropic.Float(req.TopP),
	}

	logger.Infof("Requesting %s from model %s", req.Name, a.modelName)

	message, err := a.client.Messages.New(ctx, messageParams)
	if err != nil {
		return Response{Error: classifyAnthropicError(err)}
	}

	// Extract text content from the response
	var content string
	for _, block := range message.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			content += b.Text
		}
	}

	if content == "" {
		return Response{Error: fmt.Errorf("%s: %w", providerNameAnthropic, ErrEmptyResponse)}
	}

	return Response{
		Content: content,
	}
}

func classifyAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		kind := kindFromStatus(apiErr.StatusCode)
		if mentionsContextOverflow(apiErr.Error()) {
			kind = KindContextOverflow
		}
		return &ProviderError{
			Provider:   providerNameAnthropic,
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Error(),
			Kind:       kind,
			Err:        err,
		}
	}

	return &ProviderError{
		Provider: providerNameAnthropic,
		Message:  err.Error(),
		Kind:     KindUnavailable,
		Err:      err,
	}
}
