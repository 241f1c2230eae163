package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitrise-io/bitrise-plugins-gpt2code/common"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/logger"
	"github.com/sashabaranov/go-openai"
)

const providerNameOpenAI = "openai"

// OpenAIModel implements the LLM interface using OpenAI's API or any
// endpoint speaking the same protocol
type OpenAIModel struct {
	client     *openai.Client
	modelName  string
	maxTokens  int
	apiTimeout int // in seconds
}

// NewOpenAI creates a new OpenAI client
func NewOpenAI(apiKey string, opts ...Option) (*OpenAIModel, error) {
	if apiKey == "" {
		errMsg := "OpenAI API key cannot be empty"
		logger.Error(errMsg)
		return nil, errors.New(errMsg)
	}

	cfg := clientConfig{
		modelName:   common.DefaultModelName,
		maxTokens:   4000,
		retryConfig: common.DefaultRetryConfig(),
	}
	applyOptions(&cfg, opts)

	// Create retryable HTTP client with exponential backoff using common configuration
	retryClient := common.NewRetryableClient(cfg.retryConfig)

	config := openai.DefaultConfig(apiKey)
	config.HTTPClient = retryClient.StandardClient()
	if cfg.baseURL != "" {
		config.BaseURL = cfg.baseURL
	}

	model := &OpenAIModel{
		client:     openai.NewClientWithConfig(config),
		modelName:  cfg.modelName,
		maxTokens:  cfg.maxTokens,
		apiTimeout: cfg.apiTimeout,
	}

	logger.Debugf("OpenAI client initialized with model: %s, max tokens: %d, timeout: %d seconds, base URL: %s",
		model.modelName, model.maxTokens, model.apiTimeout, config.BaseURL)

	return model, nil
}

// Prompt sends a request to OpenAI and returns the response
func (o *OpenAIModel) Prompt(ctx context.Context, req Request) Response {
	if o.apiTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(o.apiTimeout)*time.Second)
		defer cancel()
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		role := openai.ChatMessageRoleUser
		if msg.Role == RoleSystem {
			role = openai.ChatMessageRoleSystem
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       o.modelName,
		Messages:    messages,
		MaxTokens:   o.maxTokens,
		Temperature: float32(req.Temperature),
		TopP:        float32(req.TopP),
	}

	logger.Infof("Requesting %s from model %s", req.Name, o.modelName)

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return Response{Error: classifyOpenAIError(err)}
	}

	if len(resp.Choices) == 0 {
		return Response{Error: fmt.Errorf("%s: %w", providerNameOpenAI, ErrEmptyResponse)}
	}

	return Response{
		Content: resp.Choices[0].Message.Content,
	}
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		kind := kindFromStatus(apiErr.HTTPStatusCode)
		if code, ok := apiErr.Code.(string); (ok && code == "context_length_exceeded") || mentionsContextOverflow(apiErr.Message) {
			kind = KindContextOverflow
		}
		return &ProviderError{
			Provider:   providerNameOpenAI,
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			Kind:       kind,
			Err:        err,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		kind := kindFromStatus(reqErr.HTTPStatusCode)
		if mentionsContextOverflow(string(reqErr.Body)) {
			kind = KindContextOverflow
		}
		return &ProviderError{
			Provider:   providerNameOpenAI,
			StatusCode: reqErr.HTTPStatusCode,
			Message:    reqErr.Error(),
			Kind:       kind,
			Err:        err,
		}
	}

	// No HTTP exchange completed: DNS, connection reset, timeout.
	return &ProviderError{
		Provider: providerNameOpenAI,
		Message:  err.Error(),
		Kind:     KindUnavailable,
		Err:      err,
	}
}
