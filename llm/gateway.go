package llm

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/bitrise-io/bitrise-plugins-gpt2code/logger"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/prompt"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/request"
)

const (
	// DefaultInitialBackoff is the first wait after a failed attempt.
	DefaultInitialBackoff = 10 * time.Second
	// DefaultBackoffThreshold stops the doubling once the pending wait reaches it.
	DefaultBackoffThreshold = 30 * time.Second
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// ContextSleeper is the production Sleeper.
func ContextSleeper(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// LLMResponse is the reply to one request for one file.
type LLMResponse struct {
	RequestName string
	Content     string
}

// Gateway builds the chat messages for a file and sends them with retry.
type Gateway struct {
	client           LLM
	sleep            Sleeper
	initialBackoff   time.Duration
	backoffThreshold time.Duration
}

// GatewayOption customizes a Gateway
type GatewayOption func(*Gateway)

// WithSleeper replaces the wait between attempts.
func WithSleeper(sleep Sleeper) GatewayOption {
	return func(g *Gateway) {
		g.sleep = sleep
	}
}

// WithBackoff sets the first wait and the doubling threshold.
func WithBackoff(initial, threshold time.Duration) GatewayOption {
	return func(g *Gateway) {
		g.initialBackoff = initial
		g.backoffThreshold = threshold
	}
}

func NewGateway(client LLM, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		client:           client,
		sleep:            ContextSleeper,
		initialBackoff:   DefaultInitialBackoff,
		backoffThreshold: DefaultBackoffThreshold,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check sends fileContent with the request selected by handler. label names
// the destination language in the prompts.
func (g *Gateway) Check(ctx context.Context, handler request.Handler, fileContent, label string) ([]LLMResponse, error) {
	if handler == nil {
		return nil, errors.New("internal error: request handler was not defined")
	}

	req, err := handler.Request()
	if err != nil {
		return nil, err
	}

	llmReq := NewRequest(req, fileContent, label)
	content, err := g.send(ctx, llmReq, handler.ErrorDetails())
	if err != nil {
		return nil, err
	}

	return []LLMResponse{{RequestName: llmReq.Name, Content: content}}, nil
}

// NewRequest lays out the messages: persona, instructions, file content, then the request itself.
func NewRequest(req request.Request, fileContent, label string) Request {
	return Request{
		Name: req.Name,
		Messages: []Message{
			{Role: RoleSystem, Content: prompt.GetSystemPrompt(label)},
			{Role: RoleUser, Content: prompt.GetSourceIntroPrompt(label)},
			{Role: RoleUser, Content: fileContent},
			{Role: RoleUser, Content: req.Instruction},
		},
		Temperature: req.Temperature,
		TopP:        req.TopP,
	}
}

func (g *Gateway) send(ctx context.Context, req Request, details string) (string, error) {
	wait := g.initialBackoff

	for {
		resp := g.client.Prompt(ctx, req)
		if resp.Error == nil {
			return cleanContent(resp.Content), nil
		}

		logger.Warnw(details+": "+req.Name+": request failed",
			"error", resp.Error.Error(),
			"kind", KindOf(resp.Error).String(),
			"messages", FormatMessages(req.Messages),
		)

		if IsContextWindowExceeded(resp.Error) {
			logger.Errorf("%s: It seems your request is too big.", req.Name)
			return "", &ContextWindowExceededError{Request: req.Name, Err: resp.Error}
		}

		logger.Warnf("%s: Backoff retry: Sleeping %s.", req.Name, wait)
		if err := g.sleep(ctx, wait); err != nil {
			return "", err
		}
		if wait < g.backoffThreshold {
			wait *= 2
		}
	}
}

var (
	messageWrapper  = regexp.MustCompile(`^ChatCompletionMessage\(content=['"]?`)
	messageMetadata = regexp.MustCompile(`(?s)['"]?,?\s*refusal=.*role=.*\)\s*$`)
)

// cleanContent trims the answer and removes a stringified message object
// around it, as some proxies return.
func cleanContent(content string) string {
	content = strings.TrimSpace(content)
	if !messageWrapper.MatchString(content) {
		return content
	}
	content = messageWrapper.ReplaceAllString(content, "")
	content = messageMetadata.ReplaceAllString(content, "")
	return strings.TrimSpace(content)
}
