package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bitrise-io/bitrise-plugins-gpt2code/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noRetry() common.RetryConfig {
	config := common.DefaultRetryConfig()
	config.RetryMax = 0
	return config
}

func newOpenAITestServer(t *testing.T, status int, body string, captured *map[string]interface{}) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOpenAIPrompt(t *testing.T) {
	var captured map[string]interface{}
	server := newOpenAITestServer(t, http.StatusOK, `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "model": "llama3-70b",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "def test_x(): pass"}, "finish_reason": "stop"}]
}`, &captured)

	model, err := NewOpenAI("sk-test", WithModel("llama3-70b"), WithBaseURL(server.URL+"/v1"), WithRetryConfig(noRetry()))
	require.NoError(t, err)

	resp := model.Prompt(context.Background(), Request{
		Name: "Create Unittests",
		Messages: []Message{
			{Role: RoleSystem, Content: "persona"},
			{Role: RoleUser, Content: "x=1"},
		},
		Temperature: 0.2,
		TopP:        0.1,
	})
	require.NoError(t, resp.Error)
	assert.Equal(t, "def test_x(): pass", resp.Content)

	assert.Equal(t, "llama3-70b", captured["model"])
	assert.InDelta(t, 0.2, captured["temperature"], 1e-6)
	assert.InDelta(t, 0.1, captured["top_p"], 1e-6)
	messages, ok := captured["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
	assert.Equal(t, "user", messages[1].(map[string]interface{})["role"])
}

func TestOpenAIContextLengthExceeded(t *testing.T) {
	server := newOpenAITestServer(t, http.StatusBadRequest, `{
  "error": {
    "message": "This model's maximum context length is 8192 tokens. However, your messages resulted in 9000 tokens.",
    "type": "invalid_request_error",
    "param": "messages",
    "code": "context_length_exceeded"
  }
}`, nil)

	model, err := NewOpenAI("sk-test", WithBaseURL(server.URL+"/v1"), WithRetryConfig(noRetry()))
	require.NoError(t, err)

	resp := model.Prompt(context.Background(), Request{Name: "x", Messages: []Message{{Role: RoleUser, Content: "huge"}}})
	require.Error(t, resp.Error)
	assert.True(t, IsContextWindowExceeded(resp.Error))
	assert.Equal(t, KindContextOverflow, KindOf(resp.Error))
}

func TestOpenAIRateLimited(t *testing.T) {
	server := newOpenAITestServer(t, http.StatusTooManyRequests, `{"error": {"message": "Rate limit reached", "type": "requests", "code": "rate_limit_exceeded"}}`, nil)

	model, err := NewOpenAI("sk-test", WithBaseURL(server.URL+"/v1"), WithRetryConfig(noRetry()))
	require.NoError(t, err)

	resp := model.Prompt(context.Background(), Request{Name: "x", Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	require.Error(t, resp.Error)
	assert.ErrorIs(t, resp.Error, ErrRateLimited)
	assert.False(t, IsContextWindowExceeded(resp.Error))
}

func TestOpenAINoChoices(t *testing.T) {
	server := newOpenAITestServer(t, http.StatusOK, `{"id": "chatcmpl-1", "object": "chat.completion", "choices": []}`, nil)

	model, err := NewOpenAI("sk-test", WithBaseURL(server.URL+"/v1"), WithRetryConfig(noRetry()))
	require.NoError(t, err)

	resp := model.Prompt(context.Background(), Request{Name: "x", Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	assert.ErrorIs(t, resp.Error, ErrEmptyResponse)
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	_, err := NewOpenAI("")
	assert.Error(t, err)
}

func TestNewLLM(t *testing.T) {
	env := common.Environment{OpenAIAPIKey: "sk-test", AnthropicAPIKey: "sk-ant"}

	client, err := NewLLM(common.ProviderOpenAI, "gpt-4o", env)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIModel{}, client)

	client, err = NewLLM(common.ProviderAnthropic, "claude-3.5-haiku", env)
	require.NoError(t, err)
	assert.IsType(t, &AnthropicModel{}, client)

	_, err = NewLLM("mistral", "x", env)
	assert.Error(t, err)

	_, err = NewLLM(common.ProviderOpenAI, "gpt-4o", common.Environment{})
	assert.Error(t, err)
}
