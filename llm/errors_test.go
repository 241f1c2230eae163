package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderErrorUnwrap(t *testing.T) {
	sdkErr := errors.New("sdk failure")
	err := fmt.Errorf("wrapped: %w", &ProviderError{Provider: "openai", StatusCode: 429, Message: "slow down", Kind: KindRateLimit, Err: sdkErr})

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.ErrorIs(t, err, sdkErr)
	assert.False(t, IsContextWindowExceeded(err))
	assert.Equal(t, KindRateLimit, KindOf(err))
	assert.Contains(t, err.Error(), "status 429")
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("x")))
	assert.Equal(t, "unknown", KindUnknown.String())
	assert.Equal(t, "context_overflow", KindContextOverflow.String())
}

func TestKindFromStatus(t *testing.T) {
	tests := map[int]ErrorKind{
		400: KindUnknown,
		401: KindAuth,
		403: KindAuth,
		413: KindContextOverflow,
		429: KindRateLimit,
		500: KindUnavailable,
		503: KindUnavailable,
	}
	for status, want := range tests {
		assert.Equal(t, want, kindFromStatus(status), "status %d", status)
	}
}

func TestMentionsContextOverflow(t *testing.T) {
	assert.True(t, mentionsContextOverflow("This model's maximum context length is 8192 tokens."))
	assert.True(t, mentionsContextOverflow("prompt is too long: 210000 tokens > 200000 maximum"))
	assert.False(t, mentionsContextOverflow("Rate limit reached"))
}

func TestContextWindowExceededError(t *testing.T) {
	err := &ContextWindowExceededError{Request: "Create Unittests", Err: &ProviderError{Provider: "openai", Kind: KindContextOverflow}}

	assert.True(t, IsContextWindowExceeded(err))
	assert.Contains(t, err.Error(), "Create Unittests: it seems your request is too big")
}
