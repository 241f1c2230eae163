package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for the failure modes the gateway tells apart.
// These can be checked with errors.Is().
var (
	// ErrContextWindowExceeded means the request does not fit the model; retrying cannot help.
	ErrContextWindowExceeded = errors.New("llm: context window exceeded")

	// ErrRateLimited indicates the provider's rate limit has been exceeded.
	ErrRateLimited = errors.New("llm: rate limit exceeded")

	// ErrProviderUnavailable indicates the provider service is down or unreachable.
	ErrProviderUnavailable = errors.New("llm: provider unavailable")

	// ErrInvalidAPIKey indicates the API key is missing, malformed, or unauthorized.
	ErrInvalidAPIKey = errors.New("llm: invalid API key")

	// ErrEmptyResponse indicates a successful call that carried no completion.
	ErrEmptyResponse = errors.New("llm: response contained no choices")
)

// ErrorKind is the structured classification a backend attaches to its errors.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindContextOverflow
	KindRateLimit
	KindUnavailable
	KindAuth
)

func (k ErrorKind) String() string {
	switch k {
	case KindContextOverflow:
		return "context_overflow"
	case KindRateLimit:
		return "rate_limit"
	case KindUnavailable:
		return "unavailable"
	case KindAuth:
		return "auth"
	}
	return "unknown"
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindContextOverflow:
		return ErrContextWindowExceeded
	case KindRateLimit:
		return ErrRateLimited
	case KindUnavailable:
		return ErrProviderUnavailable
	case KindAuth:
		return ErrInvalidAPIKey
	}
	return nil
}

// ProviderError represents an error from the underlying provider API.
type ProviderError struct {
	Provider   string    // The provider name
	StatusCode int       // HTTP status code (if applicable)
	Message    string    // Error message from provider
	Kind       ErrorKind // Classification used by the gateway
	Err        error     // The SDK error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider '%s' error (status %d, %s): %s", e.Provider, e.StatusCode, e.Kind, e.Message)
	}
	return fmt.Sprintf("provider '%s' error (%s): %s", e.Provider, e.Kind, e.Message)
}

// Unwrap exposes both the kind's sentinel and the SDK error.
func (e *ProviderError) Unwrap() []error {
	var errs []error
	if sentinel := e.Kind.sentinel(); sentinel != nil {
		errs = append(errs, sentinel)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// ContextWindowExceededError is returned by the gateway when a request is too big
// for the model. It is never retried.
type ContextWindowExceededError struct {
	Request string
	Err     error
}

func (e *ContextWindowExceededError) Error() string {
	return fmt.Sprintf("%s: it seems your request is too big: %v", e.Request, e.Err)
}

func (e *ContextWindowExceededError) Unwrap() error {
	return e.Err
}

// IsContextWindowExceeded checks if an error signals a context window overflow.
func IsContextWindowExceeded(err error) bool {
	return errors.Is(err, ErrContextWindowExceeded)
}

// KindOf returns the classification carried by err, KindUnknown when there is none.
func KindOf(err error) ErrorKind {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Kind
	}
	return KindUnknown
}

func kindFromStatus(statusCode int) ErrorKind {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return KindAuth
	case statusCode == http.StatusTooManyRequests:
		return KindRateLimit
	case statusCode == http.StatusRequestEntityTooLarge:
		return KindContextOverflow
	case statusCode >= http.StatusInternalServerError:
		return KindUnavailable
	}
	return KindUnknown
}

// Phrases providers use in the error body when the prompt does not fit.
var contextOverflowPhrases = []string{
	"context_length_exceeded",
	"maximum context length",
	"context window",
	"prompt is too long",
	"too many tokens",
}

func mentionsContextOverflow(message string) bool {
	message = strings.ToLower(message)
	for _, phrase := range contextOverflowPhrases {
		if strings.Contains(message, phrase) {
			return true
		}
	}
	return false
}
