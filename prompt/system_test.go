package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetSystemPrompt(t *testing.T) {
	assert.Equal(t,
		"As a python expert, process the source file as requested; return only source code; any LLM commentary must be a comment per the python standard.",
		GetSystemPrompt("python"))
}

func TestGetSourceIntroPrompt(t *testing.T) {
	assert.Equal(t, "[Consider following source code, understand it thoroughly java]", GetSourceIntroPrompt("java"))
}
