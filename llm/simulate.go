package llm

import (
	"context"
	"fmt"

	"github.com/bitrise-io/bitrise-plugins-gpt2code/logger"
	"gopkg.in/yaml.v3"
)

// SimulatedMarker starts every simulated response.
const SimulatedMarker = "# No calls performed"

// Simulator implements the LLM interface without any network call: it echoes
// the outgoing messages back, for dry runs.
type Simulator struct{}

func NewSimulator() *Simulator {
	return &Simulator{}
}

func (s *Simulator) Prompt(_ context.Context, req Request) Response {
	logger.Infof("Simulating %s", req.Name)
	return Response{Content: SimulatedMarker + "\nOriginal request:\n" + FormatMessages(req.Messages)}
}

// FormatMessages dumps messages as YAML for logs and simulated responses.
func FormatMessages(messages []Message) string {
	out, err := yaml.Marshal(messages)
	if err != nil {
		return fmt.Sprintf("%+v", messages)
	}
	return string(out)
}
