package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bitrise-io/bitrise-plugins-gpt2code/logger"
)

// Instruction accepts either a JSON string or an array of strings joined by a space.
type Instruction string

func (i *Instruction) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*i = Instruction(single)
		return nil
	}

	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("request must be a string or a list of strings: %w", err)
	}
	*i = Instruction(strings.Join(parts, " "))
	return nil
}

// Entry is one element of the external code requests file.
type Entry struct {
	Name            string      `json:"request_name"`
	Instruction     Instruction `json:"request"`
	Temperature     *float64    `json:"temperature,omitempty"`
	TopP            *float64    `json:"top_p,omitempty"`
	FileExtension   *string     `json:"file_extension,omitempty"`
	ForceFullOutput *bool       `json:"force_full_output,omitempty"`
	CommentString   *string     `json:"comment_string,omitempty"`
}

func (e Entry) toRequest() (Request, error) {
	if strings.TrimSpace(e.Name) == "" {
		return Request{}, errors.New("request_name is required")
	}
	if strings.TrimSpace(string(e.Instruction)) == "" {
		return Request{}, fmt.Errorf("%s: request is required", e.Name)
	}

	req := Request{
		Name:            e.Name,
		Instruction:     string(e.Instruction),
		Temperature:     DefaultTemperature,
		TopP:            DefaultTopP,
		OutputExtension: e.FileExtension,
		FullOutput:      e.ForceFullOutput,
		CommentString:   e.CommentString,
	}
	if e.Temperature != nil {
		req.Temperature = *e.Temperature
	}
	if e.TopP != nil {
		req.TopP = *e.TopP
	}
	if !ValidSampling(req.Temperature) {
		return Request{}, fmt.Errorf("%s: temperature %v is outside [0,1]", e.Name, req.Temperature)
	}
	if !ValidSampling(req.TopP) {
		return Request{}, fmt.Errorf("%s: top_p %v is outside [0,1]", e.Name, req.TopP)
	}
	return req, nil
}

// LoadExternalFile reads the JSON array at path. An empty path or a path that
// is not a regular file yields no entries; malformed content is an error.
func LoadExternalFile(path string) ([]Entry, error) {
	if path == "" {
		return nil, nil
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		logger.Warnf("File %s could not be opened.", path)
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	logger.Infof("File %s was read.", path)
	return entries, nil
}
