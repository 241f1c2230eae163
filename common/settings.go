package common

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bitrise-io/bitrise-plugins-gpt2code/logger"
	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	DefaultModelName = "llama3-70b"
)

// SettingsFileNames are looked up in the working directory, then below it.
var SettingsFileNames = []string{"gpt2code.yml", "gpt2code.yaml"}

type HTTPRetry struct {
	RetryMax     int           `yaml:"retry_max"`
	RetryWaitMin time.Duration `yaml:"retry_wait_min"`
	RetryWaitMax time.Duration `yaml:"retry_wait_max"`
}

type LLM struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
	// APITimeout bounds a single HTTP exchange, in seconds. Zero disables it.
	APITimeout int       `yaml:"api_timeout"`
	HTTPRetry  HTTPRetry `yaml:"http_retry"`
}

type Walk struct {
	ExcludeDirectories []string `yaml:"exclude_directories"`
}

type Settings struct {
	Language string `yaml:"language"`
	LLM      LLM    `yaml:"llm"`
	Walk     Walk   `yaml:"walk"`
}

func WithDefaultSettings() Settings {
	retry := DefaultRetryConfig()
	return Settings{
		LLM: LLM{
			Provider:  ProviderOpenAI,
			Model:     DefaultModelName,
			MaxTokens: 4000,
			HTTPRetry: HTTPRetry{
				RetryMax:     retry.RetryMax,
				RetryWaitMin: retry.RetryWaitMin,
				RetryWaitMax: retry.RetryWaitMax,
			},
		},
		Walk: Walk{
			ExcludeDirectories: []string{".git"},
		},
	}
}

// WithYamlFile returns the default settings overlaid with a settings file.
// An explicit path must exist and parse; without one the working directory
// tree is searched and a missing file is not an error.
func WithYamlFile(path string) (Settings, error) {
	settings := WithDefaultSettings()

	if path == "" {
		path = findSettingsFile(".")
		if path == "" {
			logger.Debugf("No settings file found in the current directory or subdirectories. Using default settings.")
			return settings, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	logger.Infof("Using settings from YAML file: %s", path)
	return settings, nil
}

func findSettingsFile(root string) string {
	for _, name := range SettingsFileNames {
		candidate := filepath.Join(root, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}

	var found string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found != "" {
			return filepath.SkipAll
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		for _, name := range SettingsFileNames {
			if d.Name() == name {
				found = path
				return filepath.SkipAll
			}
		}
		return nil
	})
	return found
}
