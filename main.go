package main

import (
	"os"

	"github.com/bitrise-io/bitrise-plugins-gpt2code/cmd"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/logger"
)

func main() {
	err := cmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
