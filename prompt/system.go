package prompt

import "fmt"

// GetSystemPrompt sets the persona for a file written in language.
func GetSystemPrompt(language string) string {
	return fmt.Sprintf("As a %s expert, process the source file as requested; return only source code; "+
		"any LLM commentary must be a comment per the %s standard.", language, language)
}

// GetSourceIntroPrompt precedes the file content.
func GetSourceIntroPrompt(language string) string {
	return fmt.Sprintf("[Consider following source code, understand it thoroughly %s]", language)
}
