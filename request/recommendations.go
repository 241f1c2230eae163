package request

// Recommendation pairs a use case with sampling values that suit it.
type Recommendation struct {
	UseCase     string
	Temperature float64
	TopP        float64
	Description string
}

// Recommendations lists sampling values for common tasks.
func Recommendations() []Recommendation {
	return []Recommendation{
		{"Code Generation", 0.2, 0.1, "Generates code that adheres to established patterns and conventions. Output is more deterministic and focused. Useful for generating syntactically correct code."},
		{"Creative Writing", 0.7, 0.8, "Generates creative and diverse text for storytelling. Output is more exploratory and less constrained by patterns."},
		{"Chatbot Responses", 0.5, 0.5, "Generates conversational responses that balance coherence and diversity. Output is more natural and engaging."},
		{"Code Comment Generation", 0.3, 0.2, "Generates code comments that are more likely to be concise and relevant. Output is more deterministic and adheres to conventions."},
		{"Data Analysis Scripting", 0.2, 0.1, "Generates data analysis scripts that are more likely to be correct and efficient. Output is more deterministic and focused."},
		{"Exploratory Code Writing", 0.6, 0.7, "Generates code that explores alternative solutions and creative approaches. Output is less constrained by established patterns."},
	}
}
