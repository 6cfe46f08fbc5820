package llm

import (
	"fmt"
	"strings"

	"clion/embed_data"
)

// GeneratePrompt combines the system template, the session history and the
// assembled context into the final prompt pair sent to the provider.
func GeneratePrompt(context string, history []string, userInput string) (finalPrompt string, userPrompt string) {
	var prompt strings.Builder

	prompt.WriteString(string(embed_data.SystemPrompt))
	prompt.WriteString("\n\n______\n")

	if len(history) > 0 {
		prompt.WriteString("## Here is the history of chats\n\n")
		prompt.WriteString(strings.Join(history, "\n---------\n\n"))
		prompt.WriteString("\n\n______\n")
	}

	if context != "" {
		prompt.WriteString("## Here is the context of the project\n\n")
		prompt.WriteString(context)
		prompt.WriteString("\n______\n")
	}

	userPrompt = fmt.Sprintf("## Here is user request\n%s", userInput)
	return prompt.String(), userPrompt
}
