package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"clion/constants/lipgloss"
	"clion/llm"
	"clion/utils"
)

// codeCmd: clion code
var codeCmd = &cobra.Command{
	Use:   "code",
	Short: "Run the AI-powered code assistant within a session.",
	Long: `The 'code' subcommand starts an interactive session with the AI assistant.
Prompts may reference project files with '@file <path>'; each referenced file
is resolved inside the project root, scored for relevance against the prompt,
and included as full content or a compact summary within the token budget.`,
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}
		handleCodeCommand(rootDependencies)
	},
}

func init() {
	rootCmd.AddCommand(codeCmd)
}

func handleCodeCommand(rootDependencies *RootDependencies) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	session := rootDependencies.SessionManager.NewSession()

	go utils.GracefulShutdown(ctx, cancel, func() {
		saveSession(rootDependencies, session)
		rootDependencies.TokenManagement.ClearToken()
	})

	reader := bufio.NewReader(os.Stdin)

	fmt.Println(lipgloss.BoxStyle.Render("/help  Help for code subcommand"))

	for {
		select {
		case <-ctx.Done():
			return

		default:
			userInput, err := utils.InputPromptWithContext(ctx, reader)
			if err != nil {
				if err == context.Canceled {
					return
				}
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
				continue
			}

			if userInput == "" {
				continue
			}

			if handled, exit := findCodeSubCommand(userInput, rootDependencies, session); handled {
				continue
			} else if exit {
				saveSession(rootDependencies, session)
				return
			}

			spinnerAssemble, _ := pterm.DefaultSpinner.
				WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
				WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
				WithDelay(100).WithRemoveWhenDone(true).
				Start("Assembling context...")

			// Resolve @file directives against the project root
			assembled, err := rootDependencies.ContextBuilder.BuildContext(userInput, rootDependencies.Cwd, rootDependencies.Config.Context)

			spinnerAssemble.Stop()
			fmt.Print("\r")

			if err != nil {
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
				continue
			}

			finalPrompt, userPrompt := llm.GeneratePrompt(assembled, session.History(), userInput)

			if err := streamChatResponse(ctx, rootDependencies, session, userInput, userPrompt, finalPrompt); err != nil {
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			}

			rootDependencies.TokenManagement.DisplayTokens(
				rootDependencies.Config.AIProviderConfig.Provider,
				rootDependencies.Config.AIProviderConfig.Model,
			)
		}
	}
}

// streamChatResponse sends the prompt to the provider and renders the
// streamed answer.
func streamChatResponse(ctx context.Context, rootDependencies *RootDependencies, session *llm.Session, userInput string, userPrompt string, finalPrompt string) error {
	aiSpinner, _ := pterm.DefaultSpinner.
		WithStyle(pterm.NewStyle(pterm.FgCyan)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).WithRemoveWhenDone(true).
		Start("Thinking...")

	responseChan := rootDependencies.CurrentChatProvider.ChatCompletionRequest(ctx, userPrompt, finalPrompt)

	var responseBuilder strings.Builder
	firstResponse := true

	for response := range responseChan {
		if response.Err != nil {
			aiSpinner.Stop()
			return response.Err
		}

		if response.Done {
			if firstResponse {
				aiSpinner.Stop()
			}
			session.AddEntry("user", userInput)
			session.AddEntry("assistant", responseBuilder.String())
			saveSession(rootDependencies, session)
			return nil
		}

		if firstResponse && response.Content != "" {
			aiSpinner.Stop()
			fmt.Print("\n")
			firstResponse = false
		}

		responseBuilder.WriteString(response.Content)

		language := utils.DetectLanguageFromCodeBlock(response.Content)
		if err := utils.RenderAndPrintMarkdownWithContext(ctx, response.Content, language, rootDependencies.Config.Theme); err != nil {
			if err == context.Canceled {
				return fmt.Errorf("output cancelled by user")
			}
			return fmt.Errorf("error rendering markdown: %v", err)
		}
	}

	return nil
}

func saveSession(rootDependencies *RootDependencies, session *llm.Session) {
	if rootDependencies.SessionManager == nil || len(session.Entries) == 0 {
		return
	}
	if err := rootDependencies.SessionManager.Save(session); err != nil {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: failed to save session: %v", err)))
	}
}

func findCodeSubCommand(command string, rootDependencies *RootDependencies, session *llm.Session) (handled bool, exit bool) {
	switch command {
	case "/help":
		helps := "/clear  Clear screen\n/exit  Exit from clion\n/token  Token information\n/clear-token  Clear token from session\n/clear-history  Clear history of chat from session\n/sessions  List saved sessions"
		fmt.Println(lipgloss.BoxStyle.Render(helps))
		return true, false
	case "/clear":
		fmt.Print("\033[2J\033[H")
		return true, false
	case "/exit":
		return false, true
	case "/token":
		rootDependencies.TokenManagement.DisplayTokens(
			rootDependencies.Config.AIProviderConfig.Provider,
			rootDependencies.Config.AIProviderConfig.Model,
		)
		return true, false
	case "/clear-token":
		rootDependencies.TokenManagement.ClearToken()
		return true, false
	case "/clear-history":
		session.ClearHistory()
		return true, false
	case "/sessions":
		if rootDependencies.SessionManager == nil {
			fmt.Println(lipgloss.Yellow.Render("Session persistence unavailable."))
			return true, false
		}
		ids, err := rootDependencies.SessionManager.List()
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			return true, false
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return true, false
	default:
		return false, false
	}
}
