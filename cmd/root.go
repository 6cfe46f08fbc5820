package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clion/config"
	"clion/constants/lipgloss"
	"clion/llm"
	"clion/providers"
	provider_contracts "clion/providers/contracts"
	"clion/token_management"
	token_contracts "clion/token_management/contracts"
)

// RootDependencies holds the wired collaborators shared by all subcommands.
type RootDependencies struct {
	Cwd                 string
	Config              *config.Config
	ContextBuilder      *llm.ContextBuilder
	SessionManager      *llm.SessionManager
	TokenManagement     token_contracts.ITokenManagement
	CurrentChatProvider provider_contracts.IChatAIProvider
}

var rootCmd = &cobra.Command{
	Use:   "clion",
	Short: "AI code assistant for C/C++ projects",
	Long: `clion is a session-based AI assistant for C/C++ projects. Prompts may
reference project files inline with '@file <path>'; referenced files are
scored for relevance and spliced into the model context as full content or a
compact summary, within a token budget and never outside the project root.`,
	Run: func(cmd *cobra.Command, args []string) {
		if versionFlag, _ := cmd.Flags().GetBool("version"); versionFlag {
			fmt.Println(config.DefaultConfig.Version)
			return
		}
		_ = cmd.Help()
	},
}

func init() {
	config.InitFlags(rootCmd)
}

// handleRootCommand loads configuration and wires the shared dependencies.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current directory: %v", err)))
		return nil
	}

	cfg := config.LoadConfigs(cmd.Root(), cwd)

	tokenManagement := token_management.NewTokenManager()

	chatProvider, err := providers.ChatProviderFactory(cfg.AIProviderConfig, tokenManagement)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return nil
	}

	sessionManager, err := llm.NewSessionManager("")
	if err != nil {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: session persistence unavailable: %v", err)))
	}

	return &RootDependencies{
		Cwd:                 cwd,
		Config:              cfg,
		ContextBuilder:      llm.NewContextBuilder(),
		SessionManager:      sessionManager,
		TokenManagement:     tokenManagement,
		CurrentChatProvider: chatProvider,
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}
