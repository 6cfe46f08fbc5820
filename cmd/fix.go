package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"clion/compiler"
	"clion/constants/lipgloss"
	"clion/embed_data"
	"clion/llm"
	"clion/utils"
)

// fixCmd: clion fix
var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Build the project and ask the AI to fix compiler errors.",
	Long: `The 'fix' subcommand runs the configured build command, extracts
structured compiler diagnostics from its output, and sends the failing files
and diagnostics to the AI assistant for a suggested fix.`,
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}
		handleFixCommand(rootDependencies)
	},
}

func init() {
	rootCmd.AddCommand(fixCmd)
}

func handleFixCommand(rootDependencies *RootDependencies) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	spinner, _ := pterm.DefaultSpinner.
		WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).WithRemoveWhenDone(true).
		Start(fmt.Sprintf("Running build: %s", rootDependencies.Config.BuildCommand))

	buildResult, err := compiler.RunBuildCommand(ctx, rootDependencies.Config.BuildCommand, rootDependencies.Cwd)

	spinner.Stop()
	fmt.Print("\r")

	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Failed to run build command: %v", err)))
		return
	}

	if buildResult.Success {
		fmt.Println(lipgloss.Green.Render("Build succeeded, nothing to fix."))
		return
	}

	diagnostics := compiler.ParseErrors(buildResult.Output)
	errors := compiler.FilterBySeverity(diagnostics, "error")
	if len(errors) == 0 {
		fmt.Println(lipgloss.Yellow.Render("Build failed but no structured errors were recognized; sending raw output."))
	}

	// Reference each failing file once so the assembler can inline it
	seen := make(map[string]bool)
	var prompt strings.Builder
	prompt.WriteString(string(embed_data.FixPrompt))
	prompt.WriteString("\n## Diagnostics\n\n")
	for _, diag := range diagnostics {
		fmt.Fprintf(&prompt, "%s:%d:%d: %s: %s\n", diag.FilePath, diag.Line, diag.Column, diag.Severity, diag.Message)
	}
	if len(diagnostics) == 0 {
		prompt.WriteString(buildResult.Output)
		prompt.WriteString("\n")
	}
	prompt.WriteString("\n## Referenced files\n\n")
	for _, diag := range errors {
		if diag.FilePath == "unknown" || seen[diag.FilePath] {
			continue
		}
		seen[diag.FilePath] = true
		fmt.Fprintf(&prompt, "@file %s\n", diag.FilePath)
	}

	assembled, err := rootDependencies.ContextBuilder.BuildContext(prompt.String(), rootDependencies.Cwd, rootDependencies.Config.Context)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return
	}

	finalPrompt, userPrompt := llm.GeneratePrompt(assembled, nil, "Fix the build errors above.")

	responseChan := rootDependencies.CurrentChatProvider.ChatCompletionRequest(ctx, userPrompt, finalPrompt)
	for response := range responseChan {
		if response.Err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", response.Err)))
			return
		}
		if response.Done {
			break
		}
		language := utils.DetectLanguageFromCodeBlock(response.Content)
		if err := utils.RenderAndPrintMarkdownWithContext(ctx, response.Content, language, rootDependencies.Config.Theme); err != nil {
			return
		}
	}

	rootDependencies.TokenManagement.DisplayTokens(
		rootDependencies.Config.AIProviderConfig.Provider,
		rootDependencies.Config.AIProviderConfig.Model,
	)
}
