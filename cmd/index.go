package cmd

import (
	"fmt"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"clion/constants/lipgloss"
	"clion/indexer"
)

// indexCmd: clion index
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Scan the project and print the structural index.",
	Long: `The 'index' subcommand walks the project tree, applies the include,
exclude and .gitignore rules, and prints the extracted structural metadata
(includes, function signatures, type declarations) for every eligible file.
The index is rebuilt on every run; nothing is cached.`,
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}
		handleIndexCommand(rootDependencies)
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func handleIndexCommand(rootDependencies *RootDependencies) {
	spinner, _ := pterm.DefaultSpinner.
		WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).WithRemoveWhenDone(true).
		Start("Scanning project...")

	scanner := indexer.NewProjectScanner()
	files, err := scanner.Scan(rootDependencies.Cwd, rootDependencies.Config.Scan)

	spinner.Stop()
	fmt.Print("\r")

	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return
	}

	codeIndexer := indexer.NewCodeIndexer()
	projectIndex := codeIndexer.BuildIndex(files)

	// Map iteration order is unspecified; sort for stable output
	paths := make([]string, 0, len(projectIndex))
	for path := range projectIndex {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	analyzer := indexer.NewPromptAnalyzer()
	for _, path := range paths {
		fmt.Print(analyzer.GenerateSummary(path))
		fmt.Println()
	}

	fmt.Println(lipgloss.BoxStyle.Render(fmt.Sprintf("Indexed %d files", len(projectIndex))))
}
