package llm

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"clion/indexer"
	"clion/utils"
)

// inclusionPattern matches @file <path> directives. Any occurrence of the
// marker followed by a path-like token is treated as a directive, even inside
// prose; no escaping mechanism is defined.
var inclusionPattern = regexp.MustCompile(`@file\s+(\S+)`)

// FileInclusion is one directive match inside a prompt.
type FileInclusion struct {
	FilePath  string
	Start     int
	End       int
	FullMatch string
}

// ContextOptions configures context assembly for one request.
type ContextOptions struct {
	MaxContextSize             int      `mapstructure:"max_context_size"`
	IncludeLineNumbers         bool     `mapstructure:"include_line_numbers"`
	FileHeaderFormat           string   `mapstructure:"file_header_format"`
	TruncateLargeFiles         bool     `mapstructure:"truncate_large_files"`
	TruncateThreshold          int      `mapstructure:"truncate_threshold"`
	ExcludePatterns            []string `mapstructure:"exclude_patterns"`
	EnableIntelligentSelection bool     `mapstructure:"enable_intelligent_selection"`
	ShowRelevanceInfo          bool     `mapstructure:"show_relevance_info"`

	Analysis indexer.AnalysisOptions `mapstructure:"analysis"`
}

// DefaultContextOptions returns the documented defaults.
func DefaultContextOptions() ContextOptions {
	return ContextOptions{
		MaxContextSize:             8192,
		IncludeLineNumbers:         true,
		FileHeaderFormat:           "// File: {path}\n",
		TruncateLargeFiles:         true,
		EnableIntelligentSelection: false,
		Analysis:                   indexer.DefaultAnalysisOptions(),
	}
}

// ContextBuilder splices referenced file content into prompts within a token
// budget, never escaping the project root.
type ContextBuilder struct {
	analyzer *indexer.PromptAnalyzer
}

// NewContextBuilder initializes a new ContextBuilder.
func NewContextBuilder() *ContextBuilder {
	return &ContextBuilder{analyzer: indexer.NewPromptAnalyzer()}
}

// BuildContext replaces every @file directive in prompt with file content, a
// summary, or an inline error/warning marker. Per-directive failures never
// abort assembly; all non-directive text is preserved verbatim.
func (builder *ContextBuilder) BuildContext(prompt string, projectRoot string, options ContextOptions) (string, error) {
	inclusions := builder.ExtractFileInclusions(prompt)
	if len(inclusions) == 0 {
		return prompt, nil
	}

	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project root: %w", err)
	}

	// Matches come back in ascending offset order; assemble the output by
	// copying the segments between them into a fresh buffer instead of
	// shifting the original string per replacement.
	sort.Slice(inclusions, func(i, j int) bool {
		return inclusions[i].Start < inclusions[j].Start
	})

	var result strings.Builder
	last := 0
	for _, inclusion := range inclusions {
		result.WriteString(prompt[last:inclusion.Start])
		result.WriteString(builder.renderInclusion(prompt, absRoot, inclusion, options))
		last = inclusion.End
	}
	result.WriteString(prompt[last:])

	return result.String(), nil
}

// ExtractFileInclusions scans the prompt for directive matches, recording the
// exact span and the referenced path of each.
func (builder *ContextBuilder) ExtractFileInclusions(prompt string) []FileInclusion {
	var inclusions []FileInclusion
	for _, match := range inclusionPattern.FindAllStringSubmatchIndex(prompt, -1) {
		inclusions = append(inclusions, FileInclusion{
			FilePath:  prompt[match[2]:match[3]],
			Start:     match[0],
			End:       match[1],
			FullMatch: prompt[match[0]:match[1]],
		})
	}
	return inclusions
}

// renderInclusion resolves one directive to its replacement text.
func (builder *ContextBuilder) renderInclusion(prompt string, absRoot string, inclusion FileInclusion, options ContextOptions) string {
	resolvedPath := resolvePath(inclusion.FilePath, absRoot)

	if !isPathAllowed(resolvedPath, absRoot) {
		return fmt.Sprintf("// Error: File '%s' is outside project directory or access denied", inclusion.FilePath)
	}

	if shouldExcludeFile(resolvedPath, absRoot, options.ExcludePatterns) {
		return fmt.Sprintf("// Warning: File '%s' matches exclude pattern", inclusion.FilePath)
	}

	if options.EnableIntelligentSelection {
		return builder.renderWithRelevance(prompt, resolvedPath, inclusion, options)
	}

	content, err := builder.readFileWithFormatting(resolvedPath, options)
	if err != nil {
		return fmt.Sprintf("// Error reading file '%s': %v", inclusion.FilePath, err)
	}
	return builder.truncateIfNeeded(content, resolvedPath, options)
}

// renderWithRelevance lets the analyzer pick full content or a summary.
func (builder *ContextBuilder) renderWithRelevance(prompt string, resolvedPath string, inclusion FileInclusion, options ContextOptions) string {
	score := builder.analyzer.AnalyzeRelevance(prompt, resolvedPath, options.Analysis)

	if score.Score >= options.Analysis.RelevanceThreshold {
		content, err := builder.readFileWithFormatting(resolvedPath, options)
		if err != nil {
			return fmt.Sprintf("// Error reading file '%s': %v", inclusion.FilePath, err)
		}
		content = builder.truncateIfNeeded(content, resolvedPath, options)
		if options.ShowRelevanceInfo {
			content = formatRelevanceInfo(score, resolvedPath) + "\n" + content
		}
		return content
	}

	content := builder.analyzer.GenerateSummary(resolvedPath)
	if options.ShowRelevanceInfo {
		content = formatRelevanceInfo(score, resolvedPath) + "\n" + content
	}
	content += "\n// Note: File summary shown instead of full content due to low relevance score.\n"
	content += fmt.Sprintf("// Use @file %s --force to include full file if needed.\n", inclusion.FilePath)
	return content
}

// readFileWithFormatting renders the header and the file body, numbering
// lines when configured and guaranteeing a trailing newline otherwise.
func (builder *ContextBuilder) readFileWithFormatting(path string, options ContextOptions) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var result strings.Builder
	result.WriteString(strings.ReplaceAll(options.FileHeaderFormat, "{path}", path))

	text := string(content)
	if options.IncludeLineNumbers {
		lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
		for i, line := range lines {
			fmt.Fprintf(&result, "%d | %s\n", i+1, line)
		}
	} else {
		result.WriteString(text)
		if !strings.HasSuffix(text, "\n") {
			result.WriteString("\n")
		}
	}

	return result.String(), nil
}

// truncateIfNeeded applies head/tail truncation when the formatted content's
// estimated token count exceeds the budget.
func (builder *ContextBuilder) truncateIfNeeded(content string, path string, options ContextOptions) string {
	if !options.TruncateLargeFiles {
		return content
	}
	threshold := options.TruncateThreshold
	if threshold <= 0 {
		threshold = options.MaxContextSize
	}
	if EstimateTokenCount(content) <= threshold {
		return content
	}
	return truncateFile(content, options.MaxContextSize, path)
}

// truncateFile keeps a head and tail segment of the formatted content, sized
// from a rough 50-characters-per-line estimate, with a single omission marker
// between them. keepLines may be zero: a tiny budget elides the whole body,
// leaving only the markers, so the output always shrinks and the omission
// count stays positive.
func truncateFile(content string, maxSize int, path string) string {
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	totalLines := len(lines)

	keepLines := maxSize / 50
	if keepLines >= totalLines {
		return content
	}

	startLines := keepLines / 2
	endLines := keepLines - startLines

	var result strings.Builder
	fmt.Fprintf(&result, "// File truncated: showing %d of %d lines\n", keepLines, totalLines)
	fmt.Fprintf(&result, "// File: %s\n\n", path)

	for _, line := range lines[:startLines] {
		result.WriteString(line)
		result.WriteString("\n")
	}

	fmt.Fprintf(&result, "\n// ... %d lines omitted ...\n\n", totalLines-keepLines)

	for _, line := range lines[totalLines-endLines:] {
		result.WriteString(line)
		result.WriteString("\n")
	}

	return result.String()
}

// EstimateTokenCount approximates tokens as one per four characters, rounded
// up. A fixed deterministic approximation, not a real tokenizer.
func EstimateTokenCount(text string) int {
	return (len(text) + 3) / 4
}

// resolvePath resolves a directive path against the project root and
// normalizes it lexically; the file need not exist for this step.
func resolvePath(path string, absRoot string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(absRoot, path))
}

// isPathAllowed reports whether the resolved path stays inside the project
// root and refers to an existing regular file.
func isPathAllowed(resolvedPath string, absRoot string) bool {
	rel, err := filepath.Rel(absRoot, resolvedPath)
	if err != nil {
		return false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}

	info, err := os.Stat(resolvedPath)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// shouldExcludeFile checks the resolved path against the exclude patterns by
// exact name, exact path, or glob.
func shouldExcludeFile(resolvedPath string, absRoot string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	relPath := resolvedPath
	if rel, err := filepath.Rel(absRoot, resolvedPath); err == nil {
		relPath = rel
	}
	filename := filepath.Base(resolvedPath)

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if pattern == filename || pattern == resolvedPath || pattern == relPath {
			return true
		}
		if utils.MatchesAnyPattern(relPath, []string{pattern}) {
			return true
		}
	}
	return false
}

// formatRelevanceInfo renders the relevance diagnostics shown inline when
// requested.
func formatRelevanceInfo(score indexer.RelevanceScore, path string) string {
	var info strings.Builder
	fmt.Fprintf(&info, "// Relevance Analysis for: %s\n", path)
	fmt.Fprintf(&info, "// Score: %.2f - %s\n", score.Score, score.Reason)
	if len(score.MatchedKeywords) > 0 {
		fmt.Fprintf(&info, "// Matched keywords: %s\n", strings.Join(score.MatchedKeywords, ", "))
	}
	return info.String()
}
