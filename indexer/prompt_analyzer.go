package indexer

import (
	"fmt"
	"regexp"
	"strings"
)

// AnalysisOptions controls relevance scoring.
type AnalysisOptions struct {
	RelevanceThreshold   float64  `mapstructure:"relevance_threshold"`
	IncludeFunctionNames bool     `mapstructure:"include_function_names"`
	IncludeTypeNames     bool     `mapstructure:"include_type_names"`
	IncludeIncludes      bool     `mapstructure:"include_includes"`
	MinKeywordLength     int      `mapstructure:"min_keyword_length"`
	StopWords            []string `mapstructure:"stop_words"`
}

// defaultStopWords is the immutable stop-word set used when options carry
// none. Loaded once, shared read-only.
var defaultStopWords = []string{
	"the", "and", "for", "with", "that", "this", "from", "are", "was",
	"has", "have", "not", "but", "you", "all", "can", "how", "what",
	"when", "where", "which", "will", "would", "should", "could", "into",
	"its", "your", "please", "file", "code",
}

// DefaultAnalysisOptions returns the analysis configuration documented
// defaults: threshold 0.3, minimum keyword length 3, all term categories
// enabled.
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		RelevanceThreshold:   0.3,
		IncludeFunctionNames: true,
		IncludeTypeNames:     true,
		IncludeIncludes:      true,
		MinKeywordLength:     3,
		StopWords:            defaultStopWords,
	}
}

// RelevanceScore is the heuristic 0–1 overlap between a prompt's keywords and
// a file's extracted terms, with a human-readable justification.
type RelevanceScore struct {
	Score           float64
	Reason          string
	MatchedKeywords []string
}

// PromptAnalyzer decides whether a referenced file deserves full inclusion or
// a compact summary.
type PromptAnalyzer struct {
	indexer *CodeIndexer
}

// NewPromptAnalyzer initializes a new PromptAnalyzer.
func NewPromptAnalyzer() *PromptAnalyzer {
	return &PromptAnalyzer{indexer: NewCodeIndexer()}
}

// AnalyzeRelevance computes the relevance of filePath to the prompt. Any
// internal failure degrades to a zero score with an explanatory reason; it
// never returns an error, so relevance failure cannot abort context assembly.
func (analyzer *PromptAnalyzer) AnalyzeRelevance(prompt string, filePath string, options AnalysisOptions) RelevanceScore {
	score := RelevanceScore{Reason: "No relevance found"}

	promptKeywords := extractKeywords(prompt, options)
	if len(promptKeywords) == 0 {
		score.Reason = "No valid keywords found in prompt"
		return score
	}

	fileIndex := analyzer.indexer.IndexFile(filePath)
	fileTerms := extractSearchableTerms(fileIndex, options)
	if len(fileTerms) == 0 {
		score.Reason = "No searchable terms found in file"
		return score
	}

	score.Score = calculateKeywordMatch(promptKeywords, fileTerms)

	// Record matched pairs in discovery order for the explanation
	for _, keyword := range promptKeywords {
		for _, term := range fileTerms {
			if keyword == term {
				score.MatchedKeywords = append(score.MatchedKeywords,
					fmt.Sprintf("%s (exact match: %s)", keyword, term))
			} else if strings.Contains(keyword, term) || strings.Contains(term, keyword) {
				score.MatchedKeywords = append(score.MatchedKeywords,
					fmt.Sprintf("%s (partial match: %s)", keyword, term))
			}
		}
	}

	switch {
	case score.Score >= 0.8:
		score.Reason = "High relevance: strong keyword matches found"
	case score.Score >= 0.5:
		score.Reason = "Medium relevance: some keyword matches found"
	case score.Score >= 0.3:
		score.Reason = "Low relevance: weak keyword matches found"
	default:
		score.Reason = "No relevance: no significant keyword matches"
	}

	return score
}

// ShouldIncludeFullFile reports whether the file's relevance meets the
// threshold for full-content inclusion.
func (analyzer *PromptAnalyzer) ShouldIncludeFullFile(prompt string, filePath string, options AnalysisOptions) bool {
	score := analyzer.AnalyzeRelevance(prompt, filePath, options)
	return score.Score >= options.RelevanceThreshold
}

// GenerateSummary renders a bounded digest of the file: up to 5 function
// names, 3 type names and 5 include targets, plus an aggregate element count.
// Deterministic for a given index.
func (analyzer *PromptAnalyzer) GenerateSummary(filePath string) string {
	fileIndex := analyzer.indexer.IndexFile(filePath)

	var summary strings.Builder
	fmt.Fprintf(&summary, "// File: %s\n", filePath)

	if len(fileIndex.Functions) > 0 {
		fmt.Fprintf(&summary, "// Functions: %d - ", len(fileIndex.Functions))
		summary.WriteString(joinElided(functionNames(fileIndex.Functions), 5))
		summary.WriteString("\n")
	}

	if len(fileIndex.Types) > 0 {
		fmt.Fprintf(&summary, "// Types: %d - ", len(fileIndex.Types))
		summary.WriteString(joinElided(typeNames(fileIndex.Types), 3))
		summary.WriteString("\n")
	}

	if len(fileIndex.Includes) > 0 {
		fmt.Fprintf(&summary, "// Key Includes: ")
		summary.WriteString(joinElided(fileIndex.Includes, 5))
		summary.WriteString("\n")
	}

	fmt.Fprintf(&summary, "// Estimated content: %d major elements\n",
		len(fileIndex.Functions)+len(fileIndex.Types))

	return summary.String()
}

var nonIdentifier = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// extractKeywords splits text on whitespace, strips punctuation, lower-cases,
// drops short tokens and stop words, and de-duplicates preserving first-seen
// order.
func extractKeywords(text string, options AnalysisOptions) []string {
	stopWords := options.StopWords
	if stopWords == nil {
		stopWords = defaultStopWords
	}

	var keywords []string
	seen := make(map[string]bool)

	for _, word := range strings.Fields(text) {
		normalized := normalizeKeyword(word)
		if len(normalized) < options.MinKeywordLength {
			continue
		}
		if isStopWord(normalized, stopWords) || seen[normalized] {
			continue
		}
		seen[normalized] = true
		keywords = append(keywords, normalized)
	}

	return keywords
}

// extractSearchableTerms collects normalized words from the enabled index
// categories, de-duplicated in first-seen order.
func extractSearchableTerms(fileIndex FileIndex, options AnalysisOptions) []string {
	var terms []string
	seen := make(map[string]bool)

	addWords := func(name string) {
		for _, word := range splitIdentifier(name) {
			normalized := normalizeKeyword(word)
			if len(normalized) < options.MinKeywordLength || seen[normalized] {
				continue
			}
			seen[normalized] = true
			terms = append(terms, normalized)
		}
	}

	if options.IncludeFunctionNames {
		for _, function := range fileIndex.Functions {
			addWords(function.Name)
		}
	}
	if options.IncludeTypeNames {
		for _, decl := range fileIndex.Types {
			addWords(decl.Name)
		}
	}
	if options.IncludeIncludes {
		for _, include := range fileIndex.Includes {
			addWords(include)
		}
	}

	return terms
}

// calculateKeywordMatch composes the exact, partial and contains sub-scores.
// The divisor normalizes the weighted sum back into [0,1] given the maximum
// attainable total of 2.2.
func calculateKeywordMatch(promptKeywords, fileTerms []string) float64 {
	if len(promptKeywords) == 0 || len(fileTerms) == 0 {
		return 0.0
	}

	exact := matchFraction(promptKeywords, fileTerms, func(keyword, term string) bool {
		return keyword == term
	})
	partial := matchFraction(promptKeywords, fileTerms, func(keyword, term string) bool {
		return strings.Contains(keyword, term) || strings.Contains(term, keyword)
	})
	contains := matchFraction(promptKeywords, fileTerms, func(keyword, term string) bool {
		return len(keyword) >= 3 && strings.Contains(term, keyword)
	})

	score := (exact*1.0 + partial*0.7 + contains*0.5) / 2.2
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// matchFraction returns the fraction of prompt keywords for which some file
// term satisfies the predicate. Each keyword counts at most once.
func matchFraction(promptKeywords, fileTerms []string, matches func(keyword, term string) bool) float64 {
	count := 0
	for _, keyword := range promptKeywords {
		for _, term := range fileTerms {
			if matches(keyword, term) {
				count++
				break
			}
		}
	}
	return float64(count) / float64(len(promptKeywords))
}

// splitIdentifier breaks an identifier or include target into constituent
// words on non-alphanumeric boundaries.
func splitIdentifier(name string) []string {
	parts := nonIdentifier.Split(name, -1)
	var words []string
	for _, part := range parts {
		for _, word := range strings.Split(part, "_") {
			if word != "" {
				words = append(words, word)
			}
		}
	}
	return words
}

func normalizeKeyword(word string) string {
	var normalized strings.Builder
	for _, r := range word {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			normalized.WriteRune(r)
		} else if r >= 'A' && r <= 'Z' {
			normalized.WriteRune(r + ('a' - 'A'))
		}
	}
	return normalized.String()
}

func isStopWord(word string, stopWords []string) bool {
	for _, stop := range stopWords {
		if word == stop {
			return true
		}
	}
	return false
}

func functionNames(functions []FunctionSignature) []string {
	names := make([]string, len(functions))
	for i, function := range functions {
		names[i] = function.Name
	}
	return names
}

func typeNames(types []TypeDeclaration) []string {
	names := make([]string, len(types))
	for i, decl := range types {
		names[i] = decl.Name
	}
	return names
}

// joinElided joins up to max names, appending an ellipsis marker when more
// remain.
func joinElided(names []string, max int) string {
	if len(names) <= max {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:max], ", ") + " ..."
}
