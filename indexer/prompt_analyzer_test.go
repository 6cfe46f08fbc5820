package indexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test keyword extraction: punctuation stripped, stop words and short tokens
// dropped, order-preserving de-duplication
func TestExtractKeywords(t *testing.T) {
	options := DefaultAnalysisOptions()

	keywords := extractKeywords("Refactor the Parser, refactor tokenize() and fix it!", options)

	assert.Equal(t, []string{"refactor", "parser", "tokenize", "fix"}, keywords)
}

func TestExtractKeywords_MinLength(t *testing.T) {
	options := DefaultAnalysisOptions()
	options.MinKeywordLength = 5

	keywords := extractKeywords("use long identifiers here", options)

	assert.Equal(t, []string{"identifiers"}, keywords)
}

// Test that searchable terms honor the category toggles
func TestExtractSearchableTerms_Categories(t *testing.T) {
	fileIndex := FileIndex{
		Functions: []FunctionSignature{{Name: "parseConfig"}},
		Types:     []TypeDeclaration{{Name: "TokenStream"}},
		Includes:  []string{"network/socket.h"},
	}

	options := DefaultAnalysisOptions()
	all := extractSearchableTerms(fileIndex, options)
	assert.Contains(t, all, "parseconfig")
	assert.Contains(t, all, "tokenstream")
	assert.Contains(t, all, "network")
	assert.Contains(t, all, "socket")

	options.IncludeFunctionNames = false
	options.IncludeIncludes = false
	typesOnly := extractSearchableTerms(fileIndex, options)
	assert.Equal(t, []string{"tokenstream"}, typesOnly)
}

// Test the score composition: a single exact match saturates all three
// sub-scores, normalizing to 1.0
func TestCalculateKeywordMatch_ExactSaturates(t *testing.T) {
	score := calculateKeywordMatch([]string{"parse"}, []string{"parse"})
	assert.InDelta(t, 1.0, score, 0.0001)
}

func TestCalculateKeywordMatch_NoOverlap(t *testing.T) {
	score := calculateKeywordMatch([]string{"render"}, []string{"parse"})
	assert.Equal(t, 0.0, score)
}

// Test that adding an exactly-matching prompt keyword never lowers the score
func TestAnalyzeRelevance_Monotonicity(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "parser.cpp", "void tokenize() {\n}\nvoid parse() {\n}\n")

	analyzer := NewPromptAnalyzer()
	options := DefaultAnalysisOptions()

	before := analyzer.AnalyzeRelevance("improve the renderer", path, options)
	after := analyzer.AnalyzeRelevance("improve the renderer tokenize", path, options)

	assert.GreaterOrEqual(t, after.Score, before.Score)
}

// Test the score clamp and band reasons
func TestAnalyzeRelevance_ReasonBands(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "parser.cpp", "void parse() {\n}\n")

	analyzer := NewPromptAnalyzer()
	options := DefaultAnalysisOptions()

	high := analyzer.AnalyzeRelevance("parse", path, options)
	assert.GreaterOrEqual(t, high.Score, 0.8)
	assert.Contains(t, high.Reason, "High relevance")
	require.NotEmpty(t, high.MatchedKeywords)
	assert.Contains(t, high.MatchedKeywords[0], "exact match")

	none := analyzer.AnalyzeRelevance("unrelated words entirely", path, options)
	assert.Equal(t, 0.0, none.Score)
}

// Test that analysis of a missing file degrades to a zero score
func TestAnalyzeRelevance_MissingFile(t *testing.T) {
	analyzer := NewPromptAnalyzer()

	score := analyzer.AnalyzeRelevance("parse something", t.TempDir()+"/missing.cpp", DefaultAnalysisOptions())

	assert.Equal(t, 0.0, score.Score)
	assert.Equal(t, "No searchable terms found in file", score.Reason)
}

func TestShouldIncludeFullFile(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "parser.cpp", "void parse() {\n}\n")

	analyzer := NewPromptAnalyzer()
	options := DefaultAnalysisOptions()

	assert.True(t, analyzer.ShouldIncludeFullFile("fix parse", path, options))
	assert.False(t, analyzer.ShouldIncludeFullFile("completely different topic", path, options))
}

// Test the bounded summary: counts, elision markers and determinism
func TestGenerateSummary(t *testing.T) {
	var source strings.Builder
	source.WriteString("#include <vector>\n")
	for _, name := range []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta"} {
		source.WriteString("void " + name + "() {\n}\n")
	}
	source.WriteString("class Widget {\n};\n")

	root := t.TempDir()
	path := writeFile(t, root, "many.cpp", source.String())

	analyzer := NewPromptAnalyzer()
	summary := analyzer.GenerateSummary(path)

	assert.Contains(t, summary, "// File: "+path)
	assert.Contains(t, summary, "Functions: 7 - alpha, beta, gamma, delta, epsilon ...")
	assert.Contains(t, summary, "Types: 1 - Widget")
	assert.Contains(t, summary, "Key Includes: vector")
	assert.Contains(t, summary, "Estimated content: 8 major elements")

	assert.Equal(t, summary, analyzer.GenerateSummary(path))
}
