package indexer

import (
	"os"
	"regexp"
	"strings"
)

// FunctionSignature is a function declaration extracted from source text.
// Extraction is regex-based and best-effort: declarations split across lines,
// templates and lambdas are missed, and macro-expanded text may misfire.
type FunctionSignature struct {
	Name       string
	ReturnType string
	Parameters []string
	File       string
	Line       int
}

// TypeDeclaration is a class or struct declaration with its base types.
type TypeDeclaration struct {
	Name      string
	BaseTypes []string
	File      string
	Line      int
}

// FileIndex is the structural metadata record for one file.
type FileIndex struct {
	Path       string
	Includes   []string
	Functions  []FunctionSignature
	Types      []TypeDeclaration
	Namespaces []string
}

// ProjectIndex maps file paths to their indexes. Keys are unique; iteration
// order is unspecified.
type ProjectIndex map[string]FileIndex

var (
	includeRegex   = regexp.MustCompile(`#\s*include\s*["<]([^">]+)[">]`)
	functionRegex  = regexp.MustCompile(`(?m)^[ \t]*([\w:~<>*&]+)[ \t]+([\w:~]+)[ \t]*\(([^)]*)\)[ \t]*(?:const[ \t]*)?\{`)
	typeRegex      = regexp.MustCompile(`(?m)\b(?:class|struct)\s+([A-Za-z_][\w:]*)\s*(?::\s*([^{;]+))?\s*\{`)
	namespaceRegex = regexp.MustCompile(`(?m)\bnamespace\s+([A-Za-z_][\w:]*)`)
)

// Control-flow keywords that the function pattern would otherwise misread as
// return types or names.
var reservedWords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "switch": true,
	"catch": true, "return": true, "do": true, "new": true, "delete": true,
	"sizeof": true, "case": true,
}

// CodeIndexer extracts structural metadata from project files. The index is
// advisory: it feeds relevance scoring and summaries, never correctness
// decisions.
type CodeIndexer struct{}

// NewCodeIndexer initializes a new CodeIndexer.
func NewCodeIndexer() *CodeIndexer {
	return &CodeIndexer{}
}

// BuildIndex maps IndexFile over the file set. The resulting key set equals
// the input set; iteration order is unspecified.
func (indexer *CodeIndexer) BuildIndex(files []string) ProjectIndex {
	index := make(ProjectIndex, len(files))
	for _, file := range files {
		index[file] = indexer.IndexFile(file)
	}
	return index
}

// IndexFile reads one file and extracts includes, function signatures, type
// declarations and namespaces. An unreadable file yields an empty index
// rather than an error.
func (indexer *CodeIndexer) IndexFile(path string) FileIndex {
	fileIndex := FileIndex{Path: path}

	content, err := os.ReadFile(path)
	if err != nil {
		return fileIndex
	}
	text := string(content)

	for _, match := range includeRegex.FindAllStringSubmatch(text, -1) {
		fileIndex.Includes = append(fileIndex.Includes, match[1])
	}

	for _, match := range functionRegex.FindAllStringSubmatchIndex(text, -1) {
		returnType := text[match[2]:match[3]]
		name := text[match[4]:match[5]]
		params := text[match[6]:match[7]]

		if reservedWords[returnType] || reservedWords[name] {
			continue
		}

		fileIndex.Functions = append(fileIndex.Functions, FunctionSignature{
			Name:       name,
			ReturnType: returnType,
			Parameters: parseParameterTypes(params),
			File:       path,
			Line:       lineOfOffset(text, match[0]),
		})
	}

	for _, match := range typeRegex.FindAllStringSubmatchIndex(text, -1) {
		decl := TypeDeclaration{
			Name: text[match[2]:match[3]],
			File: path,
			Line: lineOfOffset(text, match[0]),
		}
		if match[4] >= 0 {
			decl.BaseTypes = parseBaseTypes(text[match[4]:match[5]])
		}
		fileIndex.Types = append(fileIndex.Types, decl)
	}

	seen := make(map[string]bool)
	for _, match := range namespaceRegex.FindAllStringSubmatch(text, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			fileIndex.Namespaces = append(fileIndex.Namespaces, match[1])
		}
	}

	return fileIndex
}

// parseParameterTypes extracts the type token of each parameter, dropping the
// trailing parameter name when one is present.
func parseParameterTypes(params string) []string {
	params = strings.TrimSpace(params)
	if params == "" || params == "void" {
		return nil
	}

	var types []string
	for _, param := range strings.Split(params, ",") {
		fields := strings.Fields(strings.TrimSpace(param))
		if len(fields) == 0 {
			continue
		}
		if len(fields) > 1 {
			fields = fields[:len(fields)-1]
		}
		types = append(types, strings.Join(fields, " "))
	}
	return types
}

// parseBaseTypes splits a base clause like "public Base, private Other" into
// the bare type names.
func parseBaseTypes(clause string) []string {
	var bases []string
	for _, part := range strings.Split(clause, ",") {
		fields := strings.Fields(strings.TrimSpace(part))
		var name string
		for _, field := range fields {
			switch field {
			case "public", "private", "protected", "virtual":
				continue
			default:
				name = field
			}
		}
		if name != "" {
			bases = append(bases, name)
		}
	}
	return bases
}

func lineOfOffset(text string, offset int) int {
	return strings.Count(text[:offset], "\n") + 1
}
