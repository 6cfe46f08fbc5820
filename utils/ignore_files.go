package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GetGitignorePatterns reads and returns the patterns from the .gitignore file
// at the given root. If the file does not exist, it returns an empty pattern
// list.
func GetGitignorePatterns(root string) ([]string, error) {
	gitignorePath := filepath.Join(root, ".gitignore")

	content, err := os.ReadFile(gitignorePath)
	if os.IsNotExist(err) {
		return []string{}, nil
	} else if err != nil {
		return nil, err
	}

	return ParseIgnorePatterns(string(content)), nil
}

// ParseIgnorePatterns parses ignore-file content: blank lines and comment
// lines are skipped, a trailing "/" marks a directory pattern and is expanded
// to match all descendants.
func ParseIgnorePatterns(content string) []string {
	var patterns []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasSuffix(line, "/") {
			// Directory pattern: match the directory and everything under it
			patterns = append(patterns, strings.TrimSuffix(line, "/"))
			patterns = append(patterns, line+"**")
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// MatchesAnyPattern reports whether the relative path matches any of the
// given glob patterns, either as a whole or by base name.
func MatchesAnyPattern(relPath string, patterns []string) bool {
	relPath = filepath.ToSlash(relPath)
	base := filepath.Base(relPath)
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if matched, _ := doublestar.Match(pattern, relPath); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
