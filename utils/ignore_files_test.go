package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test ignore-file parsing: comments, blanks and directory expansion
func TestParseIgnorePatterns(t *testing.T) {
	patterns := ParseIgnorePatterns("# comment\n\nbuild/\n*.o\n  \ncache.bin\n")

	assert.Equal(t, []string{"build", "build/**", "*.o", "cache.bin"}, patterns)
}

func TestGetGitignorePatterns(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("vendor/\n"), 0644))

	patterns, err := GetGitignorePatterns(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor", "vendor/**"}, patterns)
}

func TestGetGitignorePatterns_Missing(t *testing.T) {
	patterns, err := GetGitignorePatterns(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, patterns)
}

// Test glob matching against the whole path and the base name
func TestMatchesAnyPattern(t *testing.T) {
	patterns := ParseIgnorePatterns("build/\n*.tmp\n")

	assert.True(t, MatchesAnyPattern("build", patterns))
	assert.True(t, MatchesAnyPattern("build/deep/out.cpp", patterns))
	assert.True(t, MatchesAnyPattern("src/scratch.tmp", patterns))
	assert.False(t, MatchesAnyPattern("src/main.cpp", patterns))
	assert.False(t, MatchesAnyPattern("rebuild/out.cpp", patterns))
}
