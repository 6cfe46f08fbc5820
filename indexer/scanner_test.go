package indexer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root string, relPath string, content string) string {
	t.Helper()
	path := filepath.Join(root, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// Test that only files with included extensions are returned
func TestProjectScanner_IncludeExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.cpp", "int main() { return 0; }\n")
	writeFile(t, root, "util.h", "void helper();\n")
	writeFile(t, root, "README.md", "# readme\n")
	writeFile(t, root, "notes.txt", "notes\n")

	scanner := NewProjectScanner()
	files, err := scanner.Scan(root, DefaultScanOptions())
	require.NoError(t, err)

	names := baseNames(files)
	assert.ElementsMatch(t, []string{"main.cpp", "util.h"}, names)
}

// Test that repeated scans of a static tree return the same file set
func TestProjectScanner_Idempotence(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.cpp", "int a;\n")
	writeFile(t, root, "sub/b.cpp", "int b;\n")
	writeFile(t, root, "sub/deep/c.h", "int c;\n")

	scanner := NewProjectScanner()
	options := DefaultScanOptions()

	first, err := scanner.Scan(root, options)
	require.NoError(t, err)
	second, err := scanner.Scan(root, options)
	require.NoError(t, err)

	assert.ElementsMatch(t, first, second)
	assert.Len(t, first, 3)
}

// Test that exclude patterns prune whole directories
func TestProjectScanner_ExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src.cpp", "int x;\n")
	writeFile(t, root, "build/out.cpp", "int y;\n")
	writeFile(t, root, "build/deep/gen.cpp", "int z;\n")

	scanner := NewProjectScanner()
	options := DefaultScanOptions()
	options.ExcludePatterns = []string{"build"}

	files, err := scanner.Scan(root, options)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"src.cpp"}, baseNames(files))
}

// Test .gitignore semantics: comments, blank lines and directory patterns
func TestProjectScanner_RespectsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "# generated output\n\ngenerated/\nlegacy.cpp\n")
	writeFile(t, root, "keep.cpp", "int keep;\n")
	writeFile(t, root, "legacy.cpp", "int legacy;\n")
	writeFile(t, root, "generated/gen.cpp", "int gen;\n")
	writeFile(t, root, "generated/deep/more.cpp", "int more;\n")

	scanner := NewProjectScanner()
	files, err := scanner.Scan(root, DefaultScanOptions())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"keep.cpp"}, baseNames(files))
}

// Test that gitignore rules can be switched off
func TestProjectScanner_IgnoreGitignoreWhenDisabled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "legacy.cpp\n")
	writeFile(t, root, "legacy.cpp", "int legacy;\n")

	scanner := NewProjectScanner()
	options := DefaultScanOptions()
	options.RespectGitignore = false

	files, err := scanner.Scan(root, options)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"legacy.cpp"}, baseNames(files))
}

// Test that recursion can be disabled
func TestProjectScanner_NoSubdirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "top.cpp", "int top;\n")
	writeFile(t, root, "sub/nested.cpp", "int nested;\n")

	scanner := NewProjectScanner()
	options := DefaultScanOptions()
	options.ScanSubdirectories = false

	files, err := scanner.Scan(root, options)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"top.cpp"}, baseNames(files))
}

func baseNames(paths []string) []string {
	names := make([]string, len(paths))
	for i, path := range paths {
		names[i] = filepath.Base(path)
	}
	return names
}
