package indexer

import (
	"io/fs"
	"log"
	"path/filepath"
	"strings"

	"clion/utils"
)

// ScanOptions configures a project scan. The zero value scans nothing useful;
// use DefaultScanOptions as a starting point.
type ScanOptions struct {
	IncludeExtensions  []string `mapstructure:"include_extensions"`
	ExcludePatterns    []string `mapstructure:"exclude_patterns"`
	RespectGitignore   bool     `mapstructure:"respect_gitignore"`
	ScanSubdirectories bool     `mapstructure:"scan_subdirectories"`
}

// DefaultScanOptions returns the scan configuration for a typical C/C++ tree.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		IncludeExtensions:  []string{".cpp", ".h", ".hpp", ".cc", ".cxx", ".c"},
		ExcludePatterns:    []string{"build/*", "vendor/*"},
		RespectGitignore:   true,
		ScanSubdirectories: true,
	}
}

// ProjectScanner walks a project tree and yields the files eligible for
// indexing or inclusion.
type ProjectScanner struct{}

// NewProjectScanner initializes a new ProjectScanner.
func NewProjectScanner() *ProjectScanner {
	return &ProjectScanner{}
}

// Scan walks root and returns the absolute paths of all regular files whose
// extension is included and whose root-relative path is not excluded by an
// exclude pattern or (when enabled) a .gitignore pattern. Traversal errors in
// one subtree are logged and skipped; they never fail the whole scan. The
// returned slice carries no ordering guarantee.
func (scanner *ProjectScanner) Scan(root string, options ScanOptions) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var ignorePatterns []string
	if options.RespectGitignore {
		ignorePatterns, err = utils.GetGitignorePatterns(absRoot)
		if err != nil {
			log.Printf("Warning: failed to read .gitignore: %v", err)
			ignorePatterns = nil
		}
	}

	var files []string

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Permission failure or a race on deletion: skip this
			// subtree and keep scanning the rest.
			log.Printf("Warning: error scanning %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path == absRoot {
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if !options.ScanSubdirectories {
				return filepath.SkipDir
			}
			// Prune excluded directories instead of descending
			if utils.MatchesAnyPattern(relPath, options.ExcludePatterns) ||
				utils.MatchesAnyPattern(relPath, ignorePatterns) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if !extensionIncluded(relPath, options.IncludeExtensions) {
			return nil
		}

		if utils.MatchesAnyPattern(relPath, options.ExcludePatterns) {
			return nil
		}
		if utils.MatchesAnyPattern(relPath, ignorePatterns) {
			return nil
		}

		files = append(files, path)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// extensionIncluded reports whether the path carries one of the included
// extensions. An empty extension list includes everything.
func extensionIncluded(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
