package compiler

import (
	"regexp"
	"strconv"
)

// CompilerError is one structured diagnostic extracted from build output.
type CompilerError struct {
	FilePath string
	Line     int
	Column   int
	Severity string
	Message  string
}

var (
	// GCC/Clang format: file:line:col: severity: message
	gccRegex = regexp.MustCompile(`(?m)^(.+?):(\d+):(\d+):\s*(error|warning|note):\s*(.+)$`)

	// MSVC format: file(line[,col]): severity C####: message
	msvcRegex = regexp.MustCompile(`(?m)^(.+?)\((\d+)(?:,(\d+))?\)\s*:\s*(error|warning|info)\s*(?:C\d+)?\s*:\s*(.+)$`)

	// Linker format: undefined reference to `symbol' [in file]
	linkerRegex = regexp.MustCompile(`(?m)(undefined reference to [^\n]+?)(?:\s+in\s+(\S+))?$`)
)

// ParseErrors extracts structured diagnostics from compiler output. GCC/Clang
// format is tried first; MSVC only when nothing matched; linker errors are
// always collected.
func ParseErrors(output string) []CompilerError {
	var errors []CompilerError

	for _, match := range gccRegex.FindAllStringSubmatch(output, -1) {
		errors = append(errors, CompilerError{
			FilePath: match[1],
			Line:     atoi(match[2]),
			Column:   atoi(match[3]),
			Severity: match[4],
			Message:  match[5],
		})
	}

	if len(errors) == 0 {
		for _, match := range msvcRegex.FindAllStringSubmatch(output, -1) {
			errors = append(errors, CompilerError{
				FilePath: match[1],
				Line:     atoi(match[2]),
				Column:   atoi(match[3]),
				Severity: match[4],
				Message:  match[5],
			})
		}
	}

	for _, match := range linkerRegex.FindAllStringSubmatch(output, -1) {
		filePath := "unknown"
		if match[2] != "" {
			filePath = match[2]
		}
		errors = append(errors, CompilerError{
			FilePath: filePath,
			Severity: "error",
			Message:  match[1],
		})
	}

	return errors
}

// FilterBySeverity returns the diagnostics carrying the given severity.
func FilterBySeverity(errors []CompilerError, severity string) []CompilerError {
	var filtered []CompilerError
	for _, err := range errors {
		if err.Severity == severity {
			filtered = append(filtered, err)
		}
	}
	return filtered
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
