package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

var codeBlockLanguage = regexp.MustCompile("^```([a-zA-Z0-9+#-]+)")

// DetectLanguageFromCodeBlock returns the language tag of the first fenced
// code block in the chunk, or "markdown" when none is present.
func DetectLanguageFromCodeBlock(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if matches := codeBlockLanguage.FindStringSubmatch(strings.TrimSpace(line)); matches != nil {
			return matches[1]
		}
	}
	return "markdown"
}

// RenderAndPrintMarkdownWithContext renders streamed model output to the
// terminal with syntax highlighting, checking for cancellation between lines.
func RenderAndPrintMarkdownWithContext(ctx context.Context, content string, language string, theme string) error {
	for _, line := range strings.Split(content, "\n") {
		select {
		case <-ctx.Done():
			fmt.Println()
			return ctx.Err()
		default:
		}

		var buf bytes.Buffer
		if err := quick.Highlight(&buf, line+"\n", language, "terminal256", theme); err != nil {
			// Highlighting is cosmetic; fall back to plain output
			fmt.Fprintln(os.Stdout, line)
			continue
		}
		fmt.Print(buf.String())
	}

	return nil
}
