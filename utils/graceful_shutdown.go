package utils

import (
	"context"
	"fmt"

	"clion/constants/lipgloss"
)

// GracefulShutdown waits for the context to be cancelled and runs the given
// cleanup callbacks before the process exits.
func GracefulShutdown(ctx context.Context, cancel context.CancelFunc, cleanups ...func()) {
	<-ctx.Done()

	for _, cleanup := range cleanups {
		if cleanup != nil {
			cleanup()
		}
	}

	fmt.Println(lipgloss.Yellow.Render("\nExiting..."))
	cancel()
}
