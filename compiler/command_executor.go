package compiler

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"
)

// BuildResult holds the outcome of one build-command run.
type BuildResult struct {
	Command  string
	Output   string
	ExitCode int
	Success  bool
}

// RunBuildCommand executes the build command through the platform shell and
// captures combined stdout/stderr. A non-zero exit is reported in the result,
// not as an error; only a failure to start the process errors out.
func RunBuildCommand(ctx context.Context, command string, dir string) (*BuildResult, error) {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}
	cmd.Dir = dir

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()

	result := &BuildResult{
		Command: command,
		Output:  output.String(),
		Success: err == nil,
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			return nil, err
		}
	}

	return result, nil
}
