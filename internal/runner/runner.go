// Package runner executes the external pipeline tools and surfaces their
// output and failures in a uniform way.
package runner

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os/exec"

	"github.com/tkivisto/fewshot-go/internal/errors"
)

// stderrLimit bounds how much tool stderr is retained for error reporting.
const stderrLimit = 8192

// Script describes one external tool invocation.
type Script struct {
	Program string   // executable to run
	Args    []string // command line arguments
	Dir     string   // working directory, empty for the current one
	Env     []string // extra environment entries, appended to the parent env
}

// Runner executes scripts and streams their stdout into the logger.
type Runner struct {
	log *slog.Logger
}

// New creates a Runner logging through the given logger.
func New(log *slog.Logger) *Runner {
	return &Runner{log: log}
}

// Run executes the script and blocks until it exits. Stdout is streamed
// line by line into the logger; the stderr tail is attached to the error
// on failure.
func (r *Runner) Run(ctx context.Context, script Script) error {
	cmd := exec.CommandContext(ctx, script.Program, script.Args...)
	cmd.Dir = script.Dir
	if len(script.Env) > 0 {
		cmd.Env = append(cmd.Environ(), script.Env...)
	}

	stderrBuf := NewBoundedBuffer(stderrLimit)
	cmd.Stderr = stderrBuf

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Newf("creating stdout pipe: %w", err).
			Category(errors.CategoryCommandExecution).
			Context("program", script.Program).
			Build()
	}

	r.log.Info("starting tool", "command", cmd.String())

	if err := cmd.Start(); err != nil {
		category := errors.CategoryCommandExecution
		if ctx.Err() != nil {
			category = errors.CategoryCancellation
		}
		return errors.Newf("starting %s: %w", script.Program, err).
			Category(category).
			Context("program", script.Program).
			Build()
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		r.log.Info("tool output", "line", scanner.Text())
	}

	scanErr := scanner.Err()
	if scanErr != nil {
		// The tool keeps writing after the scanner gives up; drain the
		// pipe so it cannot block on a full buffer while we wait for it.
		_, _ = io.Copy(io.Discard, stdout)
		if errors.Is(scanErr, bufio.ErrTooLong) {
			r.log.Warn("tool output line exceeds the scanner limit, truncating",
				"program", script.Program)
			scanErr = nil
		}
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return errors.New(ctx.Err()).
				Category(errors.CategoryCancellation).
				Context("program", script.Program).
				Build()
		}

		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return errors.Newf("%s exited with code %d: %w", script.Program, exitCode, err).
			Category(errors.CategoryCommandExecution).
			Context("program", script.Program).
			Context("exit_code", exitCode).
			Context("stderr_tail", stderrBuf.String()).
			Build()
	}

	if scanErr != nil {
		return errors.Newf("reading %s output: %w", script.Program, scanErr).
			Category(errors.CategoryCommandExecution).
			Context("program", script.Program).
			Build()
	}

	return nil
}
