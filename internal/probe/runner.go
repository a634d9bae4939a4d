package probe

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/arpsweep/internal/platform"
)

// waitDelay bounds how long Run waits for output pipes after the process
// has been killed.
const waitDelay = 500 * time.Millisecond

// Output is the captured result of one command.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner executes a platform command and captures its output.
type Runner interface {
	Run(ctx context.Context, cmd platform.Command) (Output, error)
}

// Config holds the configuration for command execution.
type Config struct {
	// Timeout is the maximum time a single command may run.
	// Default: 10 seconds
	Timeout time.Duration

	// Env is appended to the process environment. LC_ALL=C keeps tool
	// output in the layout the parsers expect.
	// Default: ["LC_ALL=C"]
	Env []string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout: 10 * time.Second,
		Env:     []string{"LC_ALL=C"},
	}
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct {
	config Config
	logger *zap.Logger
}

// NewExecRunner creates a runner with the given configuration.
func NewExecRunner(config Config, logger *zap.Logger) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{
		config: config,
		logger: logger,
	}
}

// Run executes cmd, killing it when ctx ends or the configured timeout
// passes. A non-zero exit returns both the captured Output and an
// *ExecutionError; callers that read the output of failing tools may use it.
func (r *ExecRunner) Run(ctx context.Context, cmd platform.Command) (Output, error) {
	timeoutCtx := ctx
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		timeoutCtx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(timeoutCtx, cmd.Name, cmd.Args...)
	c.WaitDelay = waitDelay
	if len(r.config.Env) > 0 {
		c.Env = append(c.Environ(), r.config.Env...)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	c.Stdout = &stdoutBuf
	c.Stderr = &stderrBuf

	start := time.Now()
	err := c.Run()
	out := Output{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
		} else {
			out.ExitCode = -1
		}
	}

	r.logger.Debug("command complete",
		zap.String("command", cmd.String()),
		zap.Int("exit_code", out.ExitCode),
		zap.Duration("duration", out.Duration),
		zap.Int("stdout_size", len(out.Stdout)),
		zap.Int("stderr_size", len(out.Stderr)),
	)

	if errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return out, &TimeoutError{
			Command: cmd.String(),
			Timeout: r.config.Timeout.String(),
		}
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return out, &ExecutionError{
			Command:  cmd.String(),
			ExitCode: out.ExitCode,
			Stdout:   out.Stdout,
			Stderr:   out.Stderr,
			Err:      err,
		}
	}
	return out, nil
}
