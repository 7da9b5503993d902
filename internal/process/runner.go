package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// Defaults applied to zero-valued Config fields.
const (
	defaultGracefulTimeout = 5 * time.Second
	defaultOutputLimit     = 64 << 10
)

// Config describes a single run of an external program.
type Config struct {
	// Name is a human-readable identifier for logging.
	Name string

	// Binary is the executable, either absolute or resolved via PATH.
	Binary string

	// Args are command-line arguments to pass to the binary.
	Args []string

	// Env are additional environment variables (key=value format),
	// appended to the parent environment. If nil, the parent's is inherited.
	Env []string

	// WorkDir is the working directory for the process.
	// If empty, inherits from parent process.
	WorkDir string

	// Timeout bounds the whole run. Zero means no limit beyond ctx.
	Timeout time.Duration

	// GracefulTimeout is how long to wait after SIGTERM before SIGKILL.
	GracefulTimeout time.Duration

	// OutputLimit caps the captured combined stdout/stderr. Only the most
	// recent bytes are kept.
	OutputLimit int
}

// Result describes a completed run.
type Result struct {
	ExitCode int
	Output   []byte
	Duration time.Duration
}

// Logger defines the logging interface for the runner.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Runner executes programs to completion.
// A Runner is safe for concurrent use; each Run owns its own process.
type Runner struct {
	logger Logger
}

// NewRunner creates a Runner that logs nowhere until SetLogger is called.
func NewRunner() *Runner {
	return &Runner{logger: noopLogger{}}
}

// SetLogger sets the logger for the runner.
func (r *Runner) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	r.logger = logger
}

// Run executes cfg with a silent Runner.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	return NewRunner().Run(ctx, cfg)
}

// Run starts the program and waits for it to exit.
//
// The child is placed in its own process group. When the timeout fires or
// ctx is cancelled, the whole group receives SIGTERM, then SIGKILL after
// GracefulTimeout.
//
// Returns:
//   - *Result: Always non-nil once the process has started
//   - error: *ExitError on non-zero exit, ErrTimeout, ctx.Err(), or ErrNotFound
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.GracefulTimeout <= 0 {
		cfg.GracefulTimeout = defaultGracefulTimeout
	}
	if cfg.OutputLimit <= 0 {
		cfg.OutputLimit = defaultOutputLimit
	}
	if cfg.Name == "" {
		cfg.Name = cfg.Binary
	}

	path, err := exec.LookPath(cfg.Binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, cfg.Binary)
	}

	runCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	cmd := exec.Command(path, cfg.Args...) //nolint:gosec // Binary comes from operator configuration
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.WaitDelay = cfg.GracefulTimeout
	if cfg.Env != nil {
		cmd.Env = append(os.Environ(), cfg.Env...)
	}
	if cfg.WorkDir != "" {
		cmd.Dir = cfg.WorkDir
	}

	out := newTailBuffer(cfg.OutputLimit)
	cmd.Stdout = out
	cmd.Stderr = out

	r.logger.Debug("starting process",
		"name", cfg.Name,
		"binary", path,
		"args", cfg.Args,
		"dir", cfg.WorkDir,
	)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", cfg.Name, err)
	}

	exitCh := make(chan error, 1)
	go func() {
		exitCh <- cmd.Wait()
	}()

	var waitErr error
	stopped := false
	select {
	case waitErr = <-exitCh:
	case <-runCtx.Done():
		stopped = true
		waitErr = r.terminate(cfg, cmd.Process.Pid, exitCh)
	}

	result := &Result{
		ExitCode: exitCode(cmd, waitErr),
		Output:   out.Bytes(),
		Duration: time.Since(start),
	}

	r.logger.Debug("process finished",
		"name", cfg.Name,
		"exit_code", result.ExitCode,
		"duration_ms", result.Duration.Milliseconds(),
		"output", string(result.Output),
	)

	if stopped {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("%s: %w", cfg.Name, ctxErr)
		}
		return result, fmt.Errorf("%w: %s after %v", ErrTimeout, cfg.Name, cfg.Timeout)
	}

	if waitErr != nil {
		var ee *exec.ExitError
		if errors.As(waitErr, &ee) {
			return result, &ExitError{Name: cfg.Name, Code: result.ExitCode, Output: result.Output}
		}
		return result, fmt.Errorf("waiting for %s: %w", cfg.Name, waitErr)
	}

	return result, nil
}

// terminate signals the process group and waits for the leader to exit.
func (r *Runner) terminate(cfg Config, pid int, exitCh <-chan error) error {
	r.logger.Warn("stopping process", "name", cfg.Name, "pid", pid)

	// Negative PID targets the process group created via Setpgid.
	if err := syscall.Kill(-pid, syscall.SIGTERM); err != nil && !errors.Is(err, syscall.ESRCH) {
		r.logger.Warn("failed to send SIGTERM to process group", "name", cfg.Name, "error", err)
	}

	select {
	case err := <-exitCh:
		return err
	case <-time.After(cfg.GracefulTimeout):
		r.logger.Warn("graceful stop timed out, sending SIGKILL",
			"name", cfg.Name,
			"timeout", cfg.GracefulTimeout,
		)
	}

	if err := syscall.Kill(-pid, syscall.SIGKILL); err != nil && !errors.Is(err, syscall.ESRCH) {
		r.logger.Error("failed to kill process group", "name", cfg.Name, "error", err)
	}
	return <-exitCh
}

func exitCode(cmd *exec.Cmd, waitErr error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if waitErr != nil {
		return -1
	}
	return 0
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.limit; over > 0 {
		b.buf = append(b.buf[:0], b.buf[over:]...)
	}
	return len(p), nil
}

func (b *tailBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf...)
}
