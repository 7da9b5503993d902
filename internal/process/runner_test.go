package process

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRun_Success(t *testing.T) {
	res, err := Run(context.Background(), Config{
		Name:   "echo",
		Binary: "/bin/sh",
		Args:   []string{"-c", "echo hello"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if got := string(res.Output); got != "hello\n" {
		t.Errorf("Output = %q, want %q", got, "hello\n")
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	res, err := Run(context.Background(), Config{
		Name:   "fail",
		Binary: "/bin/sh",
		Args:   []string{"-c", "echo oops >&2; exit 3"},
	})
	if err == nil {
		t.Fatal("Run() error = nil, want exit error")
	}
	if !errors.Is(err, ErrExited) {
		t.Errorf("errors.Is(err, ErrExited) = false, err = %v", err)
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("errors.As(*ExitError) = false, err = %T", err)
	}
	if exitErr.Code != 3 {
		t.Errorf("Code = %d, want 3", exitErr.Code)
	}
	if !strings.Contains(string(exitErr.Output), "oops") {
		t.Errorf("Output = %q, want stderr captured", exitErr.Output)
	}
	if res == nil || res.ExitCode != 3 {
		t.Errorf("Result.ExitCode = %v, want 3", res)
	}
}

func TestRun_Timeout(t *testing.T) {
	start := time.Now()
	_, err := Run(context.Background(), Config{
		Name:            "sleeper",
		Binary:          "/bin/sh",
		Args:            []string{"-c", "sleep 30"},
		Timeout:         100 * time.Millisecond,
		GracefulTimeout: time.Second,
	})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Run() error = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Run() took %v, want prompt termination", elapsed)
	}
}

func TestRun_TimeoutKillsProcessGroup(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "survived")

	// The background child would create the marker if it outlived the group kill.
	_, err := Run(context.Background(), Config{
		Name:            "tree",
		Binary:          "/bin/sh",
		Args:            []string{"-c", "(sleep 1; touch " + marker + ") & wait"},
		Timeout:         100 * time.Millisecond,
		GracefulTimeout: time.Second,
	})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Run() error = %v, want ErrTimeout", err)
	}

	time.Sleep(1500 * time.Millisecond)
	if _, statErr := os.Stat(marker); statErr == nil {
		t.Error("child process survived the group kill")
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := Run(ctx, Config{
		Name:   "sleeper",
		Binary: "/bin/sh",
		Args:   []string{"-c", "sleep 30"},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("cancellation reported as timeout")
	}
}

func TestRun_BinaryNotFound(t *testing.T) {
	_, err := Run(context.Background(), Config{
		Binary: "/nonexistent/binary",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Run() error = %v, want ErrNotFound", err)
	}
}

func TestRun_WorkDirAndEnv(t *testing.T) {
	dir := t.TempDir()

	res, err := Run(context.Background(), Config{
		Binary:  "/bin/sh",
		Args:    []string{"-c", "echo $RESUMED_TEST_VAR; touch created"},
		Env:     []string{"RESUMED_TEST_VAR=from-env"},
		WorkDir: dir,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(string(res.Output), "from-env") {
		t.Errorf("Output = %q, want env value", res.Output)
	}
	if _, err := os.Stat(filepath.Join(dir, "created")); err != nil {
		t.Errorf("file not created in WorkDir: %v", err)
	}
}

func TestRun_OutputLimitKeepsTail(t *testing.T) {
	res, err := Run(context.Background(), Config{
		Binary:      "/bin/sh",
		Args:        []string{"-c", "printf 'aaaaaaaaaa'; printf 'TAIL'"},
		OutputLimit: 6,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := string(res.Output); got != "aaTAIL" {
		t.Errorf("Output = %q, want %q", got, "aaTAIL")
	}
}

func TestTailBuffer(t *testing.T) {
	b := newTailBuffer(4)
	for _, s := range []string{"ab", "cd", "ef"} {
		if _, err := b.Write([]byte(s)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if got := string(b.Bytes()); got != "cdef" {
		t.Errorf("Bytes() = %q, want %q", got, "cdef")
	}
}

func TestRunner_SetLogger(t *testing.T) {
	r := NewRunner()
	r.SetLogger(nil)
	r.SetLogger(noopLogger{})

	if _, err := r.Run(context.Background(), Config{Binary: "/bin/true"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}
