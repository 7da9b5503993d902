package latex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"

	"github.com/texforge/resumed/internal/process"
)

// RequiredPackages are the OS packages the container image must install for
// the compiler and the resume layout to work.
var RequiredPackages = []string{
	"texlive-pictures",
	"texlive-science",
	"texlive-latex-extra",
	"latexmk",
}

// DefaultArgs are passed to latexmk ahead of the source file.
var DefaultArgs = []string{"-pdf", "-interaction=nonstopmode", "-halt-on-error", "-no-shell-escape"}

const (
	// maxErrorOutput bounds the latexmk log kept on CompileError.
	maxErrorOutput = 4096

	workDirPermissions = 0700
	texFilePermissions = 0600
)

var validName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Compiler turns Documents into PDFs by running latexmk.
//
// Each Compile call works in its own temporary directory, so a single
// Compiler may be used from many goroutines.
type Compiler struct {
	// Binary is the latexmk executable. Defaults to "latexmk".
	Binary string

	// Args override DefaultArgs when non-nil.
	Args []string

	// Runner executes latexmk. Defaults to a silent process.Runner.
	Runner *process.Runner

	// WorkRoot is where temp dirs are created. Empty means os.TempDir().
	WorkRoot string

	// KeepWorkDir leaves the temp dir (with .tex and .log) in place.
	KeepWorkDir bool

	// Timeout bounds a single latexmk run. Zero defers to ctx.
	Timeout time.Duration
}

// Compile writes doc to <name>.tex, runs latexmk and returns the PDF bytes.
//
// Parameters:
//   - ctx: Cancels the latexmk process group when done
//   - doc: Document to render
//   - name: Base file name, [A-Za-z0-9_-]+
//
// Returns:
//   - []byte: Contents of <name>.pdf
//   - error: ErrInvalidName, *CompileError, process.ErrTimeout, ctx.Err(),
//     or ErrToolchainMissing
func (c *Compiler) Compile(ctx context.Context, doc *Document, name string) ([]byte, error) {
	if !validName.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	dir, err := os.MkdirTemp(c.WorkRoot, "resumed-")
	if err != nil {
		return nil, fmt.Errorf("creating work dir: %w", err)
	}
	if err := os.Chmod(dir, workDirPermissions); err != nil {
		return nil, fmt.Errorf("securing work dir: %w", err)
	}
	if !c.KeepWorkDir {
		defer os.RemoveAll(dir) //nolint:errcheck // Best-effort cleanup of temp files
	}

	texFile := name + ".tex"
	if err := os.WriteFile(filepath.Join(dir, texFile), []byte(doc.String()), texFilePermissions); err != nil {
		return nil, fmt.Errorf("writing %s: %w", texFile, err)
	}

	args := c.Args
	if args == nil {
		args = DefaultArgs
	}
	args = append(append([]string(nil), args...), texFile)

	runner := c.Runner
	if runner == nil {
		runner = process.NewRunner()
	}

	res, err := runner.Run(ctx, process.Config{
		Name:    "latexmk",
		Binary:  c.binary(),
		Args:    args,
		WorkDir: dir,
		Timeout: c.Timeout,
	})
	if err != nil {
		var exitErr *process.ExitError
		switch {
		case errors.As(err, &exitErr):
			return nil, &CompileError{Code: exitErr.Code, Output: tail(exitErr.Output, maxErrorOutput)}
		case errors.Is(err, process.ErrNotFound):
			return nil, fmt.Errorf("%w: %w", ErrToolchainMissing, err)
		default:
			return nil, err
		}
	}

	pdf, err := os.ReadFile(filepath.Join(dir, name+".pdf"))
	if err != nil {
		// latexmk exited cleanly but produced nothing; surface its log.
		return nil, &CompileError{Code: res.ExitCode, Output: tail(res.Output, maxErrorOutput)}
	}

	return pdf, nil
}

func (c *Compiler) binary() string {
	if c.Binary == "" {
		return "latexmk"
	}
	return c.Binary
}

// CheckToolchain resolves binary on PATH.
//
// Returns:
//   - string: Absolute path of the binary
//   - error: ErrToolchainMissing if it cannot be found
func CheckToolchain(binary string) (string, error) {
	if binary == "" {
		binary = "latexmk"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s (install %v)", ErrToolchainMissing, binary, RequiredPackages)
	}
	return path, nil
}

// HealthCheck reports ErrToolchainMissing when latexmk is not on PATH.
func (c *Compiler) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := CheckToolchain(c.binary())
	return err
}

func tail(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[len(b)-n:]
}
