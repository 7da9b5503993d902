// Package process runs external programs to completion with bounded time
// and bounded output capture.
//
// It exists for toolchains like latexmk that spawn their own children
// (pdflatex, bibtex). Every run gets its own process group so a timeout
// or cancellation stops the whole tree, not just the leader.
//
// Example usage:
//
//	res, err := process.Run(ctx, process.Config{
//	    Name:    "latexmk",
//	    Binary:  "latexmk",
//	    Args:    []string{"-pdf", "resume.tex"},
//	    WorkDir: dir,
//	    Timeout: 2 * time.Minute,
//	})
//	var exitErr *process.ExitError
//	if errors.As(err, &exitErr) {
//	    log.Printf("latexmk failed: %s", exitErr.Output)
//	}
package process
