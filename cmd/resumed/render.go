package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/texforge/resumed/internal/history"
	"github.com/texforge/resumed/internal/infrastructure/config"
	"github.com/texforge/resumed/internal/infrastructure/database"
	"github.com/texforge/resumed/internal/infrastructure/logging"
	"github.com/texforge/resumed/internal/latex"
	"github.com/texforge/resumed/internal/render"
	"github.com/texforge/resumed/internal/resume"
	"github.com/texforge/resumed/internal/source"
)

// renderOptions are the flags of the render subcommand.
type renderOptions struct {
	input   string
	output  string
	fromAPI bool
	texOnly bool
	record  bool
}

func renderCmd(opts *globalOptions) *cobra.Command {
	ro := &renderOptions{}

	c := &cobra.Command{
		Use:   "render",
		Short: "Render a resume locally",
		Long: `Render a resume from a JSON file, stdin (--input -) or the configured
remote source (--from-api). --tex writes the LaTeX source instead of compiling.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if ro.fromAPI == (ro.input != "") {
				return errors.New("exactly one of --input or --from-api is required")
			}
			cfg, log, err := opts.loadConfigAndLogger()
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), cfg, log, ro, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	c.Flags().StringVarP(&ro.input, "input", "i", "", "resume JSON file, or - for stdin")
	c.Flags().StringVarP(&ro.output, "output", "o", "", "output file (default resume.pdf, or resume.tex with --tex)")
	c.Flags().BoolVar(&ro.fromAPI, "from-api", false, "fetch resume data from source.url")
	c.Flags().BoolVar(&ro.texOnly, "tex", false, "write the .tex source instead of compiling")
	c.Flags().BoolVar(&ro.record, "record", false, "record the render in the history database")
	return c
}

// runRender loads data, renders it and writes the output file.
func runRender(ctx context.Context, cfg *config.Config, log *logging.Logger, ro *renderOptions, stdin io.Reader, stdout, stderr io.Writer) error {
	data, err := loadResume(ctx, cfg, ro, stdin)
	if err != nil {
		return err
	}

	layout := resume.Options{DefaultName: cfg.Render.DefaultName}

	if ro.texOnly {
		out := outputPath(ro.output, "resume.tex")
		if err := writeFile(out, []byte(resume.Layout(data, layout).String())); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s\n", out)
		return nil
	}

	renderOpts := render.Options{
		Compiler:    newCompiler(cfg, log),
		Layout:      layout,
		Concurrency: 1,
		Timeout:     cfg.RenderTimeout(),
		Logger:      log,
	}

	if ro.record {
		db, err := database.Open(database.Config{
			Path:        cfg.Database.Path,
			WALMode:     cfg.Database.WALMode,
			BusyTimeout: cfg.Database.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close() //nolint:errcheck // CLI exit
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		renderOpts.Recorder = history.NewSQLiteRepository(db.DB)
	}

	res, err := render.New(renderOpts).Render(ctx, render.Request{Resume: data, Origin: history.OriginCLI})
	if err != nil {
		var ce *latex.CompileError
		if errors.As(err, &ce) && len(ce.Output) > 0 {
			fmt.Fprintf(stderr, "latexmk output:\n%s\n", ce.Output)
		}
		return err
	}

	out := outputPath(ro.output, "resume.pdf")
	if err := writeFile(out, res.PDF); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s (%d bytes, render %s)\n", out, res.Bytes, res.ID)
	return nil
}

// loadResume reads resume data from the file, stdin or the remote source.
func loadResume(ctx context.Context, cfg *config.Config, ro *renderOptions, stdin io.Reader) (*resume.Resume, error) {
	if ro.fromAPI {
		if cfg.Source.URL == "" {
			return nil, errors.New("source.url is not configured")
		}
		return source.New(cfg.Source.URL, cfg.SourceTimeout()).Fetch(ctx)
	}

	var (
		raw []byte
		err error
	)
	if ro.input == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(ro.input)
	}
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return resume.Decode(raw)
}

func outputPath(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // output is a user document
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
