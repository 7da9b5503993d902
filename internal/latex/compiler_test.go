package latex

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/texforge/resumed/internal/process"
)

// fakeLatexmk writes an executable script that stands in for latexmk.
func fakeLatexmk(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "latexmk")
	script := "#!/bin/sh\nfor last; do :; done\nbase=\"${last%.tex}\"\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0700); err != nil {
		t.Fatalf("writing fake latexmk: %v", err)
	}
	return path
}

func sampleDoc() *Document {
	doc := NewDocument(Option{Key: "left", Value: "1in"})
	doc.Append("Hello")
	return doc
}

func TestCompiler_Compile(t *testing.T) {
	root := t.TempDir()
	c := &Compiler{
		Binary:   fakeLatexmk(t, `cp "$last" "$base.pdf"`),
		WorkRoot: root,
	}

	doc := sampleDoc()
	pdf, err := c.Compile(context.Background(), doc, "resume")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if string(pdf) != doc.String() {
		t.Errorf("Compile() returned %q, want the fake output", pdf)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("work dir not cleaned up: %d entries left", len(entries))
	}
}

func TestCompiler_PassesArgs(t *testing.T) {
	c := &Compiler{
		Binary: fakeLatexmk(t, `printf '%s\n' "$*" > "$base.pdf"`),
	}

	pdf, err := c.Compile(context.Background(), sampleDoc(), "cv")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	want := strings.Join(DefaultArgs, " ") + " cv.tex\n"
	if string(pdf) != want {
		t.Errorf("args = %q, want %q", pdf, want)
	}
}

func TestCompiler_KeepWorkDir(t *testing.T) {
	root := t.TempDir()
	c := &Compiler{
		Binary:      fakeLatexmk(t, `cp "$last" "$base.pdf"`),
		WorkRoot:    root,
		KeepWorkDir: true,
	}

	if _, err := c.Compile(context.Background(), sampleDoc(), "resume"); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	matches, _ := filepath.Glob(filepath.Join(root, "resumed-*", "resume.tex"))
	if len(matches) != 1 {
		t.Errorf("kept .tex files = %v, want one", matches)
	}
}

func TestCompiler_Failure(t *testing.T) {
	c := &Compiler{
		Binary: fakeLatexmk(t, `echo "! Undefined control sequence."; exit 12`),
	}

	_, err := c.Compile(context.Background(), sampleDoc(), "resume")
	if !errors.Is(err, ErrCompileFailed) {
		t.Fatalf("Compile() error = %v, want ErrCompileFailed", err)
	}

	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("errors.As(*CompileError) = false")
	}
	if ce.Code != 12 {
		t.Errorf("Code = %d, want 12", ce.Code)
	}
	if !strings.Contains(string(ce.Output), "Undefined control sequence") {
		t.Errorf("Output = %q, want latexmk log", ce.Output)
	}
}

func TestCompiler_NoPDFProduced(t *testing.T) {
	c := &Compiler{
		Binary: fakeLatexmk(t, `echo "nothing to do"`),
	}

	_, err := c.Compile(context.Background(), sampleDoc(), "resume")
	if !errors.Is(err, ErrCompileFailed) {
		t.Fatalf("Compile() error = %v, want ErrCompileFailed", err)
	}
}

func TestCompiler_Timeout(t *testing.T) {
	c := &Compiler{
		Binary:  fakeLatexmk(t, `sleep 30`),
		Timeout: 100 * time.Millisecond,
	}

	_, err := c.Compile(context.Background(), sampleDoc(), "resume")
	if !errors.Is(err, process.ErrTimeout) {
		t.Fatalf("Compile() error = %v, want process.ErrTimeout", err)
	}
}

func TestCompiler_MissingToolchain(t *testing.T) {
	c := &Compiler{Binary: "/nonexistent/latexmk"}

	_, err := c.Compile(context.Background(), sampleDoc(), "resume")
	if !errors.Is(err, ErrToolchainMissing) {
		t.Fatalf("Compile() error = %v, want ErrToolchainMissing", err)
	}
}

func TestCompiler_InvalidName(t *testing.T) {
	c := &Compiler{}
	for _, name := range []string{"", "../escape", "a b", "x.tex"} {
		if _, err := c.Compile(context.Background(), sampleDoc(), name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Compile(name=%q) error = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestCheckToolchain(t *testing.T) {
	if _, err := CheckToolchain("/nonexistent/latexmk"); !errors.Is(err, ErrToolchainMissing) {
		t.Errorf("CheckToolchain(missing) error = %v, want ErrToolchainMissing", err)
	}

	path, err := CheckToolchain("/bin/sh")
	if err != nil {
		t.Fatalf("CheckToolchain(/bin/sh) error = %v", err)
	}
	if path != "/bin/sh" {
		t.Errorf("path = %q, want /bin/sh", path)
	}
}

func TestCompiler_HealthCheck(t *testing.T) {
	if err := (&Compiler{Binary: "/bin/sh"}).HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
	err := (&Compiler{Binary: "/nonexistent/latexmk"}).HealthCheck(context.Background())
	if !errors.Is(err, ErrToolchainMissing) {
		t.Errorf("HealthCheck() error = %v, want ErrToolchainMissing", err)
	}
}

// Every shipped image must install exactly the packages the compiler needs.
func TestDockerfilesInstallRequiredPackages(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "Dockerfile*"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no Dockerfiles found at repository root")
	}

	want := append([]string(nil), RequiredPackages...)
	sort.Strings(want)

	for _, f := range files {
		got := aptPackages(t, f)
		sort.Strings(got)
		if strings.Join(got, " ") != strings.Join(want, " ") {
			t.Errorf("%s installs %v, want %v", filepath.Base(f), got, want)
		}
	}
}

// aptPackages returns the package arguments of every apt-get install in a Dockerfile.
func aptPackages(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	var (
		pkgs       []string
		installing bool
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		for _, tok := range strings.Fields(scanner.Text()) {
			switch {
			case tok == "install":
				installing = true
			case tok == "&&" || tok == "RUN":
				installing = false
			case !installing, tok == `\`, strings.HasPrefix(tok, "-"):
			default:
				pkgs = append(pkgs, tok)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan %s: %v", path, err)
	}
	return pkgs
}
