// Package latex builds LaTeX sources and compiles them to PDF with latexmk.
//
// A Document holds the preamble and body as lines. Compiler writes it to a
// private temp directory, runs latexmk there through internal/process, and
// reads the PDF back. Nothing here changes the process working directory,
// so concurrent compiles are independent.
package latex
